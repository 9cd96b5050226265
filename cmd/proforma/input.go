package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"proforma/internal/formatting"
	"proforma/internal/models"
	"proforma/internal/proforma"
	"proforma/internal/sharing"
)

var (
	errConflictingSources = errors.New("only one of --query, --file and --example may be set")
	errFileRequired       = errors.New("--file is required")
)

// inputOptions selects where the proforma input comes from. With no source
// the blank input is used.
type inputOptions struct {
	query   string
	file    string
	example bool
	sets    []string
}

func (o *inputOptions) load(logger *logrus.Logger) (models.Input, error) {
	sources := 0
	for _, set := range []bool{o.query != "", o.file != "", o.example} {
		if set {
			sources++
		}
	}
	if sources > 1 {
		return models.Input{}, errConflictingSources
	}

	var in models.Input
	switch {
	case o.query != "":
		if strings.Contains(o.query, "://") {
			decoded, err := sharing.DecodeURL(o.query)
			if err != nil {
				return models.Input{}, err
			}
			in = decoded
		} else {
			in = sharing.DecodeString(o.query)
		}
		logger.WithField("source", "query").Debug("Decoded input")
	case o.file != "":
		raw, err := readInputFile(o.file)
		if err != nil {
			return models.Input{}, err
		}
		var rejected []string
		in, rejected = proforma.CoerceWithReport(raw)
		if len(rejected) > 0 {
			logger.WithFields(logrus.Fields{
				"file":   o.file,
				"fields": rejected,
			}).Warn("Replaced invalid input fields with defaults")
		}
		logger.WithField("source", o.file).Debug("Loaded input file")
	case o.example:
		in = proforma.Example()
	default:
		in = proforma.Blank()
	}

	for _, assignment := range o.sets {
		if err := applySet(&in, assignment); err != nil {
			return models.Input{}, err
		}
	}
	return in, nil
}

// readInputFile reads a YAML or JSON object keyed by field name
func readInputFile(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read input file: %w", err)
	}

	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse input file %s: %w", path, err)
	}
	return raw, nil
}

// readTypedInputFile decodes a YAML or JSON file straight into an Input.
// Missing fields keep their blank defaults; wrong-typed values are an error.
func readTypedInputFile(path string) (models.Input, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return models.Input{}, fmt.Errorf("failed to read input file: %w", err)
	}

	in := proforma.Blank()
	if err := yaml.Unmarshal(data, &in); err != nil {
		return models.Input{}, fmt.Errorf("failed to parse input file %s: %w", path, err)
	}
	return in, nil
}

// applySet handles one --set name=value override. Numeric values accept
// currency and percent punctuation, e.g. "$1,200" or "6%".
func applySet(in *models.Input, assignment string) error {
	name, value, ok := strings.Cut(assignment, "=")
	if !ok {
		return fmt.Errorf("invalid --set %q, expected name=value", assignment)
	}

	f, ok := proforma.Lookup(strings.TrimSpace(name))
	if !ok {
		return fmt.Errorf("unknown field %q", strings.TrimSpace(name))
	}

	var v any = value
	switch f.Kind {
	case proforma.KindNumber, proforma.KindInteger:
		v = formatting.ParseAmount(value)
	case proforma.KindBool, proforma.KindPricingMode:
		v = strings.TrimSpace(value)
	}

	if !f.Assign(in, v) {
		return fmt.Errorf("invalid value %q for %s", value, f.Name)
	}
	return nil
}
