package api

import (
	"errors"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"proforma/config"
	"proforma/internal/models"
	"proforma/internal/processor"
	"proforma/internal/proforma"
	"proforma/internal/sharing"
)

type Handler struct {
	logger       *logrus.Logger
	shareBaseURL string
	batch        *processor.BatchProcessor
}

// CalculateResponse is a result plus the names of any submitted fields that
// were invalid and replaced by their blank defaults.
type CalculateResponse struct {
	models.Result
	Replaced []string `json:"replaced"`
}

// ValidateResponse lists the constraint violations of a typed input and the
// input with those fields reset to their defaults.
type ValidateResponse struct {
	Valid  bool                  `json:"valid"`
	Errors []proforma.FieldError `json:"errors"`
	Input  models.Input          `json:"input"`
}

type AutofillResponse struct {
	Payments models.Payments `json:"payments"`
	Total    float64         `json:"total"`
}

type ShareResponse struct {
	Query string `json:"query"`
	URL   string `json:"url"`
}

type FieldInfo struct {
	Name     string  `json:"name"`
	Key      string  `json:"key"`
	Kind     string  `json:"kind"`
	SitePrep bool    `json:"site_prep"`
	Min      float64 `json:"min"`
	Max      float64 `json:"max,omitempty"`
}

func NewHandler(cfg *config.Config, logger *logrus.Logger) *Handler {
	if logger == nil {
		logger = logrus.New()
		logger.SetFormatter(&logrus.JSONFormatter{})
		logger.SetOutput(os.Stdout)
	}

	return &Handler{
		logger:       logger,
		shareBaseURL: cfg.Server.ShareBaseURL,
		batch:        processor.NewBatchProcessor(cfg, logger),
	}
}

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handler) GetFields(c *gin.Context) {
	all := proforma.Fields()
	out := make([]FieldInfo, 0, len(all))
	for _, f := range all {
		out = append(out, FieldInfo{
			Name:     f.Name,
			Key:      f.Key,
			Kind:     f.Kind.String(),
			SitePrep: f.SitePrep,
			Min:      f.Min,
			Max:      f.Max,
		})
	}
	c.JSON(http.StatusOK, out)
}

func (h *Handler) GetBlank(c *gin.Context) {
	c.JSON(http.StatusOK, proforma.Calculate(proforma.Blank()))
}

func (h *Handler) GetExample(c *gin.Context) {
	c.JSON(http.StatusOK, proforma.Calculate(proforma.Example()))
}

// GetFromQuery is the share link landing: the query string is decoded on top
// of the example input.
func (h *Handler) GetFromQuery(c *gin.Context) {
	in := sharing.Decode(c.Request.URL.Query())
	c.JSON(http.StatusOK, proforma.Calculate(in))
}

func (h *Handler) Calculate(c *gin.Context) {
	raw, ok := h.bindInput(c)
	if !ok {
		return
	}

	in, rejected := proforma.CoerceWithReport(raw)
	if len(rejected) > 0 {
		h.logger.WithFields(logrus.Fields{
			"request_id": c.GetString(RequestIDKey),
			"fields":     rejected,
		}).Warn("Replaced invalid input fields with defaults")
	}
	if rejected == nil {
		rejected = []string{}
	}

	c.JSON(http.StatusOK, CalculateResponse{
		Result:   proforma.Calculate(in),
		Replaced: rejected,
	})
}

// Validate checks a fully typed input without coercing it first. Unlike
// Calculate it rejects wrong-typed JSON outright.
func (h *Handler) Validate(c *gin.Context) {
	in := proforma.Blank()
	if err := c.ShouldBindJSON(&in); err != nil {
		h.logger.WithError(err).Error("Failed to parse proforma input")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	errs := proforma.Validate(in)
	if errs == nil {
		errs = []proforma.FieldError{}
	}
	c.JSON(http.StatusOK, ValidateResponse{
		Valid:  len(errs) == 0,
		Errors: errs,
		Input:  proforma.Normalize(in),
	})
}

func (h *Handler) Autofill(c *gin.Context) {
	raw, ok := h.bindInput(c)
	if !ok {
		return
	}

	payments := proforma.EstimateInterestPayments(proforma.Coerce(raw))
	c.JSON(http.StatusOK, AutofillResponse{
		Payments: payments,
		Total:    payments.Sum(),
	})
}

func (h *Handler) Share(c *gin.Context) {
	raw, ok := h.bindInput(c)
	if !ok {
		return
	}

	in := proforma.Coerce(raw)
	link, err := sharing.ShareURL(h.shareBaseURL, in)
	if err != nil {
		h.logger.WithError(err).Error("Failed to build share URL")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build share URL"})
		return
	}

	c.JSON(http.StatusOK, ShareResponse{
		Query: sharing.EncodeString(in),
		URL:   link,
	})
}

// CalculateBatch calculates a JSON array of scenarios in one request
func (h *Handler) CalculateBatch(c *gin.Context) {
	var batch []map[string]any
	if err := c.ShouldBindJSON(&batch); err != nil {
		h.logger.WithError(err).Error("Failed to parse batch request")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	items, err := h.batch.Process(c.Request.Context(), batch)
	if errors.Is(err, processor.ErrBatchTooLarge) {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{
			"error":          err.Error(),
			"max_batch_size": h.batch.MaxBatchSize(),
		})
		return
	}
	if err != nil {
		h.logger.WithError(err).Error("Failed to process batch")
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Failed to process batch"})
		return
	}

	c.JSON(http.StatusOK, items)
}

func (h *Handler) bindInput(c *gin.Context) (map[string]any, bool) {
	var raw map[string]any
	if err := c.ShouldBindJSON(&raw); err != nil {
		h.logger.WithError(err).Error("Failed to parse proforma input")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return nil, false
	}
	return raw, true
}
