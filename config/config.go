package config

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

type Config struct {
	// Server configuration
	Server struct {
		// Port the HTTP API listens on
		Port int `env:"PORT" envDefault:"5250"`

		// Comma separated list of allowed CORS origins, "*" allows all
		AllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envDefault:"*" envSeparator:","`

		// Base URL that share links are built on
		ShareBaseURL string `env:"SHARE_BASE_URL" envDefault:"http://localhost:5173/"`

		// Timeouts in seconds
		ReadTimeout     int `env:"SERVER_READ_TIMEOUT" envDefault:"15"`
		WriteTimeout    int `env:"SERVER_WRITE_TIMEOUT" envDefault:"30"`
		ShutdownTimeout int `env:"SERVER_SHUTDOWN_TIMEOUT" envDefault:"10"`
	}

	// BatchProcessing configuration
	BatchProcessing struct {
		// Maximum number of scenarios accepted in one batch request
		MaxBatchSize int `env:"BATCH_MAX_SIZE" envDefault:"100"`

		// Number of concurrent calculation workers per batch
		ProcessorCount int `env:"BATCH_PROCESSOR_COUNT" envDefault:"4"`
	}

	// Logging configuration
	Logging LoggingConfig
}

type LoggingConfig struct {
	// One of panic, fatal, error, warn, info, debug, trace
	Level string `env:"LOG_LEVEL" envDefault:"info"`

	// json or text
	Format string `env:"LOG_FORMAT" envDefault:"json"`
}

// LoadConfig reads an optional .env file and then parses the environment.
// Variables already set in the environment win over the file.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid PORT %d", c.Server.Port)
	}
	if c.BatchProcessing.MaxBatchSize < 1 {
		return fmt.Errorf("invalid BATCH_MAX_SIZE %d", c.BatchProcessing.MaxBatchSize)
	}
	if c.BatchProcessing.ProcessorCount < 1 {
		return fmt.Errorf("invalid BATCH_PROCESSOR_COUNT %d", c.BatchProcessing.ProcessorCount)
	}
	if _, err := logrus.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}
	switch strings.ToLower(c.Logging.Format) {
	case "json", "text":
	default:
		return fmt.Errorf("invalid LOG_FORMAT %q", c.Logging.Format)
	}
	return nil
}

func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Server.Port)
}

func (c *Config) ReadTimeout() time.Duration {
	return time.Duration(c.Server.ReadTimeout) * time.Second
}

func (c *Config) WriteTimeout() time.Duration {
	return time.Duration(c.Server.WriteTimeout) * time.Second
}

func (c *Config) ShutdownTimeout() time.Duration {
	return time.Duration(c.Server.ShutdownTimeout) * time.Second
}

// NewLogger builds a logger writing to out. Unknown levels fall back to info.
func (l LoggingConfig) NewLogger(out io.Writer) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(out)

	if strings.EqualFold(l.Format, "text") {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	} else {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}

	level, err := logrus.ParseLevel(l.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)
	return logger
}
