package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// Config holds all configuration for the indicator comparison dashboard
type Config struct {
	// Dashboard HTTP surface
	Port string `env:"PORT,default=8080"`

	// Backend that serves GET /dados
	DadosBaseURL    string        `env:"DADOS_BASE_URL,default=http://localhost:5000"`
	DadosTimeout    time.Duration `env:"DADOS_TIMEOUT,default=10s"`
	DadosRetryCount int           `env:"DADOS_RETRY_COUNT,default=0"`

	// Refresh timing
	DebounceWindow    time.Duration `env:"DEBOUNCE_WINDOW,default=300ms"`
	ErrorDismissDelay time.Duration `env:"ERROR_DISMISS_DELAY,default=3s"`

	// Initial form selection
	DefaultIndicador1 string `env:"DEFAULT_INDICADOR1,default=selic"`
	DefaultIndicador2 string `env:"DEFAULT_INDICADOR2,default=ipca"`
	DefaultPeriodo    string `env:"DEFAULT_PERIODO,default=12"`

	// Chart exports
	StorageMode    string `env:"STORAGE_MODE,default=local"`
	LocalExportDir string `env:"LOCAL_EXPORT_DIR,default=./exports"`
	GCSBucket      string `env:"GCS_BUCKET"`

	// Offline fixtures
	MockupMode bool   `env:"MOCKUP_MODE,default=false"`
	MocksDir   string `env:"MOCKS_DIR,default=internal/mocks"`

	Environment string `env:"ENVIRONMENT,default=development"`
	LogLevel    string `env:"LOG_LEVEL,default=info"`
	LogFormat   string `env:"LOG_FORMAT,default=auto"`
}

// Load loads configuration from environment variables
func Load(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks cross-field constraints envconfig cannot express
func (c *Config) Validate() error {
	switch c.StorageMode {
	case "local":
	case "gcs":
		if c.GCSBucket == "" {
			return fmt.Errorf("GCS_BUCKET is required when STORAGE_MODE=gcs")
		}
	default:
		return fmt.Errorf("unsupported STORAGE_MODE %q", c.StorageMode)
	}
	if c.DebounceWindow <= 0 {
		return fmt.Errorf("DEBOUNCE_WINDOW must be positive, got %s", c.DebounceWindow)
	}
	if c.ErrorDismissDelay <= 0 {
		return fmt.Errorf("ERROR_DISMISS_DELAY must be positive, got %s", c.ErrorDismissDelay)
	}
	if c.DadosRetryCount < 0 {
		return fmt.Errorf("DADOS_RETRY_COUNT must not be negative, got %d", c.DadosRetryCount)
	}
	return nil
}
