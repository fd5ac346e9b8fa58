package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/ilyakaznacheev/cleanenv"
)

// Provider holds the connection settings shared by every upstream provider.
type Provider struct {
	// BaseURL overrides the provider's public endpoint, mostly for testing.
	BaseURL string `env:"BASE_URL" yaml:"baseURL"`
	// Timeout bounds each call to the provider.
	Timeout time.Duration `env:"TIMEOUT" env-default:"10s" yaml:"timeout"`
}

// Config represents the application configuration structure.
// It contains settings for the environment, HTTP server, upstream providers,
// batch processing and graceful shutdown behavior.
type Config struct {
	// Environment specifies the current running environment (development, production, etc.)
	Environment string `env:"ENVIRONMENT" env-default:"development" yaml:"environment"`
	// LogLevel overrides the environment's default log level (debug, info, warn, error).
	LogLevel string `env:"LOG_LEVEL" yaml:"logLevel" validate:"omitempty,oneof=debug info warn error"`

	// HTTP contains all HTTP server related configurations
	HTTP struct {
		// Addr is the address and port the HTTP server will listen on
		Addr string `env:"HTTP_ADDR" env-default:":8080" yaml:"addr"`
		// ReadTimeout is the maximum duration for reading the entire request, including the body
		ReadTimeout time.Duration `env:"HTTP_READ_TIMEOUT" env-default:"1m" yaml:"readTimeout"`
		// ReadHeaderTimeout is the amount of time allowed to read request headers
		ReadHeaderTimeout time.Duration `env:"HTTP_READ_HEADER_TIMEOUT" env-default:"10s" yaml:"readHeaderTimeout"`
		// WriteTimeout is the maximum duration before timing out writes of the response
		WriteTimeout time.Duration `env:"HTTP_WRITE_TIMEOUT" env-default:"2m" yaml:"writeTimeout"`
		// IdleTimeout is the maximum amount of time to wait for the next request when keep-alives are enabled
		IdleTimeout time.Duration `env:"HTTP_IDLE_TIMEOUT" env-default:"2m" yaml:"idleTimeout"`
		// RequestTimeout is the maximum time allowed for processing a single request.
		// A batch makes several provider calls, so this is well above the provider timeout.
		RequestTimeout time.Duration `env:"HTTP_REQUEST_TIMEOUT" env-default:"90s" yaml:"requestTimeout"`
		// MaxHeaderBytes controls the maximum number of bytes the server will read parsing the request header
		MaxHeaderBytes int `env:"HTTP_MAX_HEADER_BYTES" env-default:"0" yaml:"maxHeaderBytes"`
		// MaxBodyBytes limits request bodies, including uploaded CSV files
		MaxBodyBytes int64 `env:"HTTP_MAX_BODY_BYTES" env-default:"1048576" yaml:"maxBodyBytes"`
		// MetricsPath defines the URL path where metrics are exposed
		MetricsPath string `env:"HTTP_METRICS_PATH" env-default:"/metrics" yaml:"metricsPath"`
		// CORSOrigins lists the origins allowed to call the API; "*" allows any
		CORSOrigins []string `env:"HTTP_CORS_ORIGINS" env-default:"*" env-separator:"," yaml:"corsOrigins"`
	} `yaml:"http"`

	// JWT configures bearer authentication for the API. Authentication is
	// disabled when PublicKey is empty.
	JWT struct {
		// PublicKey is the PEM-encoded RSA key used to verify tokens
		PublicKey string `env:"JWT_PUBLIC_KEY" yaml:"publicKey"`
		// PrivateKey is the PEM-encoded RSA key used by the jwt command to sign tokens
		PrivateKey string `env:"JWT_PRIVATE_KEY" yaml:"privateKey"`
	} `yaml:"jwt"`

	// SkipTrace configures the skip-trace provider
	SkipTrace struct {
		Provider `env-prefix:"SKIP_TRACE_" yaml:",inline"`
		// Token is the BatchData API token
		Token string `env:"SKIP_TRACE_TOKEN" yaml:"token" validate:"required"`
	} `yaml:"skipTrace"`

	// PhoneValidation configures the phone validation provider
	PhoneValidation struct {
		Provider `env-prefix:"PHONE_VALIDATION_" yaml:",inline"`
		// Name selects the provider implementation
		Name string `env:"PHONE_VALIDATION_PROVIDER" env-default:"numverify" yaml:"provider" validate:"oneof=numverify phonevalidator"` //nolint: lll
		// APIKey is the provider's API key
		APIKey string `env:"PHONE_VALIDATION_API_KEY" yaml:"apiKey" validate:"required"`
		// CountryCode is assumed for national-format numbers (numverify only)
		CountryCode string `env:"PHONE_VALIDATION_COUNTRY_CODE" env-default:"US" yaml:"countryCode"`
	} `yaml:"phoneValidation"`

	// Batch configures batch lookups
	Batch struct {
		// MaxRows is the number of rows processed per batch; the rest are dropped
		MaxRows int `env:"BATCH_MAX_ROWS" env-default:"10" yaml:"maxRows" validate:"min=1"`
		// Concurrency is the number of rows looked up at the same time
		Concurrency int `env:"BATCH_CONCURRENCY" env-default:"4" yaml:"concurrency" validate:"min=1"`
	} `yaml:"batch"`

	// Tracing configures OpenTelemetry spans
	Tracing struct {
		// Enabled installs a tracer provider that logs every finished span
		Enabled bool `env:"TRACING_ENABLED" env-default:"false" yaml:"enabled"`
	} `yaml:"tracing"`

	// GracefulShutdownTimeout is the maximum duration to wait for ongoing requests to complete during shutdown
	GracefulShutdownTimeout time.Duration `env:"GRACEFUL_SHUTDOWN_TIMEOUT" env-default:"10s" yaml:"gracefulShutdownTimeout"` //nolint: lll
}

// Load receives the path for yaml config file and returns a filled Config struct.
// When the file does not exist the configuration is read from the environment only.
func Load(configPath string) (*Config, error) {
	var cfg Config
	if _, err := os.Stat(configPath); errors.Is(err, fs.ErrNotExist) {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("could not read config from environment: %w", err)
		}
	} else if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		return nil, fmt.Errorf("could not read config: %w", err)
	}

	return &cfg, nil
}

// Validate checks the settings needed to talk to the providers. It is called
// by the commands that build provider clients, so that a missing credential
// fails at startup instead of on the first lookup.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	return nil
}
