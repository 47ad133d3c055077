package config

import (
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/Netflix/go-env"
	"github.com/jub0bs/cors"

	povodb "github.com/povodb/povodb-ui"
)

// UI server config
type Config struct {
	Environment  string        `env:"ENVIRONMENT,default=dev"`
	Host         string        `env:"HOST,default=0.0.0.0"`
	Port         int           `env:"PORT,default=3000"`
	LogLevel     string        `env:"LOG_LEVEL,default=debug"`
	ReadTimeout  time.Duration `env:"READ_TIMEOUT,default=15s"`
	WriteTimeout time.Duration `env:"WRITE_TIMEOUT,default=15s"`
	IdleTimeout  time.Duration `env:"IDLE_TIMEOUT,default=60s"`

	// APIBaseURL is the origin of the PovoDB API, without the /api/v1 base path
	APIBaseURL string        `env:"API_BASE_URL,default=http://localhost:8000"`
	APITimeout time.Duration `env:"API_TIMEOUT,default=10s"`

	// query cache policy
	StaleTime       time.Duration `env:"STALE_TIME,default=5m"`
	RefetchInterval time.Duration `env:"REFETCH_INTERVAL,default=10m"` // 0 disables background refresh
	GCTime          time.Duration `env:"GC_TIME,default=5m"`

	// AllowedOrigins are the browser origins allowed to call the API proxy, separated with |
	AllowedOrigins      []string `env:"ALLOWED_ORIGINS,separator=|"`
	MaxProxyRequestSize int64    `env:"MAX_PROXY_REQUEST_SIZE,default=65536"` // 64KB
	RateLimitRPS        int32    `env:"RATE_LIMIT_RPS,default=100"`
	RateLimitBurst      int32    `env:"RATE_LIMIT_BURST,default=20"`
}

const (
	// ServerShutdownTimeout is the timeout for graceful server shutdown
	ServerShutdownTimeout = 10 * time.Second

	CORSMaxAgeInSeconds = 86400 // 24 hours
)

// NewConfig loads the config from the environment and builds the CORS middleware used on the API proxy
func NewConfig() (*Config, *cors.Middleware, error) {
	var cfg Config

	_, err := env.UnmarshalFromEnviron(&cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to unmarshal environment variables: %w", err)
	}

	if err := validateUIConfig(&cfg); err != nil {
		return nil, nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	corsMiddleware, err := createCORSMiddleware(&cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("CORS configuration failed: %w", err)
	}

	return &cfg, corsMiddleware, nil
}

func validateUIConfig(cfg *Config) error {
	if !povodb.ValidEnvironment(cfg.Environment) {
		return fmt.Errorf("invalid environment '%s'. Valid environments: dev, test, perf, staging, prod", cfg.Environment)
	}

	if cfg.Port < 1 || cfg.Port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535, got %d", cfg.Port)
	}

	if cfg.ReadTimeout <= 0 {
		return fmt.Errorf("read timeout must be positive, got %v", cfg.ReadTimeout)
	}
	if cfg.WriteTimeout <= 0 {
		return fmt.Errorf("write timeout must be positive, got %v", cfg.WriteTimeout)
	}
	if cfg.IdleTimeout <= 0 {
		return fmt.Errorf("idle timeout must be positive, got %v", cfg.IdleTimeout)
	}

	if cfg.APIBaseURL == "" {
		return fmt.Errorf("API_BASE_URL cannot be empty")
	}
	u, err := url.Parse(cfg.APIBaseURL)
	if err != nil {
		return fmt.Errorf("invalid API_BASE_URL: %w", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("API_BASE_URL must be an http or https origin, got %s", cfg.APIBaseURL)
	}
	if strings.TrimRight(u.Path, "/") != "" {
		return fmt.Errorf("API_BASE_URL should not include a path (%s is added by the client): %s", povodb.APIBasePath, cfg.APIBaseURL)
	}

	if cfg.APITimeout <= 0 {
		return fmt.Errorf("API timeout must be positive, got %v", cfg.APITimeout)
	}
	if cfg.StaleTime < 0 || cfg.RefetchInterval < 0 || cfg.GCTime < 0 {
		return fmt.Errorf("STALE_TIME, REFETCH_INTERVAL and GC_TIME cannot be negative")
	}
	if cfg.MaxProxyRequestSize <= 0 {
		return fmt.Errorf("MAX_PROXY_REQUEST_SIZE must be positive, got %d", cfg.MaxProxyRequestSize)
	}

	if cfg.Environment == "prod" || cfg.Environment == "staging" {
		if len(cfg.AllowedOrigins) == 0 {
			return fmt.Errorf("ALLOWED_ORIGINS must be set in %v", cfg.Environment)
		}
		if cfg.AllowedOrigins[0] == "*" {
			return fmt.Errorf("ALLOWED_ORIGINS must not be set to '*' in %v", cfg.Environment)
		}
	}

	for _, origin := range cfg.AllowedOrigins {
		origin = strings.TrimSpace(origin)
		if origin != "*" && !isValidOrigin(origin) {
			return fmt.Errorf("invalid origin in ALLOWED_ORIGINS: %q", origin)
		}
	}

	// default to all origins when not in prod/staging
	if len(cfg.AllowedOrigins) == 0 {
		cfg.AllowedOrigins = []string{"*"}
	}
	return nil
}

var originPattern = regexp.MustCompile(`^(https?):\/\/([a-zA-Z0-9_\-\.]+)(:\d+)?$`)

// isValidOrigin checks for origins such as http://localhost:3000 or https://example.com
func isValidOrigin(s string) bool {
	return originPattern.MatchString(s)
}

func createCORSMiddleware(cfg *Config) (*cors.Middleware, error) {
	origins := make([]string, len(cfg.AllowedOrigins))
	for i, origin := range cfg.AllowedOrigins {
		origins[i] = strings.TrimSpace(origin)
	}

	return cors.NewMiddleware(cors.Config{
		Origins: origins,
		Methods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodPut,
			http.MethodDelete,
		},
		RequestHeaders: []string{
			"Content-Type",
			"X-Request-ID",
			"X-Requested-With",
		},
		MaxAgeInSeconds: CORSMaxAgeInSeconds,
	})
}
