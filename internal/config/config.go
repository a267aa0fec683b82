package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration
type Config struct {
	Server    ServerConfig
	Logger    LoggerConfig
	Database  DatabaseConfig
	Gateway   GatewayConfig
	Payments  PaymentsConfig
	Auth      AuthConfig
	Telemetry TelemetryConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// DatabaseConfig holds database connection configuration
type DatabaseConfig struct {
	Host            string
	Port            string
	User            string
	Password        string
	DBName          string
	SSLMode         string
	ConnMaxLifetime time.Duration
	ConnectBackoff  time.Duration
	MaxOpenConns    int
	MaxIdleConns    int
	ConnectAttempts int
	AutoMigrate     bool
}

// Gateway modes
const (
	GatewayModeChapa   = "chapa"
	GatewayModeSandbox = "sandbox"
)

// GatewayConfig holds payment provider configuration
type GatewayConfig struct {
	Mode        string
	Name        string
	BaseURL     string
	SecretKey   string
	Currency    string
	CallbackURL string
	AppBaseURL  string
	Timeout     time.Duration

	SandboxFailureRate  float64
	SandboxMinLatencyMS int
	SandboxMaxLatencyMS int
}

// Amount policies applied when the requested amount differs from the car price
const (
	AmountPolicyWarn   = "warn"
	AmountPolicyReject = "reject"
)

// PaymentsConfig holds payment lifecycle rules
type PaymentsConfig struct {
	MaxAmount               float64
	AmountTolerance         float64
	AmountPolicy            string
	ReferencePrefix         string
	ReferenceMaxAttempts    int
	ListLimit               int
	PlaceholderEmailDomain  string
	IdempotencyKeyRetention time.Duration
}

// AuthConfig holds bearer token verification settings
type AuthConfig struct {
	JWTSecret string
}

// TelemetryConfig holds tracing configuration. An empty endpoint disables export.
type TelemetryConfig struct {
	ServiceName  string
	OTLPEndpoint string
}

// LoggerConfig holds logging configuration
type LoggerConfig struct {
	Level string // debug, info, warn, error
}

// Load loads configuration from environment variables with sensible defaults
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:         getEnv("PORT", "8080"),
			ReadTimeout:  getEnvAsDuration("SERVER_READ_TIMEOUT", "15s"),
			WriteTimeout: getEnvAsDuration("SERVER_WRITE_TIMEOUT", "45s"),
			IdleTimeout:  getEnvAsDuration("SERVER_IDLE_TIMEOUT", "60s"),
		},
		Database: DatabaseConfig{
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnv("DB_PORT", "5432"),
			User:            getEnv("DB_USER", "postgres"),
			Password:        getEnv("DB_PASSWORD", "postgres"),
			DBName:          getEnv("DB_NAME", "carmarket"),
			SSLMode:         getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns:    getEnvAsInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    getEnvAsInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getEnvAsDuration("DB_CONN_MAX_LIFETIME", "5m"),
			ConnectAttempts: getEnvAsInt("DB_CONNECT_ATTEMPTS", 5),
			ConnectBackoff:  getEnvAsDuration("DB_CONNECT_BACKOFF", "2s"),
			AutoMigrate:     getEnvAsBool("DB_AUTO_MIGRATE", true),
		},
		Gateway: GatewayConfig{
			Mode:                getEnv("GATEWAY_MODE", GatewayModeSandbox),
			Name:                getEnv("GATEWAY_NAME", "chapa"),
			BaseURL:             strings.TrimSuffix(getEnv("CHAPA_BASE_URL", "https://api.chapa.co/v1"), "/"),
			SecretKey:           os.Getenv("CHAPA_SECRET_KEY"),
			Currency:            getEnv("GATEWAY_CURRENCY", "ETB"),
			CallbackURL:         getEnv("GATEWAY_CALLBACK_URL", "http://localhost:8080/payments/callback"),
			AppBaseURL:          strings.TrimSuffix(getEnv("APP_BASE_URL", "http://localhost:3000"), "/"),
			Timeout:             getEnvAsDuration("GATEWAY_TIMEOUT", "30s"),
			SandboxFailureRate:  getEnvAsFloat("SANDBOX_FAILURE_RATE", 0),
			SandboxMinLatencyMS: getEnvAsInt("SANDBOX_MIN_LATENCY_MS", 50),
			SandboxMaxLatencyMS: getEnvAsInt("SANDBOX_MAX_LATENCY_MS", 300),
		},
		Payments: PaymentsConfig{
			MaxAmount:               getEnvAsFloat("PAYMENT_MAX_AMOUNT", 1000000),
			AmountTolerance:         getEnvAsFloat("PAYMENT_AMOUNT_TOLERANCE", 100),
			AmountPolicy:            getEnv("PAYMENT_AMOUNT_POLICY", AmountPolicyWarn),
			ReferencePrefix:         getEnv("PAYMENT_REF_PREFIX", "CAR"),
			ReferenceMaxAttempts:    getEnvAsInt("PAYMENT_REF_MAX_ATTEMPTS", 3),
			ListLimit:               getEnvAsInt("PAYMENT_LIST_LIMIT", 20),
			PlaceholderEmailDomain:  getEnv("PAYMENT_PLACEHOLDER_EMAIL_DOMAIN", "mailinator.com"),
			IdempotencyKeyRetention: getEnvAsDuration("IDEMPOTENCY_KEY_RETENTION", "24h"),
		},
		Auth: AuthConfig{
			JWTSecret: getEnv("JWT_SECRET", "carmarket-dev-secret"),
		},
		Telemetry: TelemetryConfig{
			ServiceName:  getEnv("OTEL_SERVICE_NAME", "carmarket-payments"),
			OTLPEndpoint: os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("server port cannot be empty")
	}

	if c.Database.Host == "" {
		return fmt.Errorf("database host cannot be empty")
	}
	if c.Database.DBName == "" {
		return fmt.Errorf("database name cannot be empty")
	}
	if c.Database.ConnectAttempts < 1 {
		return fmt.Errorf("database connect attempts must be at least 1")
	}

	if err := c.Gateway.validate(); err != nil {
		return err
	}
	if err := c.Payments.validate(); err != nil {
		return err
	}

	if len(c.Auth.JWTSecret) < 16 {
		return fmt.Errorf("jwt secret must be at least 16 characters")
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Logger.Level] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Logger.Level)
	}

	return nil
}

func (g *GatewayConfig) validate() error {
	switch g.Mode {
	case GatewayModeChapa:
		if g.SecretKey == "" {
			return fmt.Errorf("CHAPA_SECRET_KEY is required in %s mode", GatewayModeChapa)
		}
		if g.BaseURL == "" {
			return fmt.Errorf("gateway base url cannot be empty")
		}
	case GatewayModeSandbox:
		if g.SandboxFailureRate < 0 || g.SandboxFailureRate > 1 {
			return fmt.Errorf("sandbox failure rate must be between 0 and 1, got %f", g.SandboxFailureRate)
		}
		if g.SandboxMinLatencyMS < 0 {
			return fmt.Errorf("sandbox min latency cannot be negative")
		}
		if g.SandboxMaxLatencyMS < g.SandboxMinLatencyMS {
			return fmt.Errorf("sandbox max latency (%d) must be >= min latency (%d)", g.SandboxMaxLatencyMS, g.SandboxMinLatencyMS)
		}
	default:
		return fmt.Errorf("invalid gateway mode: %s (must be %s or %s)", g.Mode, GatewayModeChapa, GatewayModeSandbox)
	}

	if len(g.Currency) != 3 {
		return fmt.Errorf("gateway currency must be a 3-letter code, got %q", g.Currency)
	}
	if g.Timeout <= 0 {
		return fmt.Errorf("gateway timeout must be positive")
	}
	if g.CallbackURL == "" || g.AppBaseURL == "" {
		return fmt.Errorf("gateway callback url and app base url are required")
	}

	return nil
}

func (p *PaymentsConfig) validate() error {
	if p.MaxAmount <= 0 {
		return fmt.Errorf("payment max amount must be positive, got %f", p.MaxAmount)
	}
	if p.AmountTolerance < 0 {
		return fmt.Errorf("payment amount tolerance cannot be negative")
	}
	if p.AmountPolicy != AmountPolicyWarn && p.AmountPolicy != AmountPolicyReject {
		return fmt.Errorf("invalid amount policy: %s (must be %s or %s)", p.AmountPolicy, AmountPolicyWarn, AmountPolicyReject)
	}
	if p.ReferencePrefix == "" || len(p.ReferencePrefix) > 10 {
		return fmt.Errorf("reference prefix must be 1-10 characters")
	}
	for _, r := range p.ReferencePrefix {
		if !isAlphanumeric(r) {
			return fmt.Errorf("reference prefix must be alphanumeric, got %q", p.ReferencePrefix)
		}
	}
	if p.ReferenceMaxAttempts < 1 {
		return fmt.Errorf("reference max attempts must be at least 1")
	}
	if p.ListLimit < 1 {
		return fmt.Errorf("payment list limit must be at least 1")
	}

	return nil
}

// DSN returns the PostgreSQL connection string
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s application_name=carmarket-payments",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

func isAlphanumeric(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsDuration(key, defaultValue string) time.Duration {
	valueStr := getEnv(key, defaultValue)
	duration, err := time.ParseDuration(valueStr)
	if err != nil {
		// Fallback to parsing the default if provided value is invalid
		duration, err = time.ParseDuration(defaultValue)
		if err != nil {
			return 0
		}
	}
	return duration
}
