package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"github.com/the-lost-phoenix/credit-risk-engine/internal/domain/service"
	"github.com/the-lost-phoenix/credit-risk-engine/pkg/kafka"
	"github.com/the-lost-phoenix/credit-risk-engine/pkg/postgres"
)

type DatabaseConfig struct {
	URL      string
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
	MaxConns int

	StatementTimeout time.Duration
	// LogQueries traces every statement through the service logger.
	LogQueries bool
}

// Postgres converts the database settings for pkg/postgres.
func (d DatabaseConfig) Postgres() postgres.Config {
	return postgres.Config{
		URL:      d.URL,
		Host:     d.Host,
		Port:     d.Port,
		User:     d.User,
		Password: d.Password,
		Database: d.Name,
		SSLMode:  d.SSLMode,
		MaxConns: int32(d.MaxConns),

		StatementTimeout: d.StatementTimeout,
	}
}

type AuthConfig struct {
	Secret         string
	PrivateKeyPEM  string
	PrivateKeyFile string
	Issuer         string
	Expiration     time.Duration
}

type ModelConfig struct {
	Path       string
	ServiceURL string
	Timeout    time.Duration

	// Consecutive remote failures before the breaker opens, and how long it
	// stays open.
	BreakerFailures int
	BreakerCooldown time.Duration
}

type KafkaConfig struct {
	Brokers               []string
	Topic                 string
	TLS                   bool
	TLSCAFile             string
	TLSInsecureSkipVerify bool
	SASLMechanism         string
	SASLUsername          string
	SASLPassword          string
	Compression           string
}

// Producer converts the Kafka settings for pkg/kafka.
func (k KafkaConfig) Producer() kafka.Config {
	return kafka.Config{
		Brokers:               k.Brokers,
		TLS:                   k.TLS,
		TLSCAFile:             k.TLSCAFile,
		TLSInsecureSkipVerify: k.TLSInsecureSkipVerify,
		SASLEnabled:           k.SASLUsername != "",
		SASLMechanism:         k.SASLMechanism,
		SASLUsername:          k.SASLUsername,
		SASLPassword:          k.SASLPassword,
		ClientID:              "credit-risk-engine",
		Compression:           k.Compression,
	}
}

type DecisionConfig struct {
	RiskRejectThreshold float64
	MinCreditScore      int
	MaxLoanToIncome     decimal.Decimal
}

// Policy converts the decision settings for the policy engine.
func (d DecisionConfig) Policy() service.PolicyConfig {
	return service.PolicyConfig{
		MinCreditScore:  d.MinCreditScore,
		MaxLoanToIncome: d.MaxLoanToIncome,
	}
}

type Config struct {
	HTTPPort       int
	ServiceName    string
	AllowedOrigins []string
	MaxUploadBytes int64
	MigrationsPath string
	LogLevel       string
	LogFormat      string
	OTLPEndpoint   string
	DB             DatabaseConfig
	Auth           AuthConfig
	Model          ModelConfig
	Kafka          KafkaConfig
	Decision       DecisionConfig

	// AuthRateLimit is the per-client requests/second allowed on /login and
	// /register. Zero disables limiting.
	AuthRateLimit int
}

// Validate reports settings the service cannot start without.
func (c Config) Validate() error {
	var errs []error
	if c.Auth.Secret == "" && c.Auth.PrivateKeyPEM == "" && c.Auth.PrivateKeyFile == "" {
		errs = append(errs, errors.New("one of JWT_SECRET, JWT_PRIVATE_KEY or JWT_PRIVATE_KEY_FILE is required"))
	}
	if c.DB.URL == "" && c.DB.Password == "" {
		errs = append(errs, errors.New("DATABASE_URL or DB_PASSWORD is required"))
	}
	if c.Decision.RiskRejectThreshold < 0 || c.Decision.RiskRejectThreshold > 100 {
		errs = append(errs, fmt.Errorf("RISK_REJECT_THRESHOLD must be within 0-100, got %v", c.Decision.RiskRejectThreshold))
	}
	if !c.Decision.MaxLoanToIncome.IsPositive() {
		errs = append(errs, errors.New("POLICY_MAX_LOAN_TO_INCOME must be positive"))
	}
	if c.AuthRateLimit < 0 {
		errs = append(errs, errors.New("AUTH_RATE_LIMIT must not be negative"))
	}
	if c.MaxUploadBytes <= 0 {
		errs = append(errs, errors.New("MAX_UPLOAD_BYTES must be positive"))
	}
	if len(c.AllowedOrigins) == 0 {
		errs = append(errs, errors.New("ALLOWED_ORIGINS must list at least one origin"))
	}
	for _, o := range c.AllowedOrigins {
		if o == "*" {
			errs = append(errs, errors.New(`ALLOWED_ORIGINS must not contain "*"`))
		}
	}
	return errors.Join(errs...)
}

// Load reads an optional .env file from the working directory and then the
// process environment. Variables already set in the environment win.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	maxLTI, err := decimal.NewFromString(getEnv("POLICY_MAX_LOAN_TO_INCOME", "10"))
	if err != nil {
		return Config{}, fmt.Errorf("parse POLICY_MAX_LOAN_TO_INCOME: %w", err)
	}

	return Config{
		HTTPPort:       getEnvInt("HTTP_PORT", 8000),
		ServiceName:    getEnv("SERVICE_NAME", "credit-risk-engine"),
		AllowedOrigins: getEnvList("ALLOWED_ORIGINS", "http://localhost:5173,http://127.0.0.1:5173"),
		MaxUploadBytes: int64(getEnvInt("MAX_UPLOAD_BYTES", 10<<20)),
		MigrationsPath: getEnv("MIGRATIONS_PATH", ""),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		LogFormat:      getEnv("LOG_FORMAT", "json"),
		OTLPEndpoint:   getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
		AuthRateLimit:  getEnvInt("AUTH_RATE_LIMIT", 5),
		DB: DatabaseConfig{
			URL:      getEnv("DATABASE_URL", ""),
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Name:     getEnv("DB_NAME", "credit_risk_db"),
			SSLMode:  getEnv("DB_SSLMODE", "require"),
			MaxConns: getEnvInt("DB_MAX_CONNS", 10),

			StatementTimeout: getEnvDuration("DB_STATEMENT_TIMEOUT", 15*time.Second),
			LogQueries:       getEnvBool("DB_LOG_QUERIES", false),
		},
		Auth: AuthConfig{
			Secret:         getEnv("JWT_SECRET", ""),
			PrivateKeyPEM:  getEnv("JWT_PRIVATE_KEY", ""),
			PrivateKeyFile: getEnv("JWT_PRIVATE_KEY_FILE", ""),
			Issuer:         getEnv("JWT_ISSUER", "credit-risk-engine"),
			Expiration:     getEnvDuration("JWT_EXPIRATION", 30*time.Minute),
		},
		Model: ModelConfig{
			Path:       getEnv("MODEL_PATH", "models/risk_model.json"),
			ServiceURL: getEnv("MODEL_SERVICE_URL", ""),
			Timeout:    getEnvDuration("MODEL_SERVICE_TIMEOUT", 5*time.Second),

			BreakerFailures: getEnvInt("MODEL_BREAKER_FAILURES", 5),
			BreakerCooldown: getEnvDuration("MODEL_BREAKER_COOLDOWN", 30*time.Second),
		},
		Kafka: KafkaConfig{
			Brokers:               getEnvList("KAFKA_BROKERS", ""),
			Topic:                 getEnv("KAFKA_TOPIC", "credit-risk-events"),
			TLS:                   getEnvBool("KAFKA_TLS", false),
			TLSCAFile:             getEnv("KAFKA_TLS_CA_FILE", ""),
			TLSInsecureSkipVerify: getEnvBool("KAFKA_TLS_INSECURE_SKIP_VERIFY", false),
			SASLMechanism:         getEnv("KAFKA_SASL_MECHANISM", ""),
			SASLUsername:          getEnv("KAFKA_SASL_USERNAME", ""),
			SASLPassword:          getEnv("KAFKA_SASL_PASSWORD", ""),
			Compression:           getEnv("KAFKA_COMPRESSION", "snappy"),
		},
		Decision: DecisionConfig{
			RiskRejectThreshold: getEnvFloat("RISK_REJECT_THRESHOLD", 40),
			MinCreditScore:      getEnvInt("POLICY_MIN_CREDIT_SCORE", 650),
			MaxLoanToIncome:     maxLTI,
		},
	}, nil
}

func (c Config) HTTPAddr() string {
	return fmt.Sprintf(":%d", c.HTTPPort)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

// getEnvList splits a comma separated value, dropping empty entries.
func getEnvList(key, fallback string) []string {
	var out []string
	for _, part := range strings.Split(getEnv(key, fallback), ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
