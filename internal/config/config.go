package config

import (
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration shared by the platform services.
type Config struct {
	App          AppConfig
	Postgres     PostgresConfig
	Redis        RedisConfig
	Logger       LoggerConfig
	Auth         AuthConfig
	Internal     InternalConfig
	Services     ServicesConfig
	Gateway      GatewayConfig
	Notification NotificationConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
}

// PostgresConfig holds DB connection values.
type PostgresConfig struct {
	DSN            string
	MaxConns       int32
	MinConns       int32
	RunMigrations  bool
	MigrationsDir  string
	ConnMaxIdleSec int32
	ConnMaxLifeSec int32
}

// RedisConfig holds Redis connection values.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// AuthConfig defines token issuance parameters. SigningKey is the decoded
// HMAC key; Load rejects configurations where it is absent or under 256 bits.
type AuthConfig struct {
	SigningKey            []byte
	Issuer                string
	Audience              string
	AccessTokenTTLMinutes int
	BcryptCost            int
}

// InternalConfig carries the shared secret for service-to-service calls.
type InternalConfig struct {
	Secret string
}

// ServicesConfig holds base URLs of peer services.
type ServicesConfig struct {
	AuthURL string
	UserURL string
	CardURL string
}

// GatewayConfig controls edge behavior (CORS, login throttling).
type GatewayConfig struct {
	AllowOrigins       string
	LoginRateLimit     int
	LoginRateWindowSec int
}

// NotificationConfig holds notification endpoints for the event worker.
type NotificationConfig struct {
	WebhookURL string
}

// minSigningKeyBytes is 256 bits, the floor for HS256 keys.
const minSigningKeyBytes = 32

// Load reads configuration from environment variables, applying defaults
// where possible. Missing signing key or internal secret is a hard error:
// callers are expected to treat it as fatal.
func Load() (*Config, error) {
	_ = godotenv.Load()

	signingKey, err := loadSigningKey()
	if err != nil {
		return nil, err
	}

	internalSecret := os.Getenv("INTERNAL_API_SECRET")
	if internalSecret == "" {
		return nil, errors.New("INTERNAL_API_SECRET is required")
	}

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "transit-service"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "8080"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
		},
		Postgres: PostgresConfig{
			DSN:            os.Getenv("POSTGRES_DSN"),
			MaxConns:       int32(getEnvAsInt("POSTGRES_MAX_CONNS", 10)),
			MinConns:       int32(getEnvAsInt("POSTGRES_MIN_CONNS", 2)),
			RunMigrations:  getEnvAsBool("POSTGRES_RUN_MIGRATIONS", true),
			MigrationsDir:  getEnv("POSTGRES_MIGRATIONS_DIR", "migrations"),
			ConnMaxIdleSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30)),
			ConnMaxLifeSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300)),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Auth: AuthConfig{
			SigningKey:            signingKey,
			Issuer:                getEnv("JWT_ISSUER", "transit-platform"),
			Audience:              getEnv("JWT_AUDIENCE", "transit-clients"),
			AccessTokenTTLMinutes: getEnvAsInt("JWT_ACCESS_TTL_MINUTES", 15),
			BcryptCost:            getEnvAsInt("AUTH_BCRYPT_COST", 12),
		},
		Internal: InternalConfig{
			Secret: internalSecret,
		},
		Services: ServicesConfig{
			AuthURL: getEnv("AUTH_SERVICE_URL", "http://localhost:8082"),
			UserURL: getEnv("USER_SERVICE_URL", "http://localhost:8084"),
			CardURL: getEnv("CARD_SERVICE_URL", "http://localhost:8083"),
		},
		Gateway: GatewayConfig{
			AllowOrigins:       getEnv("CORS_ALLOW_ORIGINS", "http://localhost:4200"),
			LoginRateLimit:     getEnvAsInt("LOGIN_RATE_LIMIT", 10),
			LoginRateWindowSec: getEnvAsInt("LOGIN_RATE_WINDOW_SECONDS", 60),
		},
		Notification: NotificationConfig{
			WebhookURL: getEnv("NOTIFY_WEBHOOK_URL", ""),
		},
	}

	return cfg, nil
}

func loadSigningKey() ([]byte, error) {
	encoded := os.Getenv("JWT_SECRET_BASE64")
	if encoded == "" {
		return nil, errors.New("JWT_SECRET_BASE64 is required")
	}
	key, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_SECRET_BASE64: %w", err)
	}
	if len(key) < minSigningKeyBytes {
		return nil, fmt.Errorf("JWT signing key must be >= %d bytes, got %d", minSigningKeyBytes, len(key))
	}
	return key, nil
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

// AccessTokenTTL returns the token lifetime.
func (a AuthConfig) AccessTokenTTL() time.Duration {
	if a.AccessTokenTTLMinutes <= 0 {
		return 15 * time.Minute
	}
	return time.Duration(a.AccessTokenTTLMinutes) * time.Minute
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}
