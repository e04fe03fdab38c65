package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// ErrMissingJWTSecret is returned when JWT_SECRET is not set. The server must not start without it.
var ErrMissingJWTSecret = errors.New("JWT_SECRET is required")

// Config holds application level configuration loaded from environment variables.
type Config struct {
	ServerPort string

	DBDriver    string
	DatabaseDSN string
	AutoMigrate bool

	RedisAddr string
	RedisDB   int
	RedisPass string

	JWTSecret         string
	TokenTTL          time.Duration
	TokenLookup       string
	PasswordScheme    string
	GenericAuthErrors bool

	LogLevel string
}

const defaultDSN = "host=localhost user=postgres password=postgres dbname=movies port=5432 sslmode=disable"

// Load builds Config from the environment (and an optional .env file) with sensible defaults.
func Load() (*Config, error) {
	// .env is optional; real environment variables win.
	_ = godotenv.Load()

	ttl, err := time.ParseDuration(getEnv("TOKEN_TTL", "1h"))
	if err != nil {
		return nil, fmt.Errorf("parse TOKEN_TTL: %w", err)
	}

	cfg := &Config{
		ServerPort:        getEnv("SERVER_PORT", "3000"),
		DBDriver:          strings.ToLower(getEnv("DB_DRIVER", "postgres")),
		DatabaseDSN:       getEnv("DATABASE_DSN", defaultDSN),
		AutoMigrate:       getEnvBool("AUTO_MIGRATE", true),
		RedisAddr:         getEnv("REDIS_ADDR", "localhost:6379"),
		RedisDB:           getEnvInt("REDIS_DB", 0),
		RedisPass:         os.Getenv("REDIS_PASSWORD"),
		JWTSecret:         os.Getenv("JWT_SECRET"),
		TokenTTL:          ttl,
		TokenLookup:       getEnv("TOKEN_LOOKUP", "param:token"),
		PasswordScheme:    strings.ToLower(getEnv("PASSWORD_SCHEME", "plaintext")),
		GenericAuthErrors: getEnvBool("AUTH_GENERIC_ERRORS", false),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// SeedConfig is the subset of settings the seed tool needs.
type SeedConfig struct {
	DBDriver       string
	DatabaseDSN    string
	PasswordScheme string
	SeedFile       string
}

// LoadSeed reads the database and password settings plus SEED_FILE. It does
// not require JWT_SECRET.
func LoadSeed() (*SeedConfig, error) {
	_ = godotenv.Load()

	cfg := &SeedConfig{
		DBDriver:       strings.ToLower(getEnv("DB_DRIVER", "postgres")),
		DatabaseDSN:    getEnv("DATABASE_DSN", defaultDSN),
		PasswordScheme: strings.ToLower(getEnv("PASSWORD_SCHEME", "plaintext")),
		SeedFile:       getEnv("SEED_FILE", "seed.json"),
	}
	switch cfg.DBDriver {
	case "postgres", "mysql":
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}
	return cfg, nil
}

// Validate reports configuration that would prevent the server from serving traffic safely.
func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return ErrMissingJWTSecret
	}
	if c.TokenTTL <= 0 {
		return fmt.Errorf("TOKEN_TTL must be positive, got %s", c.TokenTTL)
	}
	switch c.DBDriver {
	case "postgres", "mysql":
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}
	switch c.PasswordScheme {
	case "plaintext", "bcrypt":
	default:
		return fmt.Errorf("unsupported PASSWORD_SCHEME %q", c.PasswordScheme)
	}
	return nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.ParseBool(v); err == nil {
			return parsed
		}
	}
	return def
}
