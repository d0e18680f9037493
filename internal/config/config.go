// load application-specific configuration settings from environment variables

package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"ouk-server-go/internal/auth"
)

// insecureDefaultKey keeps local development working when JWT_SECRET_KEY is
// unset. Starting with it is a security risk and is reported by the caller.
const insecureDefaultKey = "insecure-dev-signing-key-do-not-deploy"

type Config struct {
	ServerAddress  string
	AllowedOrigins string

	// DatabaseURL empty means the in-memory store is used.
	DatabaseURL string
	// RedisAddr empty disables the redis leaderboard cache.
	RedisAddr string

	JWTSecretKey string
	TokenTTL     time.Duration

	// UsingDefaultKey is set when no signing key was configured.
	UsingDefaultKey bool
}

func LoadConfig() (*Config, error) {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	cfg := &Config{
		ServerAddress:  os.Getenv("SERVER_ADDRESS"),
		AllowedOrigins: os.Getenv("ALLOWED_ORIGINS"),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		RedisAddr:      os.Getenv("REDIS_ADDR"),
		JWTSecretKey:   os.Getenv("JWT_SECRET_KEY"),
		TokenTTL:       auth.DefaultTokenTTL,
	}

	if cfg.ServerAddress == "" {
		cfg.ServerAddress = ":8080"
	}
	if cfg.AllowedOrigins == "" {
		cfg.AllowedOrigins = "*"
	}
	if cfg.JWTSecretKey == "" {
		cfg.JWTSecretKey = insecureDefaultKey
		cfg.UsingDefaultKey = true
	}

	if hours := os.Getenv("TOKEN_TTL_HOURS"); hours != "" {
		n, err := strconv.Atoi(hours)
		if err != nil || n <= 0 {
			return nil, &InvalidValueError{Name: "TOKEN_TTL_HOURS", Value: hours}
		}
		cfg.TokenTTL = time.Duration(n) * time.Hour
	}

	return cfg, nil
}

// InvalidValueError reports a malformed environment variable
type InvalidValueError struct {
	Name  string
	Value string
}

func (e *InvalidValueError) Error() string {
	return "invalid value for " + e.Name + ": " + e.Value
}
