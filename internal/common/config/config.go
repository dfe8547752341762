package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/authgate/authgate/internal/common/constants"
)

var (
	ErrMissingRequiredEnv  = errors.New("missing required environment variable")
	ErrUnknownSessionStore = errors.New("SESSION_STORE must be postgres or redis")
)

const (
	SessionStorePostgres = "postgres"
	SessionStoreRedis    = "redis"
)

type AuthConfig struct {
	HTTPPort       string
	DatabaseURL    string
	SessionTTL     time.Duration
	SessionStore   string
	RedisAddr      string
	RedisPassword  string
	RequestTimeout time.Duration
}

func LoadAuthConfig() (AuthConfig, error) {
	databaseURL, err := mustEnv("DATABASE_URL")
	if err != nil {
		return AuthConfig{}, err
	}

	store := getEnv("SESSION_STORE", SessionStorePostgres)
	if store != SessionStorePostgres && store != SessionStoreRedis {
		return AuthConfig{}, fmt.Errorf("%w: got %q", ErrUnknownSessionStore, store)
	}

	cfg := AuthConfig{
		HTTPPort:       getEnv("AUTH_HTTP_PORT", constants.DefaultAuthHTTPPort),
		DatabaseURL:    databaseURL,
		SessionTTL:     getDurationEnv("SESSION_TTL", constants.DefaultSessionTTL),
		SessionStore:   store,
		RedisPassword:  os.Getenv("REDIS_PASSWORD"),
		RequestTimeout: getDurationEnv("AUTH_REQUEST_TIMEOUT", constants.DefaultAuthRequestTimeout),
	}

	if store == SessionStoreRedis {
		redisAddr, err := mustEnv("REDIS_ADDR")
		if err != nil {
			return AuthConfig{}, err
		}
		cfg.RedisAddr = redisAddr
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return fallback
}

func mustEnv(key string) (string, error) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return "", fmt.Errorf("%w: %s", ErrMissingRequiredEnv, key)
	}
	return v, nil
}

func getDurationEnv(key string, fallback time.Duration) time.Duration {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}
