package constants

import "time"

const (
	SessionTokenSize  = 32
	SessionCookieName = "sid"

	DBPoolMaxConns         = 25
	DBPoolMinConns         = 5
	DBPoolConnMaxLifetime  = time.Hour
	DBPoolConnMaxIdleTime  = 30 * time.Minute
	DBPoolHealthCheck      = time.Minute
	DBPoolConnectTimeout   = 5 * time.Second
	DBPoolMaxAttempts      = 10
	DBPoolRetryDelay       = 1 * time.Second
	DBPoolMetricsInterval  = 30 * time.Second
	DBQueryTimeout         = 30 * time.Second
	RedisConnectTimeout    = 2 * time.Second
	SessionCleanupInterval = time.Hour

	DefaultMaxRequestSize = 1 << 20

	ServerReadHeaderTimeout = 10 * time.Second
	ServerReadTimeout       = 30 * time.Second
	ServerWriteTimeout      = 30 * time.Second
	ServerIdleTimeout       = 120 * time.Second

	ShutdownTimeout = 30 * time.Second
	DrainTimeout    = 10 * time.Second

	DefaultAuthHTTPPort       = "8081"
	DefaultAuthRequestTimeout = 5 * time.Second
	DefaultSessionTTL         = time.Hour

	LoggerMaxSize    = 100
	LoggerMaxBackups = 3
	LoggerMaxAge     = 28
)

type TraceIDKeyType string

const TraceIDKey TraceIDKeyType = "trace_id"
