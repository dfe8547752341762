package main

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/authgate/authgate/internal/auth/guard"
	authhttp "github.com/authgate/authgate/internal/auth/http"
	"github.com/authgate/authgate/internal/auth/service"
	"github.com/authgate/authgate/internal/common/clock"
	"github.com/authgate/authgate/internal/common/config"
	"github.com/authgate/authgate/internal/common/constants"
	commoncrypto "github.com/authgate/authgate/internal/common/crypto"
	"github.com/authgate/authgate/internal/common/db"
	commonhttp "github.com/authgate/authgate/internal/common/http"
	"github.com/authgate/authgate/internal/common/logger"
	commonredis "github.com/authgate/authgate/internal/common/redis"
	srv "github.com/authgate/authgate/internal/common/server"
	sessioncleanup "github.com/authgate/authgate/internal/session/cleanup"
	sessionrepo "github.com/authgate/authgate/internal/session/repository"
	userrepo "github.com/authgate/authgate/internal/user/repository"
)

func main() {
	log, err := logger.New(os.Getenv("LOG_DIR"), "auth", os.Getenv("LOG_LEVEL"))
	if err != nil {
		os.Stderr.WriteString(fmt.Sprintf("failed to initialize logger: %v\n", err))
		os.Exit(1)
	}

	cfg, err := config.LoadAuthConfig()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	if err := db.RunMigrations(context.Background(), cfg.DatabaseURL); err != nil {
		log.Fatalf("failed to run migrations: %v", err)
	}

	pool := db.NewPool(log, cfg.DatabaseURL)
	defer pool.Close()

	userRepo := userrepo.NewPgRepository(pool)

	var sessionRepo sessionrepo.Repository
	switch cfg.SessionStore {
	case config.SessionStoreRedis:
		redisClient, err := commonredis.New(cfg.RedisAddr, cfg.RedisPassword)
		if err != nil {
			log.Fatalf("failed to connect to redis: %v", err)
		}
		defer redisClient.Close()
		sessionRepo = sessionrepo.NewRedisRepository(redisClient.Client)
		log.Infof("auth service: using redis session store at %s", cfg.RedisAddr)
	default:
		sessionRepo = sessionrepo.NewPgRepository(pool)
		log.Infof("auth service: using postgres session store")
	}

	authService := service.NewAuthService(
		userRepo,
		sessionRepo,
		&commoncrypto.BcryptHasher{},
		commoncrypto.NewUUIDGenerator(),
		clock.NewRealClock(),
		cfg.SessionTTL,
		log,
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go sessioncleanup.Run(ctx, sessionRepo, log, constants.SessionCleanupInterval)

	sessionGuard := guard.New(authService, log)
	handler := authhttp.NewHandler(authService, sessionGuard, cfg.RequestTimeout, log)

	mux := http.NewServeMux()
	mux.Handle("/", handler)
	mux.Handle("/metrics", promhttp.Handler())

	baseHandler := commonhttp.BuildBaseHandler(log, mux)

	serverConfig := srv.DefaultServerConfig(cfg.HTTPPort)
	server := srv.NewServer(serverConfig, baseHandler)

	shutdownHooks := []srv.ShutdownHook{
		func(ctx context.Context) error {
			log.Infof("auth service: stopping session cleanup")
			cancel()
			return nil
		},
	}

	srv.StartWithGracefulShutdownAndHooks(server, log, "auth", shutdownHooks)
}
