package main

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	authhttp "github.com/taskcrate/backend/internal/auth/http"
	authservice "github.com/taskcrate/backend/internal/auth/service"
	"github.com/taskcrate/backend/internal/common/clock"
	"github.com/taskcrate/backend/internal/common/config"
	commoncrypto "github.com/taskcrate/backend/internal/common/crypto"
	"github.com/taskcrate/backend/internal/common/db"
	commonhttp "github.com/taskcrate/backend/internal/common/http"
	"github.com/taskcrate/backend/internal/common/jwtverify"
	"github.com/taskcrate/backend/internal/common/logger"
	srv "github.com/taskcrate/backend/internal/common/server"
	taskhttp "github.com/taskcrate/backend/internal/task/http"
	taskrepo "github.com/taskcrate/backend/internal/task/repository"
	taskservice "github.com/taskcrate/backend/internal/task/service"
	userrepo "github.com/taskcrate/backend/internal/user/repository"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString(fmt.Sprintf("failed to load config: %v\n", err))
		os.Exit(1)
	}

	log, err := logger.New(cfg.LogDir, "api", cfg.LogLevel)
	if err != nil {
		os.Stderr.WriteString(fmt.Sprintf("failed to initialize logger: %v\n", err))
		os.Exit(1)
	}

	pool := db.NewPool(log, cfg.DatabaseURL)
	defer pool.Close()

	if err := db.Migrate(context.Background(), pool); err != nil {
		log.Fatalf("failed to migrate schema: %v", err)
	}

	users := userrepo.NewPgRepository(pool)
	tasks := taskrepo.NewPgRepository(pool)

	hasher := &commoncrypto.BcryptHasher{}
	issuer := authservice.NewTokenIssuer(
		cfg.JWTSecret,
		commoncrypto.NewUUIDGenerator(),
		cfg.AccessTokenTTL,
		clock.NewRealClock(),
	)

	authSvc := authservice.NewAuthService(users, hasher, issuer, log)
	taskSvc := taskservice.NewTaskService(tasks, log)

	if err := authSvc.EnsureAdmin(context.Background(), cfg.AdminUsername, cfg.AdminPassword); err != nil {
		log.Fatalf("failed to seed admin account: %v", err)
	}

	authGate := jwtverify.Middleware(cfg.JWTSecret, users, log)

	mux := http.NewServeMux()
	mux.Handle("/", authhttp.NewHandler(authSvc, authGate, cfg.RequestTimeout, log))
	mux.Handle("/tasks/", taskhttp.NewHandler(taskSvc, authGate, cfg.RequestTimeout, log))
	mux.HandleFunc("/health", commonhttp.HealthHandler(log))
	mux.Handle("/metrics", promhttp.Handler())

	handler := commonhttp.BuildBaseHandler(log, mux)

	server := srv.NewServer(srv.DefaultServerConfig(cfg.HTTPPort), handler)
	srv.StartWithGracefulShutdown(server, log, "api", nil)
}
