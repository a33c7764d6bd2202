package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/nassimdv/workload-app/internal/auth"
	"github.com/nassimdv/workload-app/internal/config"
	"github.com/nassimdv/workload-app/internal/db"
	"github.com/nassimdv/workload-app/internal/email"
	"github.com/nassimdv/workload-app/internal/identity"
	"github.com/nassimdv/workload-app/internal/server"
)

var migrateOnlyFlag = flag.Bool("migrate-only", false, "Run DB migrations and exit")

func main() {
	flag.Parse()
	_ = godotenv.Load()
	cfg := config.Load()

	if *migrateOnlyFlag {
		if _, err := db.ConnectAndMigrate(cfg.DatabaseDSN); err != nil {
			log.Fatalf("migrate-only failed: %v", err)
		}
		log.Println("migrations completed; exiting as requested")
		return
	}

	logger, err := newLogger(cfg.Env)
	if err != nil {
		log.Fatalf("logger init: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	dbConn, err := db.ConnectAndMigrate(cfg.DatabaseDSN)
	if err != nil {
		logger.Fatal("db connection failed", zap.Error(err))
	}

	verifier, err := auth.NewJWKSVerifier(context.Background(), auth.VerifierConfig{
		JWKSURL:            cfg.JWKSURL,
		Issuer:             cfg.TokenIssuer,
		EnableVerification: cfg.AuthVerify,
	})
	if err != nil {
		logger.Fatal("auth verifier init failed", zap.Error(err))
	}
	if !cfg.AuthVerify {
		logger.Warn("token signature verification is DISABLED; dev use only")
	}

	var mail email.Service
	if cfg.SendgridAPIKey != "" {
		mail = email.NewSendgridService(cfg.SendgridAPIKey, cfg.EmailFromName, cfg.EmailFrom)
	} else {
		mail = email.NewConsoleService(logger)
	}

	// The pool provider is pluggable; the in-process dev pool stands in until
	// a real pool integration is configured.
	provider := identity.NewDevProvider(logger)

	handler := server.New(server.Deps{
		DB:       dbConn,
		Verifier: verifier,
		Provider: provider,
		Email:    mail,
		Config:   cfg,
		Logger:   logger,
	})

	srv := &http.Server{Addr: ":" + cfg.Port, Handler: handler}
	logger.Info("starting server", zap.String("env", cfg.Env), zap.String("port", cfg.Port))

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutdown signal received")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("error during shutdown", zap.Error(err))
	}
	if sqlDB, err := dbConn.DB(); err == nil {
		_ = sqlDB.Close()
	}
	logger.Info("server gracefully stopped")
}

func newLogger(env string) (*zap.Logger, error) {
	if env == "development" {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
