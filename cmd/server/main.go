package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	httpadapter "resume-studio/internal/adapter/http"
	repo "resume-studio/internal/adapter/repository"
	"resume-studio/internal/config"
	"resume-studio/internal/infrastructure/migration"
	"resume-studio/internal/render"
	"resume-studio/pkg/infrastructure"
	"resume-studio/pkg/logger"
	"resume-studio/pkg/parser"
	"resume-studio/pkg/payment"

	"github.com/gofiber/fiber/v2"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()
	logger.Setup()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()

	pool, err := infrastructure.NewPool(ctx)
	if err != nil {
		slog.Warn("database not available, persistence disabled", "error", err)
		pool = nil
	}
	if pool != nil {
		if err := migration.RunMigrations(ctx, pool); err != nil {
			slog.Error("migrations failed", "error", err)
			os.Exit(1)
		}
	}

	engine, err := render.NewEngine()
	if err != nil {
		slog.Error("template catalog failed to load", "error", err)
		os.Exit(1)
	}

	renderer := infrastructure.NewChromedpRenderer()
	parserClient := parser.NewClient()
	parserClient.BaseURL = cfg.ParserServiceURL

	payClient := payment.NewClient()
	paymentHandler := httpadapter.NewPaymentHandler(payClient, repo.NewPaymentsRepo(pool), cfg)

	h := httpadapter.NewHandler(parserClient, engine, renderer, repo.NewResumesRepo(pool), paymentHandler, cfg)

	app := fiber.New()
	verifier := httpadapter.NewAuthServiceVerifier(cfg.AuthServiceURL)
	proxy := httpadapter.NewAuthProxy(cfg.AuthServiceURL)
	h.Register(app, verifier, proxy)

	go func() {
		slog.Info("server listening", "port", cfg.Port)
		if err := app.Listen(":" + cfg.Port); err != nil {
			slog.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	slog.Info("shutting down")
	if err := app.Shutdown(); err != nil {
		slog.Error("shutdown failed", "error", err)
	}
	if pool != nil {
		pool.Close()
	}
}
