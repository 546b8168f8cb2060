package main

import (
	"fmt"
	"os"

	"github.com/wessamh/edara-actions/internal/audit"
	"github.com/wessamh/edara-actions/internal/auth"
	"github.com/wessamh/edara-actions/internal/config"
	"github.com/wessamh/edara-actions/internal/db"
	"github.com/wessamh/edara-actions/internal/export"
	httphandler "github.com/wessamh/edara-actions/internal/http"
	"github.com/wessamh/edara-actions/internal/http/middleware"
	"github.com/wessamh/edara-actions/internal/logger"
	"github.com/wessamh/edara-actions/internal/repository"
	"github.com/wessamh/edara-actions/internal/resolve"
	"github.com/wessamh/edara-actions/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Environment)

	database, err := db.New(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect database")
	}

	store := repository.New(database)
	sink := audit.NewLogSink(log)

	resolveOpts := resolve.Options{
		MinScore:     cfg.Resolver.MinScore,
		ChoiceMargin: cfg.Resolver.ChoiceMargin,
	}
	actionService := service.NewActionService(store, sink, log, resolveOpts)

	receiptGenerator, err := export.NewReceiptGenerator(cfg.Export.ReceiptFontPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to init receipt generator")
	}
	exportService := service.NewExportService(store, export.NewExcelGenerator(), receiptGenerator)

	tokenParser := auth.NewParser(cfg.Auth.AccessSecret)
	handler := httphandler.NewHandler(actionService, exportService, log)
	apiKeyMiddleware := middleware.APIKey(cfg.Auth.WebhookAPIKey)
	authMiddleware := middleware.Auth(tokenParser)
	router := httphandler.NewRouter(handler, apiKeyMiddleware, authMiddleware, cfg.Environment)

	addr := fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port)
	log.Info().Str("addr", addr).Msg("starting actions service")

	if err := router.Run(addr); err != nil {
		log.Error().Err(err).Msg("server stopped")
		os.Exit(1)
	}
}
