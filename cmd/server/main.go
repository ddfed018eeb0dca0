package main

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/hirosato/bookkeeper/internal/api/handlers"
	"github.com/hirosato/bookkeeper/internal/common/config"
	"github.com/hirosato/bookkeeper/internal/domain/backup"
	"github.com/hirosato/bookkeeper/internal/domain/importer"
	"github.com/hirosato/bookkeeper/internal/domain/ledger"
	"github.com/hirosato/bookkeeper/internal/domain/period"
	"github.com/hirosato/bookkeeper/internal/domain/report"
	"github.com/hirosato/bookkeeper/internal/platform/storage/repository"
	"github.com/hirosato/bookkeeper/internal/platform/storage/sqlite"
)

func main() {
	// Load .env if present; real environment variables win.
	_ = godotenv.Load()

	// Configure structured logging
	level := slog.LevelInfo
	if os.Getenv("LOG_LEVEL") == "debug" {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	cfg, err := config.LoadFromEnv()
	if err != nil {
		logger.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	store, err := sqlite.NewStore(cfg.DataPath)
	if err != nil {
		logger.Error("failed to open store", "error", err, "path", cfg.DataPath)
		os.Exit(1)
	}

	// The HTTP surface has no terminal to prompt on, so destructive
	// operations are pre-confirmed. Clients gate their own destructive calls.
	confirm := ledger.ConfirmAll

	repo := repository.NewLedgerRepository(store, logger)
	ledgerSvc := ledger.NewService(repo, confirm, logger)
	periodSvc := period.NewService(repo, confirm, logger)
	reportSvc := report.NewService(repo)
	importSvc := importer.NewService(ledgerSvc, logger)
	backupSvc := backup.NewService(store, confirm, repo.Invalidate, logger)

	h := handlers.NewHandler(cfg, ledgerSvc, periodSvc, reportSvc, importSvc, backupSvc, logger)

	logger.Info("listening", "addr", cfg.HTTPAddr, "environment", cfg.Environment)
	if err := http.ListenAndServe(cfg.HTTPAddr, h.Routes()); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
