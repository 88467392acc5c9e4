// The extractor command imports bank and credit-card statements. With -file
// it runs a single import and prints the result; without it, it runs the
// retention sweeper and serves Prometheus metrics until interrupted.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ledgerline/statement-extractor/internal/domain/importer/parser"
	importservice "github.com/ledgerline/statement-extractor/internal/domain/importer/service"
	"github.com/ledgerline/statement-extractor/pkg/config"
)

func main() {
	var (
		filePath = flag.String("file", "", "statement file to import (.csv, .xlsx, or extracted text)")
		userFlag = flag.String("user", "", "user id that owns the import")
	)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	logger := newLogger(cfg.Logging.Level)
	slog.SetDefault(logger)

	deps, err := InitDependencies(cfg, logger)
	if err != nil {
		logger.Error("failed to initialize", slog.Any("error", err))
		os.Exit(1)
	}
	defer deps.Cleanup()

	if *filePath != "" {
		if err := runImport(context.Background(), deps, *filePath, *userFlag); err != nil {
			logger.Error("import failed", slog.Any("error", err))
			os.Exit(1)
		}
		return
	}

	runDaemon(deps)
}

// runImport executes a one-shot import of a single statement file.
func runImport(ctx context.Context, deps *Dependencies, path, userFlag string) error {
	userID := uuid.Nil
	if userFlag != "" {
		parsed, err := uuid.Parse(userFlag)
		if err != nil {
			return fmt.Errorf("invalid user id %q: %w", userFlag, err)
		}
		userID = parsed
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	doc := importservice.Document{
		Filename: filepath.Base(path),
		UserID:   userID,
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", ".tsv":
		doc.CSV = data
	case ".xlsx", ".xls":
		doc.XLSX = data
	default:
		doc.Lines = parser.Lines(string(data))
	}

	result := deps.ImportService.ImportDocument(ctx, doc)

	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

// runDaemon starts the retention sweeper and the metrics endpoint, then
// blocks until SIGINT or SIGTERM.
func runDaemon(deps *Dependencies) {
	logger := deps.Logger

	if err := deps.Scheduler.Start(); err != nil {
		logger.Error("failed to start scheduler", slog.Any("error", err))
		os.Exit(1)
	}

	var metricsServer *http.Server
	if deps.Config.Metrics.Enabled {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		metricsServer = &http.Server{
			Addr:              fmt.Sprintf(":%d", deps.Config.Metrics.Port),
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			logger.Info("metrics server listening", slog.String("addr", metricsServer.Addr))
			if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("metrics server failed", slog.Any("error", err))
			}
		}()
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	<-deps.Scheduler.Stop().Done()
	if metricsServer != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			logger.Warn("metrics server shutdown", slog.Any("error", err))
		}
	}
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl}))
}
