package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/OCharnyshevich/wakfu-craft/internal/api"
	"github.com/OCharnyshevich/wakfu-craft/internal/calculator"
	"github.com/OCharnyshevich/wakfu-craft/internal/config"
	"github.com/OCharnyshevich/wakfu-craft/internal/storage"
	"github.com/OCharnyshevich/wakfu-craft/internal/store"
)

func main() {
	cfg := config.DefaultConfig()
	cfg.OutDir = getEnv("DATA_DIR", cfg.OutDir)
	if p, err := strconv.Atoi(getEnv("PORT", "")); err == nil {
		cfg.Port = p
	}

	flag.IntVar(&cfg.Port, "port", cfg.Port, "server port")
	flag.StringVar(&cfg.OutDir, "data", cfg.OutDir, "artifact directory")
	flag.StringVar(&cfg.DBPath, "db", cfg.DBPath, "SQLite database with the run history (optional)")
	flag.StringVar(&cfg.XPCurvePath, "xp-curve", cfg.XPCurvePath, "YAML XP curve for level based calculations")
	flag.IntVar(&cfg.ResourcesPerCraft, "resources-per-craft", cfg.ResourcesPerCraft, "default resources per craft")
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := serve(ctx, cfg, log); err != nil {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}

func serve(ctx context.Context, cfg *config.Config, log *slog.Logger) error {
	st, err := storage.New(cfg.OutDir, log)
	if err != nil {
		return err
	}

	opts := api.Options{ResourcesPerCraft: cfg.ResourcesPerCraft}
	if cfg.XPCurvePath != "" {
		if opts.Curve, err = calculator.LoadCurve(cfg.XPCurvePath); err != nil {
			return err
		}
		log.Info("xp curve loaded", "levels", opts.Curve.MaxLevel())
	}
	if cfg.DBPath != "" {
		db, err := store.New(cfg.DBPath)
		if err != nil {
			return err
		}
		defer db.Close()
		opts.DB = db
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           api.New(st, opts, log),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("listening", "addr", srv.Addr, "data", cfg.OutDir)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
