package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/OCharnyshevich/wakfu-craft/internal/cdn"
	"github.com/OCharnyshevich/wakfu-craft/internal/config"
	"github.com/OCharnyshevich/wakfu-craft/internal/pipeline"
	"github.com/OCharnyshevich/wakfu-craft/internal/storage"
	"github.com/OCharnyshevich/wakfu-craft/internal/store"
)

func main() {
	cfg := config.DefaultConfig()

	configPath := flag.String("config", "", "JSON config file")
	langs := flag.String("langs", strings.Join(cfg.Langs, ","), "comma separated languages to generate")
	verbose := flag.Bool("v", false, "debug logging")
	flag.StringVar(&cfg.CDNBase, "cdn", cfg.CDNBase, "CDN base url")
	flag.StringVar(&cfg.Source, "source", cfg.Source, "CDN url or local mirror directory (default: -cdn)")
	flag.StringVar(&cfg.Version, "version", cfg.Version, "game data version (default: resolved from config.json)")
	flag.StringVar(&cfg.Schema, "schema", cfg.Schema, "schema generation of the datasets")
	flag.StringVar(&cfg.PrimaryLang, "lang", cfg.PrimaryLang, "language of the compact item names")
	flag.StringVar(&cfg.OutDir, "out", cfg.OutDir, "artifact output directory")
	flag.StringVar(&cfg.SublimationsPath, "sublimations", cfg.SublimationsPath, "base sublimation file")
	flag.StringVar(&cfg.AliasesPath, "aliases", cfg.AliasesPath, "sublimation alias table")
	flag.StringVar(&cfg.JarsPath, "jars", cfg.JarsPath, "directory of client jars with translations")
	flag.StringVar(&cfg.DBPath, "db", cfg.DBPath, "SQLite export and run history (optional)")
	flag.BoolVar(&cfg.Force, "force", cfg.Force, "sync even if the version did not change")
	flag.Float64Var(&cfg.RateLimit, "rate", cfg.RateLimit, "CDN requests per second")
	flag.IntVar(&cfg.FetchConcurrency, "concurrency", cfg.FetchConcurrency, "datasets fetched in parallel")
	flag.Parse()
	cfg.Langs = config.SplitList(*langs)

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))

	if *configPath != "" {
		fromFile, err := config.Load(*configPath)
		if err != nil {
			log.Error("load config", "error", err)
			os.Exit(1)
		}
		explicit := make(map[string]bool)
		flag.Visit(func(f *flag.Flag) { explicit[f.Name] = true })
		config.Merge(cfg, fromFile, explicit)
	}
	if err := cfg.Validate(); err != nil {
		log.Error("invalid config", "error", err)
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("sync failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, log *slog.Logger) error {
	src, err := cdn.NewSource(cfg.SourceOrBase(), cdn.Options{
		RateLimit: cfg.RateLimit,
		Burst:     cfg.Burst,
		Timeout:   cfg.Timeout(),
	}, log)
	if err != nil {
		return err
	}
	st, err := storage.New(cfg.OutDir, log)
	if err != nil {
		return err
	}

	var db *store.Store
	if cfg.DBPath != "" {
		if db, err = store.New(cfg.DBPath); err != nil {
			return err
		}
		defer db.Close()
	}

	res, err := pipeline.New(cfg, src, st, db, log).Run(ctx)
	if err != nil {
		return err
	}
	log.Info("done",
		"run", res.RunID,
		"version", res.Version,
		"skipped", res.Skipped,
		"recipes", res.Recipes,
		"items", res.Items,
		"missing_items", len(res.MissingItems))
	return nil
}
