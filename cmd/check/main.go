package main

import (
	"encoding/json"
	"flag"
	"log/slog"
	"os"
	"strings"

	"github.com/OCharnyshevich/wakfu-craft/internal/config"
	"github.com/OCharnyshevich/wakfu-craft/internal/integrity"
	"github.com/OCharnyshevich/wakfu-craft/internal/storage"
)

func main() {
	cfg := config.DefaultConfig()

	configPath := flag.String("config", "", "JSON config file")
	langs := flag.String("langs", strings.Join(cfg.Langs, ","), "comma separated languages to check")
	report := flag.Bool("json", false, "print the report as JSON")
	flag.StringVar(&cfg.OutDir, "data", cfg.OutDir, "artifact directory")
	flag.StringVar(&cfg.ExceptionsPath, "exceptions", cfg.ExceptionsPath, "allowed exceptions YAML file")
	flag.Parse()
	cfg.Langs = config.SplitList(*langs)

	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

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

	exc, err := integrity.LoadExceptions(cfg.ExceptionsPath)
	if err != nil {
		log.Error("load exceptions", "error", err)
		os.Exit(1)
	}
	st, err := storage.New(cfg.OutDir, log)
	if err != nil {
		log.Error("open data dir", "error", err)
		os.Exit(1)
	}

	r, err := integrity.Check(st, cfg.Langs, exc)
	if err != nil {
		log.Error("check failed", "error", err)
		os.Exit(1)
	}

	if *report {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(r); err != nil {
			log.Error("write report", "error", err)
			os.Exit(1)
		}
	}
	for _, v := range r.Violations {
		log.Warn("violation", "kind", v.Kind, "subject", v.Subject, "detail", v.Detail)
	}
	log.Info("check finished",
		"recipes", r.RecipesChecked,
		"sublimations", r.SublimationsChecked,
		"allowed", r.Allowed,
		"violations", len(r.Violations))
	if !r.OK() {
		os.Exit(1)
	}
}
