package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	get "github.com/hashicorp/go-getter"

	"github.com/OCharnyshevich/wakfu-craft/internal/cdn"
	"github.com/OCharnyshevich/wakfu-craft/internal/config"
	"github.com/OCharnyshevich/wakfu-craft/internal/schema"
)

func main() {
	var (
		base     = flag.String("base", config.DefaultCDNBase, "base url")
		ver      = flag.String("version", "", "game data version (default: resolved from config.json)")
		out      = flag.String("o", "./mirror", "output dir path")
		datasets = flag.String("datasets", strings.Join(schema.Datasets, ","), "comma separated datasets")
	)
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	if *out == "" {
		log.Error("output dir path required")
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := mirror(ctx, strings.TrimRight(*base, "/"), *ver, *out, config.SplitList(*datasets), log); err != nil {
		log.Error("mirror failed", "error", err)
		os.Exit(1)
	}
}

// mirror downloads config.json and the datasets of one version into a
// directory readable by cdn.Dir.
func mirror(ctx context.Context, base, version, out string, datasets []string, log *slog.Logger) error {
	configPath := filepath.Join(out, "config.json")
	if err := download(ctx, configPath, base+"/config.json"); err != nil {
		return err
	}
	if version == "" {
		if err := resolve(configPath, &version); err != nil {
			return err
		}
	} else if err := pin(configPath, version); err != nil {
		return err
	}

	dir := filepath.Join(out, version)
	if err := os.RemoveAll(dir); err != nil {
		return err
	}

	log.Info("start downloading datasets", "version", version, "dir", dir)
	for _, ds := range datasets {
		dst := filepath.Join(out, filepath.FromSlash(cdn.DatasetPath(version, ds)))
		if err := download(ctx, dst, base+"/"+cdn.DatasetPath(version, ds)); err != nil {
			return err
		}
		log.Info("downloaded", "dataset", ds)
	}
	log.Info("done downloading datasets", "version", version, "dir", dir)
	return nil
}

func download(ctx context.Context, dst, url string) error {
	if err := get.GetFile(dst, url, get.WithContext(ctx)); err != nil {
		return fmt.Errorf("download %s: %w", url, err)
	}
	return nil
}

func resolve(configPath string, version *string) error {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return err
	}
	var doc struct {
		Version string `json:"version"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("parse %s: %w", configPath, err)
	}
	if doc.Version == "" {
		return fmt.Errorf("%s has no version", configPath)
	}
	*version = doc.Version
	return nil
}

// pin rewrites config.json so the mirror serves the requested version.
func pin(configPath, version string) error {
	data, err := json.Marshal(map[string]string{"version": version})
	if err != nil {
		return err
	}
	return os.WriteFile(configPath, data, 0o644)
}
