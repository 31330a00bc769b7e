package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestDefaultConfig_Valid(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("default config should validate, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"no langs", func(c *Config) { c.Langs = nil }},
		{"primary not listed", func(c *Config) { c.PrimaryLang = "de" }},
		{"zero rate", func(c *Config) { c.RateLimit = 0 }},
		{"zero concurrency", func(c *Config) { c.FetchConcurrency = 0 }},
		{"negative resources", func(c *Config) { c.ResourcesPerCraft = -1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := DefaultConfig()
			tt.mutate(c)
			if err := c.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	if !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("expected fs.ErrNotExist, got %v", err)
	}
	if cfg != nil {
		t.Errorf("expected no config, got %+v", cfg)
	}
}

func TestLoad_OverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(`{"langs":["fr"],"primary_lang":"fr","port":9000}`), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != 9000 || cfg.PrimaryLang != "fr" || len(cfg.Langs) != 1 {
		t.Errorf("file values not applied: %+v", cfg)
	}
	if cfg.Schema != "current" {
		t.Errorf("expected default schema to survive, got %q", cfg.Schema)
	}
}

func TestMerge_KeepsExplicitFlags(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Port = 1234
	cfg.Version = "1.0.0"

	fromFile := DefaultConfig()
	fromFile.Port = 9000
	fromFile.Version = "2.0.0"
	fromFile.Schema = "legacy"

	Merge(cfg, fromFile, map[string]bool{"port": true})

	if cfg.Port != 1234 {
		t.Errorf("explicit port overwritten: %d", cfg.Port)
	}
	if cfg.Version != "2.0.0" {
		t.Errorf("expected file version, got %q", cfg.Version)
	}
	if cfg.Schema != "legacy" {
		t.Errorf("expected file schema, got %q", cfg.Schema)
	}
}

func TestSplitList(t *testing.T) {
	got := SplitList(" fr, en ,,pt")
	want := []string{"fr", "en", "pt"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("SplitList = %v, want %v", got, want)
	}
}
