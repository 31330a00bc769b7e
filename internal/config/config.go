package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"
)

// Config holds the settings shared by the sync, check and server commands.
type Config struct {
	CDNBase     string   `json:"cdn_base"`
	Source      string   `json:"source"`  // CDN base URL or local mirror directory; empty means CDNBase
	Version     string   `json:"version"` // pinned CDN version; empty resolves config.json
	Schema      string   `json:"schema"`
	Langs       []string `json:"langs"`
	PrimaryLang string   `json:"primary_lang"`
	OutDir      string   `json:"out_dir"`

	SublimationsPath   string `json:"sublimations"`
	AliasesPath        string `json:"aliases"`
	JarsPath           string `json:"jars"`
	SublimationTypeIDs []int  `json:"sublimation_type_ids"`

	DBPath string `json:"db"`
	Force  bool   `json:"force"`

	RateLimit        float64 `json:"rate_limit"` // requests per second
	Burst            int     `json:"burst"`
	FetchConcurrency int     `json:"fetch_concurrency"`
	TimeoutSeconds   int     `json:"timeout_seconds"`

	Port              int    `json:"port"`
	XPCurvePath       string `json:"xp_curve"`
	ExceptionsPath    string `json:"exceptions"`
	ResourcesPerCraft int    `json:"resources_per_craft"`
}

// DefaultCDNBase is the public Ankama game data endpoint.
const DefaultCDNBase = "https://wakfu.cdn.ankama.com/gamedata"

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		CDNBase:            DefaultCDNBase,
		Schema:             "current",
		Langs:              []string{"fr", "en", "es", "pt"},
		PrimaryLang:        "en",
		OutDir:             "public/data",
		SublimationsPath:   "data/sublimations.base.json",
		AliasesPath:        "data/aliases.yaml",
		SublimationTypeIDs: []int{812},
		RateLimit:          4,
		Burst:              2,
		FetchConcurrency:   2,
		TimeoutSeconds:     120,
		Port:               8080,
		ResourcesPerCraft:  5,
	}
}

// Timeout returns the HTTP timeout as a duration.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// SourceOrBase returns where datasets are read from.
func (c *Config) SourceOrBase() string {
	if c.Source != "" {
		return c.Source
	}
	return c.CDNBase
}

// Validate reports settings that cannot produce a usable run.
func (c *Config) Validate() error {
	if len(c.Langs) == 0 {
		return fmt.Errorf("at least one language is required")
	}
	found := false
	for _, l := range c.Langs {
		if l == c.PrimaryLang {
			found = true
		}
	}
	if !found {
		return fmt.Errorf("primary language %q is not in %v", c.PrimaryLang, c.Langs)
	}
	if c.RateLimit <= 0 {
		return fmt.Errorf("rate limit must be positive, got %v", c.RateLimit)
	}
	if c.FetchConcurrency < 1 {
		return fmt.Errorf("fetch concurrency must be at least 1, got %d", c.FetchConcurrency)
	}
	if c.ResourcesPerCraft < 0 {
		return fmt.Errorf("resources per craft must not be negative, got %d", c.ResourcesPerCraft)
	}
	return nil
}

// Load reads a JSON config file on top of the defaults. The path is always
// one the user asked for, so a missing file is an error wrapping
// fs.ErrNotExist.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// SplitList parses a comma separated flag value.
func SplitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Merge applies file-loaded config values into cfg, but only for fields
// that were NOT explicitly set via CLI flags. explicitFlags contains the
// flag names that were explicitly provided on the command line.
func Merge(cfg *Config, fromFile *Config, explicitFlags map[string]bool) {
	if !explicitFlags["cdn"] {
		cfg.CDNBase = fromFile.CDNBase
	}
	if !explicitFlags["source"] {
		cfg.Source = fromFile.Source
	}
	if !explicitFlags["version"] {
		cfg.Version = fromFile.Version
	}
	if !explicitFlags["schema"] {
		cfg.Schema = fromFile.Schema
	}
	if !explicitFlags["langs"] {
		cfg.Langs = fromFile.Langs
	}
	if !explicitFlags["lang"] {
		cfg.PrimaryLang = fromFile.PrimaryLang
	}
	if !explicitFlags["out"] && !explicitFlags["data"] {
		cfg.OutDir = fromFile.OutDir
	}
	if !explicitFlags["sublimations"] {
		cfg.SublimationsPath = fromFile.SublimationsPath
	}
	if !explicitFlags["aliases"] {
		cfg.AliasesPath = fromFile.AliasesPath
	}
	if !explicitFlags["jars"] {
		cfg.JarsPath = fromFile.JarsPath
	}
	if !explicitFlags["db"] {
		cfg.DBPath = fromFile.DBPath
	}
	if !explicitFlags["force"] {
		cfg.Force = fromFile.Force
	}
	if !explicitFlags["rate"] {
		cfg.RateLimit = fromFile.RateLimit
	}
	if !explicitFlags["concurrency"] {
		cfg.FetchConcurrency = fromFile.FetchConcurrency
	}
	if !explicitFlags["port"] {
		cfg.Port = fromFile.Port
	}
	if !explicitFlags["xp-curve"] {
		cfg.XPCurvePath = fromFile.XPCurvePath
	}
	if !explicitFlags["exceptions"] {
		cfg.ExceptionsPath = fromFile.ExceptionsPath
	}
	cfg.Burst = fromFile.Burst
	cfg.TimeoutSeconds = fromFile.TimeoutSeconds
	cfg.SublimationTypeIDs = fromFile.SublimationTypeIDs
	cfg.ResourcesPerCraft = fromFile.ResourcesPerCraft
}
