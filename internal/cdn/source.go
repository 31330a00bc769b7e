// Package cdn resolves the current game data version and opens datasets,
// either from the Ankama CDN or from a local mirror directory.
package cdn

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// Source provides versioned datasets.
type Source interface {
	// Version returns the game data version currently published.
	Version(ctx context.Context) (string, error)
	// Open returns the body of {version}/{dataset}.json.
	Open(ctx context.Context, version, dataset string) (io.ReadCloser, error)
}

// configDoc is the shape of config.json.
type configDoc struct {
	Version string `json:"version"`
}

// NewSource returns an HTTP client for URLs and a Dir for local paths.
func NewSource(source string, opts Options, log *slog.Logger) (Source, error) {
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		return NewClient(source, opts, log), nil
	}
	fi, err := os.Stat(source)
	if err != nil {
		return nil, fmt.Errorf("open mirror %s: %w", source, err)
	}
	if !fi.IsDir() {
		return nil, fmt.Errorf("mirror %s is not a directory", source)
	}
	return Dir(source), nil
}

// DatasetPath returns the path of a dataset relative to the base.
func DatasetPath(version, dataset string) string {
	return version + "/" + dataset + ".json"
}
