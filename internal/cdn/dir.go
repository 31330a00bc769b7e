package cdn

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Dir reads a mirror laid out like the CDN: config.json at the root and
// one directory per version.
type Dir string

func (d Dir) Version(ctx context.Context) (string, error) {
	data, err := os.ReadFile(filepath.Join(string(d), "config.json"))
	if err != nil {
		return "", fmt.Errorf("read mirror config: %w", err)
	}
	var doc configDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return "", fmt.Errorf("parse mirror config: %w", err)
	}
	if doc.Version == "" {
		return "", fmt.Errorf("parse mirror config: empty version")
	}
	return doc.Version, nil
}

func (d Dir) Open(ctx context.Context, version, dataset string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(filepath.Join(string(d), filepath.FromSlash(DatasetPath(version, dataset))))
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", dataset, err)
	}
	return f, nil
}
