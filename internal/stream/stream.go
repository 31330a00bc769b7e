// Package stream decodes large JSON array datasets one element at a time.
package stream

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/OCharnyshevich/wakfu-craft/internal/schema"
)

// ErrNotArray is returned when a dataset does not start with '['.
var ErrNotArray = errors.New("dataset is not a JSON array")

// checkEvery is how many elements are decoded between context checks.
const checkEvery = 1024

// Each decodes r as a JSON array of objects and calls fn for every
// element. Only one element is held in memory at a time.
func Each(ctx context.Context, r io.Reader, fn func(i int, raw json.RawMessage) error) error {
	dec := json.NewDecoder(r)

	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("read array start: %w", err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '[' {
		return fmt.Errorf("%w: got %v", ErrNotArray, tok)
	}

	i := 0
	for dec.More() {
		if i%checkEvery == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return fmt.Errorf("element %d: %w", i, err)
		}
		if len(bytes.TrimSpace(raw)) == 0 || bytes.TrimSpace(raw)[0] != '{' {
			return fmt.Errorf("element %d: not an object", i)
		}
		if err := fn(i, raw); err != nil {
			return err
		}
		i++
	}

	if _, err := dec.Token(); err != nil {
		return fmt.Errorf("read array end: %w", err)
	}
	return nil
}

// Collect decodes every row of dataset with decode. The first row is
// validated against the mapping before anything is decoded.
func Collect[T any](ctx context.Context, r io.Reader, m *schema.Mapping, dataset string, decode func([]byte) T) ([]T, error) {
	var out []T
	err := Each(ctx, r, func(i int, raw json.RawMessage) error {
		if i == 0 {
			if err := m.Validate(dataset, raw); err != nil {
				return err
			}
		}
		out = append(out, decode(raw))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", dataset, err)
	}
	return out, nil
}
