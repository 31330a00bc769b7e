package i18n

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	getter "github.com/hashicorp/go-getter"
	"github.com/magiconair/properties"
)

// Key prefixes of the client text bundles.
const (
	itemNamePrefix        = "content.15."
	itemDescriptionPrefix = "content.16."
)

var textsFile = regexp.MustCompile(`^texts_([a-z]{2})\.properties$`)

// LoadJars unpacks every .jar under dir and reads the item names and
// descriptions of the texts_<lang>.properties bundles into t. Only the
// languages in langs are kept.
func LoadJars(dir string, langs []string, t *Translations, log *slog.Logger) error {
	jars, err := filepath.Glob(filepath.Join(dir, "*.jar"))
	if err != nil {
		return fmt.Errorf("list jars: %w", err)
	}
	if len(jars) == 0 {
		return fmt.Errorf("no .jar archives in %s", dir)
	}

	tmp, err := os.MkdirTemp("", "wakfu-jars-")
	if err != nil {
		return fmt.Errorf("create temp dir: %w", err)
	}
	defer os.RemoveAll(tmp)

	wanted := make(map[string]bool, len(langs))
	for _, l := range langs {
		wanted[l] = true
	}

	// Bundles can be big but never hold more than a few thousand files.
	zd := &getter.ZipDecompressor{FilesLimit: 10000, FileSizeLimit: 512 << 20}
	for i, jar := range jars {
		dst := filepath.Join(tmp, strconv.Itoa(i))
		if err := zd.Decompress(dst, jar, true, 0); err != nil {
			return fmt.Errorf("unpack %s: %w", filepath.Base(jar), err)
		}

		err := filepath.WalkDir(dst, func(path string, d fs.DirEntry, err error) error {
			if err != nil || d.IsDir() {
				return err
			}
			m := textsFile.FindStringSubmatch(d.Name())
			if m == nil || !wanted[m[1]] {
				return nil
			}
			n, err := loadBundle(path, m[1], t)
			if err != nil {
				return err
			}
			log.Info("loaded text bundle", "jar", filepath.Base(jar), "lang", m[1], "entries", n)
			return nil
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func loadBundle(path, lang string, t *Translations) (int, error) {
	p, err := properties.LoadFile(path, properties.UTF8)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}

	n := 0
	for _, key := range p.Keys() {
		var field func(string) Entry
		var rest string
		switch {
		case strings.HasPrefix(key, itemNamePrefix):
			rest = strings.TrimPrefix(key, itemNamePrefix)
			field = func(v string) Entry { return Entry{Name: v} }
		case strings.HasPrefix(key, itemDescriptionPrefix):
			rest = strings.TrimPrefix(key, itemDescriptionPrefix)
			field = func(v string) Entry { return Entry{Description: v} }
		default:
			continue
		}
		id, err := strconv.Atoi(rest)
		if err != nil {
			continue
		}
		v, _ := p.Get(key)
		t.Set(lang, id, field(v))
		n++
	}
	return n, nil
}
