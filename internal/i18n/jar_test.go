package i18n

import (
	"archive/zip"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
)

func writeJar(t *testing.T, path string, files map[string]string) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	zw := zip.NewWriter(f)
	for name, body := range files {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := w.Write([]byte(body)); err != nil {
			t.Fatal(err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestLoadJars(t *testing.T) {
	dir := t.TempDir()
	writeJar(t, filepath.Join(dir, "i18n_fr.jar"), map[string]string{
		"META-INF/MANIFEST.MF":      "Manifest-Version: 1.0\n",
		"texts/texts_fr.properties": "content.15.100=Ambition\ncontent.16.100=Augmente les d\\u00e9g\\u00e2ts\ncontent.15.abc=skip\nother.key=ignored\n",
		"texts/texts_de.properties": "content.15.100=Ehrgeiz\n",
	})

	tr := NewTranslations()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	if err := LoadJars(dir, []string{"fr", "en"}, tr, log); err != nil {
		t.Fatalf("LoadJars: %v", err)
	}

	e, ok := tr.Get("fr", 100)
	if !ok {
		t.Fatal("expected fr entry for item 100")
	}
	if e.Name != "Ambition" {
		t.Errorf("expected name 'Ambition', got %q", e.Name)
	}
	if e.Description != "Augmente les dégâts" {
		t.Errorf("expected unescaped description, got %q", e.Description)
	}
	if tr.Len("fr") != 1 {
		t.Errorf("expected 1 fr entry, got %d", tr.Len("fr"))
	}
	if tr.Len("de") != 0 {
		t.Error("expected unrequested language to be skipped")
	}
}

func TestLoadJars_Empty(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	if err := LoadJars(t.TempDir(), []string{"fr"}, NewTranslations(), log); err == nil {
		t.Fatal("expected error when no jars are present")
	}
}
