package api

import (
	"bytes"
	"io/fs"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
)

// handleData serves an artifact from the data directory, or the embedded
// sample of the same name when the artifact is missing, empty or an empty
// JSON array.
func (s *Server) handleData(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimPrefix(path.Clean("/"+chi.URLParam(r, "*")), "/")
	if name == "" || strings.Contains(name, "/") || !strings.HasSuffix(name, ".json") {
		respondError(w, http.StatusNotFound, "Artifact not found")
		return
	}

	p := filepath.Join(s.st.Dir(), name)
	if hasContent(p) {
		http.ServeFile(w, r, p)
		return
	}

	sub, err := fs.Sub(fallbackFS, "fallback")
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Fallback dataset unavailable")
		return
	}
	if _, err := fs.Stat(sub, name); err != nil {
		respondError(w, http.StatusNotFound, "Artifact not found")
		return
	}
	w.Header().Set("X-Data-Fallback", "true")
	http.ServeFileFS(w, r, sub, name)
}

// maxEmptySize bounds the files read to look for an empty array.
const maxEmptySize = 64

func hasContent(p string) bool {
	fi, err := os.Stat(p)
	if err != nil || !fi.Mode().IsRegular() || fi.Size() == 0 {
		return false
	}
	if fi.Size() > maxEmptySize {
		return true
	}
	data, err := os.ReadFile(p)
	if err != nil {
		return false
	}
	data = bytes.TrimSpace(data)
	if len(data) < 2 || data[0] != '[' || data[len(data)-1] != ']' {
		return len(data) > 0
	}
	return len(bytes.TrimSpace(data[1:len(data)-1])) > 0
}
