package server

import (
	"bytes"
	"errors"
	"io/fs"
	"net/http"
	"path"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
)

// Cache-Control values for served build outputs.
const (
	cacheImmutable   = "public, max-age=31536000, immutable"
	cacheRevalidated = "public, max-age=3600, must-revalidate"
)

// staticRelPath returns a sanitized path relative to the output directory.
// It rejects traversal, absolute paths and hidden segments, which keeps
// .vite/manifest.json private.
func staticRelPath(rel string) (string, bool) {
	if rel == "" {
		return "", false
	}

	// Reject NUL early (can appear via %00).
	if strings.IndexByte(rel, 0) != -1 {
		return "", false
	}

	// Reject platform-dependent separators.
	if strings.Contains(rel, "\\") {
		return "", false
	}

	// After prefix stripping, a leading "/" indicates an absolute-path attempt.
	if strings.HasPrefix(rel, "/") {
		return "", false
	}

	for _, seg := range strings.Split(rel, "/") {
		if seg == "" || strings.HasPrefix(seg, ".") {
			return "", false
		}
	}

	clean := path.Clean(rel)
	osPath := filepath.FromSlash(clean)
	if filepath.IsAbs(osPath) || filepath.VolumeName(osPath) != "" {
		return "", false
	}

	return clean, true
}

// handleStatic serves files of the output directory through the resolver's
// file system. Files the manifest references are content-hashed and cached
// for a year.
func (s *Server) handleStatic(w http.ResponseWriter, r *http.Request) {
	rel, ok := staticRelPath(chi.URLParam(r, "*"))
	if !ok {
		http.NotFound(w, r)
		return
	}

	fsys := s.resolver.FileSystem()
	name := path.Join(filepath.ToSlash(s.resolver.Config().Dist), rel)

	info, err := fsys.Stat(name)
	if err != nil || info.IsDir() {
		http.NotFound(w, r)
		return
	}
	data, err := fsys.ReadFile(name)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			s.logger.Warn("read build output", "file", name, "error", err)
		}
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Cache-Control", cacheRevalidated)
	if m, err := s.resolver.Manifest(r.Context()); err == nil && m.Emitted(rel) {
		w.Header().Set("Cache-Control", cacheImmutable)
	}

	http.ServeContent(w, r, rel, info.ModTime(), bytes.NewReader(data))
}
