package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/vango-dev/vitelink/pkg/assets"
)

// ErrorBody is the JSON shape of every error response.
type ErrorBody struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail describes a failed request.
type ErrorDetail struct {
	Kind    string `json:"kind"`
	Path    string `json:"path,omitempty"`
	Message string `json:"message"`
}

// ResolveResponse is returned by GET /assets/resolve.
type ResolveResponse struct {
	File string `json:"file"`
	URL  string `json:"url"`
	Dev  bool   `json:"dev"`
}

// StylesResponse is returned by GET /assets/styles.
type StylesResponse struct {
	File   string   `json:"file"`
	Styles []string `json:"styles"`
}

// StatusResponse is returned by GET /assets/status.
type StatusResponse struct {
	DevServer      bool   `json:"devServer"`
	DevServerURL   string `json:"devServerUrl"`
	DistBaseName   string `json:"distBaseName"`
	ManifestLoaded bool   `json:"manifestLoaded"`
}

// ReloadResponse is returned by POST /assets/reload.
type ReloadResponse struct {
	Reloaded bool `json:"reloaded"`
	Assets   int  `json:"assets"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

func (s *Server) handleResolve(w http.ResponseWriter, r *http.Request) {
	file, ok := s.fileParam(w, r)
	if !ok {
		return
	}

	url, err := s.resolver.Resolve(r.Context(), file)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, ResolveResponse{
		File: file,
		URL:  url,
		Dev:  s.resolver.IsDevServerActive(r.Context()),
	})
}

func (s *Server) handleStyles(w http.ResponseWriter, r *http.Request) {
	file, ok := s.fileParam(w, r)
	if !ok {
		return
	}

	styles, err := s.resolver.StyleURLs(r.Context(), file)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, StylesResponse{File: file, Styles: styles})
}

func (s *Server) handleSnippet(w http.ResponseWriter, r *http.Request) {
	snippet, ok := s.resolver.DevInjectionSnippet(r.Context())
	if !ok {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(snippet))
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	active := s.resolver.IsDevServerActive(r.Context())

	s.writeJSON(w, http.StatusOK, StatusResponse{
		DevServer:      active,
		DevServerURL:   s.resolver.DevServerURL(),
		DistBaseName:   s.resolver.DistBaseName(),
		ManifestLoaded: s.resolver.ManifestLoaded(),
	})
}

func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	if err := s.resolver.LoadManifest(r.Context(), ""); err != nil {
		s.writeError(w, r, err)
		return
	}

	m, err := s.resolver.Manifest(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.logger.Info("manifest reloaded", "assets", m.Len())
	s.writeJSON(w, http.StatusOK, ReloadResponse{Reloaded: true, Assets: m.Len()})
}

// fileParam reads the required "file" query parameter.
func (s *Server) fileParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	file := r.URL.Query().Get("file")
	if file == "" {
		s.writeJSON(w, http.StatusBadRequest, ErrorBody{Error: ErrorDetail{
			Kind:    "BadRequest",
			Message: `missing required query parameter "file"`,
		}})
		return "", false
	}
	return file, true
}

// statusFor maps resolver errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, assets.ErrAssetNotFound):
		return http.StatusNotFound
	case errors.Is(err, assets.ErrManifestNotFound), errors.Is(err, assets.ErrInvalidManifest):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)

	detail := ErrorDetail{Kind: "Internal", Message: err.Error()}
	var ae *assets.Error
	if errors.As(err, &ae) {
		detail.Kind = ae.Kind.String()
		detail.Path = ae.Path
	}

	if status >= http.StatusInternalServerError {
		s.logger.Warn("asset request failed", "path", r.URL.Path, "status", status, "error", err)
	}
	s.writeJSON(w, status, ErrorBody{Error: detail})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("encode response", "error", err)
	}
}
