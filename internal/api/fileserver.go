// SPDX-License-Identifier: MIT

package api

import (
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	xlog "github.com/h-iptv/iptv/internal/log"
	"github.com/h-iptv/iptv/internal/metrics"
)

// fileServer serves generated playlists from the data directory. Requests
// are confined to the directory: traversal sequences, directory listings
// and symlink escapes are rejected.
func (s *Server) fileServer() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := xlog.WithComponentFromContext(r.Context(), "api")

		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			s.denyFile(w, logger, r.URL.Path, "method_not_allowed", http.StatusMethodNotAllowed)
			return
		}

		path := r.URL.Path
		if isPathTraversal(path) {
			s.denyFile(w, logger, path, "path_escape", http.StatusForbidden)
			return
		}
		if path == "" || strings.HasSuffix(path, "/") {
			s.denyFile(w, logger, path, "directory_listing", http.StatusForbidden)
			return
		}

		absDataDir, err := filepath.Abs(s.cfg.DataDir)
		if err != nil {
			s.denyFile(w, logger, path, "internal_error", http.StatusInternalServerError)
			return
		}
		fullPath := filepath.Join(absDataDir, filepath.FromSlash(path))

		realPath, err := filepath.EvalSymlinks(fullPath)
		if err != nil {
			if os.IsNotExist(err) {
				s.denyFile(w, logger, path, "not_found", http.StatusNotFound)
				return
			}
			s.denyFile(w, logger, path, "internal_error", http.StatusInternalServerError)
			return
		}
		realDataDir, err := filepath.EvalSymlinks(absDataDir)
		if err != nil {
			s.denyFile(w, logger, path, "internal_error", http.StatusInternalServerError)
			return
		}

		rel, err := filepath.Rel(realDataDir, realPath)
		if err != nil || strings.HasPrefix(rel, "..") || filepath.IsAbs(rel) {
			s.denyFile(w, logger, path, "path_escape", http.StatusForbidden)
			return
		}

		info, err := os.Stat(realPath)
		if err != nil || info.IsDir() {
			s.denyFile(w, logger, path, "not_found", http.StatusNotFound)
			return
		}

		if strings.HasSuffix(realPath, ".m3u") || strings.HasSuffix(realPath, ".m3u8") {
			w.Header().Set("Content-Type", "audio/x-mpegurl")
		}
		http.ServeFile(w, r, realPath)
	})
}

func (s *Server) denyFile(w http.ResponseWriter, logger zerolog.Logger, path, reason string, code int) {
	if reason != "not_found" {
		logger.Warn().
			Str(xlog.FieldEvent, "file_req.denied").
			Str(xlog.FieldPath, path).
			Str("reason", reason).
			Msg("denied playlist file request")
	}
	metrics.FileRequestDenied.WithLabelValues(reason).Inc()
	http.Error(w, http.StatusText(code), code)
}

// isPathTraversal detects traversal sequences, including URL-encoded
// variants and NUL bytes.
func isPathTraversal(path string) bool {
	candidates := []string{path}
	if dec, err := url.PathUnescape(path); err == nil && dec != path {
		candidates = append(candidates, dec)
		// A second decode pass catches double-encoded sequences.
		if dec2, err := url.PathUnescape(dec); err == nil && dec2 != dec {
			candidates = append(candidates, dec2)
		}
	}
	for _, c := range candidates {
		if strings.Contains(c, "\x00") {
			return true
		}
		for _, seg := range strings.Split(strings.ReplaceAll(c, `\`, "/"), "/") {
			if seg == ".." {
				return true
			}
		}
	}
	return false
}
