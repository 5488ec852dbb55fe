package server

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	apperr "github.com/matzehuels/snapshare/pkg/errors"
	"github.com/matzehuels/snapshare/pkg/storage"
)

func (s *Server) serveFile(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "*")
	data, contentType, err := s.deps.Blobs.Open(r.Context(), key)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		s.writeError(w, r, apperr.New(apperr.ErrCodeNotFound, "File not found"))
		return
	case errors.Is(err, storage.ErrAccessDenied):
		s.writeError(w, r, apperr.New(apperr.ErrCodeForbidden, "Access denied"))
		return
	case err != nil:
		s.writeError(w, r, apperr.Wrap(apperr.ErrCodeInternal, err, "open %s", key))
		return
	}
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.WriteHeader(http.StatusOK)
	if r.Method != http.MethodHead {
		_, _ = w.Write(data)
	}
}
