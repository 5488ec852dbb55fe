package server

import (
	"context"
	"errors"
	"net/http"
	"strings"

	apperr "github.com/matzehuels/snapshare/pkg/errors"
	"github.com/matzehuels/snapshare/pkg/session"
)

// SessionCookie is the cookie carrying a host session token.
const SessionCookie = "session_token"

type hostKey struct{}

func hostFromContext(ctx context.Context) string {
	id, _ := ctx.Value(hostKey{}).(string)
	return id
}

func sessionToken(r *http.Request) string {
	if c, err := r.Cookie(SessionCookie); err == nil && c.Value != "" {
		return c.Value
	}
	if auth := r.Header.Get("Authorization"); strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
	}
	return ""
}

func (s *Server) authenticate(r *http.Request) (*session.Session, error) {
	token := sessionToken(r)
	if token == "" {
		return nil, apperr.New(apperr.ErrCodeUnauthorized, "Not authenticated")
	}
	sess, err := s.deps.Sessions.Get(r.Context(), token)
	switch {
	case errors.Is(err, session.ErrExpired):
		return nil, apperr.New(apperr.ErrCodeUnauthorized, "Session expired")
	case errors.Is(err, session.ErrNotFound):
		return nil, apperr.New(apperr.ErrCodeUnauthorized, "Invalid session")
	case err != nil:
		return nil, apperr.Wrap(apperr.ErrCodeInternal, err, "load session")
	}
	return sess, nil
}

// requireHost rejects requests without a valid host session.
func (s *Server) requireHost(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, err := s.authenticate(r)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		ctx := context.WithValue(r.Context(), hostKey{}, sess.UserID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *Server) me(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"user_id": hostFromContext(r.Context())})
}

func (s *Server) logout(w http.ResponseWriter, r *http.Request) {
	if token := sessionToken(r); token != "" {
		if err := s.deps.Sessions.Delete(r.Context(), token); err != nil {
			s.writeError(w, r, apperr.Wrap(apperr.ErrCodeInternal, err, "delete session"))
			return
		}
	}
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteNoneMode,
	})
	writeJSON(w, http.StatusOK, map[string]string{"message": "Logged out"})
}
