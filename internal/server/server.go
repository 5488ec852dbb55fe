// Package server implements the snapshare HTTP API.
//
// Hosts manage events and trigger flipbook builds under /api/events; guests
// reach an event through its share code under /api/guest. Guest uploads are
// two-step: the guest asks for an upload URL, PUTs the photo bytes to it,
// then records the upload with track-upload. Stored blobs, including sealed
// flipbook documents, are served publicly under /files/.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/matzehuels/snapshare/pkg/cache"
	"github.com/matzehuels/snapshare/pkg/event"
	"github.com/matzehuels/snapshare/pkg/flipbook"
	"github.com/matzehuels/snapshare/pkg/session"
	"github.com/matzehuels/snapshare/pkg/storage"
)

// DefaultMaxUploadBytes bounds a single photo upload.
const DefaultMaxUploadBytes = 25 << 20

// Builder runs flipbook builds. It is satisfied by *flipbook.Runner.
type Builder interface {
	Build(ctx context.Context, eventID, hostID string) (*flipbook.Result, error)
}

// Deps are the collaborators of a Server. Cache holds upload tickets and
// must be shared by every replica behind a load balancer.
type Deps struct {
	Events    event.Events
	Photos    event.Photos
	Sessions  session.Store
	Blobs     storage.BlobStore
	Cache     cache.Cache
	Keyer     cache.Keyer
	Flipbooks Builder

	PublicURL      string
	CORSOrigins    []string
	MaxUploadBytes int64
	Logger         *log.Logger
	Now            func() time.Time
}

// Server is the HTTP API.
type Server struct {
	deps   Deps
	router chi.Router
}

// New creates a Server and registers its routes.
func New(d Deps) *Server {
	if d.Keyer == nil {
		d.Keyer = cache.NewDefaultKeyer()
	}
	if d.MaxUploadBytes <= 0 {
		d.MaxUploadBytes = DefaultMaxUploadBytes
	}
	if d.Logger == nil {
		d.Logger = log.Default()
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	s := &Server{deps: d}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(s.deps.Logger))
	r.Use(middleware.Recoverer)
	r.Use(cors(s.deps.CORSOrigins))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Get("/files/*", s.serveFile)

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.With(s.requireHost).Get("/me", s.me)
			r.Post("/logout", s.logout)
		})

		r.Route("/events", func(r chi.Router) {
			r.Use(s.requireHost)
			r.Post("/", s.createEvent)
			r.Get("/", s.listEvents)
			r.Get("/{eventID}", s.getEvent)
			r.Delete("/{eventID}", s.deleteEvent)
			r.Get("/{eventID}/photos", s.listPhotos)
			r.Post("/{eventID}/create-flipbook", s.createFlipbook)
		})

		r.Route("/guest/{share}", func(r chi.Router) {
			r.Get("/", s.guestEvent)
			r.Get("/limit", s.guestLimit)
			r.Post("/upload-url", s.uploadURL)
			r.Post("/track-upload", s.trackUpload)
		})

		r.Put("/uploads/{token}", s.receiveUpload)
	})
	return r
}

// ServeHTTP implements http.Handler without tracing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Handler returns the API wrapped in OpenTelemetry server instrumentation.
func (s *Server) Handler() http.Handler {
	return otelhttp.NewHandler(s.router, "snapshare.api")
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		s.deps.Logger.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 15*time.Second)
		defer cancel()
		s.deps.Logger.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}
