package server

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	apperr "github.com/matzehuels/snapshare/pkg/errors"
	"github.com/matzehuels/snapshare/pkg/event"
	"github.com/matzehuels/snapshare/pkg/storage"
)

// photoView is a photo record with the URL it is served under.
type photoView struct {
	event.Photo
	URL string `json:"url"`
}

type flipbookResponse struct {
	Success     bool   `json:"success"`
	FlipbookURL string `json:"flipbook_url"`
	DocumentURL string `json:"document_url"`
	Pages       int    `json:"pages"`
	Rendered    int    `json:"rendered"`
	Skipped     int    `json:"skipped"`
}

func notFound(err error) error {
	if errors.Is(err, event.ErrNotFound) {
		return apperr.Wrap(apperr.ErrCodeNotFound, err, "Event not found")
	}
	return apperr.Wrap(apperr.ErrCodeInternal, err, "load event")
}

func (s *Server) createEvent(w http.ResponseWriter, r *http.Request) {
	var req event.Create
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if req.LogoURL != "" {
		if err := apperr.ValidateURL(req.LogoURL); err != nil {
			s.writeError(w, r, err)
			return
		}
	}
	ev, err := event.New(hostFromContext(r.Context()), req, s.deps.Now())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.deps.Events.Create(r.Context(), ev); err != nil {
		s.writeError(w, r, apperr.Wrap(apperr.ErrCodeInternal, err, "create event"))
		return
	}
	s.deps.Logger.Info("event created", "event_id", ev.ID, "style", ev.FlipbookStyle)
	writeJSON(w, http.StatusCreated, ev)
}

func (s *Server) listEvents(w http.ResponseWriter, r *http.Request) {
	events, err := s.deps.Events.List(r.Context(), hostFromContext(r.Context()))
	if err != nil {
		s.writeError(w, r, apperr.Wrap(apperr.ErrCodeInternal, err, "list events"))
		return
	}
	if events == nil {
		events = []event.Event{}
	}
	writeJSON(w, http.StatusOK, events)
}

func (s *Server) getEvent(w http.ResponseWriter, r *http.Request) {
	ev, err := s.deps.Events.Get(r.Context(), chi.URLParam(r, "eventID"), hostFromContext(r.Context()))
	if err != nil {
		s.writeError(w, r, notFound(err))
		return
	}
	writeJSON(w, http.StatusOK, ev)
}

func (s *Server) deleteEvent(w http.ResponseWriter, r *http.Request) {
	if err := s.deps.Events.Delete(r.Context(), chi.URLParam(r, "eventID"), hostFromContext(r.Context())); err != nil {
		s.writeError(w, r, notFound(err))
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Event deleted"})
}

func (s *Server) listPhotos(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "eventID")
	if _, err := s.deps.Events.Get(r.Context(), id, hostFromContext(r.Context())); err != nil {
		s.writeError(w, r, notFound(err))
		return
	}
	photos, err := s.deps.Photos.ListByEvent(r.Context(), id)
	if err != nil {
		s.writeError(w, r, apperr.Wrap(apperr.ErrCodeInternal, err, "list photos"))
		return
	}
	views := make([]photoView, 0, len(photos))
	for _, p := range photos {
		views = append(views, photoView{Photo: p, URL: storage.PublicURL(s.deps.PublicURL, p.StorageKey)})
	}
	writeJSON(w, http.StatusOK, views)
}

func (s *Server) createFlipbook(w http.ResponseWriter, r *http.Request) {
	res, err := s.deps.Flipbooks.Build(r.Context(), chi.URLParam(r, "eventID"), hostFromContext(r.Context()))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, flipbookResponse{
		Success:     res.Success,
		FlipbookURL: res.FlipbookURL,
		DocumentURL: res.DocumentURL,
		Pages:       res.Report.Pages,
		Rendered:    res.Report.Rendered,
		Skipped:     len(res.Report.Skipped),
	})
}
