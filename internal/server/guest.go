package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/matzehuels/snapshare/pkg/cache"
	apperr "github.com/matzehuels/snapshare/pkg/errors"
	"github.com/matzehuels/snapshare/pkg/event"
)

type guestEventView struct {
	ID         string `json:"event_id"`
	Name       string `json:"name"`
	Date       string `json:"date"`
	LogoURL    string `json:"logo_url,omitempty"`
	FilterType string `json:"filter_type"`
	MaxPhotos  int    `json:"max_photos"`
}

type limitView struct {
	Used      int `json:"used"`
	Max       int `json:"max"`
	Remaining int `json:"remaining"`
}

type uploadURLRequest struct {
	DeviceID    string `json:"device_id"`
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
}

type uploadURLResponse struct {
	URL       string `json:"url"`
	ObjectKey string `json:"object_key"`
	ExpiresIn int    `json:"expires_in"`
}

type trackUploadRequest struct {
	DeviceID string `json:"device_id"`
	Filename string `json:"filename"`
	Key      string `json:"s3_key"`
	Note     string `json:"note,omitempty"`
}

// uploadTicket is what an issued upload token resolves to.
type uploadTicket struct {
	EventID     string `json:"event_id"`
	Key         string `json:"key"`
	ContentType string `json:"content_type"`
}

func (s *Server) shareEvent(r *http.Request) (event.Event, error) {
	ev, err := s.deps.Events.GetByShareCode(r.Context(), chi.URLParam(r, "share"))
	if err != nil {
		return event.Event{}, notFound(err)
	}
	return ev, nil
}

func (s *Server) deviceLimit(r *http.Request, ev event.Event, deviceID string) (limitView, error) {
	used, err := s.deps.Photos.CountByDevice(r.Context(), ev.ID, deviceID)
	if err != nil {
		return limitView{}, apperr.Wrap(apperr.ErrCodeInternal, err, "count uploads")
	}
	return limitView{Used: used, Max: ev.MaxPhotos, Remaining: max(ev.MaxPhotos-used, 0)}, nil
}

func validDevice(id string) error {
	if err := apperr.ValidateFilename(id); err != nil {
		return apperr.New(apperr.ErrCodeInvalidInput, "invalid device_id")
	}
	return nil
}

func photoPrefix(eventID, deviceID string) string {
	return fmt.Sprintf("events/%s/photos/%s/", eventID, deviceID)
}

func (s *Server) guestEvent(w http.ResponseWriter, r *http.Request) {
	ev, err := s.shareEvent(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, guestEventView{
		ID:         ev.ID,
		Name:       ev.Name,
		Date:       ev.Date,
		LogoURL:    ev.LogoURL,
		FilterType: ev.FilterType,
		MaxPhotos:  ev.MaxPhotos,
	})
}

func (s *Server) guestLimit(w http.ResponseWriter, r *http.Request) {
	deviceID := r.URL.Query().Get("device_id")
	if err := validDevice(deviceID); err != nil {
		s.writeError(w, r, err)
		return
	}
	ev, err := s.shareEvent(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	limit, err := s.deviceLimit(r, ev, deviceID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, limit)
}

func (s *Server) uploadURL(w http.ResponseWriter, r *http.Request) {
	var req uploadURLRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := validDevice(req.DeviceID); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := apperr.ValidateFilename(req.Filename); err != nil {
		s.writeError(w, r, err)
		return
	}
	ev, err := s.shareEvent(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	limit, err := s.deviceLimit(r, ev, req.DeviceID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if limit.Remaining == 0 {
		s.writeError(w, r, apperr.New(apperr.ErrCodeForbidden, "Photo limit reached"))
		return
	}

	key := fmt.Sprintf("%s%d-%s", photoPrefix(ev.ID, req.DeviceID), s.deps.Now().UnixMilli(), req.Filename)
	if err := apperr.ValidateStorageKey(key); err != nil {
		s.writeError(w, r, err)
		return
	}
	contentType := req.ContentType
	if contentType == "" {
		contentType = "image/jpeg"
	}
	ticket, err := json.Marshal(uploadTicket{EventID: ev.ID, Key: key, ContentType: contentType})
	if err != nil {
		s.writeError(w, r, apperr.Wrap(apperr.ErrCodeInternal, err, "encode upload ticket"))
		return
	}
	token := uuid.NewString()
	if err := s.deps.Cache.Set(r.Context(), s.deps.Keyer.UploadKey(token), ticket, cache.UploadTTL); err != nil {
		s.writeError(w, r, apperr.Wrap(apperr.ErrCodeInternal, err, "store upload ticket"))
		return
	}
	writeJSON(w, http.StatusOK, uploadURLResponse{
		URL:       strings.TrimRight(s.deps.PublicURL, "/") + "/api/uploads/" + token,
		ObjectKey: key,
		ExpiresIn: int(cache.UploadTTL.Seconds()),
	})
}

func (s *Server) receiveUpload(w http.ResponseWriter, r *http.Request) {
	cacheKey := s.deps.Keyer.UploadKey(chi.URLParam(r, "token"))
	raw, ok, err := s.deps.Cache.Get(r.Context(), cacheKey)
	if err != nil {
		s.writeError(w, r, apperr.Wrap(apperr.ErrCodeInternal, err, "load upload ticket"))
		return
	}
	var ticket uploadTicket
	if !ok || json.Unmarshal(raw, &ticket) != nil {
		s.writeError(w, r, apperr.New(apperr.ErrCodeNotFound, "Upload URL expired or unknown"))
		return
	}

	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.deps.MaxUploadBytes))
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		s.writeError(w, r, apperr.New(apperr.ErrCodeInvalidInput, "photo exceeds %d bytes", s.deps.MaxUploadBytes))
		return
	case err != nil:
		s.writeError(w, r, apperr.Wrap(apperr.ErrCodeInvalidInput, err, "read upload"))
		return
	case len(data) == 0:
		s.writeError(w, r, apperr.New(apperr.ErrCodeInvalidInput, "empty upload"))
		return
	}

	if _, err := s.deps.Blobs.Put(r.Context(), ticket.Key, data, ticket.ContentType); err != nil {
		s.writeError(w, r, apperr.Wrap(apperr.ErrCodeUpload, err, "store photo"))
		return
	}
	if err := s.deps.Cache.Delete(r.Context(), cacheKey); err != nil {
		s.deps.Logger.Warn("deleting upload ticket", "error", err)
	}
	s.deps.Logger.Debug("photo stored", "event_id", ticket.EventID, "key", ticket.Key, "bytes", len(data))
	writeJSON(w, http.StatusOK, map[string]string{"object_key": ticket.Key})
}

func (s *Server) trackUpload(w http.ResponseWriter, r *http.Request) {
	var req trackUploadRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := validDevice(req.DeviceID); err != nil {
		s.writeError(w, r, err)
		return
	}
	ev, err := s.shareEvent(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if !strings.HasPrefix(req.Key, photoPrefix(ev.ID, req.DeviceID)) {
		s.writeError(w, r, apperr.New(apperr.ErrCodeInvalidInput, "object key does not belong to this device"))
		return
	}
	if err := apperr.ValidateStorageKey(req.Key); err != nil {
		s.writeError(w, r, err)
		return
	}
	limit, err := s.deviceLimit(r, ev, req.DeviceID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if limit.Remaining == 0 {
		s.writeError(w, r, apperr.New(apperr.ErrCodeForbidden, "Photo limit reached"))
		return
	}

	p := event.Photo{
		ID:         event.NewPhotoID(),
		EventID:    ev.ID,
		DeviceID:   req.DeviceID,
		Filename:   req.Filename,
		StorageKey: req.Key,
		Note:       req.Note,
		UploadedAt: s.deps.Now().UTC(),
	}
	if err := s.deps.Photos.Create(r.Context(), p); err != nil {
		s.writeError(w, r, apperr.Wrap(apperr.ErrCodeInternal, err, "record photo"))
		return
	}
	writeJSON(w, http.StatusOK, p)
}
