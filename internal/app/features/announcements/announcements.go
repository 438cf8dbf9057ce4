// internal/app/features/announcements/announcements.go
package announcements

import (
	"encoding/json"
	"net/http"

	"github.com/dalemusser/schoolhub/internal/app/system/apierr"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

const maxBodyBytes = 64 << 10

// teacherParam is the query parameter naming the acting teacher.
const teacherParam = "teacher_username"

// teacherOf returns the acting teacher's username exactly as sent.
func teacherOf(r *http.Request) string {
	return r.URL.Query().Get(teacherParam)
}

// ListActive returns the announcements visible today.
func (h *Handler) ListActive(w http.ResponseWriter, r *http.Request) {
	items, err := h.Service.ListActive(r.Context())
	if err != nil {
		apierr.Write(w, r, h.Log, err)
		return
	}
	h.writeJSON(w, r, http.StatusOK, items)
}

// List returns every announcement.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.Service.ListAll(r.Context(), teacherOf(r))
	if err != nil {
		apierr.Write(w, r, h.Log, err)
		return
	}
	h.writeJSON(w, r, http.StatusOK, items)
}

// Create stores a new announcement.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	p, ok := h.decodePayload(w, r)
	if !ok {
		return
	}
	teacher := teacherOf(r)

	created, err := h.Service.Create(r.Context(), teacher, p)
	if err != nil {
		apierr.Write(w, r, h.Log, err)
		return
	}
	h.Audit.AnnouncementCreated(r.Context(), r, teacher, created)
	h.writeJSON(w, r, http.StatusOK, created)
}

// Update replaces an announcement's content.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	p, ok := h.decodePayload(w, r)
	if !ok {
		return
	}
	teacher := teacherOf(r)

	updated, err := h.Service.Update(r.Context(), teacher, chi.URLParam(r, "id"), p)
	if err != nil {
		apierr.Write(w, r, h.Log, err)
		return
	}
	h.Audit.AnnouncementUpdated(r.Context(), r, teacher, updated)
	h.writeJSON(w, r, http.StatusOK, updated)
}

// Delete removes an announcement.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	teacher := teacherOf(r)

	deleted, err := h.Service.Delete(r.Context(), teacher, chi.URLParam(r, "id"))
	if err != nil {
		apierr.Write(w, r, h.Log, err)
		return
	}
	h.Audit.AnnouncementDeleted(r.Context(), r, teacher, deleted)
	h.writeJSON(w, r, http.StatusOK, map[string]string{"message": "Announcement deleted"})
}

func (h *Handler) decodePayload(w http.ResponseWriter, r *http.Request) (Payload, bool) {
	var p Payload
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&p); err != nil {
		h.Log.Debug("malformed announcement body", zap.Error(err), zap.String("path", r.URL.Path))
		apierr.Write(w, r, h.Log, apierr.InvalidInput("Request body must be a JSON announcement"))
		return Payload{}, false
	}
	return p, true
}

func (h *Handler) writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.Log.Warn("failed to write response", zap.Error(err), zap.String("path", r.URL.Path))
	}
}
