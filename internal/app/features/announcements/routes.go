// internal/app/features/announcements/routes.go
package announcements

import "github.com/go-chi/chi/v5"

// MountRoutes mounts all announcement routes on the given router.
// The active list is public; everything else takes ?teacher_username=.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/active", h.ListActive)
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
}

// Routes returns a router with all announcement routes mounted.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	h.MountRoutes(r)
	return r
}
