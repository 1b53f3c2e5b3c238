package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/JonMunkholm/printvault/internal/core"
	"github.com/JonMunkholm/printvault/internal/storage"
	"github.com/JonMunkholm/printvault/internal/web/views"
)

// handleSearchCatalog lists catalog entries matching ?q= across all fields.
func (s *Server) handleSearchCatalog(w http.ResponseWriter, r *http.Request) {
	entries, err := s.service.SearchCatalog(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	if isHTMX(r) {
		views.CatalogRows(entries).Render(r.Context(), w)
		return
	}
	writeJSON(w, r, http.StatusOK, entries)
}

// handleQuickSearch matches ?q= against name and manufacturer code only.
func (s *Server) handleQuickSearch(w http.ResponseWriter, r *http.Request) {
	entries, err := s.service.QuickSearch(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	if isHTMX(r) {
		views.CatalogRows(entries).Render(r.Context(), w)
		return
	}
	writeJSON(w, r, http.StatusOK, entries)
}

// handlePaintStatus reports whether a paint is owned and/or wishlisted.
func (s *Server) handlePaintStatus(w http.ResponseWriter, r *http.Request) {
	status, err := s.service.PaintStatus(r.Context(), chi.URLParam(r, "catalogID"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, status)
}

// handleListInventory lists one bucket: /api/inventory/owned or /wishlist.
func (s *Server) handleListInventory(w http.ResponseWriter, r *http.Request) {
	status, err := parseStatusParam(chi.URLParam(r, "status"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	items, err := s.service.ListInventory(r.Context(), status)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	if isHTMX(r) {
		views.InventoryRows(status, items).Render(r.Context(), w)
		return
	}
	writeJSON(w, r, http.StatusOK, items)
}

// handleImportStatus returns the current state of the import limiter.
func (s *Server) handleImportStatus(w http.ResponseWriter, r *http.Request) {
	l := s.service.Limiter()
	writeJSON(w, r, http.StatusOK, map[string]int{
		"active":    l.ActiveCount(),
		"available": l.Available(),
	})
}

// handleHealth pings the database when the store has one.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if p, ok := s.service.Store().(storage.Pinger); ok {
		if err := p.Ping(r.Context()); err != nil {
			writeJSON(w, r, http.StatusServiceUnavailable, map[string]string{
				"status": "unavailable",
				"error":  core.FormatUserError(err),
			})
			return
		}
	}
	writeJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}
