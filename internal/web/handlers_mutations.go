package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/JonMunkholm/printvault/internal/admin"
	"github.com/JonMunkholm/printvault/internal/core"
	"github.com/JonMunkholm/printvault/internal/web/views"
)

// outcomeStatus is 201 when an entry was created and 200 when one was bumped.
func outcomeStatus(o core.AddOutcome) int {
	if o.Kind == core.AddedNew {
		return http.StatusCreated
	}
	return http.StatusOK
}

// handleAddPaint resolves or creates a paint and adds it to a bucket.
func (s *Server) handleAddPaint(w http.ResponseWriter, r *http.Request) {
	req, err := decodeAddPaint(w, r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	ctx := WithRequestMetadata(r.Context(), r)
	res, err := s.service.AddPaint(ctx, req)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	if isHTMX(r) {
		w.Header().Set("HX-Trigger", "inventoryChanged")
		w.WriteHeader(outcomeStatus(res.Outcome))
		views.AddOutcome(res.Paint.Name, res.Outcome).Render(r.Context(), w)
		return
	}
	writeJSON(w, r, outcomeStatus(res.Outcome), res)
}

// handleQuickAdd adds one unit of an existing catalog paint.
func (s *Server) handleQuickAdd(w http.ResponseWriter, r *http.Request) {
	req, err := decodeQuickAdd(w, r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	status, _ := core.ParseStatus(req.Status)

	ctx := WithRequestMetadata(r.Context(), r)
	outcome, err := s.service.QuickAdd(ctx, req.CatalogID, status)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	if isHTMX(r) {
		name := req.CatalogID
		if paint, err := s.service.Store().GetCatalogEntry(ctx, req.CatalogID); err == nil {
			name = paint.Name
		}
		w.Header().Set("HX-Trigger", "inventoryChanged")
		w.WriteHeader(outcomeStatus(outcome))
		views.AddOutcome(name, outcome).Render(r.Context(), w)
		return
	}
	writeJSON(w, r, outcomeStatus(outcome), outcome)
}

// handleMarkBought moves a wishlist entry into the owned bucket.
func (s *Server) handleMarkBought(w http.ResponseWriter, r *http.Request) {
	ctx := WithRequestMetadata(r.Context(), r)
	outcome, err := s.service.MarkBought(ctx, chi.URLParam(r, "entryID"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	if isHTMX(r) {
		// The wishlist row is gone; swap it out for nothing.
		w.Header().Set("HX-Trigger", "inventoryChanged")
		w.WriteHeader(http.StatusOK)
		return
	}
	writeJSON(w, r, http.StatusOK, outcome)
}

// handleRemoveEntry deletes one inventory entry.
func (s *Server) handleRemoveEntry(w http.ResponseWriter, r *http.Request) {
	ctx := WithRequestMetadata(r.Context(), r)
	if err := s.service.RemoveInventoryEntry(ctx, chi.URLParam(r, "entryID")); err != nil {
		s.respondError(w, r, err)
		return
	}

	if isHTMX(r) {
		w.WriteHeader(http.StatusOK)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleReset clears inventory (?scope=inventory) or everything (?scope=all).
func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	scope, err := admin.ParseScope(r.URL.Query().Get("scope"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	ctx := WithRequestMetadata(r.Context(), r)
	res, err := s.resetter.Reset(ctx, scope)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, res)
}
