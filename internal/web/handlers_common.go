// Package web provides HTTP handlers for the paint catalog.
// This file contains shared request decoding helpers.
package web

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/JonMunkholm/printvault/internal/core"
)

// maxJSONBody bounds JSON request bodies outside of imports.
const maxJSONBody = 1 << 20

// quickAddRequest is the body of POST /api/inventory.
type quickAddRequest struct {
	CatalogID string `json:"catalogId"`
	Status    string `json:"status"`
}

// isJSONBody reports whether the request body is JSON rather than a form.
func isJSONBody(r *http.Request) bool {
	return strings.HasPrefix(r.Header.Get("Content-Type"), "application/json")
}

// decodeJSON decodes a bounded JSON body into v.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: invalid request body: %v", core.ErrInvalidInput, err)
	}
	return nil
}

// decodeAddPaint reads an add request from JSON or from an HTMX form post.
func decodeAddPaint(w http.ResponseWriter, r *http.Request) (core.AddPaintRequest, error) {
	var req core.AddPaintRequest
	if isJSONBody(r) {
		err := decodeJSON(w, r, &req)
		return req, err
	}

	if err := r.ParseForm(); err != nil {
		return req, fmt.Errorf("%w: invalid form: %v", core.ErrInvalidInput, err)
	}
	qty, err := parseQuantity(r.PostForm.Get("quantity"))
	if err != nil {
		return req, err
	}
	return core.AddPaintRequest{
		Brand:            r.PostForm.Get("brand"),
		Range:            r.PostForm.Get("range"),
		Type:             r.PostForm.Get("type"),
		ManufacturerCode: r.PostForm.Get("manufacturerCode"),
		Name:             r.PostForm.Get("name"),
		Barcode:          r.PostForm.Get("barcode"),
		Status:           r.PostForm.Get("status"),
		Quantity:         qty,
		Notes:            r.PostForm.Get("notes"),
	}, nil
}

// decodeQuickAdd reads a quick-add request from JSON or form values.
func decodeQuickAdd(w http.ResponseWriter, r *http.Request) (quickAddRequest, error) {
	var req quickAddRequest
	if isJSONBody(r) {
		if err := decodeJSON(w, r, &req); err != nil {
			return req, err
		}
	} else {
		if err := r.ParseForm(); err != nil {
			return req, fmt.Errorf("%w: invalid form: %v", core.ErrInvalidInput, err)
		}
		req = quickAddRequest{CatalogID: r.PostForm.Get("catalogId"), Status: r.PostForm.Get("status")}
	}
	if strings.TrimSpace(req.CatalogID) == "" {
		return req, fmt.Errorf("%w: catalogId is required", core.ErrInvalidInput)
	}
	return req, nil
}

// parseQuantity parses an optional quantity form field. Empty means 0,
// which the service reads as the default of one.
func parseQuantity(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: quantity %q is not a number", core.ErrInvalidQuantity, raw)
	}
	return n, nil
}

// parseStatusParam decodes a status path segment strictly.
func parseStatusParam(raw string) (core.Status, error) {
	st, ok := core.ParseStatus(raw)
	if !ok {
		return "", fmt.Errorf("%w: unknown status %q", core.ErrInvalidInput, raw)
	}
	return st, nil
}
