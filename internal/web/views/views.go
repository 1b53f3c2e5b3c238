// Package views renders the HTMX fragments returned by the web handlers.
package views

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/a-h/templ"

	"github.com/JonMunkholm/printvault/internal/core"
)

// writer accumulates the first write error so fragments read top to bottom.
type writer struct {
	w   io.Writer
	err error
}

func (w *writer) raw(s string) {
	if w.err != nil {
		return
	}
	_, w.err = io.WriteString(w.w, s)
}

func (w *writer) text(s string) {
	w.raw(templ.EscapeString(s))
}

func (w *writer) cell(s string) {
	w.raw("<td>")
	w.text(s)
	w.raw("</td>")
}

// ErrorAlert renders an error banner with an optional suggested action.
func ErrorAlert(message, action, code string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, out io.Writer) error {
		w := &writer{w: out}
		w.raw(`<div class="alert alert-error" role="alert"><p class="alert-message">`)
		w.text(message)
		w.raw(`</p>`)
		if action != "" {
			w.raw(`<p class="alert-action">`)
			w.text(action)
			w.raw(`</p>`)
		}
		w.raw(`<span class="alert-code">`)
		w.text(code)
		w.raw(`</span></div>`)
		return w.err
	})
}

// ImportSummary renders the counters of a finished import.
func ImportSummary(fileName string, report core.ImportReport) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, out io.Writer) error {
		w := &writer{w: out}
		w.raw(`<div class="import-summary"><h3>`)
		w.text(fileName)
		w.raw(`</h3><dl><dt>Paints imported</dt><dd>`)
		w.text(strconv.Itoa(report.PaintsUpserted))
		w.raw(`</dd><dt>Collection entries updated</dt><dd>`)
		w.text(strconv.Itoa(report.CollectionUpdated))
		w.raw(`</dd></dl></div>`)
		return w.err
	})
}

// CatalogRows renders catalog entries as table rows, each with quick-add
// buttons for both buckets.
func CatalogRows(entries []core.CatalogEntry) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, out io.Writer) error {
		w := &writer{w: out}
		if len(entries) == 0 {
			w.raw(`<tr class="empty"><td colspan="6">No paints found</td></tr>`)
			return w.err
		}
		for _, e := range entries {
			w.raw(`<tr id="paint-`)
			w.text(e.ID)
			w.raw(`">`)
			w.cell(string(e.Brand))
			w.cell(e.Range)
			w.cell(e.ManufacturerCode)
			w.cell(e.Name)
			w.cell(string(e.Type))
			w.raw(`<td>`)
			for _, st := range []core.Status{core.StatusOwned, core.StatusWishlist} {
				w.raw(`<button hx-post="/api/inventory" hx-vals='`)
				w.text(fmt.Sprintf(`{"catalogId":%q,"status":%q}`, e.ID, st))
				w.raw(`'>`)
				w.text("+ " + st.Title())
				w.raw(`</button>`)
			}
			w.raw(`</td></tr>`)
		}
		return w.err
	})
}

// InventoryRows renders one bucket. Wishlist rows get a "bought" action.
func InventoryRows(status core.Status, items []core.InventoryItem) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, out io.Writer) error {
		w := &writer{w: out}
		if len(items) == 0 {
			w.raw(`<tr class="empty"><td colspan="5">`)
			w.text(status.Title() + " is empty")
			w.raw(`</td></tr>`)
			return w.err
		}
		for _, it := range items {
			w.raw(`<tr id="entry-`)
			w.text(it.ID)
			w.raw(`">`)
			w.cell(string(it.Paint.Brand))
			w.cell(it.Paint.Name)
			w.cell(it.Paint.ManufacturerCode)
			w.cell(strconv.Itoa(it.Quantity))
			w.raw(`<td>`)
			if status == core.StatusWishlist {
				w.raw(`<button hx-post="/api/inventory/`)
				w.text(it.ID)
				w.raw(`/bought">Bought</button>`)
			}
			w.raw(`<button hx-delete="/api/inventory/`)
			w.text(it.ID)
			w.raw(`" hx-target="closest tr" hx-swap="outerHTML">Remove</button></td></tr>`)
		}
		return w.err
	})
}

// AddOutcome renders the confirmation shown after an add.
func AddOutcome(paintName string, outcome core.AddOutcome) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, out io.Writer) error {
		w := &writer{w: out}
		w.raw(`<div class="alert alert-success" role="status">`)
		w.text(paintName)
		if outcome.Kind == core.Incremented {
			w.text(fmt.Sprintf(" quantity is now %d", outcome.Quantity))
		} else {
			w.text(" added")
		}
		w.raw(`</div>`)
		return w.err
	})
}
