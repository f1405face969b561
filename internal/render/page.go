// Package render draws the menu screen as an HTML page.
package render

import (
	"embed"
	"fmt"
	"html/template"
	"io"

	"github.com/kiwari-pos/ordering/internal/enum"
	"github.com/kiwari-pos/ordering/internal/menu"
)

//go:embed templates/*.html
var templates embed.FS

var page = template.Must(template.New("page.html").Funcs(template.FuncMap{
	"pending": func(status string) bool { return status == enum.SyncStatusPending },
	"failed":  func(status string) bool { return status == enum.SyncStatusFailed },
}).ParseFS(templates, "templates/page.html"))

// Data is everything the page shows: the screen plus the outcome of the
// last order submission, if any.
type Data struct {
	menu.View
	// OrderID is set after an order was created.
	OrderID string
	// Error is set after an order submission failed.
	Error string
}

// Page writes the HTML rendering of d to w.
func Page(w io.Writer, d Data) error {
	if err := page.Execute(w, d); err != nil {
		return fmt.Errorf("render menu page: %w", err)
	}
	return nil
}
