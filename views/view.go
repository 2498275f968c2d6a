package views

import (
	"bytes"
	"net/http"

	"github.com/a-h/templ"
)

// Render writes the component only once it rendered completely, so a failure can still be
// answered with an error status.
func Render(w http.ResponseWriter, r *http.Request, status int, component templ.Component) error {
	var buf bytes.Buffer
	if err := component.Render(r.Context(), &buf); err != nil {
		return err
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}
