package api

import (
	"bytes"
	"embed"
	"html/template"
	"log"
	"net/http"
	"net/url"
	"strconv"

	"taxi-dashboard/dashboard"
)

//go:embed templates/index.html
var templates embed.FS

var indexTmpl = template.Must(template.ParseFS(templates, "templates/index.html"))

type pageData struct {
	SliderMax float64
	Payments  []string
	Columns   []string
	Selection dashboard.Selection
	Snapshot  dashboard.Snapshot
	Query     template.URL
}

// Index renders the dashboard page for the selection in the query string.
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	sel, err := h.parseSelection(r.URL.Query())
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	ds := h.ctrl.Dataset()

	q := url.Values{}
	q.Set("min", strconv.FormatFloat(sel.DistanceMin, 'g', -1, 64))
	q.Set("max", strconv.FormatFloat(sel.DistanceMax, 'g', -1, 64))
	q.Set("payment", sel.Payment)

	data := pageData{
		SliderMax: ds.SliderMax(),
		Payments:  dashboard.PaymentChoices(ds),
		Columns:   dashboard.Columns,
		Selection: sel,
		Snapshot:  h.ctrl.Compute(r.Context(), sel),
		Query:     template.URL(q.Encode()),
	}

	var buf bytes.Buffer
	if err := indexTmpl.Execute(&buf, data); err != nil {
		log.Printf("rendering index: %v", err)
		http.Error(w, "Failed to render page", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(buf.Bytes())
}
