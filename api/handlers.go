package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strconv"

	"github.com/gorilla/mux"

	"taxi-dashboard/dashboard"
	"taxi-dashboard/plot"
	"taxi-dashboard/session"
)

// Handler serves the dashboard API. It carries no per-request state; the
// selection of each session lives in the controller's store.
type Handler struct {
	ctrl     *session.Controller
	renderer *plot.Renderer
}

func NewHandler(ctrl *session.Controller, renderer *plot.Renderer) *Handler {
	return &Handler{ctrl: ctrl, renderer: renderer}
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("encoding response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// writeSessionError maps controller errors to status codes.
func writeSessionError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, session.ErrNotFound):
		writeError(w, http.StatusNotFound, "Session not found")
	case session.IsInvalid(err):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		log.Printf("session store error: %v", err)
		writeError(w, http.StatusInternalServerError, "Session store error")
	}
}

// Health returns OK while the server is up.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

type optionsResponse struct {
	DistanceMin      float64             `json:"distance_min"`
	DistanceMax      float64             `json:"distance_max"`
	Payments         []string            `json:"payments"`
	DefaultSelection dashboard.Selection `json:"default_selection"`
	Columns          []string            `json:"columns"`
}

// Options describes the input controls: slider bounds and payment choices.
func (h *Handler) Options(w http.ResponseWriter, r *http.Request) {
	ds := h.ctrl.Dataset()
	writeJSON(w, http.StatusOK, optionsResponse{
		DistanceMin:      0,
		DistanceMax:      ds.SliderMax(),
		Payments:         dashboard.PaymentChoices(ds),
		DefaultSelection: dashboard.DefaultSelection(ds),
		Columns:          dashboard.Columns,
	})
}

type sessionResponse struct {
	SessionID string              `json:"session_id"`
	Selection dashboard.Selection `json:"selection"`
}

// CreateSession starts a session with the default selection.
func (h *Handler) CreateSession(w http.ResponseWriter, r *http.Request) {
	id, sel, err := h.ctrl.Create(r.Context())
	if err != nil {
		writeSessionError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, sessionResponse{SessionID: id, Selection: sel})
}

func (h *Handler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := h.ctrl.Delete(r.Context(), mux.Vars(r)["session_id"]); err != nil {
		writeSessionError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) GetSelection(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["session_id"]
	sel, err := h.ctrl.Selection(r.Context(), id)
	if err != nil {
		writeSessionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sessionResponse{SessionID: id, Selection: sel})
}

// UpdateSelection replaces the session's selection. The range is clamped to
// the slider bounds; an inverted range or unknown payment is rejected.
func (h *Handler) UpdateSelection(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["session_id"]

	var req struct {
		DistanceMin *float64 `json:"distance_min"`
		DistanceMax *float64 `json:"distance_max"`
		Payment     *string  `json:"payment"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	sel, err := h.ctrl.Selection(r.Context(), id)
	if err != nil {
		writeSessionError(w, err)
		return
	}
	if req.DistanceMin != nil {
		sel.DistanceMin = *req.DistanceMin
	}
	if req.DistanceMax != nil {
		sel.DistanceMax = *req.DistanceMax
	}
	if req.Payment != nil {
		sel.Payment = *req.Payment
	}

	sel, err = h.ctrl.Update(r.Context(), id, sel)
	if err != nil {
		writeSessionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sessionResponse{SessionID: id, Selection: sel})
}

func (h *Handler) sessionSnapshot(w http.ResponseWriter, r *http.Request) (dashboard.Snapshot, bool) {
	snap, err := h.ctrl.Snapshot(r.Context(), mux.Vars(r)["session_id"])
	if err != nil {
		writeSessionError(w, err)
		return snap, false
	}
	return snap, true
}

func (h *Handler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	if snap, ok := h.sessionSnapshot(w, r); ok {
		writeJSON(w, http.StatusOK, snap)
	}
}

func (h *Handler) GetMetrics(w http.ResponseWriter, r *http.Request) {
	if snap, ok := h.sessionSnapshot(w, r); ok {
		writeJSON(w, http.StatusOK, struct {
			dashboard.Metrics
			Cards []dashboard.Card `json:"cards"`
		}{snap.Metrics, snap.Cards})
	}
}

func (h *Handler) GetCorrelation(w http.ResponseWriter, r *http.Request) {
	if snap, ok := h.sessionSnapshot(w, r); ok {
		writeJSON(w, http.StatusOK, snap.Correlation)
	}
}

func (h *Handler) GetComparison(w http.ResponseWriter, r *http.Request) {
	if snap, ok := h.sessionSnapshot(w, r); ok {
		writeJSON(w, http.StatusOK, snap.Comparison)
	}
}

func (h *Handler) GetTable(w http.ResponseWriter, r *http.Request) {
	if snap, ok := h.sessionSnapshot(w, r); ok {
		writeJSON(w, http.StatusOK, struct {
			Columns []string        `json:"columns"`
			Rows    []dashboard.Row `json:"rows"`
		}{dashboard.Columns, snap.Rows})
	}
}

func (h *Handler) GetSessionPlot(w http.ResponseWriter, r *http.Request) {
	if snap, ok := h.sessionSnapshot(w, r); ok {
		h.writePlot(w, r, snap)
	}
}

// parseSelection reads min, max and payment from the query string, falling
// back to the default selection for missing parameters.
func (h *Handler) parseSelection(q url.Values) (dashboard.Selection, error) {
	ds := h.ctrl.Dataset()
	sel := dashboard.DefaultSelection(ds)
	for key, dst := range map[string]*float64{"min": &sel.DistanceMin, "max": &sel.DistanceMax} {
		v := q.Get(key)
		if v == "" {
			continue
		}
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return sel, fmt.Errorf("invalid %s: %q", key, v)
		}
		*dst = f
	}
	if p := q.Get("payment"); p != "" {
		sel.Payment = p
	}
	sel = sel.Clamp(ds)
	return sel, sel.Validate(ds)
}

// GetStatelessDashboard computes a snapshot from query parameters alone.
func (h *Handler) GetStatelessDashboard(w http.ResponseWriter, r *http.Request) {
	sel, err := h.parseSelection(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, h.ctrl.Compute(r.Context(), sel))
}

func (h *Handler) GetStatelessPlot(w http.ResponseWriter, r *http.Request) {
	sel, err := h.parseSelection(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	h.writePlot(w, r, h.ctrl.Compute(r.Context(), sel))
}

func (h *Handler) writePlot(w http.ResponseWriter, r *http.Request, snap dashboard.Snapshot) {
	vars := mux.Vars(r)
	format, err := plot.ParseFormat(vars["format"])
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var buf bytes.Buffer
	switch vars["plot"] {
	case "correlation":
		err = h.renderer.Correlation(&buf, snap.Correlation, format)
	case "comparison":
		err = h.renderer.Comparison(&buf, snap.Comparison, format)
	default:
		writeError(w, http.StatusNotFound, "Unknown plot")
		return
	}
	if err != nil {
		log.Printf("rendering %s plot: %v", vars["plot"], err)
		writeError(w, http.StatusInternalServerError, "Failed to render plot")
		return
	}
	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Cache-Control", "no-store")
	w.Write(buf.Bytes())
}
