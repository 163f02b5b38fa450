package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

// Changes listing bounds.
const (
	defaultChangesLimit = 20
	maxChangesLimit     = 1000
)

// WidgetsHandler handles widget lifecycle and read requests.
type WidgetsHandler struct {
	deps Dependencies
}

// NewWidgetsHandler creates a new widgets handler.
func NewWidgetsHandler(deps Dependencies) *WidgetsHandler {
	return &WidgetsHandler{deps: deps}
}

// HandleCreate handles POST /widgets. Omitted fields take the host defaults.
func (h *WidgetsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	settings := h.deps.Defaults()
	if err := decode(w, r, &settings); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	widget, err := h.deps.Create(r.Context(), settings)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	w.Header().Set("Location", "/widgets/"+widget.ID())
	writeJSON(w, http.StatusCreated, widget.Render())
}

// HandleList handles GET /widgets.
func (h *WidgetsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.deps.List(r.Context()))
}

// HandleGet handles GET /widgets/{id}.
func (h *WidgetsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	widget, err := h.deps.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, widget.Render())
}

// HandleUpdate handles PUT /widgets/{id}. Omitted fields keep their current value.
func (h *WidgetsHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	widget, err := h.deps.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	settings := widget.Settings()
	if err := decode(w, r, &settings); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	widget, err = h.deps.Update(r.Context(), id, settings)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, widget.Render())
}

// HandleDelete handles DELETE /widgets/{id}.
func (h *WidgetsHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.deps.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleChanges handles GET /widgets/{id}/changes?limit=n.
func (h *WidgetsHandler) HandleChanges(w http.ResponseWriter, r *http.Request) {
	limit := defaultChangesLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > maxChangesLimit {
			writeError(w, http.StatusBadRequest, "bad_request",
				fmt.Errorf("%w: limit must be between 1 and %d", ErrBadRequest, maxChangesLimit))
			return
		}
		limit = n
	}
	changes, err := h.deps.Changes(r.Context(), chi.URLParam(r, "id"), limit)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, changes)
}
