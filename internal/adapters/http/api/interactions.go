package api

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	service "github.com/okian/starrating/internal/app"
)

type clickRequest struct {
	Star          *int   `json:"star"`
	InteractionID string `json:"interaction_id"`
}

type keyRequest struct {
	Key           string `json:"key"`
	InteractionID string `json:"interaction_id"`
}

// InteractionsHandler handles clicks and key presses.
type InteractionsHandler struct {
	deps Dependencies
}

// NewInteractionsHandler creates a new interactions handler.
func NewInteractionsHandler(deps Dependencies) *InteractionsHandler {
	return &InteractionsHandler{deps: deps}
}

// HandleClick handles POST /widgets/{id}/click.
func (h *InteractionsHandler) HandleClick(w http.ResponseWriter, r *http.Request) {
	var req clickRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	if req.Star == nil {
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%w: missing star", ErrBadRequest))
		return
	}
	h.interact(w, r, service.ClickInteraction(strings.TrimSpace(req.InteractionID), *req.Star))
}

// HandleKey handles POST /widgets/{id}/keys.
func (h *InteractionsHandler) HandleKey(w http.ResponseWriter, r *http.Request) {
	var req keyRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	if req.Key == "" {
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%w: missing key", ErrBadRequest))
		return
	}
	h.interact(w, r, service.KeyInteraction(strings.TrimSpace(req.InteractionID), req.Key))
}

func (h *InteractionsHandler) interact(w http.ResponseWriter, r *http.Request, in service.Interaction) { //nolint:gocritic // hugeParam: value semantics
	res, err := h.deps.Interact(r.Context(), chi.URLParam(r, "id"), in)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}
