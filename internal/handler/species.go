package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/leafkeep/leafkeep/internal/species"
)

type SpeciesHandler struct {
	species *species.Service
}

func NewSpeciesHandler(svc *species.Service) *SpeciesHandler {
	return &SpeciesHandler{species: svc}
}

// Search finds plant species by name for the add-plant flow.
func (h *SpeciesHandler) Search(w http.ResponseWriter, r *http.Request) {
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	if q == "" {
		writeError(w, http.StatusBadRequest, "search query is required")
		return
	}

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	writeJSON(w, http.StatusOK, h.species.Search(r.Context(), q, page, limit))
}
