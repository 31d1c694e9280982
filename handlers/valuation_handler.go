package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/ferreirogomes/imotok/services"

	"github.com/go-chi/chi/v5"
)

// ValuationHandler lida com requisições HTTP de atualização de avaliação.
type ValuationHandler struct {
	Valuation *services.ValuationService
	Registry  *services.RegistryService
}

// NewValuationHandler cria uma nova instância do handler de avaliação.
func NewValuationHandler(valuation *services.ValuationService, registry *services.RegistryService) *ValuationHandler {
	return &ValuationHandler{Valuation: valuation, Registry: registry}
}

// RefreshValuation puxa uma amostra do oráculo e atualiza a avaliação do ativo.
// POST /assets/{id}/refresh
func (h *ValuationHandler) RefreshValuation(w http.ResponseWriter, r *http.Request) {
	assetID := chi.URLParam(r, "id")
	if assetID == "" {
		http.Error(w, "ID do ativo é obrigatório", http.StatusBadRequest)
		return
	}

	if err := h.Valuation.Refresh(r.Context(), assetID); err != nil {
		http.Error(w, err.Error(), statusForError(err))
		return
	}

	asset, err := h.Registry.Get(assetID)
	if err != nil {
		http.Error(w, err.Error(), statusForError(err))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(asset)
}
