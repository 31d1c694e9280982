package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ferreirogomes/imotok/models"
	"github.com/ferreirogomes/imotok/services"

	"github.com/go-chi/chi/v5"
)

// DistributionHandler lida com requisições HTTP de distribuição de renda.
type DistributionHandler struct {
	Distribution *services.DistributionService
}

// NewDistributionHandler cria uma nova instância do handler de distribuição.
func NewDistributionHandler(distribution *services.DistributionService) *DistributionHandler {
	return &DistributionHandler{Distribution: distribution}
}

// DistributeRent distribui (ou retoma a distribuição de) renda aos cotistas.
// POST /assets/{id}/distributions
func (h *DistributionHandler) DistributeRent(w http.ResponseWriter, r *http.Request) {
	assetID := chi.URLParam(r, "id")
	if assetID == "" {
		http.Error(w, "ID do ativo é obrigatório", http.StatusBadRequest)
		return
	}

	var requestBody struct {
		Amount int64 `json:"amount"`
	}
	if err := json.NewDecoder(r.Body).Decode(&requestBody); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	err := h.Distribution.Distribute(r.Context(), assetID, requestBody.Amount)

	var distErr *models.DistributionError
	if errors.As(err, &distErr) {
		// Falha parcial: o chamador recebe exatamente quais cotistas
		// ficaram devidos para decidir a retentativa.
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadGateway)
		json.NewEncoder(w).Encode(distErr)
		return
	}
	if err != nil {
		http.Error(w, err.Error(), statusForError(err))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"asset_id":    assetID,
		"distributed": requestBody.Amount,
	})
}
