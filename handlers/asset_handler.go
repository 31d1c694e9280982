package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/ferreirogomes/imotok/services"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// AssetHandler lida com requisições HTTP relacionadas a ativos.
type AssetHandler struct {
	Registry *services.RegistryService
}

// NewAssetHandler cria uma nova instância do handler de ativos.
func NewAssetHandler(registry *services.RegistryService) *AssetHandler {
	return &AssetHandler{Registry: registry}
}

// TokenizeAsset tokeniza um novo ativo.
// POST /assets
func (h *AssetHandler) TokenizeAsset(w http.ResponseWriter, r *http.Request) {
	var requestBody struct {
		ID               string `json:"id"`
		Name             string `json:"name"`
		InitialValuation int64  `json:"initial_valuation"`
		OracleRef        string `json:"oracle_ref"`
		TotalShares      int64  `json:"total_shares"`
		IssuerID         string `json:"issuer_id"`
	}

	if err := json.NewDecoder(r.Body).Decode(&requestBody); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if requestBody.IssuerID == "" {
		http.Error(w, "ID do emissor é obrigatório", http.StatusBadRequest)
		return
	}
	if requestBody.ID == "" {
		requestBody.ID = uuid.New().String()
	}

	asset, err := h.Registry.Tokenize(r.Context(), requestBody.ID, requestBody.Name,
		requestBody.InitialValuation, requestBody.OracleRef, requestBody.TotalShares, requestBody.IssuerID)
	if err != nil {
		http.Error(w, err.Error(), statusForError(err))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(asset)
}

// GetAssetByID obtém a visão de leitura de um ativo pelo ID.
// GET /assets/{id}
func (h *AssetHandler) GetAssetByID(w http.ResponseWriter, r *http.Request) {
	assetID := chi.URLParam(r, "id")
	if assetID == "" {
		http.Error(w, "ID do ativo é obrigatório", http.StatusBadRequest)
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
