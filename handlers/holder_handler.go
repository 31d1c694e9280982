package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/ferreirogomes/imotok/models"
	"github.com/ferreirogomes/imotok/services"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// HolderHandler lida com requisições HTTP relacionadas a cotistas.
type HolderHandler struct {
	Store services.Store
}

// NewHolderHandler cria uma nova instância do handler de cotistas.
func NewHolderHandler(store services.Store) *HolderHandler {
	return &HolderHandler{Store: store}
}

// CreateHolder cadastra um novo cotista.
// POST /holders
func (h *HolderHandler) CreateHolder(w http.ResponseWriter, r *http.Request) {
	var requestBody struct {
		Name         string `json:"name"`
		Email        string `json:"email"`
		SolanaPubKey string `json:"solana_pub_key"`
	}

	if err := json.NewDecoder(r.Body).Decode(&requestBody); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if requestBody.Name == "" || requestBody.Email == "" {
		http.Error(w, "Nome e email são obrigatórios", http.StatusBadRequest)
		return
	}

	holder := models.Holder{
		ID:           uuid.New().String(),
		Name:         requestBody.Name,
		Email:        requestBody.Email,
		SolanaPubKey: requestBody.SolanaPubKey,
		CreatedAt:    time.Now(),
	}

	if err := h.Store.SaveHolder(holder); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(holder)
}

// GetHolderByID obtém um cotista pelo ID.
// GET /holders/{id}
func (h *HolderHandler) GetHolderByID(w http.ResponseWriter, r *http.Request) {
	holderID := chi.URLParam(r, "id")

	holder, found, err := h.Store.GetHolder(holderID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if !found {
		http.Error(w, "Cotista não encontrado", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(holder)
}
