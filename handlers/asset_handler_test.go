package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ferreirogomes/imotok/handlers"
	"github.com/ferreirogomes/imotok/models"
	"github.com/ferreirogomes/imotok/services"
	"github.com/ferreirogomes/imotok/storage"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newAssetRouter monta um router com o handler de ativos sobre um MemStore.
func newAssetRouter() (*chi.Mux, *services.RegistryService) {
	store := storage.NewMemStore()
	locks := services.NewAssetLocks()
	registry := services.NewRegistryService(store, locks, services.LogNotifier{})
	handler := handlers.NewAssetHandler(registry)

	r := chi.NewRouter()
	r.Post("/assets", handler.TokenizeAsset)
	r.Get("/assets/{id}", handler.GetAssetByID)
	return r, registry
}

func postJSON(t *testing.T, r http.Handler, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

// TestTokenizeAssetEndpoint verifica a tokenização via HTTP.
func TestTokenizeAssetEndpoint(t *testing.T) {
	r, registry := newAssetRouter()

	rec := postJSON(t, r, "/assets", map[string]any{
		"id":                "A",
		"name":              "Ed. Aurora, sala 12",
		"initial_valuation": 1000,
		"oracle_ref":        "feed-A",
		"total_shares":      10,
		"issuer_id":         "issuer-1",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var asset models.Asset
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&asset))
	assert.Equal(t, "A", asset.ID)
	assert.Equal(t, int64(1000), asset.Valuation)

	got, err := registry.Get("A")
	require.NoError(t, err)
	assert.Equal(t, int64(10), got.TotalShares)
}

// TestTokenizeAssetGeneratesID verifica que o ID é gerado quando omitido.
func TestTokenizeAssetGeneratesID(t *testing.T) {
	r, _ := newAssetRouter()

	rec := postJSON(t, r, "/assets", map[string]any{
		"name":              "Sem ID",
		"initial_valuation": 100,
		"oracle_ref":        "feed-X",
		"total_shares":      4,
		"issuer_id":         "issuer-1",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var asset models.Asset
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&asset))
	assert.NotEmpty(t, asset.ID)
}

// TestTokenizeAssetDuplicate verifica o conflito na segunda tokenização.
func TestTokenizeAssetDuplicate(t *testing.T) {
	r, _ := newAssetRouter()

	body := map[string]any{
		"id": "A", "name": "x", "initial_valuation": 100,
		"oracle_ref": "feed-A", "total_shares": 10, "issuer_id": "issuer-1",
	}
	require.Equal(t, http.StatusCreated, postJSON(t, r, "/assets", body).Code)
	assert.Equal(t, http.StatusConflict, postJSON(t, r, "/assets", body).Code)
}

// TestTokenizeAssetInvalid verifica o retorno 400 para parâmetros inválidos.
func TestTokenizeAssetInvalid(t *testing.T) {
	r, _ := newAssetRouter()

	rec := postJSON(t, r, "/assets", map[string]any{
		"id": "A", "initial_valuation": -5, "total_shares": 10, "issuer_id": "issuer-1",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = postJSON(t, r, "/assets", map[string]any{
		"id": "B", "initial_valuation": 5, "total_shares": 10,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// TestGetAssetEndpoint verifica a visão de leitura e o 404.
func TestGetAssetEndpoint(t *testing.T) {
	r, _ := newAssetRouter()

	require.Equal(t, http.StatusCreated, postJSON(t, r, "/assets", map[string]any{
		"id": "A", "name": "x", "initial_valuation": 100,
		"oracle_ref": "feed-A", "total_shares": 10, "issuer_id": "issuer-1",
	}).Code)

	req := httptest.NewRequest(http.MethodGet, "/assets/A", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/assets/nao-existe", nil)
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
