package storage_test

import (
	"testing"

	"github.com/ferreirogomes/imotok/models"
	"github.com/ferreirogomes/imotok/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestHoldingsOrderedAndIsolated verifica a ordem determinística por cotista
// e o isolamento do snapshot: mutações posteriores não alteram uma leitura já
// feita.
func TestHoldingsOrderedAndIsolated(t *testing.T) {
	store := storage.NewMemStore()
	require.NoError(t, store.SaveHolding(models.Holding{AssetID: "A", HolderID: "carla", Shares: 2}))
	require.NoError(t, store.SaveHolding(models.Holding{AssetID: "A", HolderID: "alice", Shares: 5}))
	require.NoError(t, store.SaveHolding(models.Holding{AssetID: "A", HolderID: "bruno", Shares: 3}))

	snapshot, err := store.GetHoldingsByAssetID("A")
	require.NoError(t, err)
	assert.Equal(t, []models.Holding{
		{AssetID: "A", HolderID: "alice", Shares: 5},
		{AssetID: "A", HolderID: "bruno", Shares: 3},
		{AssetID: "A", HolderID: "carla", Shares: 2},
	}, snapshot)

	// Transferência concorrente simulada: o snapshot anterior não muda.
	require.NoError(t, store.SaveHolding(models.Holding{AssetID: "A", HolderID: "alice", Shares: 1}))
	assert.Equal(t, int64(5), snapshot[0].Shares)
}

// TestZeroShareHoldingIsRemoved verifica que posições zeradas são removidas,
// nunca armazenadas.
func TestZeroShareHoldingIsRemoved(t *testing.T) {
	store := storage.NewMemStore()
	require.NoError(t, store.SaveHolding(models.Holding{AssetID: "A", HolderID: "alice", Shares: 5}))
	require.NoError(t, store.SaveHolding(models.Holding{AssetID: "A", HolderID: "alice", Shares: 0}))

	holdings, err := store.GetHoldingsByAssetID("A")
	require.NoError(t, err)
	assert.Empty(t, holdings)
}

// TestPendingDistributionRoundTrip verifica salvar, buscar e remover o estado
// pendente de uma distribuição.
func TestPendingDistributionRoundTrip(t *testing.T) {
	store := storage.NewMemStore()
	pending := models.PendingDistribution{
		AssetID: "A",
		Amount:  101,
		Owed:    []models.PendingPayout{{AssetID: "A", HolderID: "bob", Amount: 30}},
	}
	require.NoError(t, store.SavePendingDistribution(pending))

	got, found, err := store.GetPendingDistribution("A")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, pending, got)

	// A cópia devolvida é isolada do estado interno.
	got.Owed[0].Amount = 999
	again, _, err := store.GetPendingDistribution("A")
	require.NoError(t, err)
	assert.Equal(t, int64(30), again.Owed[0].Amount)

	require.NoError(t, store.DeletePendingDistribution("A"))
	_, found, err = store.GetPendingDistribution("A")
	require.NoError(t, err)
	assert.False(t, found)
}

// TestUpdateAssetUnknown verifica que atualizar um ativo inexistente falha.
func TestUpdateAssetUnknown(t *testing.T) {
	store := storage.NewMemStore()
	err := store.UpdateAsset(models.Asset{ID: "nao-existe"})
	assert.ErrorIs(t, err, models.ErrUnknownAsset)
}

// TestListAssetsOrdered verifica a listagem em ordem de ID.
func TestListAssetsOrdered(t *testing.T) {
	store := storage.NewMemStore()
	require.NoError(t, store.SaveAsset(models.Asset{ID: "B"}))
	require.NoError(t, store.SaveAsset(models.Asset{ID: "A"}))

	assets, err := store.ListAssets()
	require.NoError(t, err)
	require.Len(t, assets, 2)
	assert.Equal(t, "A", assets[0].ID)
	assert.Equal(t, "B", assets[1].ID)
}
