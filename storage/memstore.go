package storage

import (
	"fmt"
	"sort"
	"sync"

	"github.com/ferreirogomes/imotok/models"
)

// MemStore é uma implementação em memória do armazenamento, usada em testes e
// em execução local sem PostgreSQL. Todas as leituras devolvem cópias, de modo
// que um snapshot iterado permanece estável mesmo se uma chamada reentrante
// tentar mutação concorrente.
type MemStore struct {
	mu       sync.RWMutex
	assets   map[string]models.Asset
	holders  map[string]models.Holder
	holdings map[string]map[string]models.Holding  // asset_id -> holder_id -> posição
	pending  map[string]models.PendingDistribution // asset_id -> distribuição pendente
}

// NewMemStore cria um MemStore vazio.
func NewMemStore() *MemStore {
	return &MemStore{
		assets:   make(map[string]models.Asset),
		holders:  make(map[string]models.Holder),
		holdings: make(map[string]map[string]models.Holding),
		pending:  make(map[string]models.PendingDistribution),
	}
}

func (m *MemStore) SaveAsset(asset models.Asset) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.assets[asset.ID] = asset
	return nil
}

func (m *MemStore) GetAsset(id string) (models.Asset, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	asset, found := m.assets[id]
	return asset, found, nil
}

func (m *MemStore) UpdateAsset(asset models.Asset) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, found := m.assets[asset.ID]; !found {
		return fmt.Errorf("falha ao atualizar ativo %s: %w", asset.ID, models.ErrUnknownAsset)
	}
	m.assets[asset.ID] = asset
	return nil
}

func (m *MemStore) ListAssets() ([]models.Asset, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	assets := make([]models.Asset, 0, len(m.assets))
	for _, asset := range m.assets {
		assets = append(assets, asset)
	}
	sort.Slice(assets, func(i, j int) bool { return assets[i].ID < assets[j].ID })
	return assets, nil
}

func (m *MemStore) SaveHolding(holding models.Holding) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	byHolder, found := m.holdings[holding.AssetID]
	if holding.Shares == 0 {
		if found {
			delete(byHolder, holding.HolderID)
		}
		return nil
	}
	if !found {
		byHolder = make(map[string]models.Holding)
		m.holdings[holding.AssetID] = byHolder
	}
	byHolder[holding.HolderID] = holding
	return nil
}

// GetHoldingsByAssetID devolve uma cópia ordenada por cotista.
func (m *MemStore) GetHoldingsByAssetID(assetID string) ([]models.Holding, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	byHolder := m.holdings[assetID]
	holdings := make([]models.Holding, 0, len(byHolder))
	for _, h := range byHolder {
		holdings = append(holdings, h)
	}
	sort.Slice(holdings, func(i, j int) bool { return holdings[i].HolderID < holdings[j].HolderID })
	return holdings, nil
}

func (m *MemStore) SaveHolder(holder models.Holder) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.holders[holder.ID] = holder
	return nil
}

func (m *MemStore) GetHolder(id string) (models.Holder, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	holder, found := m.holders[id]
	return holder, found, nil
}

func (m *MemStore) SavePendingDistribution(pending models.PendingDistribution) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	owed := make([]models.PendingPayout, len(pending.Owed))
	copy(owed, pending.Owed)
	pending.Owed = owed
	m.pending[pending.AssetID] = pending
	return nil
}

func (m *MemStore) GetPendingDistribution(assetID string) (models.PendingDistribution, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	pending, found := m.pending[assetID]
	if !found {
		return models.PendingDistribution{}, false, nil
	}
	owed := make([]models.PendingPayout, len(pending.Owed))
	copy(owed, pending.Owed)
	pending.Owed = owed
	return pending, true, nil
}

func (m *MemStore) DeletePendingDistribution(assetID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.pending, assetID)
	return nil
}
