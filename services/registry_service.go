package services

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/ferreirogomes/imotok/models"
)

// RegistryService é o dono dos registros de ativos. Criação acontece uma única
// vez por ativo (tokenização); os campos de escrituração só mudam pelos pontos
// de entrada internos creditIncome e setValuation, chamados exclusivamente
// pelos motores de distribuição e avaliação.
type RegistryService struct {
	Store    Store
	Locks    *AssetLocks
	Notifier Notifier
}

// NewRegistryService cria um novo registro de ativos.
func NewRegistryService(store Store, locks *AssetLocks, notifier Notifier) *RegistryService {
	return &RegistryService{Store: store, Locks: locks, Notifier: notifier}
}

// Tokenize cria o registro de um ativo e semeia o livro de cotas com o emissor
// detendo a totalidade das cotas.
func (s *RegistryService) Tokenize(ctx context.Context, assetID, name string, initialValuation int64, oracleRef string, totalShares int64, issuerID string) (models.Asset, error) {
	if initialValuation < 0 {
		return models.Asset{}, fmt.Errorf("avaliação inicial %d: %w", initialValuation, models.ErrInvalidValuation)
	}
	if totalShares <= 0 {
		return models.Asset{}, fmt.Errorf("total de cotas %d: %w", totalShares, models.ErrInvalidValuation)
	}

	release, err := s.Locks.Acquire(ctx, assetID)
	if err != nil {
		return models.Asset{}, err
	}
	defer release()

	_, found, err := s.Store.GetAsset(assetID)
	if err != nil {
		return models.Asset{}, err
	}
	if found {
		return models.Asset{}, fmt.Errorf("ativo %s: %w", assetID, models.ErrDuplicateAsset)
	}

	asset := models.Asset{
		ID:          assetID,
		Name:        name,
		OracleRef:   oracleRef,
		Valuation:   initialValuation,
		TotalShares: totalShares,
		CreatedAt:   time.Now(),
	}
	if err := s.Store.SaveAsset(asset); err != nil {
		return models.Asset{}, err
	}
	if err := s.Store.SaveHolding(models.Holding{AssetID: assetID, HolderID: issuerID, Shares: totalShares}); err != nil {
		return models.Asset{}, err
	}

	s.Notifier.PropertyTokenized(assetID, totalShares)
	return asset, nil
}

// Get devolve uma visão de leitura do registro de um ativo.
func (s *RegistryService) Get(assetID string) (models.Asset, error) {
	asset, found, err := s.Store.GetAsset(assetID)
	if err != nil {
		return models.Asset{}, err
	}
	if !found {
		return models.Asset{}, fmt.Errorf("ativo %s: %w", assetID, models.ErrUnknownAsset)
	}
	return asset, nil
}

// creditIncome incrementa o acumulador de renda do ativo com aritmética
// verificada; nunca estoura silenciosamente. Chamado somente pelo motor de
// distribuição, com o lock do ativo já em posse.
func (s *RegistryService) creditIncome(assetID string, amount int64) error {
	asset, err := s.Get(assetID)
	if err != nil {
		return err
	}
	if asset.IncomeReceived > math.MaxInt64-amount {
		return fmt.Errorf("creditar %d ao ativo %s: %w", amount, assetID, models.ErrOverflow)
	}
	asset.IncomeReceived += amount
	return s.Store.UpdateAsset(asset)
}

// adjustEscrow move o delta informado para dentro (positivo) ou fora
// (negativo) do saldo retido do ativo. Chamado somente pelo motor de
// distribuição, com o lock do ativo já em posse.
func (s *RegistryService) adjustEscrow(assetID string, delta int64) error {
	asset, err := s.Get(assetID)
	if err != nil {
		return err
	}
	if asset.Escrowed+delta < 0 {
		return fmt.Errorf("escrow do ativo %s ficaria negativo (%d%+d)", assetID, asset.Escrowed, delta)
	}
	asset.Escrowed += delta
	return s.Store.UpdateAsset(asset)
}

// setValuation substitui a avaliação do ativo. Chamado somente pelo motor de
// avaliação, com o lock do ativo já em posse.
func (s *RegistryService) setValuation(assetID string, newValuation int64) error {
	if newValuation < 0 {
		return fmt.Errorf("avaliação %d: %w", newValuation, models.ErrInvalidValuation)
	}
	asset, err := s.Get(assetID)
	if err != nil {
		return err
	}
	asset.Valuation = newValuation
	return s.Store.UpdateAsset(asset)
}
