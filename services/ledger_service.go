package services

import (
	"fmt"

	"github.com/ferreirogomes/imotok/models"
)

// LedgerService é a visão de leitura do livro de cotas. O núcleo apenas lê
// posições durante a distribuição; a mutação (transferências entre cotistas)
// pertence a um colaborador externo que escreve direto no Store.
type LedgerService struct {
	Store Store
}

// NewLedgerService cria uma nova instância do livro de cotas.
func NewLedgerService(store Store) *LedgerService {
	return &LedgerService{Store: store}
}

// SharesOf devolve um snapshot das posições de um ativo em ordem crescente de
// cotista. Cada chamada devolve uma cópia nova: o snapshot permanece estável
// pela duração da operação do chamador mesmo diante de mutação concorrente.
func (s *LedgerService) SharesOf(assetID string) ([]models.Holding, error) {
	holdings, err := s.Store.GetHoldingsByAssetID(assetID)
	if err != nil {
		return nil, err
	}
	snapshot := make([]models.Holding, len(holdings))
	copy(snapshot, holdings)
	return snapshot, nil
}

// TotalShares devolve a quantidade de cotas emitidas, fixada na tokenização.
func (s *LedgerService) TotalShares(assetID string) (int64, error) {
	asset, found, err := s.Store.GetAsset(assetID)
	if err != nil {
		return 0, err
	}
	if !found {
		return 0, fmt.Errorf("total de cotas de %s: %w", assetID, models.ErrUnknownAsset)
	}
	return asset.TotalShares, nil
}
