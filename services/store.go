package services

import (
	"context"

	"github.com/ferreirogomes/imotok/models"
)

// Store é o contrato de persistência consumido pelos serviços. Tanto
// storage.DB (PostgreSQL) quanto storage.MemStore o implementam; os testes
// usam o MemStore ou mocks.
type Store interface {
	SaveAsset(asset models.Asset) error
	GetAsset(id string) (models.Asset, bool, error)
	UpdateAsset(asset models.Asset) error
	ListAssets() ([]models.Asset, error)

	SaveHolding(holding models.Holding) error
	GetHoldingsByAssetID(assetID string) ([]models.Holding, error)

	SaveHolder(holder models.Holder) error
	GetHolder(id string) (models.Holder, bool, error)

	SavePendingDistribution(pending models.PendingDistribution) error
	GetPendingDistribution(assetID string) (models.PendingDistribution, bool, error)
	DeletePendingDistribution(assetID string) error
}

// OracleClient busca uma amostra de avaliação de um feed de preço externo.
// Implementado por SolanaOracleService; substituível por fakes determinísticos
// nos testes.
type OracleClient interface {
	Sample(ctx context.Context, oracleRef string) (models.OracleSample, error)
}

// PayoutSink entrega um repasse de renda a um cotista através de um trilho de
// pagamento externo. Falhas devem envolver models.ErrTransferFailed.
type PayoutSink interface {
	Transfer(ctx context.Context, holderID string, amount int64) error
}
