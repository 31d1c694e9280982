package services

import (
	"context"
	"fmt"
	"time"

	"github.com/ferreirogomes/imotok/models"
)

// ValuationService aplica amostras do oráculo ao registro de ativos sob
// verificações de sanidade e de obsolescência. Não retenta internamente:
// falhas transitórias voltam ao chamador, que decide entre retentar e abortar.
type ValuationService struct {
	Registry     *RegistryService
	Oracle       OracleClient
	Locks        *AssetLocks
	Notifier     Notifier
	MaxSampleAge time.Duration // Idade máxima aceita para uma amostra do feed
}

// NewValuationService cria um novo motor de avaliação.
func NewValuationService(registry *RegistryService, oracle OracleClient, locks *AssetLocks, notifier Notifier, maxSampleAge time.Duration) *ValuationService {
	return &ValuationService{
		Registry:     registry,
		Oracle:       oracle,
		Locks:        locks,
		Notifier:     notifier,
		MaxSampleAge: maxSampleAge,
	}
}

// Refresh lê o feed do ativo e, se a amostra for aceita, substitui a avaliação
// registrada. A leitura e a escrita acontecem sob o lock do ativo: nenhuma
// atualização parcial é observável, e uma amostra rejeitada deixa a avaliação
// exatamente como estava.
func (s *ValuationService) Refresh(ctx context.Context, assetID string) error {
	release, err := s.Locks.Acquire(ctx, assetID)
	if err != nil {
		return err
	}
	defer release()

	asset, err := s.Registry.Get(assetID)
	if err != nil {
		return err
	}

	sample, err := s.Oracle.Sample(ctx, asset.OracleRef)
	if err != nil {
		return fmt.Errorf("amostra do feed %s para o ativo %s: %w", asset.OracleRef, assetID, err)
	}
	if sample.Value < 0 {
		return fmt.Errorf("feed %s devolveu valor %d: %w", asset.OracleRef, sample.Value, models.ErrInvalidValuation)
	}
	if age := time.Since(sample.ObservedAt); age > s.MaxSampleAge {
		return fmt.Errorf("amostra do feed %s tem idade %s (máximo %s): %w",
			asset.OracleRef, age.Round(time.Second), s.MaxSampleAge, models.ErrStaleOracleData)
	}

	if err := s.Registry.setValuation(assetID, sample.Value); err != nil {
		return err
	}
	s.Notifier.ValuationUpdated(assetID, asset.Valuation, sample.Value)
	return nil
}
