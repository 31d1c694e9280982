package services

import (
	"context"
	"fmt"
	"math"

	"github.com/ferreirogomes/imotok/models"
)

// DistributionService paga a renda recebida de um ativo aos cotistas atuais,
// em proporção às suas cotas.
//
// Política de resto: a divisão inteira de amount por totalShares trunca; o
// resto não é descartado — ele é pago ao PRIMEIRO cotista na ordem do
// snapshot (ordem crescente de ID), um desempate determinístico e auditável.
//
// Política de falha: melhor esforço com escrow. Todos os repasses são
// tentados; havendo qualquer falha, o valor integral ainda é creditado em
// income_received, a soma não entregue vai para o saldo retido (escrow) do
// ativo e as parcelas devidas ficam persistidas. Uma nova chamada com o MESMO
// valor retoma apenas as parcelas devidas — cotista já pago nunca é pago duas
// vezes. Vale sempre: income_received == total efetivamente transferido +
// escrow.
type DistributionService struct {
	Registry *RegistryService
	Ledger   *LedgerService
	Payout   PayoutSink
	Locks    *AssetLocks
	Notifier Notifier
}

// NewDistributionService cria um novo motor de distribuição.
func NewDistributionService(registry *RegistryService, ledger *LedgerService, payout PayoutSink, locks *AssetLocks, notifier Notifier) *DistributionService {
	return &DistributionService{
		Registry: registry,
		Ledger:   ledger,
		Payout:   payout,
		Locks:    locks,
		Notifier: notifier,
	}
}

// Distribute executa (ou retoma) uma distribuição de renda para um ativo.
// Toda a operação — snapshot, repasses e escrituração — acontece sob o lock
// exclusivo do ativo; distribuições de ativos distintos não se bloqueiam.
func (s *DistributionService) Distribute(ctx context.Context, assetID string, amount int64) error {
	if amount <= 0 {
		return fmt.Errorf("distribuir %d: %w", amount, models.ErrInvalidIncome)
	}

	release, err := s.Locks.Acquire(ctx, assetID)
	if err != nil {
		return err
	}
	defer release()

	asset, err := s.Registry.Get(assetID)
	if err != nil {
		return err
	}

	pending, havePending, err := s.Registry.Store.GetPendingDistribution(assetID)
	if err != nil {
		return err
	}
	if havePending {
		if pending.Amount != amount {
			return fmt.Errorf("ativo %s tem distribuição pendente de %d, recebido %d: %w",
				assetID, pending.Amount, amount, models.ErrDistributionPending)
		}
		return s.settle(ctx, assetID, amount, pending.Owed, true)
	}

	// O estouro é verificado antes de qualquer repasse: um crédito que
	// falharia nunca pode suceder pagamentos já efetuados.
	if asset.IncomeReceived > math.MaxInt64-amount {
		return fmt.Errorf("creditar %d ao ativo %s: %w", amount, assetID, models.ErrOverflow)
	}

	holdings, err := s.Ledger.SharesOf(assetID)
	if err != nil {
		return err
	}
	totalShares, err := s.Ledger.TotalShares(assetID)
	if err != nil {
		return err
	}
	var sum int64
	for _, h := range holdings {
		sum += h.Shares
	}
	if sum != totalShares {
		return fmt.Errorf("livro de cotas inconsistente para o ativo %s: soma %d, emitidas %d", assetID, sum, totalShares)
	}

	owed := entitlements(assetID, holdings, amount, totalShares)
	return s.settle(ctx, assetID, amount, owed, false)
}

// entitlements calcula as parcelas por cotista na ordem do snapshot. O resto
// da divisão truncada é somado à parcela do primeiro cotista; parcelas zeradas
// são omitidas em vez de gerar transferências vazias.
func entitlements(assetID string, holdings []models.Holding, amount, totalShares int64) []models.PendingPayout {
	rentPerShare := amount / totalShares
	remainder := amount - rentPerShare*totalShares

	owed := make([]models.PendingPayout, 0, len(holdings))
	for i, h := range holdings {
		entitlement := rentPerShare * h.Shares
		if i == 0 {
			entitlement += remainder
		}
		if entitlement == 0 {
			continue
		}
		owed = append(owed, models.PendingPayout{AssetID: assetID, HolderID: h.HolderID, Amount: entitlement})
	}
	return owed
}

// settle tenta os repasses devidos e fecha a escrituração conforme a política
// de escrow. Quando resumed é verdadeiro, o valor já foi creditado em uma
// tentativa anterior e os pagamentos agora saem do saldo retido.
func (s *DistributionService) settle(ctx context.Context, assetID string, amount int64, owed []models.PendingPayout, resumed bool) error {
	var paid int64
	var failures []models.HolderFailure
	var stillOwed []models.PendingPayout

	for _, p := range owed {
		if err := s.Payout.Transfer(ctx, p.HolderID, p.Amount); err != nil {
			failures = append(failures, models.HolderFailure{HolderID: p.HolderID, Amount: p.Amount, Reason: err.Error()})
			stillOwed = append(stillOwed, p)
			continue
		}
		paid += p.Amount
	}

	store := s.Registry.Store
	if resumed {
		// Crédito já aconteceu na primeira tentativa; só o escrow encolhe.
		if paid > 0 {
			if err := s.Registry.adjustEscrow(assetID, -paid); err != nil {
				return err
			}
		}
	} else {
		if err := s.Registry.creditIncome(assetID, amount); err != nil {
			return err
		}
		if escrowed := amount - paid; escrowed > 0 {
			if err := s.Registry.adjustEscrow(assetID, escrowed); err != nil {
				return err
			}
		}
	}

	if len(failures) == 0 {
		if resumed {
			if err := store.DeletePendingDistribution(assetID); err != nil {
				return err
			}
		}
		s.Notifier.RentDistributed(assetID, amount)
		return nil
	}

	if err := store.SavePendingDistribution(models.PendingDistribution{
		AssetID: assetID,
		Amount:  amount,
		Owed:    stillOwed,
	}); err != nil {
		return err
	}
	s.Notifier.DistributionFailed(assetID, failures)
	return &models.DistributionError{AssetID: assetID, Failures: failures}
}
