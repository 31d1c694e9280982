package services

import (
	"log"

	"github.com/ferreirogomes/imotok/models"
)

// Notifier recebe os eventos de auditoria emitidos pelo núcleo. Colaboradores
// externos (logging, trilha de auditoria) se inscrevem implementando esta
// interface; o núcleo nunca depende do que o assinante faz com o evento.
type Notifier interface {
	PropertyTokenized(assetID string, totalShares int64)
	ValuationUpdated(assetID string, oldValue, newValue int64)
	RentDistributed(assetID string, amount int64)
	DistributionFailed(assetID string, failures []models.HolderFailure)
}

// LogNotifier registra os eventos no log do processo.
type LogNotifier struct{}

func (LogNotifier) PropertyTokenized(assetID string, totalShares int64) {
	log.Printf("Ativo %s tokenizado em %d cotas.", assetID, totalShares)
}

func (LogNotifier) ValuationUpdated(assetID string, oldValue, newValue int64) {
	log.Printf("Avaliação do ativo %s atualizada: %d -> %d.", assetID, oldValue, newValue)
}

func (LogNotifier) RentDistributed(assetID string, amount int64) {
	log.Printf("Renda de %d distribuída integralmente para o ativo %s.", amount, assetID)
}

func (LogNotifier) DistributionFailed(assetID string, failures []models.HolderFailure) {
	for _, f := range failures {
		log.Printf("Repasse do ativo %s falhou para o cotista %s (%d): %s", assetID, f.HolderID, f.Amount, f.Reason)
	}
}
