package models

import (
	"errors"
	"fmt"
	"strings"
)

// Erros de registro/entrada: surgem de chamadas malformadas ou estado
// inexistente e nunca são retentados internamente.
var (
	ErrUnknownAsset        = errors.New("ativo não encontrado")
	ErrDuplicateAsset      = errors.New("ativo já existe")
	ErrInvalidValuation    = errors.New("avaliação inválida")
	ErrInvalidIncome       = errors.New("valor de renda inválido")
	ErrOverflow            = errors.New("estouro no acumulador de renda")
	ErrDistributionPending = errors.New("distribuição pendente com valor diferente")
)

// Erros ambientais: falhas do oráculo ou do trilho de pagamento. O chamador
// decide entre retentar e abortar; o núcleo apenas os propaga com contexto.
var (
	ErrStaleOracleData   = errors.New("amostra do oráculo obsoleta")
	ErrOracleUnavailable = errors.New("oráculo indisponível")
	ErrOracleMalformed   = errors.New("resposta do oráculo malformada")
	ErrTransferFailed    = errors.New("falha na transferência de repasse")
)

// HolderFailure atribui uma falha de repasse a um cotista específico.
type HolderFailure struct {
	HolderID string `json:"holder_id"`
	Amount   int64  `json:"amount"`
	Reason   string `json:"reason"`
}

// DistributionError agrega as falhas individuais de uma distribuição. A parte
// não entregue fica retida em escrow e pode ser retomada com uma nova chamada
// usando o mesmo valor.
type DistributionError struct {
	AssetID  string          `json:"asset_id"`
	Failures []HolderFailure `json:"failures"`
}

func (e *DistributionError) Error() string {
	parts := make([]string, 0, len(e.Failures))
	for _, f := range e.Failures {
		parts = append(parts, fmt.Sprintf("%s (%d): %s", f.HolderID, f.Amount, f.Reason))
	}
	return fmt.Sprintf("distribuição do ativo %s falhou para %d cotista(s): %s",
		e.AssetID, len(e.Failures), strings.Join(parts, "; "))
}

// Unwrap permite classificar o agregado com errors.Is(err, ErrTransferFailed).
func (e *DistributionError) Unwrap() error { return ErrTransferFailed }
