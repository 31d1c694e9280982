package services

import (
	"context"
	"encoding/binary"
	"fmt"
	"time"

	"github.com/ferreirogomes/imotok/models"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
)

// feedMagic identifica uma conta de feed publicada pelo nosso programa de
// oráculo na Solana ("IMOT" em little-endian).
const feedMagic uint32 = 0x544f4d49

// feedAccountSize é o tamanho mínimo de uma conta de feed:
// magic (4) + valor (8) + timestamp unix (8) + confiança (8).
const feedAccountSize = 28

// SolanaOracleService lê amostras de avaliação de contas de feed na Solana.
// O oracle_ref de um ativo é o endereço Base58 da sua conta de feed.
type SolanaOracleService struct {
	RPCClient *rpc.Client
}

// NewSolanaOracleService cria um cliente de oráculo apontando para o RPC informado.
func NewSolanaOracleService(rpcEndpoint string) *SolanaOracleService {
	return &SolanaOracleService{RPCClient: rpc.New(rpcEndpoint)}
}

// Sample busca e decodifica a amostra corrente do feed. Erros de RPC viram
// ErrOracleUnavailable; contas ilegíveis viram ErrOracleMalformed. Nenhuma
// retentativa acontece aqui: o chamador decide.
func (s *SolanaOracleService) Sample(ctx context.Context, oracleRef string) (models.OracleSample, error) {
	feedAccount, err := solana.PublicKeyFromBase58(oracleRef)
	if err != nil {
		return models.OracleSample{}, fmt.Errorf("%w: endereço de feed inválido %q: %v", models.ErrOracleMalformed, oracleRef, err)
	}

	resp, err := s.RPCClient.GetAccountInfo(ctx, feedAccount)
	if err != nil {
		return models.OracleSample{}, fmt.Errorf("%w: falha ao ler conta do feed %s: %v", models.ErrOracleUnavailable, oracleRef, err)
	}
	if resp == nil || resp.Value == nil {
		return models.OracleSample{}, fmt.Errorf("%w: conta do feed %s não encontrada", models.ErrOracleUnavailable, oracleRef)
	}

	return DecodeFeedAccount(resp.Value.Data.GetBinary())
}

// DecodeFeedAccount decodifica o layout little-endian de uma conta de feed.
// Exportado para o ferramental do publicador e para testes.
func DecodeFeedAccount(data []byte) (models.OracleSample, error) {
	if len(data) < feedAccountSize {
		return models.OracleSample{}, fmt.Errorf("%w: conta do feed tem %d bytes, esperado ao menos %d",
			models.ErrOracleMalformed, len(data), feedAccountSize)
	}
	if magic := binary.LittleEndian.Uint32(data[0:4]); magic != feedMagic {
		return models.OracleSample{}, fmt.Errorf("%w: magic 0x%08x não reconhecido", models.ErrOracleMalformed, magic)
	}

	value := int64(binary.LittleEndian.Uint64(data[4:12]))
	observedUnix := int64(binary.LittleEndian.Uint64(data[12:20]))
	confidence := binary.LittleEndian.Uint64(data[20:28])

	return models.OracleSample{
		Value:      value,
		ObservedAt: time.Unix(observedUnix, 0),
		Confidence: confidence,
	}, nil
}
