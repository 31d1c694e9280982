package services

import (
	"context"
	"fmt"
	"log"

	"github.com/ferreirogomes/imotok/models"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/token"
	"github.com/gagliardetto/solana-go/rpc"
)

// SolanaPayoutService entrega repasses de renda como transferências SPL a
// partir da conta tesouraria. O FeePayer é o dono da tesouraria e paga as
// taxas de rede de cada repasse.
type SolanaPayoutService struct {
	RPCClient *rpc.Client
	Store     Store
	FeePayer  solana.PrivateKey
	Mint      solana.PublicKey // Mint da moeda de repasse (ex: stablecoin)
}

// NewSolanaPayoutService cria o trilho de pagamento Solana.
func NewSolanaPayoutService(rpcEndpoint string, store Store, feePayerKeyBase58 string, mintAddress string) (*SolanaPayoutService, error) {
	feePayer, err := solana.PrivateKeyFromBase58(feePayerKeyBase58)
	if err != nil {
		return nil, fmt.Errorf("falha ao carregar chave privada do Fee Payer: %w", err)
	}
	mint, err := solana.PublicKeyFromBase58(mintAddress)
	if err != nil {
		return nil, fmt.Errorf("endereço de Mint inválido: %w", err)
	}
	return &SolanaPayoutService{
		RPCClient: rpc.New(rpcEndpoint),
		Store:     store,
		FeePayer:  feePayer,
		Mint:      mint,
	}, nil
}

// Transfer envia amount unidades da moeda de repasse para a conta do cotista.
// Qualquer falha envolve models.ErrTransferFailed com o cotista e a causa.
func (s *SolanaPayoutService) Transfer(ctx context.Context, holderID string, amount int64) error {
	holder, found, err := s.Store.GetHolder(holderID)
	if err != nil {
		return fmt.Errorf("%w: erro ao buscar cotista %s: %v", models.ErrTransferFailed, holderID, err)
	}
	if !found || holder.SolanaPubKey == "" {
		return fmt.Errorf("%w: cotista %s não encontrado ou sem chave pública Solana", models.ErrTransferFailed, holderID)
	}

	holderPubKey, err := solana.PublicKeyFromBase58(holder.SolanaPubKey)
	if err != nil {
		return fmt.Errorf("%w: chave pública do cotista %s inválida: %v", models.ErrTransferFailed, holderID, err)
	}

	treasuryATA, _, err := solana.FindAssociatedTokenAddress(s.FeePayer.PublicKey(), s.Mint)
	if err != nil {
		return fmt.Errorf("%w: falha ao encontrar ATA da tesouraria: %v", models.ErrTransferFailed, err)
	}
	holderATA, _, err := solana.FindAssociatedTokenAddress(holderPubKey, s.Mint)
	if err != nil {
		return fmt.Errorf("%w: falha ao encontrar ATA do cotista %s: %v", models.ErrTransferFailed, holderID, err)
	}

	resp, err := s.RPCClient.GetRecentBlockhash(ctx, rpc.CommitmentFinalized)
	if err != nil {
		return fmt.Errorf("%w: falha ao obter blockhash: %v", models.ErrTransferFailed, err)
	}

	transferInstruction := token.NewTransferInstruction(
		uint64(amount),
		treasuryATA,
		holderATA,
		s.FeePayer.PublicKey(),
		nil,
	).Build()

	tx, err := solana.NewTransaction(
		[]solana.Instruction{transferInstruction},
		resp.Value.Blockhash,
		solana.TransactionPayer(s.FeePayer.PublicKey()),
	)
	if err != nil {
		return fmt.Errorf("%w: falha ao criar transação de repasse: %v", models.ErrTransferFailed, err)
	}

	_, err = tx.Sign(func(key solana.PublicKey) *solana.PrivateKey {
		if key.Equals(s.FeePayer.PublicKey()) {
			return &s.FeePayer
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("%w: falha ao assinar transação de repasse: %v", models.ErrTransferFailed, err)
	}

	txID, err := s.RPCClient.SendTransactionWithOpts(ctx, tx, rpc.TransactionOpts{
		SkipPreflight:       false,
		PreflightCommitment: rpc.CommitmentConfirmed,
	})
	if err != nil {
		return fmt.Errorf("%w: falha ao enviar repasse para o cotista %s: %v", models.ErrTransferFailed, holderID, err)
	}
	log.Printf("Repasse de %d enviado ao cotista %s (tx %s).", amount, holderID, txID)

	return nil
}
