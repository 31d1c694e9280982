package blockchain_listener

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/ferreirogomes/imotok/models"
	"github.com/ferreirogomes/imotok/services"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/gagliardetto/solana-go/rpc/ws"
)

// OracleFeedListener observa as contas de feed dos ativos na Solana e dispara
// a atualização de avaliação quando o publicador grava uma nova amostra. O
// listener é um chamador externo do núcleo: a decisão de retentar uma amostra
// rejeitada fica aqui, nunca dentro do motor de avaliação.
type OracleFeedListener struct {
	WSClient       *ws.Client
	Store          services.Store
	Valuation      *services.ValuationService
	RefreshTimeout time.Duration // Prazo máximo de cada refresh disparado
}

// NewOracleFeedListener cria uma nova instância do listener.
func NewOracleFeedListener(wsEndpoint string, store services.Store, valuation *services.ValuationService) *OracleFeedListener {
	wsClient, err := ws.Connect(context.Background(), wsEndpoint)
	if err != nil {
		log.Fatalf("Falha ao conectar ao WebSocket Solana: %v", err)
	}

	return &OracleFeedListener{
		WSClient:       wsClient,
		Store:          store,
		Valuation:      valuation,
		RefreshTimeout: 10 * time.Second,
	}
}

// StartListening subscreve ao feed de cada ativo registrado e observa
// atualizações. Bloqueia; roda em uma goroutine própria.
func (l *OracleFeedListener) StartListening() {
	log.Println("Iniciando listener dos feeds de oráculo...")

	assets, err := l.Store.ListAssets()
	if err != nil {
		log.Printf("Falha ao listar ativos para subscrição: %v", err)
		return
	}

	// TODO: subscrever também feeds de ativos tokenizados depois do início
	// do processo, reagindo ao evento PropertyTokenized.
	for _, asset := range assets {
		go l.watchFeed(asset.ID, asset.OracleRef)
	}
	select {}
}

// watchFeed observa a conta de feed de um ativo e dispara um refresh a cada
// escrita do publicador.
func (l *OracleFeedListener) watchFeed(assetID, oracleRef string) {
	feedAccount, err := solana.PublicKeyFromBase58(oracleRef)
	if err != nil {
		log.Printf("Feed %s do ativo %s tem endereço inválido: %v", oracleRef, assetID, err)
		return
	}

	sub, err := l.WSClient.AccountSubscribe(feedAccount, rpc.CommitmentFinalized)
	if err != nil {
		log.Printf("Falha ao subscrever ao feed %s: %v", oracleRef, err)
		return
	}
	defer sub.Unsubscribe()

	for {
		_, err := sub.Recv(context.Background())
		if err != nil {
			log.Printf("Erro ao receber atualização do feed %s: %v", oracleRef, err)
			time.Sleep(5 * time.Second)
			continue
		}

		log.Printf("Feed %s atualizado. Atualizando avaliação do ativo %s...", oracleRef, assetID)
		l.refresh(assetID)
	}
}

// refresh chama o motor de avaliação com prazo limitado. Amostras obsoletas
// não são retentadas: a próxima escrita do publicador traz uma amostra nova.
func (l *OracleFeedListener) refresh(assetID string) {
	ctx, cancel := context.WithTimeout(context.Background(), l.RefreshTimeout)
	defer cancel()

	err := l.Valuation.Refresh(ctx, assetID)
	if err == nil {
		return
	}
	if errors.Is(err, models.ErrStaleOracleData) {
		log.Printf("Amostra obsoleta para o ativo %s; aguardando próxima publicação: %v", assetID, err)
		return
	}
	log.Printf("Falha ao atualizar avaliação do ativo %s: %v", assetID, err)
}
