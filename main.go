package main

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/ferreirogomes/imotok/blockchain_listener"
	"github.com/ferreirogomes/imotok/handlers"
	"github.com/ferreirogomes/imotok/services"
	"github.com/ferreirogomes/imotok/storage"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func main() {
	dataSourceName := mustEnv("DATABASE_URL")
	solanaRPCURL := mustEnv("SOLANA_RPC_URL")
	solanaWSURL := mustEnv("SOLANA_WS_URL")
	feePayerKey := mustEnv("SOLANA_FEE_PAYER_KEY")
	payoutMint := mustEnv("PAYOUT_MINT_ADDRESS")
	maxSampleAge := envDuration("ORACLE_MAX_SAMPLE_AGE", 5*time.Minute)

	db, err := storage.NewDB(dataSourceName)
	if err != nil {
		log.Fatalf("Falha fatal ao conectar ao banco de dados e aplicar migrações: %v", err)
	}
	defer db.Close()

	locks := services.NewAssetLocks()
	notifier := services.LogNotifier{}

	oracleService := services.NewSolanaOracleService(solanaRPCURL)
	payoutService, err := services.NewSolanaPayoutService(solanaRPCURL, db, feePayerKey, payoutMint)
	if err != nil {
		log.Fatalf("Falha ao inicializar trilho de pagamento Solana: %v", err)
	}

	registryService := services.NewRegistryService(db, locks, notifier)
	ledgerService := services.NewLedgerService(db)
	valuationService := services.NewValuationService(registryService, oracleService, locks, notifier, maxSampleAge)
	distributionService := services.NewDistributionService(registryService, ledgerService, payoutService, locks, notifier)

	assetHandler := handlers.NewAssetHandler(registryService)
	valuationHandler := handlers.NewValuationHandler(valuationService, registryService)
	distributionHandler := handlers.NewDistributionHandler(distributionService)
	holderHandler := handlers.NewHolderHandler(db)

	// Inicializa e inicia o listener dos feeds de oráculo em uma goroutine separada
	listener := blockchain_listener.NewOracleFeedListener(solanaWSURL, db, valuationService)
	go listener.StartListening()
	log.Println("Listener dos feeds de oráculo iniciado.")

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.URLFormat)

	r.Route("/assets", func(r chi.Router) {
		r.Post("/", assetHandler.TokenizeAsset)
		r.Get("/{id}", assetHandler.GetAssetByID)
		r.Post("/{id}/refresh", valuationHandler.RefreshValuation)
		r.Post("/{id}/distributions", distributionHandler.DistributeRent)
	})

	r.Route("/holders", func(r chi.Router) {
		r.Post("/", holderHandler.CreateHolder)
		r.Get("/{id}", holderHandler.GetHolderByID)
	})

	port := ":8080"
	fmt.Printf("Servidor backend rodando na porta %s...\n", port)
	log.Fatal(http.ListenAndServe(port, r))
}

// mustEnv lê uma variável de ambiente obrigatória.
func mustEnv(key string) string {
	value := os.Getenv(key)
	if value == "" {
		log.Fatalf("Variável de ambiente %s é obrigatória.", key)
	}
	return value
}

// envDuration lê uma duração do ambiente, com valor padrão.
func envDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		log.Fatalf("Variável de ambiente %s inválida (%q): %v", key, value, err)
	}
	return d
}
