package services_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/ferreirogomes/imotok/models"
	"github.com/ferreirogomes/imotok/services"
	"github.com/ferreirogomes/imotok/storage"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// payment registra um repasse observado pelo sink de testes.
type payment struct {
	HolderID string
	Amount   int64
}

// MockPayoutSink é uma implementação mock do services.PayoutSink que, além
// das expectativas do testify, registra a sequência exata de repasses para
// asserções de ordem determinística.
type MockPayoutSink struct {
	mock.Mock
	mu    sync.Mutex
	calls []payment
}

func (m *MockPayoutSink) Transfer(ctx context.Context, holderID string, amount int64) error {
	m.mu.Lock()
	m.calls = append(m.calls, payment{HolderID: holderID, Amount: amount})
	m.mu.Unlock()
	args := m.Called(holderID, amount)
	return args.Error(0)
}

func (m *MockPayoutSink) Payments() []payment {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]payment, len(m.calls))
	copy(out, m.calls)
	return out
}

// MockOracleClient é uma implementação mock do services.OracleClient.
type MockOracleClient struct {
	mock.Mock
}

func (m *MockOracleClient) Sample(ctx context.Context, oracleRef string) (models.OracleSample, error) {
	args := m.Called(oracleRef)
	return args.Get(0).(models.OracleSample), args.Error(1)
}

// valuationChange registra um evento ValuationUpdated.
type valuationChange struct {
	AssetID  string
	Old, New int64
}

// distributionEvent registra um evento RentDistributed.
type distributionEvent struct {
	AssetID string
	Amount  int64
}

// RecordingNotifier acumula os eventos emitidos pelo núcleo.
type RecordingNotifier struct {
	mu          sync.Mutex
	Tokenized   []string
	Updated     []valuationChange
	Distributed []distributionEvent
	Failed      map[string][]models.HolderFailure
}

func NewRecordingNotifier() *RecordingNotifier {
	return &RecordingNotifier{Failed: make(map[string][]models.HolderFailure)}
}

func (n *RecordingNotifier) PropertyTokenized(assetID string, totalShares int64) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.Tokenized = append(n.Tokenized, assetID)
}

func (n *RecordingNotifier) ValuationUpdated(assetID string, oldValue, newValue int64) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.Updated = append(n.Updated, valuationChange{AssetID: assetID, Old: oldValue, New: newValue})
}

func (n *RecordingNotifier) RentDistributed(assetID string, amount int64) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.Distributed = append(n.Distributed, distributionEvent{AssetID: assetID, Amount: amount})
}

func (n *RecordingNotifier) DistributionFailed(assetID string, failures []models.HolderFailure) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.Failed[assetID] = append(n.Failed[assetID], failures...)
}

// gateSink segura cada repasse até o teste liberá-lo, para exercitar a
// exclusão por ativo.
type gateSink struct {
	entered chan string
	release chan struct{}
}

func newGateSink() *gateSink {
	return &gateSink{entered: make(chan string), release: make(chan struct{})}
}

func (g *gateSink) Transfer(ctx context.Context, holderID string, amount int64) error {
	g.entered <- holderID
	select {
	case <-g.release:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// fixture reúne o núcleo montado sobre um MemStore.
type fixture struct {
	store        *storage.MemStore
	locks        *services.AssetLocks
	notifier     *RecordingNotifier
	registry     *services.RegistryService
	ledger       *services.LedgerService
	sink         *MockPayoutSink
	distribution *services.DistributionService
}

func newFixture() *fixture {
	store := storage.NewMemStore()
	locks := services.NewAssetLocks()
	notifier := NewRecordingNotifier()
	registry := services.NewRegistryService(store, locks, notifier)
	ledger := services.NewLedgerService(store)
	sink := &MockPayoutSink{}
	return &fixture{
		store:        store,
		locks:        locks,
		notifier:     notifier,
		registry:     registry,
		ledger:       ledger,
		sink:         sink,
		distribution: services.NewDistributionService(registry, ledger, sink, locks, notifier),
	}
}

// distributionWith monta um motor de distribuição com um sink alternativo
// compartilhando o mesmo registro e locks da fixture.
func (f *fixture) distributionWith(sink services.PayoutSink) *services.DistributionService {
	return services.NewDistributionService(f.registry, f.ledger, sink, f.locks, f.notifier)
}

// tokenize cria um ativo de teste com o emissor detendo todas as cotas.
func (f *fixture) tokenize(t *testing.T, assetID string, valuation, totalShares int64, issuerID string) {
	t.Helper()
	_, err := f.registry.Tokenize(context.Background(), assetID, "Imóvel de teste",
		valuation, "feed-"+assetID, totalShares, issuerID)
	require.NoError(t, err)
}

// setHoldings substitui as posições de um ativo, simulando o colaborador
// externo de transferência escrevendo direto no Store.
func (f *fixture) setHoldings(t *testing.T, assetID, issuerID string, holdings map[string]int64) {
	t.Helper()
	require.NoError(t, f.store.SaveHolding(models.Holding{AssetID: assetID, HolderID: issuerID, Shares: 0}))
	for holderID, shares := range holdings {
		require.NoError(t, f.store.SaveHolding(models.Holding{AssetID: assetID, HolderID: holderID, Shares: shares}))
	}
}

// freshSample devolve uma amostra observada agora.
func freshSample(value int64) models.OracleSample {
	return models.OracleSample{Value: value, ObservedAt: time.Now(), Confidence: 5}
}
