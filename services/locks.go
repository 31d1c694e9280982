package services

import (
	"context"
	"sync"
)

// AssetLocks serializa as mutações de cada ativo individualmente. Nunca existe
// um lock global do registro: ativos distintos progridem de forma independente.
// A aquisição respeita o contexto do chamador, então uma operação que expira
// esperando o lock falha sem tocar no estado do ativo.
type AssetLocks struct {
	mu    sync.Mutex
	locks map[string]chan struct{}
}

// NewAssetLocks cria a tabela de locks por ativo.
func NewAssetLocks() *AssetLocks {
	return &AssetLocks{locks: make(map[string]chan struct{})}
}

func (a *AssetLocks) lockFor(assetID string) chan struct{} {
	a.mu.Lock()
	defer a.mu.Unlock()
	lock, found := a.locks[assetID]
	if !found {
		lock = make(chan struct{}, 1)
		a.locks[assetID] = lock
	}
	return lock
}

// Acquire obtém exclusividade sobre um ativo, bloqueando até consegui-la ou
// até o contexto expirar. Devolve a função de liberação correspondente.
func (a *AssetLocks) Acquire(ctx context.Context, assetID string) (func(), error) {
	lock := a.lockFor(assetID)
	select {
	case lock <- struct{}{}:
		return func() { <-lock }, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
