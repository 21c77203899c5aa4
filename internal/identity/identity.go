// Package identity provides the per-user identifier used for chat requests.
//
// The identifier is not a security credential: it only keys conversation
// state on the answer service, mirroring the dashboard's browser-local id.
package identity

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// storageKey is the persistent key holding the generated identifier.
const storageKey = "rag_user_id"

// Provider hands out the session-scoped user identifier.
type Provider interface {
	GetOrCreate(ctx context.Context) (string, error)
}

// KV is the key-value store the provider persists into.
type KV interface {
	GetValue(ctx context.Context, key string) (string, error)
	PutValueIfAbsent(ctx context.Context, key, value string) (string, error)
}

// StoreProvider implements Provider on top of a persistent key-value
// store. The identifier is generated once, lazily, and cached for the
// rest of the process lifetime; a concurrent first writer always wins.
type StoreProvider struct {
	store KV

	mu     sync.Mutex
	cached string
}

// NewStoreProvider creates a StoreProvider backed by store.
func NewStoreProvider(store KV) *StoreProvider {
	return &StoreProvider{store: store}
}

// GetOrCreate returns the persisted identifier, generating and storing
// a fresh "user_<uuid>" value on first use.
func (p *StoreProvider) GetOrCreate(ctx context.Context) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.cached != "" {
		return p.cached, nil
	}

	existing, err := p.store.GetValue(ctx, storageKey)
	if err != nil {
		return "", fmt.Errorf("read user id: %w", err)
	}
	if existing != "" {
		p.cached = existing
		return existing, nil
	}

	stored, err := p.store.PutValueIfAbsent(ctx, storageKey, "user_"+uuid.NewString())
	if err != nil {
		return "", fmt.Errorf("store user id: %w", err)
	}
	p.cached = stored
	return stored, nil
}
