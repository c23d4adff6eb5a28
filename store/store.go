// Package store persists editing-session snapshots keyed by document name,
// so that reopening a document restores its fields, signers and signature.
package store

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/lvillar/signpdf/fields"
)

// KeyPrefix is prepended to document names to form storage keys.
const KeyPrefix = "sigapp:"

// ErrNotFound is returned by Load when nothing is stored under a key.
var ErrNotFound = errors.New("store: not found")

// Store saves and loads editing state.
type Store interface {
	Load(ctx context.Context, key string) (fields.EditingState, error)
	Save(ctx context.Context, key string, st fields.EditingState) error
	Delete(ctx context.Context, key string) error
}

// Key returns the storage key for a document name.
func Key(documentName string) string {
	return KeyPrefix + strings.TrimSpace(documentName)
}

// MemoryStore keeps state in memory. It is safe for concurrent use.
type MemoryStore struct {
	mu    sync.RWMutex
	items map[string]fields.EditingState
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{items: make(map[string]fields.EditingState)}
}

// Load returns a copy of the state stored under key, or ErrNotFound.
func (m *MemoryStore) Load(ctx context.Context, key string) (fields.EditingState, error) {
	if err := ctx.Err(); err != nil {
		return fields.EditingState{}, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	st, ok := m.items[key]
	if !ok {
		return fields.EditingState{}, ErrNotFound
	}
	return clone(st), nil
}

// Save stores a copy of st under key.
func (m *MemoryStore) Save(ctx context.Context, key string, st fields.EditingState) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[key] = clone(st)
	return nil
}

// Delete removes key. Missing keys are not an error.
func (m *MemoryStore) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.items, key)
	return nil
}

func clone(st fields.EditingState) fields.EditingState {
	return fields.EditingState{
		Fields:           st.Fields.Clone(),
		SignatureDataURL: st.SignatureDataURL,
		Signers:          append([]fields.Signer(nil), st.Signers...),
	}
}
