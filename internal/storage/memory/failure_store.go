package memory

import (
	"context"
	"sync"
	"time"

	"dash-indexer/internal/domain"
	"dash-indexer/internal/storage"
)

// TxFailureStore is an in-memory implementation of storage.TxFailureStore.
type TxFailureStore struct {
	mu   sync.RWMutex
	data map[string]*domain.TxFailureRecord
}

// NewTxFailureStore creates a new in-memory failure store.
func NewTxFailureStore() *TxFailureStore {
	return &TxFailureStore{data: make(map[string]*domain.TxFailureRecord)}
}

// Compile-time interface check.
var _ storage.TxFailureStore = (*TxFailureStore)(nil)

// Upsert inserts or wholesale-overwrites the failure record for a signature.
func (s *TxFailureStore) Upsert(_ context.Context, f *domain.TxFailureRecord) error {
	if f == nil || f.Signature == "" || f.ErrorType == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	stored := *f
	if stored.TS.IsZero() {
		stored.TS = time.Now().UTC()
	}
	s.data[f.Signature] = &stored
	return nil
}

// GetBySignature retrieves a failure record. Returns ErrNotFound if absent.
func (s *TxFailureStore) GetBySignature(_ context.Context, signature string) (*domain.TxFailureRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	f, ok := s.data[signature]
	if !ok {
		return nil, storage.ErrNotFound
	}
	out := *f
	return &out, nil
}
