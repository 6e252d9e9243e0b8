// Package memory holds in-memory store implementations used by tests and
// the --use-memory run mode.
package memory

import (
	"context"
	"sync"
	"time"

	"dash-indexer/internal/domain"
	"dash-indexer/internal/storage"
)

// BurnStore is an in-memory implementation of storage.BurnStore.
type BurnStore struct {
	mu   sync.RWMutex
	data map[string]*domain.BurnRecord
}

// NewBurnStore creates a new in-memory burn store.
func NewBurnStore() *BurnStore {
	return &BurnStore{data: make(map[string]*domain.BurnRecord)}
}

// Compile-time interface check.
var _ storage.BurnStore = (*BurnStore)(nil)

// Upsert inserts or merges a burn record. Required fields take the latest
// observation; optional fields fill in only when currently absent.
func (s *BurnStore) Upsert(_ context.Context, b *domain.BurnRecord) error {
	if b == nil || b.Signature == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.data[b.Signature]
	if !ok {
		stored := *b
		if stored.IngestTS.IsZero() {
			stored.IngestTS = time.Now().UTC()
		}
		s.data[b.Signature] = &stored
		return nil
	}

	existing.Slot = b.Slot
	existing.Success = b.Success
	existing.FeeLamports = b.FeeLamports
	existing.FeePayer = b.FeePayer
	if existing.BlockTime == nil {
		existing.BlockTime = b.BlockTime
	}
	if existing.ComputeUnits == nil {
		existing.ComputeUnits = b.ComputeUnits
	}
	if existing.ArbitrageSuccess == nil {
		existing.ArbitrageSuccess = b.ArbitrageSuccess
	}
	return nil
}

// GetBySignature retrieves a burn record. Returns ErrNotFound if absent.
func (s *BurnStore) GetBySignature(_ context.Context, signature string) (*domain.BurnRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	b, ok := s.data[signature]
	if !ok {
		return nil, storage.ErrNotFound
	}
	out := *b
	return &out, nil
}
