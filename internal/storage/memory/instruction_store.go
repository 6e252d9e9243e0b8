package memory

import (
	"context"
	"sort"
	"sync"

	"dash-indexer/internal/domain"
	"dash-indexer/internal/storage"
)

// instructionKey is the composite key for instruction records.
type instructionKey struct {
	Signature string
	ProgramID string
}

// TxInstructionStore is an in-memory implementation of storage.TxInstructionStore.
type TxInstructionStore struct {
	mu   sync.RWMutex
	data map[instructionKey]*domain.TxInstructionRecord
}

// NewTxInstructionStore creates a new in-memory instruction store.
func NewTxInstructionStore() *TxInstructionStore {
	return &TxInstructionStore{data: make(map[instructionKey]*domain.TxInstructionRecord)}
}

// Compile-time interface check.
var _ storage.TxInstructionStore = (*TxInstructionStore)(nil)

// Upsert inserts or overwrites each record by (signature, program_id).
func (s *TxInstructionStore) Upsert(_ context.Context, records []*domain.TxInstructionRecord) error {
	if len(records) == 0 {
		return nil
	}
	for _, r := range records {
		if r == nil || r.Signature == "" || r.ProgramID == "" {
			return storage.ErrInvalidInput
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, r := range records {
		stored := *r
		s.data[instructionKey{r.Signature, r.ProgramID}] = &stored
	}
	return nil
}

// GetBySignature retrieves all instruction records for a signature, ordered
// by program_id.
func (s *TxInstructionStore) GetBySignature(_ context.Context, signature string) ([]*domain.TxInstructionRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*domain.TxInstructionRecord
	for key, r := range s.data {
		if key.Signature == signature {
			cp := *r
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ProgramID < out[j].ProgramID })
	return out, nil
}
