package postgres

import (
	"context"
	"fmt"
	"time"

	"dash-indexer/internal/domain"
	"dash-indexer/internal/storage"
)

// TxFailureStore implements storage.TxFailureStore using PostgreSQL.
type TxFailureStore struct {
	pool *Pool
}

// NewTxFailureStore creates a new TxFailureStore.
func NewTxFailureStore(pool *Pool) *TxFailureStore {
	return &TxFailureStore{pool: pool}
}

// Compile-time interface check.
var _ storage.TxFailureStore = (*TxFailureStore)(nil)

// Upsert inserts or wholesale-overwrites the failure record for a signature.
// A zero TS defaults to the database clock.
func (s *TxFailureStore) Upsert(ctx context.Context, f *domain.TxFailureRecord) error {
	if f == nil || f.Signature == "" || f.ErrorType == "" {
		return storage.ErrInvalidInput
	}
	defer s.pool.observe("tx_failures", "upsert", time.Now())

	var ts *time.Time
	if !f.TS.IsZero() {
		ts = &f.TS
	}

	query := `
		INSERT INTO tx_failures (signature, error_type, slot, ts)
		VALUES ($1, $2, $3, COALESCE($4, NOW()))
		ON CONFLICT (signature) DO UPDATE SET
			error_type = EXCLUDED.error_type,
			slot = EXCLUDED.slot,
			ts = EXCLUDED.ts
	`

	if _, err := s.pool.Exec(ctx, query, f.Signature, f.ErrorType, f.Slot, ts); err != nil {
		return fmt.Errorf("upsert tx failure: %w", err)
	}
	return nil
}

// GetBySignature retrieves a failure record. Returns ErrNotFound if absent.
func (s *TxFailureStore) GetBySignature(ctx context.Context, signature string) (*domain.TxFailureRecord, error) {
	defer s.pool.observe("tx_failures", "get", time.Now())

	query := `
		SELECT signature, error_type, slot, ts
		FROM tx_failures
		WHERE signature = $1
	`

	var f domain.TxFailureRecord
	err := s.pool.QueryRow(ctx, query, signature).Scan(&f.Signature, &f.ErrorType, &f.Slot, &f.TS)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get tx failure by signature: %w", err)
	}
	return &f, nil
}
