package postgres

import (
	"context"
	"fmt"
	"time"

	"dash-indexer/internal/domain"
	"dash-indexer/internal/storage"
)

// BurnStore implements storage.BurnStore using PostgreSQL.
type BurnStore struct {
	pool *Pool
}

// NewBurnStore creates a new BurnStore.
func NewBurnStore(pool *Pool) *BurnStore {
	return &BurnStore{pool: pool}
}

// Compile-time interface check.
var _ storage.BurnStore = (*BurnStore)(nil)

// Upsert inserts or merges a burn record. Required fields always take the
// incoming observation; optional fields keep the stored value once set
// (COALESCE prefers the incoming value only when the row has none).
func (s *BurnStore) Upsert(ctx context.Context, b *domain.BurnRecord) error {
	if b == nil || b.Signature == "" {
		return storage.ErrInvalidInput
	}
	defer s.pool.observe("burns", "upsert", time.Now())

	query := `
		INSERT INTO burns (
			signature, slot, success, fee_lamports, fee_payer, block_time, compute_units, arbitrage_success
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (signature) DO UPDATE SET
			slot = EXCLUDED.slot,
			success = EXCLUDED.success,
			fee_lamports = EXCLUDED.fee_lamports,
			fee_payer = EXCLUDED.fee_payer,
			block_time = COALESCE(burns.block_time, EXCLUDED.block_time),
			compute_units = COALESCE(burns.compute_units, EXCLUDED.compute_units),
			arbitrage_success = COALESCE(burns.arbitrage_success, EXCLUDED.arbitrage_success)
	`

	_, err := s.pool.Exec(ctx, query,
		b.Signature,
		b.Slot,
		b.Success,
		b.FeeLamports,
		b.FeePayer,
		b.BlockTime,
		b.ComputeUnits,
		b.ArbitrageSuccess,
	)
	if err != nil {
		return fmt.Errorf("upsert burn: %w", err)
	}
	return nil
}

// GetBySignature retrieves a burn record. Returns ErrNotFound if absent.
func (s *BurnStore) GetBySignature(ctx context.Context, signature string) (*domain.BurnRecord, error) {
	defer s.pool.observe("burns", "get", time.Now())

	query := `
		SELECT signature, slot, success, fee_lamports, fee_payer, block_time, compute_units, arbitrage_success, ingest_ts
		FROM burns
		WHERE signature = $1
	`

	var b domain.BurnRecord
	err := s.pool.QueryRow(ctx, query, signature).Scan(
		&b.Signature,
		&b.Slot,
		&b.Success,
		&b.FeeLamports,
		&b.FeePayer,
		&b.BlockTime,
		&b.ComputeUnits,
		&b.ArbitrageSuccess,
		&b.IngestTS,
	)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get burn by signature: %w", err)
	}
	return &b, nil
}
