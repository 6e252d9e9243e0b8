// Package storage defines the persistence contracts for the indexer's three
// record kinds. All operations are idempotent upserts: calling them again
// with the same or corrected data for the same key never duplicates rows or
// loses previously-known optional values. Implementations must be safe for
// concurrent callers.
package storage

import (
	"context"

	"dash-indexer/internal/domain"
)

// BurnStore provides access to burns storage, keyed by signature.
type BurnStore interface {
	// Upsert inserts the record or merges it into an existing row: required
	// fields (slot, success, fee_lamports, fee_payer) always take the latest
	// observation, optional fields (block_time, compute_units,
	// arbitrage_success) fill in only when currently absent.
	Upsert(ctx context.Context, b *domain.BurnRecord) error

	// GetBySignature retrieves a burn record. Returns ErrNotFound if absent.
	GetBySignature(ctx context.Context, signature string) (*domain.BurnRecord, error)
}

// TxFailureStore provides access to tx_failures storage, keyed by signature.
type TxFailureStore interface {
	// Upsert inserts or wholesale-overwrites the failure classification for
	// a signature; the latest classification wins.
	Upsert(ctx context.Context, f *domain.TxFailureRecord) error

	// GetBySignature retrieves a failure record. Returns ErrNotFound if absent.
	GetBySignature(ctx context.Context, signature string) (*domain.TxFailureRecord, error)
}

// TxInstructionStore provides access to tx_instructions storage, keyed by
// (signature, program_id).
type TxInstructionStore interface {
	// Upsert inserts or overwrites the per-program instruction counts for
	// one transaction. Keys absent from records are left untouched.
	Upsert(ctx context.Context, records []*domain.TxInstructionRecord) error

	// GetBySignature retrieves all instruction records for a signature,
	// ordered by program_id. Empty slice when none exist.
	GetBySignature(ctx context.Context, signature string) ([]*domain.TxInstructionRecord, error)
}
