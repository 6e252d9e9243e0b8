package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"dash-indexer/internal/domain"
	"dash-indexer/internal/storage"
)

// TxInstructionStore implements storage.TxInstructionStore using PostgreSQL.
type TxInstructionStore struct {
	pool *Pool
}

// NewTxInstructionStore creates a new TxInstructionStore.
func NewTxInstructionStore(pool *Pool) *TxInstructionStore {
	return &TxInstructionStore{pool: pool}
}

// Compile-time interface check.
var _ storage.TxInstructionStore = (*TxInstructionStore)(nil)

// Upsert inserts or overwrites each record by (signature, program_id),
// atomically for the whole batch.
func (s *TxInstructionStore) Upsert(ctx context.Context, records []*domain.TxInstructionRecord) error {
	if len(records) == 0 {
		return nil
	}
	for _, r := range records {
		if r == nil || r.Signature == "" || r.ProgramID == "" {
			return storage.ErrInvalidInput
		}
	}
	defer s.pool.observe("tx_instructions", "upsert", time.Now())

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO tx_instructions (signature, program_id, num_instructions)
		VALUES ($1, $2, $3)
		ON CONFLICT (signature, program_id) DO UPDATE SET
			num_instructions = EXCLUDED.num_instructions
	`

	for _, r := range records {
		if _, err := tx.Exec(ctx, query, r.Signature, r.ProgramID, r.NumInstructions); err != nil {
			return fmt.Errorf("upsert tx instruction: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// GetBySignature retrieves all instruction records for a signature, ordered
// by program_id.
func (s *TxInstructionStore) GetBySignature(ctx context.Context, signature string) ([]*domain.TxInstructionRecord, error) {
	defer s.pool.observe("tx_instructions", "get", time.Now())

	query := `
		SELECT signature, program_id, num_instructions
		FROM tx_instructions
		WHERE signature = $1
		ORDER BY program_id ASC
	`

	rows, err := s.pool.Query(ctx, query, signature)
	if err != nil {
		return nil, fmt.Errorf("get tx instructions by signature: %w", err)
	}
	defer rows.Close()

	return scanInstructions(rows)
}

// scanInstructions scans multiple rows into a slice of TxInstructionRecord.
func scanInstructions(rows pgx.Rows) ([]*domain.TxInstructionRecord, error) {
	var records []*domain.TxInstructionRecord

	for rows.Next() {
		var r domain.TxInstructionRecord
		if err := rows.Scan(&r.Signature, &r.ProgramID, &r.NumInstructions); err != nil {
			return nil, fmt.Errorf("scan tx instruction row: %w", err)
		}
		records = append(records, &r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tx instruction rows: %w", err)
	}
	return records, nil
}
