// Package domain defines the persisted record types produced by the indexer.
package domain

import "time"

// BurnRecord is the normalized view of one observed transaction, keyed by
// signature. Optional fields may be filled in by a later redelivery but are
// never cleared once set.
type BurnRecord struct {
	Signature        string     // base-58 transaction signature, primary key
	Slot             int64      // slot at observation time
	Success          bool       // transaction outcome
	FeeLamports      int64      // fee paid
	FeePayer         string     // base-58 first signer, empty if unknown
	BlockTime        *time.Time // best-effort enrichment, nullable
	ComputeUnits     *int64     // only present when the feed reports it
	ArbitrageSuccess *bool      // tri-state heuristic: true/false/nil
	IngestTS         time.Time  // set by the store on first insert
}

// TxFailureRecord classifies a failed transaction. At most one per signature;
// a redelivery overwrites the previous classification wholesale.
type TxFailureRecord struct {
	Signature string
	ErrorType string // decoded error variant or Unknown(...) fallback, never empty
	Slot      int64
	TS        time.Time // observation time; store defaults to now when zero
}

// TxInstructionRecord counts instructions invoked by one program within one
// transaction. Keyed by (signature, program_id); noise programs are never
// recorded.
type TxInstructionRecord struct {
	Signature       string
	ProgramID       string
	NumInstructions int32
}
