// Package ingest runs the transaction feed: a supervisor that keeps the
// stream session alive and a processor that turns raw updates into stored
// records.
package ingest

import (
	"context"
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/mr-tron/base58"

	"dash-indexer/internal/classify"
	"dash-indexer/internal/domain"
	"dash-indexer/internal/observability"
	"dash-indexer/internal/solana"
	"dash-indexer/internal/storage"
)

const (
	// DefaultEnrichTimeout bounds the block time lookup per transaction.
	DefaultEnrichTimeout = 10 * time.Second
	// DefaultDBTimeout bounds each database upsert.
	DefaultDBTimeout = 15 * time.Second
)

// BlockTimeSource resolves a slot to its block time.
type BlockTimeSource interface {
	BlockTime(ctx context.Context, slot int64) (time.Time, error)
}

// ProcessorOptions contains configuration for creating a Processor.
type ProcessorOptions struct {
	Burns        storage.BurnStore
	Failures     storage.TxFailureStore
	Instructions storage.TxInstructionStore
	BlockTimes   BlockTimeSource        // optional; nil disables enrichment
	Noise        classify.NoiseSet      // programs excluded from instruction counts
	DecodeError  classify.ErrorDecoder  // optional; nil uses the built-in decoder
	Metrics      *observability.Metrics // optional
	Logger       *log.Logger

	EnrichTimeout time.Duration // Default: 10s
	DBTimeout     time.Duration // Default: 15s
}

// Processor turns one transaction update into burn, failure, and instruction
// records. A failure in any step is logged and never stops the session.
type Processor struct {
	burns        storage.BurnStore
	failures     storage.TxFailureStore
	instructions storage.TxInstructionStore
	blockTimes   BlockTimeSource
	noise        classify.NoiseSet
	decodeError  classify.ErrorDecoder
	metrics      *observability.Metrics
	logger       *log.Logger

	enrichTimeout time.Duration
	dbTimeout     time.Duration
}

// NewProcessor creates a new Processor.
func NewProcessor(opts ProcessorOptions) *Processor {
	enrichTimeout := opts.EnrichTimeout
	if enrichTimeout == 0 {
		enrichTimeout = DefaultEnrichTimeout
	}

	dbTimeout := opts.DBTimeout
	if dbTimeout == 0 {
		dbTimeout = DefaultDBTimeout
	}

	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}

	return &Processor{
		burns:         opts.Burns,
		failures:      opts.Failures,
		instructions:  opts.Instructions,
		blockTimes:    opts.BlockTimes,
		noise:         opts.Noise,
		decodeError:   opts.DecodeError,
		metrics:       opts.Metrics,
		logger:        logger,
		enrichTimeout: enrichTimeout,
		dbTimeout:     dbTimeout,
	}
}

// HandleTransaction processes one update from the feed. Errors are logged,
// never returned: a bad message must not take the session down.
func (p *Processor) HandleTransaction(ctx context.Context, update *solana.TransactionUpdate) {
	if update == nil || update.Transaction == nil {
		return
	}
	if err := p.process(ctx, update); err != nil {
		p.logger.Printf("handle tx error: %v", err)
	}
}

func (p *Processor) process(ctx context.Context, update *solana.TransactionUpdate) error {
	info := update.Transaction
	signature := base58.Encode(info.Signature)
	slot := int64(update.Slot)

	// Absent metadata means the execution result is unknown; record the
	// transaction as a plain successful observation with a zero fee.
	success := true
	var feeLamports int64
	var computeUnits *int64
	var logMessages []string
	var rawErr []byte
	if meta := info.Meta; meta != nil {
		success = meta.Err == nil
		feeLamports = int64(meta.Fee)
		if meta.ComputeUnitsConsumed != nil {
			cu := int64(*meta.ComputeUnitsConsumed)
			computeUnits = &cu
		}
		logMessages = meta.LogMessages
		if meta.Err != nil {
			rawErr = meta.Err.Err
		}
	}

	var accountKeys []string
	if info.Transaction != nil && info.Transaction.Message != nil {
		for _, key := range info.Transaction.Message.AccountKeys {
			accountKeys = append(accountKeys, base58.Encode(key))
		}
	}
	var feePayer string
	if len(accountKeys) > 0 {
		feePayer = accountKeys[0]
	}

	blockTime := p.lookupBlockTime(ctx, slot)

	p.logBanner(signature, slot, success, feeLamports, feePayer, blockTime)

	if p.metrics != nil {
		p.metrics.TransactionsProcessed.Inc()
		p.metrics.HighestSlotSeen.Set(float64(slot))
	}

	// A persistence failure drops the message's remaining writes; the feed's
	// at-least-once redelivery is the recovery mechanism, not local retry.
	burn := &domain.BurnRecord{
		Signature:        signature,
		Slot:             slot,
		Success:          success,
		FeeLamports:      feeLamports,
		FeePayer:         feePayer,
		BlockTime:        blockTime,
		ComputeUnits:     computeUnits,
		ArbitrageSuccess: classify.Arbitrage(logMessages),
	}
	if err := p.upsertBurn(ctx, burn); err != nil {
		return err
	}

	if !success {
		failure := &domain.TxFailureRecord{
			Signature: signature,
			ErrorType: classify.ErrorLabel(rawErr, p.decodeError),
			Slot:      slot,
		}
		if blockTime != nil {
			failure.TS = *blockTime
		}
		if err := p.upsertFailure(ctx, failure); err != nil {
			return err
		}
	}

	if info.Meta != nil {
		if err := p.upsertInstructions(ctx, signature, info, accountKeys); err != nil {
			return err
		}
	}

	if p.metrics != nil {
		p.metrics.LastSuccessfulIngestion.SetToCurrentTime()
	}
	return nil
}

// lookupBlockTime resolves the slot's block time. Lookup failures are logged
// and tolerated; the burn record is written without one.
func (p *Processor) lookupBlockTime(ctx context.Context, slot int64) *time.Time {
	if p.blockTimes == nil {
		return nil
	}

	enrichCtx, cancel := context.WithTimeout(ctx, p.enrichTimeout)
	defer cancel()

	start := time.Now()
	t, err := p.blockTimes.BlockTime(enrichCtx, slot)
	if p.metrics != nil {
		p.metrics.RPCCallLatency.WithLabelValues("getBlockTime").Observe(time.Since(start).Seconds())
	}
	if err != nil {
		p.logger.Printf("block time lookup failed for slot %d: %v", slot, err)
		if p.metrics != nil {
			p.metrics.BlockTimeLookupErrors.Inc()
		}
		return nil
	}
	return &t
}

func (p *Processor) upsertBurn(ctx context.Context, burn *domain.BurnRecord) error {
	dbCtx, cancel := context.WithTimeout(ctx, p.dbTimeout)
	defer cancel()

	if err := p.burns.Upsert(dbCtx, burn); err != nil {
		if p.metrics != nil {
			p.metrics.UpsertErrors.WithLabelValues("burns").Inc()
		}
		return fmt.Errorf("upsert burn %s: %w", burn.Signature, err)
	}
	return nil
}

func (p *Processor) upsertFailure(ctx context.Context, failure *domain.TxFailureRecord) error {
	dbCtx, cancel := context.WithTimeout(ctx, p.dbTimeout)
	defer cancel()

	if err := p.failures.Upsert(dbCtx, failure); err != nil {
		if p.metrics != nil {
			p.metrics.UpsertErrors.WithLabelValues("tx_failures").Inc()
		}
		return fmt.Errorf("upsert tx failure %s: %w", failure.Signature, err)
	}
	return nil
}

func (p *Processor) upsertInstructions(ctx context.Context, signature string, info *solana.TransactionInfo, accountKeys []string) error {
	var programIndexes []int
	if info.Transaction != nil && info.Transaction.Message != nil {
		for _, ix := range info.Transaction.Message.Instructions {
			programIndexes = append(programIndexes, int(ix.ProgramIDIndex))
		}
	}

	counts := classify.CountProgramInstructions(accountKeys, programIndexes, p.noise)
	if len(counts) == 0 {
		return nil
	}

	programIDs := make([]string, 0, len(counts))
	for programID := range counts {
		programIDs = append(programIDs, programID)
	}
	sort.Strings(programIDs)

	records := make([]*domain.TxInstructionRecord, 0, len(programIDs))
	for _, programID := range programIDs {
		records = append(records, &domain.TxInstructionRecord{
			Signature:       signature,
			ProgramID:       programID,
			NumInstructions: counts[programID],
		})
	}

	dbCtx, cancel := context.WithTimeout(ctx, p.dbTimeout)
	defer cancel()

	if err := p.instructions.Upsert(dbCtx, records); err != nil {
		if p.metrics != nil {
			p.metrics.UpsertErrors.WithLabelValues("tx_instructions").Inc()
		}
		return fmt.Errorf("upsert tx instructions %s: %w", signature, err)
	}
	return nil
}

func (p *Processor) logBanner(signature string, slot int64, success bool, feeLamports int64, feePayer string, blockTime *time.Time) {
	blockTimeStr := "n/a"
	if blockTime != nil {
		blockTimeStr = blockTime.Format(time.RFC3339)
	}
	p.logger.Printf(
		"\n==================== Incoming Transaction ====================\n"+
			"signature    : %s\n"+
			"slot         : %d\n"+
			"success      : %t\n"+
			"fee_lamports : %d\n"+
			"fee_payer    : %s\n"+
			"block_time   : %s\n"+
			"==============================================================",
		signature, slot, success, feeLamports, feePayer, blockTimeStr,
	)
}
