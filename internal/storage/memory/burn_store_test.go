package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dash-indexer/internal/domain"
	"dash-indexer/internal/storage"
)

func ptr[T any](v T) *T { return &v }

func testBurn(sig string) *domain.BurnRecord {
	return &domain.BurnRecord{
		Signature:   sig,
		Slot:        1000,
		Success:     true,
		FeeLamports: 5000,
		FeePayer:    "FeePayer111",
	}
}

func TestBurnStore_UpsertAndGet(t *testing.T) {
	store := NewBurnStore()
	ctx := context.Background()

	b := testBurn("sig-1")
	b.BlockTime = ptr(time.Unix(1700000000, 0).UTC())
	require.NoError(t, store.Upsert(ctx, b))

	got, err := store.GetBySignature(ctx, "sig-1")
	require.NoError(t, err)
	assert.Equal(t, int64(1000), got.Slot)
	assert.Equal(t, int64(5000), got.FeeLamports)
	assert.Equal(t, "FeePayer111", got.FeePayer)
	require.NotNil(t, got.BlockTime)
	assert.Equal(t, time.Unix(1700000000, 0).UTC(), *got.BlockTime)
	assert.False(t, got.IngestTS.IsZero())
}

func TestBurnStore_UpsertIdempotent(t *testing.T) {
	store := NewBurnStore()
	ctx := context.Background()

	b := testBurn("sig-idem")
	b.ArbitrageSuccess = ptr(true)
	require.NoError(t, store.Upsert(ctx, b))

	first, err := store.GetBySignature(ctx, "sig-idem")
	require.NoError(t, err)

	require.NoError(t, store.Upsert(ctx, b))
	second, err := store.GetBySignature(ctx, "sig-idem")
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestBurnStore_FillIfAbsentNeverNulled(t *testing.T) {
	store := NewBurnStore()
	ctx := context.Background()

	blockTime := time.Unix(1700000000, 0).UTC()
	b := testBurn("sig-fill")
	b.BlockTime = &blockTime
	b.ComputeUnits = ptr(int64(120000))
	b.ArbitrageSuccess = ptr(true)
	require.NoError(t, store.Upsert(ctx, b))

	// Redelivery with all optionals missing must not clear stored values.
	require.NoError(t, store.Upsert(ctx, testBurn("sig-fill")))

	got, err := store.GetBySignature(ctx, "sig-fill")
	require.NoError(t, err)
	require.NotNil(t, got.BlockTime)
	assert.Equal(t, blockTime, *got.BlockTime)
	require.NotNil(t, got.ComputeUnits)
	assert.Equal(t, int64(120000), *got.ComputeUnits)
	require.NotNil(t, got.ArbitrageSuccess)
	assert.True(t, *got.ArbitrageSuccess)
}

func TestBurnStore_OptionalFilledLater(t *testing.T) {
	store := NewBurnStore()
	ctx := context.Background()

	require.NoError(t, store.Upsert(ctx, testBurn("sig-late")))

	late := testBurn("sig-late")
	late.BlockTime = ptr(time.Unix(1700000123, 0).UTC())
	require.NoError(t, store.Upsert(ctx, late))

	got, err := store.GetBySignature(ctx, "sig-late")
	require.NoError(t, err)
	require.NotNil(t, got.BlockTime)
	assert.Equal(t, time.Unix(1700000123, 0).UTC(), *got.BlockTime)
}

func TestBurnStore_OptionalNotOverwritten(t *testing.T) {
	store := NewBurnStore()
	ctx := context.Background()

	first := testBurn("sig-keep")
	first.ArbitrageSuccess = ptr(true)
	require.NoError(t, store.Upsert(ctx, first))

	second := testBurn("sig-keep")
	second.ArbitrageSuccess = ptr(false)
	require.NoError(t, store.Upsert(ctx, second))

	got, err := store.GetBySignature(ctx, "sig-keep")
	require.NoError(t, err)
	require.NotNil(t, got.ArbitrageSuccess)
	assert.True(t, *got.ArbitrageSuccess, "first observed value must stick")
}

func TestBurnStore_RequiredFieldsAlwaysLatest(t *testing.T) {
	store := NewBurnStore()
	ctx := context.Background()

	require.NoError(t, store.Upsert(ctx, testBurn("sig-corr")))

	corrected := &domain.BurnRecord{
		Signature:   "sig-corr",
		Slot:        1001,
		Success:     false,
		FeeLamports: 7000,
		FeePayer:    "FeePayer222",
	}
	require.NoError(t, store.Upsert(ctx, corrected))

	got, err := store.GetBySignature(ctx, "sig-corr")
	require.NoError(t, err)
	assert.Equal(t, int64(1001), got.Slot)
	assert.False(t, got.Success)
	assert.Equal(t, int64(7000), got.FeeLamports)
	assert.Equal(t, "FeePayer222", got.FeePayer)
}

func TestBurnStore_GetMissing(t *testing.T) {
	store := NewBurnStore()

	_, err := store.GetBySignature(context.Background(), "nope")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestBurnStore_InvalidInput(t *testing.T) {
	store := NewBurnStore()
	ctx := context.Background()

	assert.ErrorIs(t, store.Upsert(ctx, nil), storage.ErrInvalidInput)
	assert.ErrorIs(t, store.Upsert(ctx, &domain.BurnRecord{}), storage.ErrInvalidInput)
}
