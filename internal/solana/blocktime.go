package solana

import (
	"context"
	"fmt"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
)

// DefaultBlockTimeTimeout bounds one getBlockTime round trip.
const DefaultBlockTimeTimeout = 10 * time.Second

// BlockTimeRPC is the single RPC call the enrichment lookup needs. Narrowed
// from the full client so tests can stub it.
type BlockTimeRPC interface {
	GetBlockTime(ctx context.Context, block uint64) (*solana.UnixTimeSeconds, error)
}

// BlockTimeClient resolves the wall-clock time of a slot via one JSON-RPC
// round trip. Lookups are best-effort: any failure is returned to the caller
// as an error to treat as "timestamp unavailable", never retried here.
type BlockTimeClient struct {
	rpc     BlockTimeRPC
	timeout time.Duration
}

// NewBlockTimeClient creates a client against the given JSON-RPC endpoint.
func NewBlockTimeClient(endpoint string, timeout time.Duration) *BlockTimeClient {
	return newBlockTimeClient(rpc.New(endpoint), timeout)
}

// newBlockTimeClient wires an arbitrary BlockTimeRPC, used by tests.
func newBlockTimeClient(client BlockTimeRPC, timeout time.Duration) *BlockTimeClient {
	if timeout <= 0 {
		timeout = DefaultBlockTimeTimeout
	}
	return &BlockTimeClient{rpc: client, timeout: timeout}
}

// BlockTime returns the block time of slot, or an error when the endpoint
// fails or reports no time for the slot.
func (c *BlockTimeClient) BlockTime(ctx context.Context, slot int64) (time.Time, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	out, err := c.rpc.GetBlockTime(ctx, uint64(slot))
	if err != nil {
		return time.Time{}, fmt.Errorf("get block time for slot %d: %w", slot, err)
	}
	if out == nil {
		return time.Time{}, fmt.Errorf("no block time for slot %d", slot)
	}
	return out.Time().UTC(), nil
}
