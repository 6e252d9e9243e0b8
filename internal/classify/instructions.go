package classify

import "github.com/gagliardetto/solana-go"

// Infrastructure programs present in nearly every transaction. Counting their
// instructions tells us nothing about what the transaction actually did.
var (
	computeBudgetProgram = solana.MustPublicKeyFromBase58("ComputeBudget111111111111111111111111111111")
	memoProgramV1        = solana.MustPublicKeyFromBase58("Memo1UhkJRfHyvLMcVucJwxXeuD728EqVDDwQDxFMNo")
	memoProgramV2        = solana.MustPublicKeyFromBase58("MemoSq4gqABAXKb96qnH8TysNcWxMyWCqXgDLGmfcHr")
)

// NoiseSet holds base-58 program IDs excluded from instruction fan-out counts.
type NoiseSet map[string]struct{}

// NewNoiseSet builds the fixed infrastructure set plus any extra program IDs
// (typically the bot's own program).
func NewNoiseSet(extra ...string) NoiseSet {
	set := NoiseSet{
		solana.SystemProgramID.String(): {},
		computeBudgetProgram.String():   {},
		solana.TokenProgramID.String():  {},
		memoProgramV1.String():          {},
		memoProgramV2.String():          {},
	}
	for _, id := range extra {
		if id != "" {
			set[id] = struct{}{}
		}
	}
	return set
}

// Contains reports whether programID is in the set.
func (n NoiseSet) Contains(programID string) bool {
	_, ok := n[programID]
	return ok
}

// CountProgramInstructions aggregates per-program instruction counts for one
// transaction. Each entry of programIndexes is an instruction's program
// resolved by index into accountKeys; out-of-range indexes and noise programs
// are skipped.
func CountProgramInstructions(accountKeys []string, programIndexes []int, noise NoiseSet) map[string]int32 {
	counts := make(map[string]int32)
	for _, idx := range programIndexes {
		if idx < 0 || idx >= len(accountKeys) {
			continue
		}
		programID := accountKeys[idx]
		if noise.Contains(programID) {
			continue
		}
		counts[programID]++
	}
	return counts
}
