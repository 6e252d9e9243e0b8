// Package classify turns raw transaction fields (error payloads, log lines,
// instruction lists) into the semantic attributes of a burn record. All
// functions are pure: no I/O, no state.
package classify

import "strings"

// negativeSignal marks an arbitrage attempt the bot itself reported as
// fruitless. Its presence overrides any positive signal in the same log set.
const negativeSignal = "No profitable arbitrage opportunity found"

// positiveSignals are substrings emitted when a swap actually executed.
var positiveSignals = []string{
	"Instruction: Swap",
	"Instruction: SwapBaseInput",
	"Instruction: TransferChecked",
}

// Arbitrage classifies the arbitrage outcome from transaction log lines.
// Returns false if the negative signal appears anywhere, true if only
// positive signals appear, and nil when the logs are inconclusive.
func Arbitrage(logs []string) *bool {
	sawPositive := false
	for _, line := range logs {
		if strings.Contains(line, negativeSignal) {
			v := false
			return &v
		}
		if !sawPositive {
			for _, sig := range positiveSignals {
				if strings.Contains(line, sig) {
					sawPositive = true
					break
				}
			}
		}
	}
	if sawPositive {
		v := true
		return &v
	}
	return nil
}
