// Package solana implements the transaction-stream session and the
// auxiliary RPC lookups the indexer depends on.
package solana

// TransactionUpdate is one raw message from the transaction stream.
type TransactionUpdate struct {
	Slot        uint64           `json:"slot"`
	Transaction *TransactionInfo `json:"transaction"`
}

// TransactionInfo carries the signed transaction and its execution metadata.
// Binary fields (signature, account keys, instruction data) arrive
// base64-encoded on the wire.
type TransactionInfo struct {
	Signature   []byte              `json:"signature"`
	IsVote      bool                `json:"isVote"`
	Transaction *TransactionContent `json:"transaction"`
	Meta        *TransactionMeta    `json:"meta"`
}

// TransactionContent wraps the transaction message.
type TransactionContent struct {
	Message *TransactionMessage `json:"message"`
}

// TransactionMessage contains the account keys and compiled instructions.
type TransactionMessage struct {
	AccountKeys  [][]byte              `json:"accountKeys"`
	Instructions []CompiledInstruction `json:"instructions"`
}

// CompiledInstruction references its program by index into the account keys.
type CompiledInstruction struct {
	ProgramIDIndex uint32 `json:"programIdIndex"`
	Accounts       []byte `json:"accounts"`
	Data           []byte `json:"data"`
}

// TransactionMeta contains execution results. A nil Err means success.
type TransactionMeta struct {
	Err                  *TransactionError `json:"err"`
	Fee                  uint64            `json:"fee"`
	ComputeUnitsConsumed *uint64           `json:"computeUnitsConsumed"`
	LogMessages          []string          `json:"logMessages"`
}

// TransactionError wraps the chain's binary error encoding.
type TransactionError struct {
	Err []byte `json:"err"`
}
