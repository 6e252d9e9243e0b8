package classify

import (
	"encoding/binary"
	"fmt"
)

// ErrorDecoder decodes a raw on-chain error payload into its textual variant
// form. Injected so precedence logic stays testable without the real codec.
type ErrorDecoder func(raw []byte) (string, error)

// ErrorLabel produces the failure classification for a failed transaction.
// It is never empty: when the payload cannot be decoded the label falls back
// to the literal bytes.
func ErrorLabel(raw []byte, decode ErrorDecoder) string {
	if decode == nil {
		decode = DecodeTransactionError
	}
	label, err := decode(raw)
	if err != nil || label == "" {
		return fmt.Sprintf("Unknown(%v)", raw)
	}
	return label
}

// txErrorVariants lists TransactionError variants in wire order. Variants
// carrying payloads are handled separately in DecodeTransactionError.
var txErrorVariants = []string{
	"AccountInUse",
	"AccountLoadedTwice",
	"AccountNotFound",
	"ProgramAccountNotFound",
	"InsufficientFundsForFee",
	"InvalidAccountForFee",
	"AlreadyProcessed",
	"BlockhashNotFound",
	"InstructionError",
	"CallChainTooDeep",
	"MissingSignatureForFee",
	"InvalidAccountIndex",
	"SignatureFailure",
	"InvalidProgramForExecution",
	"SanitizeFailure",
	"ClusterMaintenance",
	"WouldExceedMaxBlockCostLimit",
	"UnsupportedVersion",
	"InvalidWritableAccount",
	"WouldExceedMaxAccountCostLimit",
	"WouldExceedAccountDataBlockLimit",
	"TooManyAccountLocks",
	"AddressLookupTableNotFound",
	"InvalidAddressLookupTableOwner",
	"InvalidAddressLookupTableData",
	"InvalidAddressLookupTableIndex",
	"InvalidRentPayingAccount",
	"WouldExceedMaxVoteCostLimit",
	"WouldExceedAccountDataTotalLimit",
	"DuplicateInstruction",
	"InsufficientFundsForRent",
	"MaxLoadedAccountsDataSizeExceeded",
	"InvalidLoadedAccountsDataSizeLimit",
	"ResanitizationNeeded",
	"ProgramExecutionTemporarilyRestricted",
	"UnbalancedTransaction",
}

// instructionErrorVariants lists InstructionError variants in wire order.
var instructionErrorVariants = []string{
	"GenericError",
	"InvalidArgument",
	"InvalidInstructionData",
	"InvalidAccountData",
	"AccountDataTooSmall",
	"InsufficientFunds",
	"IncorrectProgramId",
	"MissingRequiredSignature",
	"AccountAlreadyInitialized",
	"UninitializedAccount",
	"UnbalancedInstruction",
	"ModifiedProgramId",
	"ExternalAccountLamportSpend",
	"ExternalAccountDataModified",
	"ReadonlyLamportChange",
	"ReadonlyDataModified",
	"DuplicateAccountIndex",
	"ExecutableModified",
	"RentEpochModified",
	"NotEnoughAccountKeys",
	"AccountDataSizeChanged",
	"AccountNotExecutable",
	"AccountBorrowFailed",
	"AccountBorrowOutstanding",
	"DuplicateAccountOutOfSync",
	"Custom",
	"InvalidError",
	"ExecutableDataModified",
	"ExecutableLamportChange",
	"ExecutableAccountNotRentExempt",
	"UnsupportedProgramId",
	"CallDepth",
	"MissingAccount",
	"ReentrancyNotAllowed",
	"MaxSeedLengthExceeded",
	"InvalidSeeds",
	"InvalidRealloc",
	"ComputationalBudgetExceeded",
	"PrivilegeEscalation",
	"ProgramEnvironmentSetupFailure",
	"ProgramFailedToComplete",
	"ProgramFailedToCompile",
	"Immutable",
	"IncorrectAuthority",
	"BorshIoError",
	"AccountNotRentExempt",
	"InvalidAccountOwner",
	"ArithmeticOverflow",
	"UnsupportedSysvar",
	"IllegalOwner",
	"MaxAccountsDataAllocationsExceeded",
	"MaxAccountsExceeded",
	"MaxInstructionTraceLengthExceeded",
	"BuiltinProgramsMustConsumeComputeUnits",
}

const (
	variantInstructionError   = 8
	variantDuplicateIx        = 29
	variantInsufficientRent   = 30
	variantExecRestricted     = 34
	innerVariantCustom        = 25
	innerVariantBorshIoError  = 44
)

// DecodeTransactionError decodes the chain's bincode encoding of a
// TransactionError: a little-endian u32 variant index followed by the
// variant payload. Trailing bytes are ignored.
func DecodeTransactionError(raw []byte) (string, error) {
	if len(raw) < 4 {
		return "", fmt.Errorf("error payload too short: %d bytes", len(raw))
	}
	variant := binary.LittleEndian.Uint32(raw)
	if int(variant) >= len(txErrorVariants) {
		return "", fmt.Errorf("unknown error variant %d", variant)
	}
	rest := raw[4:]

	switch variant {
	case variantInstructionError:
		if len(rest) < 5 {
			return "", fmt.Errorf("truncated InstructionError payload")
		}
		ixIndex := rest[0]
		inner, err := decodeInstructionError(rest[1:])
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("InstructionError(%d, %s)", ixIndex, inner), nil
	case variantDuplicateIx, variantInsufficientRent, variantExecRestricted:
		if len(rest) < 1 {
			return "", fmt.Errorf("truncated %s payload", txErrorVariants[variant])
		}
		return fmt.Sprintf("%s(%d)", txErrorVariants[variant], rest[0]), nil
	default:
		return txErrorVariants[variant], nil
	}
}

func decodeInstructionError(raw []byte) (string, error) {
	if len(raw) < 4 {
		return "", fmt.Errorf("instruction error payload too short")
	}
	variant := binary.LittleEndian.Uint32(raw)
	if int(variant) >= len(instructionErrorVariants) {
		return "", fmt.Errorf("unknown instruction error variant %d", variant)
	}
	rest := raw[4:]

	switch variant {
	case innerVariantCustom:
		if len(rest) < 4 {
			return "", fmt.Errorf("truncated Custom payload")
		}
		return fmt.Sprintf("Custom(%d)", binary.LittleEndian.Uint32(rest)), nil
	case innerVariantBorshIoError:
		// bincode string: u64 LE length + UTF-8 bytes
		if len(rest) < 8 {
			return "", fmt.Errorf("truncated BorshIoError payload")
		}
		n := binary.LittleEndian.Uint64(rest)
		rest = rest[8:]
		if uint64(len(rest)) < n {
			return "", fmt.Errorf("truncated BorshIoError string")
		}
		return fmt.Sprintf("BorshIoError(%q)", string(rest[:n])), nil
	default:
		return instructionErrorVariants[variant], nil
	}
}
