// Package config loads the indexer's configuration from environment
// variables, validated fail-fast at startup.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/gagliardetto/solana-go/rpc"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	// Transaction feed
	StreamEndpoint string
	StreamToken    string
	Commitment     rpc.CommitmentType

	// Filter
	BotProgramID string
	BotAccount   string // optional second subscription account

	// Enrichment
	JSONRPCURL string

	// Database
	DatabaseURL string
}

// Load reads configuration from environment variables and validates all
// required fields. Returns an error listing everything that is missing or
// invalid.
func Load() (*Config, error) {
	cfg := &Config{}
	var errs []error

	cfg.StreamEndpoint = os.Getenv("STREAM_ENDPOINT")
	if cfg.StreamEndpoint == "" {
		errs = append(errs, fmt.Errorf("STREAM_ENDPOINT is required"))
	}

	cfg.StreamToken = os.Getenv("STREAM_X_TOKEN")
	if cfg.StreamToken == "" {
		errs = append(errs, fmt.Errorf("STREAM_X_TOKEN is required"))
	}

	cfg.JSONRPCURL = os.Getenv("JSON_RPC_URL")
	if cfg.JSONRPCURL == "" {
		errs = append(errs, fmt.Errorf("JSON_RPC_URL is required"))
	}

	cfg.BotProgramID = os.Getenv("BOT_PROGRAM_ID")
	if cfg.BotProgramID == "" {
		errs = append(errs, fmt.Errorf("BOT_PROGRAM_ID is required"))
	}

	cfg.BotAccount = os.Getenv("BOT_ACCOUNT")

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		errs = append(errs, fmt.Errorf("DATABASE_URL is required"))
	}

	commitment, err := parseCommitment(getEnvOrDefault("COMMITMENT", "confirmed"))
	if err != nil {
		errs = append(errs, err)
	}
	cfg.Commitment = commitment

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return cfg, nil
}

// parseCommitment validates the commitment level. Only the three levels the
// feed understands are accepted.
func parseCommitment(s string) (rpc.CommitmentType, error) {
	switch s {
	case "processed":
		return rpc.CommitmentProcessed, nil
	case "confirmed":
		return rpc.CommitmentConfirmed, nil
	case "finalized":
		return rpc.CommitmentFinalized, nil
	default:
		return "", fmt.Errorf("invalid COMMITMENT value %q (want processed, confirmed, or finalized)", s)
	}
}

// getEnvOrDefault returns the environment variable value or a default if unset.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
