package config

import (
	"testing"

	"github.com/gagliardetto/solana-go/rpc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("STREAM_ENDPOINT", "wss://feed.example.com")
	t.Setenv("STREAM_X_TOKEN", "secret")
	t.Setenv("JSON_RPC_URL", "https://rpc.example.com")
	t.Setenv("BOT_PROGRAM_ID", "BotProg1111111111111111111111111111111111111")
	t.Setenv("DATABASE_URL", "postgres://localhost/indexer")
}

func TestLoad_AllRequired(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "wss://feed.example.com", cfg.StreamEndpoint)
	assert.Equal(t, "secret", cfg.StreamToken)
	assert.Equal(t, "https://rpc.example.com", cfg.JSONRPCURL)
	assert.Equal(t, "BotProg1111111111111111111111111111111111111", cfg.BotProgramID)
	assert.Equal(t, "postgres://localhost/indexer", cfg.DatabaseURL)
	assert.Empty(t, cfg.BotAccount)
	assert.Equal(t, rpc.CommitmentConfirmed, cfg.Commitment)
}

func TestLoad_MissingRequired(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("STREAM_ENDPOINT", "")
	t.Setenv("DATABASE_URL", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "STREAM_ENDPOINT")
	assert.Contains(t, err.Error(), "DATABASE_URL")
}

func TestLoad_CommitmentLevels(t *testing.T) {
	tests := []struct {
		value string
		want  rpc.CommitmentType
	}{
		{"processed", rpc.CommitmentProcessed},
		{"confirmed", rpc.CommitmentConfirmed},
		{"finalized", rpc.CommitmentFinalized},
	}
	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			setRequiredEnv(t)
			t.Setenv("COMMITMENT", tt.value)

			cfg, err := Load()
			require.NoError(t, err)
			assert.Equal(t, tt.want, cfg.Commitment)
		})
	}
}

func TestLoad_InvalidCommitment(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("COMMITMENT", "hopeful")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "COMMITMENT")
}

func TestLoad_OptionalBotAccount(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("BOT_ACCOUNT", "BotWa11et111111111111111111111111111111111111")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "BotWa11et111111111111111111111111111111111111", cfg.BotAccount)
}
