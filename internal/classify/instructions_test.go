package classify

import (
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
)

const (
	testProgramA = "675kPX9MHTjS2zt1qfr1NYHuzeLXfQM9H24wFSUt1Mp8"
	testProgramB = "6EF8rrecthR5Dkzon8Nwu78hRvfCKubJ14M5uBEwF6P"
	testBotID    = "BotProg1111111111111111111111111111111111111"
)

func TestCountProgramInstructions_Aggregates(t *testing.T) {
	keys := []string{"FeePayer", testProgramA, testProgramB}
	counts := CountProgramInstructions(keys, []int{1, 2, 1, 1}, NewNoiseSet())

	assert.Equal(t, map[string]int32{
		testProgramA: 3,
		testProgramB: 1,
	}, counts)
}

func TestCountProgramInstructions_ExcludesNoisePrograms(t *testing.T) {
	noise := NewNoiseSet(testBotID)

	// Every fixed noise program plus the bot's own ID must be excluded,
	// whatever position it occupies in the key list.
	noisy := []string{
		solana.SystemProgramID.String(),
		computeBudgetProgram.String(),
		solana.TokenProgramID.String(),
		memoProgramV1.String(),
		memoProgramV2.String(),
		testBotID,
	}

	for _, id := range noisy {
		keys := []string{"FeePayer", id, testProgramA}
		counts := CountProgramInstructions(keys, []int{1, 1, 2}, noise)
		assert.NotContains(t, counts, id)
		assert.Equal(t, int32(1), counts[testProgramA])
	}
}

func TestCountProgramInstructions_OutOfRangeIndexSkipped(t *testing.T) {
	keys := []string{"FeePayer", testProgramA}
	counts := CountProgramInstructions(keys, []int{1, 5, -1}, NewNoiseSet())

	assert.Equal(t, map[string]int32{testProgramA: 1}, counts)
}

func TestCountProgramInstructions_Empty(t *testing.T) {
	counts := CountProgramInstructions(nil, nil, NewNoiseSet())
	assert.Empty(t, counts)
}

func TestNewNoiseSet_Contains(t *testing.T) {
	set := NewNoiseSet(testBotID, "")

	assert.True(t, set.Contains(solana.SystemProgramID.String()))
	assert.True(t, set.Contains(testBotID))
	assert.False(t, set.Contains(testProgramA))
	assert.False(t, set.Contains(""))
}
