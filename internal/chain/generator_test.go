package chain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openquant/bwb-scanner/internal/models"
)

func fixedBase() time.Time {
	return time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)
}

func TestGenerator_Deterministic(t *testing.T) {
	gen := NewGenerator("SPY", 42)
	gen.Base = fixedBase()

	first := gen.Chain(450.0, []int{3, 5}, 10)
	second := gen.Chain(450.0, []int{3, 5}, 10)

	assert.Equal(t, first, second, "same seed and inputs must yield an identical chain")
}

func TestGenerator_SeedChangesChain(t *testing.T) {
	a := NewGenerator("SPY", 42)
	a.Base = fixedBase()
	b := NewGenerator("SPY", 43)
	b.Base = fixedBase()

	assert.NotEqual(t, a.Chain(450.0, []int{5}, 10), b.Chain(450.0, []int{5}, 10))
}

func TestGenerator_RowsAreValid(t *testing.T) {
	gen := NewGenerator("SPY", 42)
	gen.Base = fixedBase()

	chain := gen.Chain(450.0, []int{3, 5, 7, 10}, 30)
	require.NotEmpty(t, chain)

	for _, c := range chain {
		require.NoError(t, c.CheckType(), "row %+v", c)
		require.NoError(t, c.Validate(), "row %+v", c)
	}
}

func TestGenerator_StructureMatchesInputs(t *testing.T) {
	gen := NewGenerator("SPY", 7)
	gen.Base = fixedBase()

	dtes := []int{3, 5}
	chain := gen.Chain(450.0, dtes, 20)

	expiries := map[string]bool{}
	strikes := map[float64]bool{}
	calls, puts := 0, 0
	for _, c := range chain {
		expiries[c.Expiry] = true
		strikes[c.Strike] = true
		if c.Type == models.OptionTypeCall {
			calls++
		} else {
			puts++
		}
		assert.Equal(t, "SPY", c.Symbol)
		assert.GreaterOrEqual(t, c.Strike, 450.0*0.80-1)
		assert.LessOrEqual(t, c.Strike, 450.0*1.20+1)
	}

	assert.Len(t, expiries, len(dtes))
	assert.Equal(t, calls, puts, "one call and one put per strike per expiry")
	assert.Contains(t, expiries, "2025-01-13")
	assert.Contains(t, expiries, "2025-01-15")
}

func TestStrikeLadder_NoDuplicates(t *testing.T) {
	strikes := strikeLadder(450.0, 30)
	require.NotEmpty(t, strikes)

	for i := 1; i < len(strikes); i++ {
		assert.Greater(t, strikes[i], strikes[i-1], "ladder must be strictly increasing")
	}
}
