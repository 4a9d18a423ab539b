package scanner

import (
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openquant/bwb-scanner/internal/models"
	"github.com/openquant/bwb-scanner/internal/strategy"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func row(symbol, expiry string, dte int, strike float64, typ models.OptionType, bid, ask, delta float64) models.Contract {
	return models.Contract{
		Symbol: symbol,
		Expiry: expiry,
		DTE:    dte,
		Strike: strike,
		Type:   typ,
		Bid:    bid,
		Ask:    ask,
		Mid:    (bid + ask) / 2,
		Delta:  delta,
		IV:     0.22,
	}
}

// testChain holds two SPY expiries (the near one with eligible structure)
// plus put rows and a second ticker, so filtering is exercised end to end.
func testChain() []models.Contract {
	return []models.Contract{
		row("SPY", "2025-01-17", 5, 440, models.OptionTypeCall, 15.0, 15.5, 0.65),
		row("SPY", "2025-01-17", 5, 445, models.OptionTypeCall, 10.0, 10.5, 0.30),
		row("SPY", "2025-01-17", 5, 450, models.OptionTypeCall, 6.0, 6.5, 0.45),
		row("SPY", "2025-01-17", 5, 455, models.OptionTypeCall, 3.0, 3.5, 0.15),
		row("SPY", "2025-01-17", 5, 460, models.OptionTypeCall, 1.0, 1.5, 0.08),
		row("SPY", "2025-01-17", 5, 445, models.OptionTypePut, 3.0, 3.5, -0.30),
		row("SPY", "2025-01-24", 12, 440, models.OptionTypeCall, 16.0, 16.5, 0.60),
		row("SPY", "2025-01-24", 12, 445, models.OptionTypeCall, 11.0, 11.5, 0.32),
		row("SPY", "2025-01-24", 12, 455, models.OptionTypeCall, 4.0, 4.5, 0.16),
		row("QQQ", "2025-01-17", 5, 380, models.OptionTypeCall, 9.0, 9.5, 0.30),
	}
}

func TestScan_SingleExpiry(t *testing.T) {
	s := NewScanner(strategy.DefaultPolicy(), nil, testLogger())
	results := s.Scan(testChain(), "SPY", "2025-01-17")

	require.NotEmpty(t, results)
	for _, pos := range results {
		assert.Equal(t, "SPY", pos.Ticker)
		assert.Equal(t, "2025-01-17", pos.Expiry)
		assert.True(t, pos.K1 < pos.K2 && pos.K2 < pos.K3)
		assert.NotEqual(t, pos.WingLeft, pos.WingRight)
		assert.GreaterOrEqual(t, pos.Credit, strategy.DefaultMinCredit)
	}
}

func TestScan_SortedByScoreDescending(t *testing.T) {
	s := NewScanner(strategy.DefaultPolicy(), nil, testLogger())
	results := s.Scan(testChain(), "SPY", "2025-01-17")

	require.Greater(t, len(results), 1)
	for i := 1; i < len(results); i++ {
		assert.GreaterOrEqual(t, results[i-1].Score, results[i].Score)
	}
}

func TestScan_UnknownTicker(t *testing.T) {
	s := NewScanner(strategy.DefaultPolicy(), nil, testLogger())
	results := s.Scan(testChain(), "TSLA", "2025-01-17")

	require.NotNil(t, results)
	assert.Empty(t, results)
}

func TestScan_LowercaseTicker(t *testing.T) {
	s := NewScanner(strategy.DefaultPolicy(), nil, testLogger())
	upper := s.Scan(testChain(), "SPY", "2025-01-17")
	lower := s.Scan(testChain(), "spy", "2025-01-17")

	assert.Equal(t, upper, lower)
}

func TestScanAll_MergesExpiries(t *testing.T) {
	s := NewScanner(strategy.DefaultPolicy(), nil, testLogger())
	results := s.ScanAll(testChain(), "SPY")

	require.NotEmpty(t, results)

	expiries := map[string]bool{}
	for _, pos := range results {
		expiries[pos.Expiry] = true
	}
	// The 12 DTE expiry is outside the default [1,10] window.
	assert.Equal(t, map[string]bool{"2025-01-17": true}, expiries)

	for i := 1; i < len(results); i++ {
		assert.GreaterOrEqual(t, results[i-1].Score, results[i].Score)
	}
}

func TestScanAll_WiderPolicyPicksUpFarExpiry(t *testing.T) {
	policy := strategy.DefaultPolicy()
	policy.MaxDTE = 20

	s := NewScanner(policy, nil, testLogger())
	results := s.ScanAll(testChain(), "SPY")

	expiries := map[string]bool{}
	for _, pos := range results {
		expiries[pos.Expiry] = true
	}
	assert.True(t, expiries["2025-01-17"])
	assert.True(t, expiries["2025-01-24"])
}

func TestScanAll_Deterministic(t *testing.T) {
	s := NewScanner(strategy.DefaultPolicy(), nil, testLogger())

	first := s.ScanAll(testChain(), "SPY")
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, s.ScanAll(testChain(), "SPY"))
	}
}

func TestScan_CacheTransparency(t *testing.T) {
	chainRows := testChain()

	uncached := NewScanner(strategy.DefaultPolicy(), nil, testLogger())
	cached := NewScanner(strategy.DefaultPolicy(), NewResultCache(8), testLogger())

	want := uncached.Scan(chainRows, "SPY", "2025-01-17")
	first := cached.Scan(chainRows, "SPY", "2025-01-17")
	second := cached.Scan(chainRows, "SPY", "2025-01-17")

	assert.Equal(t, want, first)
	assert.Equal(t, want, second)

	wantAll := uncached.ScanAll(chainRows, "SPY")
	assert.Equal(t, wantAll, cached.ScanAll(chainRows, "SPY"))
	assert.Equal(t, wantAll, cached.ScanAll(chainRows, "SPY"))
}

func TestSummarize(t *testing.T) {
	positions := []models.BWBPosition{
		{Score: 150.0, Credit: 1.0},
		{Score: 100.0, Credit: 2.0},
		{Score: 50.0, Credit: 3.0},
	}

	summary := Summarize(positions)
	assert.Equal(t, 3, summary.TotalFound)
	assert.Equal(t, 100.0, summary.AvgScore)
	assert.Equal(t, 150.0, summary.BestScore)
	assert.Equal(t, 2.0, summary.AvgCredit)
}

func TestSummarize_Empty(t *testing.T) {
	assert.Equal(t, Summary{}, Summarize(nil))
}
