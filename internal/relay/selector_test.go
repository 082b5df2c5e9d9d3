package relay

import (
	"math/big"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relaykit/relayctl/internal/fees"
)

func desiredFees(tip, cap int64) []fees.Parameter {
	return []fees.Parameter{
		{Name: fees.MaxPriorityFeePerGas, Value: big.NewInt(tip)},
		{Name: fees.MaxFeePerGas, Value: big.NewInt(cap)},
	}
}

func candidate(url string, ready bool, chainID, minTip, minCap string) Candidate {
	return Candidate{
		URL: url,
		Ping: &PingResponse{
			Ready:                   ready,
			ChainID:                 chainID,
			MinMaxPriorityFeePerGas: minTip,
			MinMaxFeePerGas:         minCap,
		},
	}
}

// ---------------------------------------------------------------------------
// Pick
// ---------------------------------------------------------------------------

func TestPickFastestUsableWins(t *testing.T) {
	candidates := []Candidate{
		candidate("https://a.relay", true, "1", "100", "200"),
		candidate("https://b.relay", true, "1", "100", "200"),
	}

	sel, err := Pick(candidates, desiredFees(100, 200), big.NewInt(1), 10, zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, "https://a.relay", sel.URL, "arrival order is preference order")
	assert.Equal(t, int64(0), sel.Fees.MaxDeviation)
}

func TestPickSkipsNotReady(t *testing.T) {
	candidates := []Candidate{
		candidate("https://a.relay", false, "1", "100", "200"),
		candidate("https://b.relay", true, "1", "100", "200"),
	}

	sel, err := Pick(candidates, desiredFees(100, 200), big.NewInt(1), 10, zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, "https://b.relay", sel.URL)
}

func TestPickSkipsWrongChain(t *testing.T) {
	candidates := []Candidate{
		candidate("https://a.relay", true, "5", "100", "200"),
		candidate("https://b.relay", true, "1", "100", "200"),
	}

	sel, err := Pick(candidates, desiredFees(100, 200), big.NewInt(1), 10, zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, "https://b.relay", sel.URL)
}

func TestPickNegotiatesUpWithinTolerance(t *testing.T) {
	// Relay wants a 20% higher tip; tolerance is 30%.
	candidates := []Candidate{
		candidate("https://a.relay", true, "1", "120", "200"),
	}

	sel, err := Pick(candidates, desiredFees(100, 200), big.NewInt(1), 30, zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(120), sel.Fees.Get(fees.MaxPriorityFeePerGas))
	assert.Equal(t, int64(20), sel.Fees.MaxDeviation)
}

func TestPickRejectsBeyondTolerance(t *testing.T) {
	// Relay wants a 50% higher tip; tolerance is 30%. The next candidate in
	// arrival order takes the slot even though it is slower.
	candidates := []Candidate{
		candidate("https://greedy.relay", true, "1", "150", "200"),
		candidate("https://fair.relay", true, "1", "105", "200"),
	}

	sel, err := Pick(candidates, desiredFees(100, 200), big.NewInt(1), 30, zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, "https://fair.relay", sel.URL)
	assert.Equal(t, int64(5), sel.Fees.MaxDeviation)
}

func TestPickSkipsInvalidMinimums(t *testing.T) {
	candidates := []Candidate{
		candidate("https://a.relay", true, "1", "not-a-number", "200"),
		candidate("https://b.relay", true, "1", "100", "200"),
	}

	sel, err := Pick(candidates, desiredFees(100, 200), big.NewInt(1), 10, zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, "https://b.relay", sel.URL)
}

func TestPickEmptyMinimumMeansZero(t *testing.T) {
	candidates := []Candidate{
		candidate("https://a.relay", true, "1", "", ""),
	}

	sel, err := Pick(candidates, desiredFees(100, 200), big.NewInt(1), 0, zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, int64(0), sel.Fees.MaxDeviation)
}

func TestPickNoCandidates(t *testing.T) {
	_, err := Pick(nil, desiredFees(100, 200), big.NewInt(1), 10, zerolog.Nop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no live relay candidates")
}

func TestPickAllUnusable(t *testing.T) {
	candidates := []Candidate{
		candidate("https://a.relay", false, "1", "100", "200"),
		candidate("https://b.relay", true, "1", "500", "200"), // 400% over
	}

	_, err := Pick(candidates, desiredFees(100, 200), big.NewInt(1), 30, zerolog.Nop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no usable relay among 2")
}

func TestPickNilChainIDSkipsCheck(t *testing.T) {
	candidates := []Candidate{
		candidate("https://a.relay", true, "1337", "100", "200"),
	}

	sel, err := Pick(candidates, desiredFees(100, 200), nil, 10, zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, "https://a.relay", sel.URL)
}

// ---------------------------------------------------------------------------
// PingResponse.MinimumFees
// ---------------------------------------------------------------------------

func TestMinimumFees(t *testing.T) {
	p := &PingResponse{
		MinMaxPriorityFeePerGas: "1500000000",
		MinMaxFeePerGas:         "30000000000",
	}
	params, err := p.MinimumFees()
	require.NoError(t, err)
	require.Len(t, params, 2)
	assert.Equal(t, big.NewInt(1_500_000_000), params[0].Value)
	assert.Equal(t, big.NewInt(30_000_000_000), params[1].Value)
}

func TestMinimumFeesNegative(t *testing.T) {
	p := &PingResponse{MinMaxPriorityFeePerGas: "-5"}
	_, err := p.MinimumFees()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid wei amount")
}
