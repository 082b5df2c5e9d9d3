package relay

import (
	"context"
	"math/big"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/relaykit/relayctl/internal/fees"
	"github.com/relaykit/relayctl/internal/race"
)

// Candidate couples a relay URL with its ping reply.
type Candidate struct {
	URL  string
	Ping *PingResponse
}

// Selection is a usable relay together with the fee values negotiated
// against its minimums.
type Selection struct {
	Candidate
	Fees *fees.Result
}

// PingAll probes every relay URL concurrently. The first reply arms the
// grace timer; replies landing inside the window are kept, fastest first.
// Down relays are reported in the returned error map, not as a failure —
// an empty candidate list means every relay was unreachable.
func (c *Client) PingAll(ctx context.Context, urls []string, grace time.Duration) ([]Candidate, map[string]error, error) {
	probes := make([]race.Probe[*PingResponse], 0, len(urls))
	for _, u := range urls {
		probes = append(probes, race.Probe[*PingResponse]{
			Key: u,
			Run: func(ctx context.Context) (*PingResponse, error) {
				return c.Ping(ctx, u)
			},
		})
	}

	out, err := race.Run(ctx, probes, grace)
	if err != nil {
		return nil, nil, err
	}

	candidates := make([]Candidate, 0, len(out.Wins))
	for _, w := range out.Wins {
		candidates = append(candidates, Candidate{URL: w.Key, Ping: w.Value})
	}
	for url, pingErr := range out.Errors {
		c.logger.Warn().Str("relay", url).Err(pingErr).Msg("relay ping failed")
	}
	return candidates, out.Errors, nil
}

// Pick walks candidates in arrival order — the fastest usable relay wins —
// and returns the first one that is ready, serves the right chain, and whose
// fee minimums keep the negotiated deviation within tolerancePct.
func Pick(candidates []Candidate, desired []fees.Parameter, chainID *big.Int, tolerancePct int64, logger zerolog.Logger) (*Selection, error) {
	if len(candidates) == 0 {
		return nil, errors.New("no live relay candidates")
	}

	for _, cand := range candidates {
		if !cand.Ping.Ready {
			logger.Debug().Str("relay", cand.URL).Msg("skipping relay: not ready")
			continue
		}
		if chainID != nil && cand.Ping.ChainID != "" && cand.Ping.ChainID != chainID.String() {
			logger.Warn().
				Str("relay", cand.URL).
				Str("relayChainId", cand.Ping.ChainID).
				Str("wantChainId", chainID.String()).
				Msg("skipping relay: wrong chain")
			continue
		}

		minimums, err := cand.Ping.MinimumFees()
		if err != nil {
			logger.Warn().Str("relay", cand.URL).Err(err).Msg("skipping relay: bad fee minimums")
			continue
		}

		negotiated, err := fees.Negotiate(desired, minimums)
		if err != nil {
			logger.Warn().Str("relay", cand.URL).Err(err).Msg("skipping relay: negotiation failed")
			continue
		}
		if !negotiated.Within(tolerancePct) {
			logger.Warn().
				Str("relay", cand.URL).
				Int64("deviationPct", negotiated.MaxDeviation).
				Int64("tolerancePct", tolerancePct).
				Msg("skipping relay: fee minimums too far above desired fees")
			continue
		}

		return &Selection{Candidate: cand, Fees: negotiated}, nil
	}

	return nil, errors.Errorf("no usable relay among %d live candidates", len(candidates))
}
