// Package oracle resolves a recommended gas price from an external HTTP
// oracle (etherscan-style gas trackers and similar), with strict fallback to
// the canonical on-chain price source. The oracle's response shape is not
// assumed: an operator-configured path expression picks the quoted value out
// of whatever JSON the service returns.
package oracle

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/big"
	"net/http"
	"strconv"
	"time"

	"github.com/ethereum/go-ethereum/params"
	"github.com/rs/zerolog"

	"github.com/relaykit/relayctl/internal/jsonpath"
)

// FallbackSource supplies the baseline gas price used whenever the oracle is
// unset or unusable. An EVM node's eth_gasPrice is the usual implementation.
type FallbackSource interface {
	SuggestGasPrice(ctx context.Context) (*big.Int, error)
}

// Fetcher retrieves a recommended gas price from a configured oracle URL.
type Fetcher struct {
	client   *http.Client
	url      string
	path     string
	fallback FallbackSource
	logger   zerolog.Logger
}

// NewFetcher creates a fetcher for the oracle at url, extracting the quoted
// gwei value with the given path expression. An empty url disables the
// oracle entirely; every call then goes straight to fallback.
func NewFetcher(url, path string, fallback FallbackSource, logger zerolog.Logger) *Fetcher {
	return &Fetcher{
		client:   &http.Client{Timeout: 10 * time.Second},
		url:      url,
		path:     path,
		fallback: fallback,
		logger:   logger,
	}
}

// GasPrice returns the recommended gas price in wei.
//
// The oracle quote is treated as gwei and scaled to wei. Any oracle trouble —
// unreachable endpoint, unparsable body, path not matching, value not a
// positive number — is logged at error level and answered from fallback; the
// caller never sees those as failures. The one exception is a malformed path
// expression, which is an operator configuration error and is returned
// before any network I/O happens.
func (f *Fetcher) GasPrice(ctx context.Context) (*big.Int, error) {
	if f.url == "" {
		return f.fallback.SuggestGasPrice(ctx)
	}

	segs, err := jsonpath.Parse(f.path)
	if err != nil {
		return nil, err
	}

	wei, err := f.fromOracle(ctx, segs)
	if err != nil {
		f.logger.Error().
			Err(err).
			Str("url", f.url).
			Str("path", f.path).
			Msg("gas price oracle unusable, falling back to node gas price")
		return f.fallback.SuggestGasPrice(ctx)
	}
	return wei, nil
}

func (f *Fetcher) fromOracle(ctx context.Context, segs []jsonpath.Segment) (*big.Int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching oracle quote: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading oracle response: %w", err)
	}

	var tree any
	if err := json.Unmarshal(body, &tree); err != nil {
		return nil, fmt.Errorf("oracle quote is not a number: body is not valid JSON: %w", err)
	}

	value, found := jsonpath.Eval(tree, segs)
	if !found {
		return nil, fmt.Errorf("oracle response has no value at path %q", f.path)
	}

	gwei, err := asPositiveNumber(value)
	if err != nil {
		return nil, fmt.Errorf("oracle value at path %q: %w", f.path, err)
	}

	wei, _ := new(big.Float).Mul(
		big.NewFloat(gwei),
		big.NewFloat(params.GWei),
	).Int(nil)
	return wei, nil
}

// asPositiveNumber accepts the two shapes oracles quote prices in — a JSON
// number or a numeric string — and rejects everything else.
func asPositiveNumber(v any) (float64, error) {
	var f float64
	switch t := v.(type) {
	case float64:
		f = t
	case string:
		parsed, err := strconv.ParseFloat(t, 64)
		if err != nil {
			return 0, fmt.Errorf("%q is not a number", t)
		}
		f = parsed
	default:
		return 0, fmt.Errorf("%v (%T) is not a number", v, v)
	}
	if f <= 0 {
		return 0, fmt.Errorf("%v is not a positive number", f)
	}
	return f, nil
}
