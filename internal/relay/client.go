// Package relay talks to candidate relay endpoints: probing them for
// liveness and advertised fee minimums, and submitting signed transactions
// through the one that wins selection.
package relay

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

const (
	pingEndpoint  = "/getaddr"
	relayEndpoint = "/relay"

	requestTimeout = 10 * time.Second
)

// Client is an HTTP client shared across all candidate relays.
type Client struct {
	http   *resty.Client
	logger zerolog.Logger
}

// NewClient creates a relay client. Requests carry their own timeout, which
// also bounds how long a straggling probe can linger after a race resolves.
func NewClient(logger zerolog.Logger) *Client {
	return &Client{
		http:   resty.New().SetTimeout(requestTimeout),
		logger: logger,
	}
}

// Ping fetches the relay's status document.
func (c *Client) Ping(ctx context.Context, url string) (*PingResponse, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("X-Request-Id", uuid.NewString()).
		Get(join(url, pingEndpoint))
	if err != nil {
		return nil, errors.Wrapf(err, "pinging relay %s", url)
	}
	if resp.IsError() {
		return nil, errors.Errorf("relay %s replied %s", url, resp.Status())
	}

	var ping PingResponse
	if err := json.Unmarshal(resp.Body(), &ping); err != nil {
		return nil, errors.Wrapf(err, "parsing ping from relay %s", url)
	}

	c.logger.Debug().
		Str("relay", url).
		Str("version", ping.Version).
		Bool("ready", ping.Ready).
		Msg("relay ping ok")
	return &ping, nil
}

// SendTransaction submits a signed transaction through the relay and returns
// the relay's signed copy.
func (c *Client) SendTransaction(ctx context.Context, url string, req *TxRequest) (*TxResponse, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetHeader("X-Request-Id", uuid.NewString()).
		SetBody(req).
		Post(join(url, relayEndpoint))
	if err != nil {
		return nil, errors.Wrapf(err, "submitting transaction to relay %s", url)
	}
	if resp.IsError() {
		return nil, errors.Errorf("relay %s rejected transaction: %s: %s", url, resp.Status(), resp.Body())
	}

	var txResp TxResponse
	if err := json.Unmarshal(resp.Body(), &txResp); err != nil {
		return nil, errors.Wrapf(err, "parsing relay response from %s", url)
	}
	if txResp.Error != "" {
		return nil, errors.Errorf("relay %s rejected transaction: %s", url, txResp.Error)
	}

	c.logger.Info().
		Str("relay", url).
		Str("txHash", txResp.TxHash.Hex()).
		Msg("transaction relayed")
	return &txResp, nil
}

func join(base, endpoint string) string {
	return strings.TrimSuffix(base, "/") + endpoint
}
