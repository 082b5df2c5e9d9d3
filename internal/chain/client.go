// Package chain is a minimal JSON-RPC client for EVM nodes. It covers only
// what the relay flow needs: chain identity, nonces, current fee levels (the
// canonical fallback when the external gas oracle is unusable) and raw
// transaction broadcast.
package chain

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/big"
	"net/http"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/params"
)

// Client is a hand-rolled JSON-RPC client pointed at a single EVM node.
type Client struct {
	url    string
	client *http.Client
}

// NewClient creates a client for the node at url.
func NewClient(url string) *Client {
	return &Client{
		url: url,
		client: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// Ping measures round-trip latency with an eth_blockNumber call.
func (c *Client) Ping(ctx context.Context) (time.Duration, uint64, error) {
	start := time.Now()
	block, err := c.BlockNumber(ctx)
	if err != nil {
		return 0, 0, err
	}
	return time.Since(start), block, nil
}

// BlockNumber returns the latest block number.
func (c *Client) BlockNumber(ctx context.Context) (uint64, error) {
	n, err := c.callBig(ctx, "eth_blockNumber")
	if err != nil {
		return 0, err
	}
	return n.Uint64(), nil
}

// ChainID returns the chain's ID.
func (c *Client) ChainID(ctx context.Context) (*big.Int, error) {
	return c.callBig(ctx, "eth_chainId")
}

// SuggestGasPrice returns the node's current gas price (wei). This is the
// canonical on-chain baseline the gas oracle falls back to.
func (c *Client) SuggestGasPrice(ctx context.Context) (*big.Int, error) {
	return c.callBig(ctx, "eth_gasPrice")
}

// SuggestGasTipCap returns the node's suggested priority fee (wei).
func (c *Client) SuggestGasTipCap(ctx context.Context) (*big.Int, error) {
	return c.callBig(ctx, "eth_maxPriorityFeePerGas")
}

// Nonce returns the pending-state nonce for an address.
func (c *Client) Nonce(ctx context.Context, addr common.Address) (uint64, error) {
	n, err := c.callBig(ctx, "eth_getTransactionCount", addr.Hex(), "pending")
	if err != nil {
		return 0, err
	}
	return n.Uint64(), nil
}

// EstimateGas estimates the gas limit for a plain value transfer or call.
func (c *Client) EstimateGas(ctx context.Context, from, to common.Address, value *big.Int, data []byte) (uint64, error) {
	msg := map[string]string{
		"from": from.Hex(),
		"to":   to.Hex(),
	}
	if value != nil && value.Sign() > 0 {
		msg["value"] = "0x" + value.Text(16)
	}
	if len(data) > 0 {
		msg["data"] = "0x" + fmt.Sprintf("%x", data)
	}

	n, err := c.callBig(ctx, "eth_estimateGas", msg, "latest")
	if err != nil {
		return 0, err
	}
	return n.Uint64(), nil
}

// SendRawTransaction broadcasts signed raw transaction bytes and returns the
// transaction hash.
func (c *Client) SendRawTransaction(ctx context.Context, raw []byte) (common.Hash, error) {
	result, err := c.call(ctx, "eth_sendRawTransaction", "0x"+fmt.Sprintf("%x", raw))
	if err != nil {
		return common.Hash{}, err
	}
	hexStr, ok := result.(string)
	if !ok {
		return common.Hash{}, fmt.Errorf("unexpected result: %T", result)
	}
	return common.HexToHash(hexStr), nil
}

// WeiToGwei converts a wei value to gwei as float64, for display.
func WeiToGwei(wei *big.Int) float64 {
	if wei == nil {
		return 0
	}
	f, _ := new(big.Float).Quo(
		new(big.Float).SetInt(wei),
		new(big.Float).SetFloat64(params.GWei),
	).Float64()
	return f
}

// GweiToWei converts a (possibly fractional) gwei quantity to wei.
func GweiToWei(gwei float64) *big.Int {
	wei, _ := new(big.Float).Mul(
		new(big.Float).SetFloat64(gwei),
		new(big.Float).SetFloat64(params.GWei),
	).Int(nil)
	return wei
}

// --- internal JSON-RPC plumbing ---

type rpcRequest struct {
	JSONRPC string        `json:"jsonrpc"`
	Method  string        `json:"method"`
	Params  []interface{} `json:"params"`
	ID      int           `json:"id"`
}

type rpcResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      int             `json:"id"`
	Result  json.RawMessage `json:"result"`
	Error   *rpcError       `json:"error"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// callBig issues a call whose result is a hex quantity string.
func (c *Client) callBig(ctx context.Context, method string, params ...interface{}) (*big.Int, error) {
	result, err := c.call(ctx, method, params...)
	if err != nil {
		return nil, err
	}
	hexStr, ok := result.(string)
	if !ok {
		return nil, fmt.Errorf("unexpected result type: %T", result)
	}
	n, ok := new(big.Int).SetString(strings.TrimPrefix(hexStr, "0x"), 16)
	if !ok {
		return nil, fmt.Errorf("could not parse quantity %q", hexStr)
	}
	return n, nil
}

func (c *Client) call(ctx context.Context, method string, params ...interface{}) (interface{}, error) {
	reqBody, err := json.Marshal(rpcRequest{
		JSONRPC: "2.0",
		Method:  method,
		Params:  params,
		ID:      1,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, strings.NewReader(string(reqBody)))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("RPC request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	var rpcResp rpcResponse
	if err := json.Unmarshal(body, &rpcResp); err != nil {
		return nil, fmt.Errorf("parsing response: %w", err)
	}

	if rpcResp.Error != nil {
		return nil, fmt.Errorf("RPC error %d: %s", rpcResp.Error.Code, rpcResp.Error.Message)
	}

	var result interface{}
	if err := json.Unmarshal(rpcResp.Result, &result); err != nil {
		return nil, fmt.Errorf("parsing result: %w", err)
	}

	return result, nil
}
