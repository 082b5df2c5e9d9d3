package relay

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/pkg/errors"

	"github.com/relaykit/relayctl/internal/fees"
)

// PingResponse is the status document a relay serves at its ping endpoint.
// Fee minimums arrive as decimal wei strings.
type PingResponse struct {
	RelayWorkerAddress      common.Address `json:"relayWorkerAddress"`
	RelayManagerAddress     common.Address `json:"relayManagerAddress"`
	RelayHubAddress         common.Address `json:"relayHubAddress"`
	OwnerAddress            common.Address `json:"ownerAddress"`
	MinMaxPriorityFeePerGas string         `json:"minMaxPriorityFeePerGas"`
	MinMaxFeePerGas         string         `json:"minMaxFeePerGas"`
	ChainID                 string         `json:"chainId"`
	NetworkID               string         `json:"networkId"`
	Ready                   bool           `json:"ready"`
	Version                 string         `json:"version"`
}

// MinimumFees converts the relay's advertised minimums into negotiable fee
// parameters. An absent minimum counts as zero (the relay accepts anything).
func (p *PingResponse) MinimumFees() ([]fees.Parameter, error) {
	tip, err := parseWei(p.MinMaxPriorityFeePerGas)
	if err != nil {
		return nil, errors.Wrap(err, "minMaxPriorityFeePerGas")
	}
	cap, err := parseWei(p.MinMaxFeePerGas)
	if err != nil {
		return nil, errors.Wrap(err, "minMaxFeePerGas")
	}
	return []fees.Parameter{
		{Name: fees.MaxPriorityFeePerGas, Value: tip},
		{Name: fees.MaxFeePerGas, Value: cap},
	}, nil
}

func parseWei(s string) (*big.Int, error) {
	if s == "" {
		return big.NewInt(0), nil
	}
	v, ok := new(big.Int).SetString(s, 10)
	if !ok || v.Sign() < 0 {
		return nil, errors.Errorf("invalid wei amount %q", s)
	}
	return v, nil
}

// TxRequest is the submission payload: a signed raw transaction plus the fee
// values it was signed with, so the relay can check them against its own
// minimums before spending gas.
type TxRequest struct {
	SignedTx             hexutil.Bytes  `json:"signedTx"`
	MaxPriorityFeePerGas string         `json:"maxPriorityFeePerGas"`
	MaxFeePerGas         string         `json:"maxFeePerGas"`
	RelayHubAddress      common.Address `json:"relayHubAddress"`
}

// TxResponse is the relay's answer to a submission: the transaction as the
// relay worker signed and broadcast it.
type TxResponse struct {
	SignedTx hexutil.Bytes `json:"signedTx"`
	TxHash   common.Hash   `json:"txHash"`
	Error    string        `json:"error,omitempty"`
}
