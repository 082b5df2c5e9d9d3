package cmd

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/spf13/cobra"

	"github.com/relaykit/relayctl/internal/chain"
	"github.com/relaykit/relayctl/internal/fees"
	"github.com/relaykit/relayctl/internal/relay"
	"github.com/relaykit/relayctl/internal/ui"
	"github.com/relaykit/relayctl/internal/wallet"
)

var (
	sendWallet  string
	sendValue   string
	sendData    string
	sendGas     uint64
	sendTipGwei float64
	sendDirect  bool
)

var sendCmd = &cobra.Command{
	Use:   "send <to>",
	Short: "Sign a transaction and submit it through the fastest usable relay",
	Long: `Sign an EIP-1559 transaction and hand it to a relay:

  1. quote a tip from the gas oracle (or --tip),
  2. ping every registered relay and race them under the grace window,
  3. pick the fastest relay whose fee minimums fit the tolerance,
  4. sign with the negotiated fees and submit.

--direct skips the relays and broadcasts through the configured node.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if !common.IsHexAddress(args[0]) {
			return fmt.Errorf("invalid recipient address %q", args[0])
		}
		to := common.HexToAddress(args[0])

		if err := requireRPC(); err != nil {
			return err
		}
		if !sendDirect && len(cfg.RelayURLs) == 0 {
			return fmt.Errorf("no relays registered; add one or pass --direct")
		}

		value := new(big.Int)
		if sendValue != "" {
			if _, ok := value.SetString(sendValue, 10); !ok || value.Sign() < 0 {
				return fmt.Errorf("invalid value %q, expected wei", sendValue)
			}
		}
		var data []byte
		if sendData != "" {
			var err error
			if data, err = hexutil.Decode(sendData); err != nil {
				return fmt.Errorf("invalid calldata: %w", err)
			}
		}

		name := sendWallet
		if name == "" {
			name = cfg.DefaultWallet
		}
		if name == "" {
			return fmt.Errorf("no wallet selected; pass --wallet or set a default")
		}
		signer, err := walletManager().Signer(name)
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), 60*time.Second)
		defer cancel()
		return runSend(ctx, signer, to, value, data)
	},
}

func runSend(ctx context.Context, signer *wallet.Signer, to common.Address, value *big.Int, data []byte) error {
	node := chain.NewClient(cfg.RPCURL)

	desired, chainID, err := desiredFees(ctx, sendTipGwei)
	if err != nil {
		return err
	}

	var sel *relay.Selection
	if !sendDirect {
		sp := ui.NewSpinner(fmt.Sprintf("racing %d relays…", len(cfg.RelayURLs)))
		sp.Start()
		client := relay.NewClient(logger)
		candidates, _, pingErr := client.PingAll(ctx, cfg.RelayURLs, cfg.PingGrace())
		sp.Stop()
		if pingErr != nil {
			return pingErr
		}
		if sel, err = relay.Pick(candidates, desired, chainID, cfg.FeeTolerancePct, logger); err != nil {
			return err
		}
		logger.Info().Str("relay", sel.URL).Int64("deviationPct", sel.Fees.MaxDeviation).Msg("relay selected")
	}

	// Fees the transaction is signed with: the negotiated values when a
	// relay is in play, the desired values otherwise.
	signedWith := desired
	if sel != nil {
		signedWith = make([]fees.Parameter, 0, len(sel.Fees.Params))
		for _, p := range sel.Fees.Params {
			signedWith = append(signedWith, fees.Parameter{Name: p.Name, Value: p.Value})
		}
	}
	tip, feeCap, err := splitFees(signedWith)
	if err != nil {
		return err
	}

	from := signer.Address()
	nonce, err := node.Nonce(ctx, from)
	if err != nil {
		return fmt.Errorf("fetching nonce: %w", err)
	}
	gas := sendGas
	if gas == 0 {
		if gas, err = node.EstimateGas(ctx, from, to, value, data); err != nil {
			return fmt.Errorf("estimating gas: %w", err)
		}
	}

	raw, err := signer.SignTx(wallet.TxParams{
		ChainID:   chainID,
		Nonce:     nonce,
		To:        to,
		Value:     value,
		Gas:       gas,
		GasTipCap: tip,
		GasFeeCap: feeCap,
		Data:      data,
	})
	if err != nil {
		return err
	}

	var txHash common.Hash
	if sendDirect {
		if txHash, err = node.SendRawTransaction(ctx, raw); err != nil {
			return fmt.Errorf("broadcasting: %w", err)
		}
	} else {
		resp, sendErr := relay.NewClient(logger).SendTransaction(ctx, sel.URL, &relay.TxRequest{
			SignedTx:             raw,
			MaxPriorityFeePerGas: tip.String(),
			MaxFeePerGas:         feeCap.String(),
			RelayHubAddress:      sel.Ping.RelayHubAddress,
		})
		if sendErr != nil {
			return sendErr
		}
		txHash = resp.TxHash
	}

	pairs := [][2]string{
		{"tx", ui.Val(txHash.Hex())},
		{"from", ui.Addr(from.Hex())},
		{"to", ui.Addr(to.Hex())},
		{"nonce", fmt.Sprintf("%d", nonce)},
		{"tip", gwei(tip) + " gwei"},
		{"fee cap", gwei(feeCap) + " gwei"},
	}
	if sel != nil {
		pairs = append(pairs, [2]string{"via", ui.Addr(sel.URL)})
	}
	fmt.Println(ui.KeyValueBlock("Transaction submitted", pairs))
	return nil
}

func splitFees(params []fees.Parameter) (tip, feeCap *big.Int, err error) {
	for _, p := range params {
		switch p.Name {
		case fees.MaxPriorityFeePerGas:
			tip = p.Value
		case fees.MaxFeePerGas:
			feeCap = p.Value
		}
	}
	if tip == nil || feeCap == nil {
		return nil, nil, fmt.Errorf("incomplete fee parameters")
	}
	return tip, feeCap, nil
}

func init() {
	sendCmd.Flags().StringVar(&sendWallet, "wallet", "", "wallet name (default: configured default wallet)")
	sendCmd.Flags().StringVar(&sendValue, "value", "", "amount to send, in wei")
	sendCmd.Flags().StringVar(&sendData, "data", "", "calldata as 0x-prefixed hex")
	sendCmd.Flags().Uint64Var(&sendGas, "gas", 0, "gas limit (default: estimate)")
	sendCmd.Flags().Float64Var(&sendTipGwei, "tip", 0, "priority fee in gwei (default: oracle quote)")
	sendCmd.Flags().BoolVar(&sendDirect, "direct", false, "broadcast via the node instead of a relay")
}
