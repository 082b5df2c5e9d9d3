package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/relaykit/relayctl/internal/chain"
	"github.com/relaykit/relayctl/internal/oracle"
	"github.com/relaykit/relayctl/internal/ui"
)

var gasCmd = &cobra.Command{
	Use:   "gas",
	Short: "Quote the current gas price",
	Long: `Quote the gas price from the configured HTTP oracle, falling back
to the node's eth_gasPrice when no oracle is configured or the oracle is
unusable. Run with -v to see why a fallback happened.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireRPC(); err != nil {
			return err
		}
		node := chain.NewClient(cfg.RPCURL)

		ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
		defer cancel()

		price, err := gasOracle(node).GasPrice(ctx)
		if err != nil {
			return fmt.Errorf("quoting gas price: %w", err)
		}

		source := "oracle " + cfg.OracleURL
		if cfg.OracleURL == "" {
			source = "node " + cfg.RPCURL
		}
		fmt.Println(ui.KeyValueBlock("Gas price", [][2]string{
			{"wei", ui.Val(price.String())},
			{"gwei", ui.Val(fmt.Sprintf("%.3f", chain.WeiToGwei(price)))},
			{"source", ui.Meta(source)},
		}))
		return nil
	},
}

// gasOracle builds the configured oracle fetcher over the given node. Note
// the node doubles as the fallback source, so this works with no oracle
// configured at all.
func gasOracle(node *chain.Client) *oracle.Fetcher {
	return oracle.NewFetcher(cfg.OracleURL, cfg.OraclePath, node, logger)
}
