package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/relaykit/relayctl/internal/ui"
)

var (
	initRPCURL     string
	initRelays     []string
	initOracleURL  string
	initOraclePath string
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the config directory and seed initial settings",
	Long: `Create ~/.relayctl with default settings. Flags seed the initial
RPC endpoint, relay candidates and gas oracle in one shot:

  relayctl init \
    --rpc-url https://rpc.example.org \
    --relay https://relay-a.example.org --relay https://relay-b.example.org \
    --oracle-url https://oracle.example.org/api \
    --oracle-path .result.ProposeGasPrice`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if initRPCURL != "" {
			cfg.RPCURL = initRPCURL
		}
		for _, u := range initRelays {
			if err := cfg.AddRelay(u); err != nil {
				fmt.Println(ui.Warn(err.Error()))
			}
		}
		if initOracleURL != "" {
			cfg.OracleURL = initOracleURL
		}
		if initOraclePath != "" {
			cfg.OraclePath = initOraclePath
		}

		if err := cfg.Save(); err != nil {
			return fmt.Errorf("saving config: %w", err)
		}

		fmt.Println(ui.Success("relayctl configured at " + cfg.Dir()))
		if len(cfg.RelayURLs) == 0 {
			fmt.Println(ui.Meta("add relays with: relayctl relay add <url>"))
		}
		return nil
	},
}

func init() {
	initCmd.Flags().StringVar(&initRPCURL, "rpc-url", "", "EVM node RPC endpoint")
	initCmd.Flags().StringArrayVar(&initRelays, "relay", nil, "relay endpoint (repeatable)")
	initCmd.Flags().StringVar(&initOracleURL, "oracle-url", "", "gas price oracle URL")
	initCmd.Flags().StringVar(&initOraclePath, "oracle-path", "", "path expression into the oracle response")
}
