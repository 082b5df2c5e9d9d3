package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/relaykit/relayctl/internal/ui"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show and edit settings",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the current configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		oracle := cfg.OracleURL
		if oracle == "" {
			oracle = ui.Meta("(none — node gas price only)")
		}
		fmt.Println(ui.KeyValueBlock("relayctl config", [][2]string{
			{"rpc-url", ui.Addr(cfg.RPCURL)},
			{"relays", strconv.Itoa(len(cfg.RelayURLs))},
			{"oracle-url", oracle},
			{"oracle-path", cfg.OraclePath},
			{"fee-tolerance", fmt.Sprintf("%d%%", cfg.FeeTolerancePct)},
			{"ping-grace", cfg.PingGrace().String()},
			{"watch-interval", fmt.Sprintf("%ds", cfg.WatchInterval)},
			{"default-wallet", cfg.DefaultWallet},
		}))
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Long: `Set a configuration value. Keys:

  rpc-url         EVM node RPC endpoint
  oracle-url      gas price oracle URL (empty string disables the oracle)
  oracle-path     path expression into the oracle response
  fee-tolerance   max % relays may push fees above desired (integer)
  ping-grace-ms   wait after the first relay answers, in milliseconds
  watch-interval  seconds between relay watch refreshes
  default-wallet  wallet used by send when --wallet is omitted`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, value := strings.ToLower(args[0]), args[1]

		switch key {
		case "rpc-url":
			cfg.RPCURL = value
		case "oracle-url":
			cfg.OracleURL = value
		case "oracle-path":
			cfg.OraclePath = value
		case "default-wallet":
			cfg.DefaultWallet = value
		case "fee-tolerance":
			n, err := strconv.ParseInt(value, 10, 64)
			if err != nil || n < 0 {
				return fmt.Errorf("fee-tolerance must be a non-negative integer, got %q", value)
			}
			cfg.FeeTolerancePct = n
		case "ping-grace-ms":
			n, err := strconv.Atoi(value)
			if err != nil || n < 0 {
				return fmt.Errorf("ping-grace-ms must be a non-negative integer, got %q", value)
			}
			cfg.PingGraceMS = n
		case "watch-interval":
			n, err := strconv.Atoi(value)
			if err != nil || n < 1 {
				return fmt.Errorf("watch-interval must be a positive integer, got %q", value)
			}
			cfg.WatchInterval = n
		default:
			return fmt.Errorf("unknown config key %q", key)
		}

		if err := cfg.Save(); err != nil {
			return fmt.Errorf("saving config: %w", err)
		}
		fmt.Println(ui.Success(fmt.Sprintf("%s = %s", key, value)))
		return nil
	},
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Print a single configuration value",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		switch strings.ToLower(args[0]) {
		case "rpc-url":
			fmt.Println(cfg.RPCURL)
		case "oracle-url":
			fmt.Println(cfg.OracleURL)
		case "oracle-path":
			fmt.Println(cfg.OraclePath)
		case "default-wallet":
			fmt.Println(cfg.DefaultWallet)
		case "fee-tolerance":
			fmt.Println(cfg.FeeTolerancePct)
		case "ping-grace-ms":
			fmt.Println(cfg.PingGraceMS)
		case "watch-interval":
			fmt.Println(cfg.WatchInterval)
		default:
			return fmt.Errorf("unknown config key %q", args[0])
		}
		return nil
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config directory",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println(cfg.Dir())
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd, configGetCmd, configSetCmd, configPathCmd)
}
