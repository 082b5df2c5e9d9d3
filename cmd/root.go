package cmd

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/relaykit/relayctl/internal/config"
	"github.com/relaykit/relayctl/internal/wallet"
)

// Version is the current release. Overridable via build ldflags:
//
//	go build -ldflags "-X github.com/relaykit/relayctl/cmd.Version=1.2.3" .
var Version = "1.0.0"

var (
	cfgDir  string
	cfg     *config.Config
	verbose bool
	logger  zerolog.Logger
)

// rootCmd is the top-level command.
var rootCmd = &cobra.Command{
	Use:   "relayctl",
	Short: "Meta-transaction relay client",
	Long: `relayctl — terminal client for meta-transaction relay networks.

  Race relay endpoints and pick the fastest usable one, negotiate fees
  against relay minimums, quote gas prices from an HTTP oracle with an
  on-chain fallback, and sign and submit EIP-1559 transactions.

Configuration lives in ~/.relayctl (override with --config or the
RELAYCTL_CONFIG_DIR env var).`,
	Version: Version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logger = newLogger(verbose)

		if cmd.Name() == "help" || cmd.Name() == "completion" {
			return nil
		}
		var err error
		cfg, err = config.Load(cfgDir)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		return nil
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	// RELAYCTL_CONFIG_DIR env var seeds the --config flag default.
	if envDir := os.Getenv("RELAYCTL_CONFIG_DIR"); envDir != "" {
		cfgDir = envDir
	}

	rootCmd.PersistentFlags().StringVar(&cfgDir, "config", cfgDir, "config directory (default: ~/.relayctl)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	rootCmd.AddCommand(
		initCmd,
		configCmd,
		relayCmd,
		gasCmd,
		walletCmd,
		sendCmd,
	)
}

// newLogger builds the console logger shared by all commands. Diagnostics go
// to stderr so command output stays pipeable.
func newLogger(verbose bool) zerolog.Logger {
	level := zerolog.WarnLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	w := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}
	return zerolog.New(w).Level(level).With().Timestamp().Logger()
}

// walletManager wires the wallet store and OS keystore for the loaded config.
func walletManager() *wallet.Manager {
	return wallet.NewManager(
		wallet.NewJSONStore(cfg.WalletsPath()),
		wallet.DefaultKeystore(),
	)
}

// requireRPC errors early for commands that can't work without a node.
func requireRPC() error {
	if cfg.RPCURL == "" {
		return fmt.Errorf("no RPC URL configured; run `relayctl config set rpc-url <url>`")
	}
	return nil
}
