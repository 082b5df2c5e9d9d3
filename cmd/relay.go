package cmd

import (
	"context"
	"fmt"
	"math/big"
	"sort"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/relaykit/relayctl/internal/chain"
	"github.com/relaykit/relayctl/internal/fees"
	"github.com/relaykit/relayctl/internal/relay"
	"github.com/relaykit/relayctl/internal/ui"
)

var relayCmd = &cobra.Command{
	Use:   "relay",
	Short: "Manage and probe relay endpoints",
}

var relayAddCmd = &cobra.Command{
	Use:   "add <url>",
	Short: "Register a relay candidate",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.AddRelay(args[0]); err != nil {
			return err
		}
		if err := cfg.Save(); err != nil {
			return fmt.Errorf("saving config: %w", err)
		}
		fmt.Println(ui.Success("added " + args[0]))
		return nil
	},
}

var relayRemoveCmd = &cobra.Command{
	Use:   "remove <url>",
	Short: "Unregister a relay",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.RemoveRelay(args[0]); err != nil {
			return err
		}
		if err := cfg.Save(); err != nil {
			return fmt.Errorf("saving config: %w", err)
		}
		fmt.Println(ui.Success("removed " + args[0]))
		return nil
	},
}

var relayListCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered relays",
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(cfg.RelayURLs) == 0 {
			fmt.Println(ui.Meta("no relays registered — add one with `relayctl relay add <url>`"))
			return nil
		}
		for _, u := range cfg.RelayURLs {
			fmt.Println(ui.Addr(u))
		}
		return nil
	},
}

var relayPingCmd = &cobra.Command{
	Use:   "ping",
	Short: "Probe all relays concurrently and show who answered",
	Long: `Ping every registered relay at once. The first reply starts a short
grace window; replies landing inside the window are listed fastest first,
everything slower or down is reported below.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(cfg.RelayURLs) == 0 {
			return fmt.Errorf("no relays registered")
		}

		sp := ui.NewSpinner(fmt.Sprintf("pinging %d relays…", len(cfg.RelayURLs)))
		sp.Start()

		client := relay.NewClient(logger)
		ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
		defer cancel()
		candidates, failures, err := client.PingAll(ctx, cfg.RelayURLs, cfg.PingGrace())
		sp.Stop()
		if err != nil {
			return err
		}

		if len(candidates) > 0 {
			t := ui.NewTable("", "RELAY", "CHAIN", "MIN TIP", "VERSION")
			for _, c := range candidates {
				t.AddRow(readyDot(c.Ping.Ready), ui.Addr(c.URL), c.Ping.ChainID,
					minTip(c.Ping), ui.Meta(c.Ping.Version))
			}
			fmt.Print(t.Render())
		}

		if len(failures) > 0 {
			urls := make([]string, 0, len(failures))
			for u := range failures {
				urls = append(urls, u)
			}
			sort.Strings(urls)
			for _, u := range urls {
				fmt.Println(ui.Err(fmt.Sprintf("%s: %v", u, failures[u])))
			}
		}

		if len(candidates) == 0 {
			return fmt.Errorf("no relay answered within the window")
		}
		return nil
	},
}

var pickTipGwei float64

var relayPickCmd = &cobra.Command{
	Use:   "pick",
	Short: "Pick the fastest usable relay and show the negotiated fees",
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(cfg.RelayURLs) == 0 {
			return fmt.Errorf("no relays registered")
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
		defer cancel()

		desired, chainID, err := desiredFees(ctx, pickTipGwei)
		if err != nil {
			return err
		}

		client := relay.NewClient(logger)
		candidates, _, err := client.PingAll(ctx, cfg.RelayURLs, cfg.PingGrace())
		if err != nil {
			return err
		}

		sel, err := relay.Pick(candidates, desired, chainID, cfg.FeeTolerancePct, logger)
		if err != nil {
			return err
		}

		pairs := [][2]string{
			{"relay", ui.Addr(sel.URL)},
			{"worker", ui.Addr(sel.Ping.RelayWorkerAddress.Hex())},
			{"version", sel.Ping.Version},
		}
		for _, p := range sel.Fees.Params {
			pairs = append(pairs, [2]string{
				p.Name,
				fmt.Sprintf("%s (%s gwei, +%d%%)", ui.Val(p.Value.String()), gwei(p.Value), p.Deviation),
			})
		}
		pairs = append(pairs, [2]string{"max deviation", fmt.Sprintf("%d%% (tolerance %d%%)", sel.Fees.MaxDeviation, cfg.FeeTolerancePct)})
		fmt.Println(ui.KeyValueBlock("Selected relay", pairs))
		return nil
	},
}

var relayWatchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Live relay status dashboard",
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(cfg.RelayURLs) == 0 {
			return fmt.Errorf("no relays registered")
		}

		client := relay.NewClient(logger)
		urls := cfg.RelayURLs
		probe := func(ctx context.Context) []ui.RelayRow {
			rows := make([]ui.RelayRow, len(urls))
			for i, u := range urls {
				start := time.Now()
				ping, err := client.Ping(ctx, u)
				rows[i] = ui.RelayRow{URL: u, Latency: time.Since(start), Err: err}
				if err == nil {
					rows[i].Ready = ping.Ready
					rows[i].MinTip = minTip(ping)
					rows[i].Version = ping.Version
				}
			}
			return rows
		}

		interval := time.Duration(cfg.WatchInterval) * time.Second
		_, err := tea.NewProgram(ui.NewWatchModel(probe, interval)).Run()
		return err
	},
}

// desiredFees builds the client's desired fee parameters: tip from --tip (or
// the oracle/node when omitted), fee cap at twice the tip plus the node's
// base-fee estimate via eth_gasPrice.
func desiredFees(ctx context.Context, tipGwei float64) ([]fees.Parameter, *big.Int, error) {
	if err := requireRPC(); err != nil {
		return nil, nil, err
	}
	node := chain.NewClient(cfg.RPCURL)

	chainID, err := node.ChainID(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("fetching chain id: %w", err)
	}

	var tip *big.Int
	if tipGwei > 0 {
		tip = chain.GweiToWei(tipGwei)
	} else {
		tip, err = gasOracle(node).GasPrice(ctx)
		if err != nil {
			return nil, nil, fmt.Errorf("quoting gas price: %w", err)
		}
	}

	gasPrice, err := node.SuggestGasPrice(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("fetching node gas price: %w", err)
	}
	feeCap := new(big.Int).Add(gasPrice, new(big.Int).Mul(tip, big.NewInt(2)))

	return []fees.Parameter{
		{Name: fees.MaxPriorityFeePerGas, Value: tip},
		{Name: fees.MaxFeePerGas, Value: feeCap},
	}, chainID, nil
}

func minTip(p *relay.PingResponse) string {
	minimums, err := p.MinimumFees()
	if err != nil {
		return "?"
	}
	for _, m := range minimums {
		if m.Name == fees.MaxPriorityFeePerGas {
			return gwei(m.Value) + " gwei"
		}
	}
	return "?"
}

func gwei(wei *big.Int) string {
	return fmt.Sprintf("%.2f", chain.WeiToGwei(wei))
}

func readyDot(ready bool) string {
	if ready {
		return ui.StyleSuccess.Render("●")
	}
	return ui.StyleWarning.Render("●")
}

func init() {
	relayPickCmd.Flags().Float64Var(&pickTipGwei, "tip", 0, "desired priority fee in gwei (default: oracle quote)")
	relayCmd.AddCommand(relayAddCmd, relayRemoveCmd, relayListCmd, relayPingCmd, relayPickCmd, relayWatchCmd)
}
