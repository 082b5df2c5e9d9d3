package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/relaykit/relayctl/internal/ui"
)

var walletCmd = &cobra.Command{
	Use:   "wallet",
	Short: "Manage signing wallets",
}

var walletImportCmd = &cobra.Command{
	Use:   "import <name>",
	Short: "Import a private key into the OS keychain",
	Long: `Import a hex private key. The key is prompted for (never passed on
the command line) and stored in the OS keychain; only the derived address
is written to disk.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		hexKey, err := promptSecret("Private key (hex): ")
		if err != nil {
			return err
		}

		mgr := walletManager()
		w, err := mgr.Import(args[0], strings.TrimSpace(hexKey))
		if err != nil {
			return err
		}

		if cfg.DefaultWallet == "" {
			cfg.DefaultWallet = w.Name
			if err := cfg.Save(); err != nil {
				return fmt.Errorf("saving config: %w", err)
			}
		}

		fmt.Println(ui.Success(fmt.Sprintf("imported %s → %s", w.Name, ui.Addr(w.Address))))
		return nil
	},
}

var walletListCmd = &cobra.Command{
	Use:   "list",
	Short: "List wallets",
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr := walletManager()
		wallets := mgr.List()
		if len(wallets) == 0 {
			fmt.Println(ui.Meta("no wallets — import one with `relayctl wallet import <name>`"))
			return nil
		}

		t := ui.NewTable("NAME", "ADDRESS", "")
		for _, w := range wallets {
			mark := ""
			if w.Name == cfg.DefaultWallet || w.IsDefault {
				mark = ui.StyleSuccess.Render("default")
			}
			t.AddRow(w.Name, ui.Addr(w.Address), mark)
		}
		fmt.Print(t.Render())
		return nil
	},
}

var walletRemoveCmd = &cobra.Command{
	Use:   "remove <name>",
	Short: "Remove a wallet and its key from the keychain",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := walletManager().Remove(args[0]); err != nil {
			return err
		}
		if cfg.DefaultWallet == args[0] {
			cfg.DefaultWallet = ""
			if err := cfg.Save(); err != nil {
				return fmt.Errorf("saving config: %w", err)
			}
		}
		fmt.Println(ui.Success("removed " + args[0]))
		return nil
	},
}

var walletDefaultCmd = &cobra.Command{
	Use:   "set-default <name>",
	Short: "Mark a wallet as the default for send",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr := walletManager()
		if err := mgr.SetDefault(args[0]); err != nil {
			return err
		}
		cfg.DefaultWallet = args[0]
		if err := cfg.Save(); err != nil {
			return fmt.Errorf("saving config: %w", err)
		}
		fmt.Println(ui.Success("default wallet is now " + args[0]))
		return nil
	},
}

// promptSecret reads a line without echo when stdin is a terminal, and
// falls back to plain reads so piped input keeps working.
func promptSecret(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)
	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		b, err := term.ReadPassword(fd)
		fmt.Fprintln(os.Stderr)
		return string(b), err
	}
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return line, nil
}

func init() {
	walletCmd.AddCommand(walletImportCmd, walletListCmd, walletRemoveCmd, walletDefaultCmd)
}
