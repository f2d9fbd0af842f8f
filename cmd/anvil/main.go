package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"anvil/internal/target"
	"anvil/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "anvil",
	Short: "Type legalization tables for register machines",
	Long: `anvil computes how a machine carries every value type: which types sit in
registers unchanged, and the chain of promotions, expansions, splits, and
widenings that reduces everything else to ones that do.

Targets come from a TOML description (--target) or a built-in preset
(--preset). Without either, the rv32 preset is used.`,
}

func main() {
	rootCmd.Version = version.Version

	rootCmd.AddCommand(classifyCmd)
	rootCmd.AddCommand(breakdownCmd)
	rootCmd.AddCommand(dumpCmd)
	rootCmd.AddCommand(routinesCmd)
	rootCmd.AddCommand(verifyCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(versionCmd)

	rootCmd.PersistentFlags().String("target", "", "path to a TOML target description")
	rootCmd.PersistentFlags().String("preset", "", "built-in target ("+strings.Join(target.PresetNames(), "|")+")")
	rootCmd.PersistentFlags().Bool("timings", false, "report table construction timings on stderr")
	rootCmd.PersistentFlags().String("ui", "auto", "progress UI for long sweeps (auto|on|off)")
	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")

	rootCmd.PersistentPreRunE = applyColorMode

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func applyColorMode(cmd *cobra.Command, _ []string) error {
	mode, err := cmd.Flags().GetString("color")
	if err != nil {
		return err
	}
	switch strings.TrimSpace(strings.ToLower(mode)) {
	case "", "auto":
		// The color package already disables itself off-terminal.
	case "on":
		color.NoColor = false
	case "off":
		color.NoColor = true
	default:
		return fmt.Errorf("invalid --color value %q (expected auto|on|off)", mode)
	}
	return nil
}

// isTerminal reports whether the given file is attached to a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
