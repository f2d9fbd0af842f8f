package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"anvil/internal/testkit"
)

var (
	verifyMaxBits  uint32
	verifyMaxLanes uint32
)

func init() {
	verifyCmd.Flags().Uint32Var(&verifyMaxBits, "max-bits", 256, "largest extended integer width to sweep")
	verifyCmd.Flags().Uint32Var(&verifyMaxLanes, "max-lanes", 16, "largest extended vector lane count to sweep")
}

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Check every legalization invariant for the target",
	Long: `Verify sweeps the enumerated types and a sample of the extended space,
checking that legal types are fixed points, that every transform chain
reaches a legal type, that vector breakdowns conserve lanes and bits, and
that wider integers never need fewer registers. Exits non-zero on any
violation.`,
	Args: cobra.NoArgs,
	RunE: runVerify,
}

var (
	okColor   = color.New(color.FgGreen, color.Bold)
	failColor = color.New(color.FgRed, color.Bold)
)

func runVerify(cmd *cobra.Command, args []string) error {
	eng, tm, err := engineFromFlags(cmd)
	if err != nil {
		return err
	}
	uiValue, err := cmd.Flags().GetString("ui")
	if err != nil {
		return err
	}
	mode, err := readUIMode(uiValue)
	if err != nil {
		return err
	}

	opts := testkit.SweepOptions{MaxBits: verifyMaxBits, MaxLanes: verifyMaxLanes}
	var failures []testkit.Failure
	if shouldUseTUI(mode) {
		failures, err = runSweepWithUI(eng, opts)
		if err != nil {
			return err
		}
	} else {
		failures = testkit.Sweep(eng, opts, nil)
	}

	out := cmd.OutOrStdout()
	if len(failures) > 0 {
		for _, f := range failures {
			fmt.Fprintf(out, "%s %s: %v\n", failColor.Sprint("fail"), f.Family, f.Err)
		}
		printTimings(cmd, tm)
		return fmt.Errorf("%d of %d families violated on %s",
			len(failures), len(testkit.Families()), eng.Desc().Triple.Raw)
	}
	fmt.Fprintf(out, "%s %s holds every invariant (%d families)\n",
		okColor.Sprint("ok"), eng.Desc().Triple.Raw, len(testkit.Families()))

	printTimings(cmd, tm)
	return nil
}
