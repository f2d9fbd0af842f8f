package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"anvil/internal/vt"
)

var breakdownCmd = &cobra.Command{
	Use:   "breakdown <vector-type>",
	Short: "Show how a vector is carried in registers",
	Long: `Breakdown splits a vector into the widest legal pieces the target can
hold and reports the registers that carry them, e.g. "anvil breakdown v7f32".`,
	Args: cobra.ExactArgs(1),
	RunE: runBreakdown,
}

func runBreakdown(cmd *cobra.Command, args []string) error {
	eng, tm, err := engineFromFlags(cmd)
	if err != nil {
		return err
	}
	t, err := vt.Parse(args[0])
	if err != nil {
		return err
	}
	if !t.IsVector() {
		return fmt.Errorf("%s is not a vector type", t)
	}

	bd := eng.VectorBreakdown(t)
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s on %s\n", t, eng.Desc().Triple.Raw)
	fmt.Fprintf(out, "  pieces:    %d x %s\n", bd.NumIntermediates, bd.Intermediate)
	fmt.Fprintf(out, "  registers: %d x %s\n", bd.NumRegs, bd.RegType)

	printTimings(cmd, tm)
	return nil
}
