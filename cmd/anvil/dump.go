package main

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"anvil/internal/snapshot"
)

var dumpOut string

func init() {
	dumpCmd.Flags().StringVar(&dumpOut, "out", "", "write a msgpack snapshot to this path instead of printing")
}

var dumpCmd = &cobra.Command{
	Use:   "dump",
	Short: "Print the full legalization table",
	Long: `Dump prints one row per enumerated value type: its action, transform
target, register shape, and representative class. With --out the table is
written as a msgpack snapshot for later comparison.`,
	Args: cobra.NoArgs,
	RunE: runDump,
}

var (
	dumpHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6"))
	dumpLegalStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	dumpRowStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
)

func runDump(cmd *cobra.Command, args []string) error {
	eng, tm, err := engineFromFlags(cmd)
	if err != nil {
		return err
	}
	payload := snapshot.Capture(eng)

	if dumpOut != "" {
		if err := snapshot.Write(dumpOut, payload); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %d rows for %s to %s\n",
			len(payload.Rows), payload.Triple, dumpOut)
		printTimings(cmd, tm)
		return nil
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, dumpHeaderStyle.Render(payload.Triple))
	header := fmt.Sprintf("%-10s %-17s %-10s %-8s %4s  %-10s %4s",
		"type", "action", "transform", "regtype", "regs", "class", "cost")
	fmt.Fprintln(out, dumpHeaderStyle.Render(header))

	lines := lo.Map(payload.Rows, func(r snapshot.Row, _ int) string {
		return fmt.Sprintf("%-10s %-17s %-10s %-8s %4d  %-10s %4d",
			r.Type, r.Action, r.Transform, r.RegType, r.NumRegs, r.RepClass, r.RepCost)
	})
	for i, line := range lines {
		style := dumpRowStyle
		// Rows with a representative class are the ones that actually
		// live in registers; highlight them.
		if payload.Rows[i].RepClass != "" {
			style = dumpLegalStyle
		}
		fmt.Fprintln(out, style.Render(line))
	}

	printTimings(cmd, tm)
	return nil
}
