package main

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"

	"anvil/internal/rtlib"
)

var routinesFilter string

func init() {
	routinesCmd.Flags().StringVar(&routinesFilter, "filter", "", "only list routines whose name or operation contains this substring")
}

var routinesCmd = &cobra.Command{
	Use:   "routines",
	Short: "List the runtime routines for the target triple",
	Long: `Routines lists every runtime routine the target's operating system and
environment provide: soft-float arithmetic, conversions, comparisons,
memory and atomic helpers. Names vary by triple; compare
"anvil --target gnu.toml routines" against a Darwin description to see
the platform differences.`,
	Args: cobra.NoArgs,
	RunE: runRoutines,
}

func runRoutines(cmd *cobra.Command, args []string) error {
	eng, tm, err := engineFromFlags(cmd)
	if err != nil {
		return err
	}
	tbl := eng.Routines()

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s: %d routines\n", tbl.Triple().Raw, tbl.Len())

	shown := 0
	for _, e := range tbl.Entries() {
		if routinesFilter != "" &&
			!strings.Contains(e.Routine.Name, routinesFilter) &&
			!strings.Contains(e.Op.String(), routinesFilter) {
			continue
		}
		line := fmt.Sprintf("  %-22s %-16s %-40s %s",
			e.Op, entryTypes(e), runewidth.Truncate(e.Routine.Name, 40, "..."), e.Routine.Conv)
		if e.Routine.Pred != rtlib.PredNone {
			line += "  result " + e.Routine.Pred.String() + " 0"
		}
		fmt.Fprintln(out, line)
		shown++
	}
	if routinesFilter != "" {
		fmt.Fprintf(out, "%d of %d routines match %q\n", shown, tbl.Len(), routinesFilter)
	}

	printTimings(cmd, tm)
	return nil
}

// entryTypes renders the operand types of a table entry: empty for untyped
// operations like memcpy, one type for most, source -> result for
// conversions.
func entryTypes(e rtlib.Entry) string {
	if !e.A.IsValid() {
		return ""
	}
	if !e.B.IsValid() {
		return e.A.String()
	}
	return e.A.String() + " -> " + e.B.String()
}
