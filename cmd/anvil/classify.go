package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"anvil/internal/legalize"
	"anvil/internal/vt"
)

var classifyCmd = &cobra.Command{
	Use:   "classify <type>",
	Short: "Show how one value type is legalized",
	Long: `Classify prints the legalization action for a value type, the chain of
transforms that reduces it to a legal type, and the registers the final
value occupies. Types are written like i32, f64, v4i16, or v3f32.`,
	Args: cobra.ExactArgs(1),
	RunE: runClassify,
}

var (
	legalColor  = color.New(color.FgGreen, color.Bold)
	actionColor = color.New(color.FgYellow)
)

func runClassify(cmd *cobra.Command, args []string) error {
	eng, tm, err := engineFromFlags(cmd)
	if err != nil {
		return err
	}
	t, err := vt.Parse(args[0])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s on %s\n", t, eng.Desc().Triple.Raw)

	action := eng.TypeAction(t)
	if action == legalize.Legal {
		fmt.Fprintf(out, "  action:    %s\n", legalColor.Sprint(action))
	} else {
		fmt.Fprintf(out, "  action:    %s\n", actionColor.Sprint(action))
		fmt.Fprintf(out, "  chain:     %s\n", transformChain(eng, t))
	}

	cost, final := eng.LegalizationCost(t)
	fmt.Fprintf(out, "  legal as:  %s (cost %d)\n", final, cost)
	if n := eng.NumRegisters(t); n > 0 {
		fmt.Fprintf(out, "  registers: %d x %s\n", n, eng.RegisterType(t))
	}

	printTimings(cmd, tm)
	return nil
}

// transformChain renders the full step-by-step path from t to its legal
// form. Every chain terminates: each step strictly shrinks or promotes
// toward an enumerated legal type.
func transformChain(eng *legalize.Engine, t vt.Type) string {
	var b strings.Builder
	b.WriteString(t.String())
	cur := t
	for {
		action, next := eng.Conversion(cur)
		if action == legalize.Legal {
			return b.String()
		}
		b.WriteString(" -> ")
		b.WriteString(next.String())
		cur = next
	}
}
