package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"anvil/internal/legalize"
	"anvil/internal/observ"
	"anvil/internal/target"
	"anvil/internal/tdesc"
)

// engineFromFlags builds the legalization engine selected by --target or
// --preset. With neither flag the rv32 preset is used.
func engineFromFlags(cmd *cobra.Command) (*legalize.Engine, *observ.Timer, error) {
	targetPath, err := cmd.Flags().GetString("target")
	if err != nil {
		return nil, nil, err
	}
	presetName, err := cmd.Flags().GetString("preset")
	if err != nil {
		return nil, nil, err
	}
	if targetPath != "" && presetName != "" {
		return nil, nil, fmt.Errorf("--target and --preset are mutually exclusive")
	}

	var desc *target.Desc
	switch {
	case targetPath != "":
		desc, err = tdesc.Load(targetPath)
		if err != nil {
			return nil, nil, err
		}
	case presetName != "":
		var ok bool
		desc, ok = target.Preset(presetName)
		if !ok {
			return nil, nil, fmt.Errorf("unknown preset %q (built-in: %s)",
				presetName, strings.Join(target.PresetNames(), ", "))
		}
	default:
		desc, _ = target.Preset("rv32")
	}

	withTimings, err := cmd.Flags().GetBool("timings")
	if err != nil {
		return nil, nil, err
	}
	var tm *observ.Timer
	if withTimings {
		tm = observ.NewTimer()
	}

	eng, err := legalize.NewWithTimer(desc, tm)
	if err != nil {
		return nil, nil, err
	}
	return eng, tm, nil
}

// printTimings writes the construction phase summary to stderr so it never
// mixes with table output on stdout. A nil timer prints nothing.
func printTimings(cmd *cobra.Command, tm *observ.Timer) {
	if tm == nil {
		return
	}
	fmt.Fprint(cmd.ErrOrStderr(), tm.Summary())
}
