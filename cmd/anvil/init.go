package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"anvil/internal/tdesc"
)

var initCmd = &cobra.Command{
	Use:   "init [file]",
	Short: "Write a commented starter target description",
	Long: `Init writes a commented example target description to the given file
(default target.toml). The example loads as-is and is meant to be edited
into a real machine description.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInit,
}

func runInit(cmd *cobra.Command, args []string) error {
	path := "target.toml"
	if len(args) == 1 {
		path = args[0]
	}
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%s already exists, not overwriting", path)
	}
	if err := os.WriteFile(path, []byte(tdesc.ExampleFile), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s; try `anvil --target %s dump`\n", path, path)
	return nil
}
