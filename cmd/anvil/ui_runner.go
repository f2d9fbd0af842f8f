package main

import (
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"anvil/internal/legalize"
	"anvil/internal/testkit"
	"anvil/internal/ui"
)

// runSweepWithUI runs the invariant sweep behind a live progress view. The
// sweep owns the event channel and closes it when every family finishes,
// which is what tells the view to quit.
func runSweepWithUI(eng *legalize.Engine, opts testkit.SweepOptions) ([]testkit.Failure, error) {
	events := make(chan testkit.Event, 256)
	outcome := make(chan []testkit.Failure, 1)

	go func() {
		outcome <- testkit.Sweep(eng, opts, events)
	}()

	model := ui.NewSweepModel("verifying legalization invariants", testkit.Families(), events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stdout))
	_, uiErr := program.Run()

	failures := <-outcome
	if uiErr != nil {
		return failures, uiErr
	}
	return failures, nil
}
