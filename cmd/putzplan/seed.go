package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/mhartig/putzplan/internal/seed"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Replace the state with a small demo household",
	Args:  cobra.NoArgs,
	RunE:  runSeed,
}

func runSeed(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	state := seed.DemoState(time.Now())
	if err := a.engine.ImportState(state); err != nil {
		return err
	}

	// Rated tasks get their point values computed right away.
	if err := a.engine.RecalculateAllTaskPoints(); err != nil {
		return err
	}
	if _, err := a.engine.RecalculateWGPointDistribution(); err != nil {
		return err
	}

	wg := a.engine.GetCurrentWG()
	fmt.Fprintf(cmd.OutOrStdout(), "Seeded household %q with %d members and %d tasks\n",
		wg.Name, len(wg.MemberIDs), len(state.Tasks))
	return nil
}
