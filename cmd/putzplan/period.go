package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var (
	periodStart string
	periodEnd   string
	periodReset bool
)

var periodCmd = &cobra.Command{
	Use:   "period",
	Short: "Manage scoring periods",
}

var periodEnsureCmd = &cobra.Command{
	Use:   "ensure",
	Short: "Create the current-month period if none is active",
	Args:  cobra.NoArgs,
	RunE:  runPeriodEnsure,
}

var periodSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Archive the active period and start a custom one",
	Args:  cobra.NoArgs,
	RunE:  runPeriodSet,
}

var periodListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all periods, newest first",
	Args:  cobra.NoArgs,
	RunE:  runPeriodList,
}

var periodDeleteCmd = &cobra.Command{
	Use:   "delete <period-id>",
	Short: "Remove a period from the live and archived lists",
	Args:  cobra.ExactArgs(1),
	RunE:  runPeriodDelete,
}

var periodDisplayCmd = &cobra.Command{
	Use:   "display [period-id]",
	Short: "Show a period's executions (no id: the live active period)",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runPeriodDisplay,
}

var periodToggleCmd = &cobra.Command{
	Use:   "toggle <period-id> <task-id>",
	Short: "Flip a task's checklist entry on a period",
	Args:  cobra.ExactArgs(2),
	RunE:  runPeriodToggle,
}

func init() {
	periodSetCmd.Flags().StringVar(&periodStart, "start", "", "Start date (YYYY-MM-DD)")
	periodSetCmd.Flags().StringVar(&periodEnd, "end", "", "End date (YYYY-MM-DD)")
	periodSetCmd.Flags().BoolVar(&periodReset, "reset", false,
		"Start the new period with executions cleared and counters zeroed")
	periodSetCmd.MarkFlagRequired("start")
	periodSetCmd.MarkFlagRequired("end")

	periodCmd.AddCommand(periodEnsureCmd)
	periodCmd.AddCommand(periodSetCmd)
	periodCmd.AddCommand(periodListCmd)
	periodCmd.AddCommand(periodDeleteCmd)
	periodCmd.AddCommand(periodDisplayCmd)
	periodCmd.AddCommand(periodToggleCmd)
}

func runPeriodEnsure(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	period, err := a.engine.EnsureCurrentPeriod()
	if err != nil {
		return err
	}
	if jsonOutput {
		return printJSON(cmd.OutOrStdout(), period)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Active period %s (%d days, target %d)\n",
		period.ID, period.Days, period.TargetPoints)
	return nil
}

func runPeriodSet(cmd *cobra.Command, args []string) error {
	start, err := time.Parse("2006-01-02", periodStart)
	if err != nil {
		return fmt.Errorf("parse start date: %w", err)
	}
	end, err := time.Parse("2006-01-02", periodEnd)
	if err != nil {
		return fmt.Errorf("parse end date: %w", err)
	}

	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	period, err := a.engine.SetCustomPeriod(start, end, periodReset)
	if err != nil {
		return err
	}
	if jsonOutput {
		return printJSON(cmd.OutOrStdout(), period)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Started period %s (%d days)\n", period.ID, period.Days)
	return nil
}

func runPeriodList(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	views := a.engine.GetHistoricalPeriods()
	if jsonOutput {
		return printJSON(cmd.OutOrStdout(), views)
	}
	for _, v := range views {
		marker := " "
		if v.IsActive {
			marker = "*"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s  %s – %s  (%d days, target %d)\n",
			marker, v.ID, v.StartDate.Format("2006-01-02"), v.EndDate.Format("2006-01-02"),
			v.Days, v.TargetPoints)
	}
	return nil
}

func runPeriodDelete(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.engine.DeletePeriod(args[0]); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Deleted period %s\n", args[0])
	return nil
}

func runPeriodDisplay(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	id := ""
	if len(args) > 0 {
		id = args[0]
	}
	if err := a.engine.SetDisplayPeriod(id); err != nil {
		return err
	}

	view := a.engine.GetDisplayPeriod()
	execs := a.engine.GetDisplayPeriodExecutions()
	if jsonOutput {
		return printJSON(cmd.OutOrStdout(), map[string]any{
			"period":     view,
			"executions": execs,
		})
	}
	if view == nil {
		fmt.Fprintln(cmd.OutOrStdout(), "No period to display")
		return nil
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Period %s: %d executions\n", view.ID, len(execs))
	for _, ex := range execs {
		fmt.Fprintf(cmd.OutOrStdout(), "  %s  task=%s  by=%s  %d points\n",
			ex.ExecutedAt.Format("2006-01-02 15:04"), ex.TaskID, ex.ExecutedBy, ex.PointsAwarded)
	}
	return nil
}

func runPeriodToggle(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.engine.ToggleTaskOnPeriod(args[0], args[1]); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Toggled task %s on period %s\n", args[1], args[0])
	return nil
}
