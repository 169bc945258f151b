package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mhartig/putzplan/internal/model"
)

var recalcCmd = &cobra.Command{
	Use:   "recalc",
	Short: "Recompute task points and household distribution",
}

var recalcTaskCmd = &cobra.Command{
	Use:   "task <task-id>",
	Short: "Recompute one task's points from its ratings",
	Args:  cobra.ExactArgs(1),
	RunE:  runRecalcTask,
}

var recalcAllCmd = &cobra.Command{
	Use:   "all",
	Short: "Recompute every task's points from its ratings",
	Args:  cobra.NoArgs,
	RunE:  runRecalcAll,
}

var recalcDistributionCmd = &cobra.Command{
	Use:   "distribution",
	Short: "Split the household workload across active members",
	Args:  cobra.NoArgs,
	RunE:  runRecalcDistribution,
}

func init() {
	recalcCmd.AddCommand(recalcTaskCmd)
	recalcCmd.AddCommand(recalcAllCmd)
	recalcCmd.AddCommand(recalcDistributionCmd)
}

func runRecalcTask(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	task, err := a.engine.RecalculateTaskPoints(args[0])
	if err != nil {
		return err
	}
	if jsonOutput {
		return printJSON(cmd.OutOrStdout(), task)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s: %d points/execution, %d×/month, %d points/month\n",
		task.Title, task.PointsPerExecution, task.MonthlyFrequency, task.TotalMonthlyPoints)
	return nil
}

func runRecalcAll(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.engine.RecalculateAllTaskPoints(); err != nil {
		return err
	}
	var tasks []*model.Task
	if wg := a.engine.GetCurrentWG(); wg != nil {
		tasks = a.engine.WGTasks(wg.ID)
	}
	if jsonOutput {
		return printJSON(cmd.OutOrStdout(), tasks)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Recomputed points for %d tasks\n", len(tasks))
	return nil
}

func runRecalcDistribution(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	dist, err := a.engine.RecalculateWGPointDistribution()
	if err != nil {
		return err
	}
	if jsonOutput {
		return printJSON(cmd.OutOrStdout(), dist)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Workload %d points across %d members: %d points each\n",
		dist.TotalWorkload, dist.MemberCount, dist.PointsPerMember)
	return nil
}
