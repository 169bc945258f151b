package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mhartig/putzplan/internal/engine"
)

var (
	executeUser string
	executeNote string
)

var executeCmd = &cobra.Command{
	Use:   "execute <task-id>",
	Short: "Log a completed task execution and award points",
	Args:  cobra.ExactArgs(1),
	RunE:  runExecute,
}

func init() {
	executeCmd.Flags().StringVar(&executeUser, "user", "",
		"Member id to credit (default: current user)")
	executeCmd.Flags().StringVar(&executeNote, "note", "", "Optional note")
}

func runExecute(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	taskID := args[0]
	userID := executeUser
	if userID == "" {
		user := a.engine.CurrentUser()
		if user == nil {
			return fmt.Errorf("no current user; pass --user")
		}
		userID = user.ID
	}

	ok, err := a.engine.CanUserExecuteTask(taskID, userID)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("task %s is in its cool-down window for this member", taskID)
	}

	exec, err := a.engine.ExecuteTaskForUser(taskID, userID, engine.ExecOptions{Note: executeNote})
	if err != nil {
		return err
	}
	if jsonOutput {
		return printJSON(cmd.OutOrStdout(), exec)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Logged execution: %d points awarded (period %s)\n",
		exec.PointsAwarded, exec.PeriodID)
	return nil
}
