package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var stateCmd = &cobra.Command{
	Use:   "state",
	Short: "Inspect, export, import or reset the application state",
}

var stateShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the current state as JSON",
	Args:  cobra.NoArgs,
	RunE:  runStateShow,
}

var stateExportCmd = &cobra.Command{
	Use:   "export <file>",
	Short: "Export the full state to a JSON file",
	Args:  cobra.ExactArgs(1),
	RunE:  runStateExport,
}

var stateImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Replace the state from an exported JSON file",
	Args:  cobra.ExactArgs(1),
	RunE:  runStateImport,
}

var stateResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Discard all data and start blank",
	Args:  cobra.NoArgs,
	RunE:  runStateReset,
}

func init() {
	stateCmd.AddCommand(stateShowCmd)
	stateCmd.AddCommand(stateExportCmd)
	stateCmd.AddCommand(stateImportCmd)
	stateCmd.AddCommand(stateResetCmd)
}

func runStateShow(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	return printJSON(cmd.OutOrStdout(), a.engine.GetState())
}

func runStateExport(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	data, err := a.engine.ExportData()
	if err != nil {
		return err
	}
	if err := os.WriteFile(args[0], data, 0644); err != nil {
		return fmt.Errorf("write export: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Exported state to %s\n", args[0])
	return nil
}

func runStateImport(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read import: %w", err)
	}
	if err := a.engine.ImportData(data); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Imported state from %s\n", args[0])
	return nil
}

func runStateReset(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.engine.Reset(); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "State reset")
	return nil
}
