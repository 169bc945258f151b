package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var (
	backupPassphrase string
	backupMaxAge     time.Duration
)

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Inspect and export the audit log",
}

var backupStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Summarize the audit log contents",
	Args:  cobra.NoArgs,
	RunE:  runBackupStats,
}

var backupExportCmd = &cobra.Command{
	Use:   "export <file>",
	Short: "Write the audit log to an encrypted file",
	Args:  cobra.ExactArgs(1),
	RunE:  runBackupExport,
}

var backupImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Restore the audit log from an encrypted export",
	Args:  cobra.ExactArgs(1),
	RunE:  runBackupImport,
}

var backupCleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Drop audit entries older than --max-age",
	Args:  cobra.NoArgs,
	RunE:  runBackupCleanup,
}

func init() {
	backupExportCmd.Flags().StringVar(&backupPassphrase, "passphrase", "",
		"Encryption passphrase")
	backupExportCmd.MarkFlagRequired("passphrase")
	backupImportCmd.Flags().StringVar(&backupPassphrase, "passphrase", "",
		"Encryption passphrase")
	backupImportCmd.MarkFlagRequired("passphrase")
	backupCleanupCmd.Flags().DurationVar(&backupMaxAge, "max-age", 30*24*time.Hour,
		"Drop entries older than this")

	backupCmd.AddCommand(backupStatsCmd)
	backupCmd.AddCommand(backupExportCmd)
	backupCmd.AddCommand(backupImportCmd)
	backupCmd.AddCommand(backupCleanupCmd)
}

func runBackupStats(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	st := a.audit.Stats()
	if jsonOutput {
		return printJSON(cmd.OutOrStdout(), st)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%d audit entries\n", st.Total)
	for entity, n := range st.ByEntity {
		fmt.Fprintf(cmd.OutOrStdout(), "  %s: %d\n", entity, n)
	}
	return nil
}

func runBackupExport(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.audit.ExportEncrypted(args[0], backupPassphrase); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Exported audit log to %s\n", args[0])
	return nil
}

func runBackupImport(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	n, err := a.audit.ImportEncrypted(args[0], backupPassphrase)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Imported %d audit entries from %s\n", n, args[0])
	return nil
}

func runBackupCleanup(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	removed := a.audit.Cleanup(backupMaxAge)
	fmt.Fprintf(cmd.OutOrStdout(), "Removed %d audit entries\n", removed)
	return nil
}
