package main

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/mhartig/putzplan/internal/backup"
	"github.com/mhartig/putzplan/internal/config"
	"github.com/mhartig/putzplan/internal/database"
	"github.com/mhartig/putzplan/internal/engine"
	"github.com/mhartig/putzplan/internal/logging"
	"github.com/mhartig/putzplan/internal/persist"
	"github.com/mhartig/putzplan/internal/storage"
)

// Version is set at build time via ldflags: -ldflags "-X main.Version=1.0.0"
var Version = "dev"

var jsonOutput bool

var rootCmd = &cobra.Command{
	Use:           "putzplan",
	Short:         "Putzplan - shared household chore schedule engine",
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: false,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Emit JSON output")
	rootCmd.AddCommand(stateCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(tasksCmd)
	rootCmd.AddCommand(recalcCmd)
	rootCmd.AddCommand(executeCmd)
	rootCmd.AddCommand(periodCmd)
	rootCmd.AddCommand(backupCmd)
}

// app bundles everything a subcommand needs, opened per invocation.
type app struct {
	cfg    *config.Config
	db     *sql.DB
	engine *engine.Engine
	audit  *backup.Log
}

func openApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	logger := logging.Setup(cfg.LogLevel, cfg.LogFormat)

	db, err := database.Open(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	store := storage.NewSQLiteStore(db)
	audit := backup.NewLog(logger,
		backup.WithCapacity(cfg.BackupCapacity),
		backup.WithStore(store, backup.DefaultStorageKey),
	)
	adapter := persist.NewAdapter(store, logger)

	eng, err := engine.New(adapter, audit, logger)
	if err != nil {
		db.Close()
		return nil, err
	}
	return &app{cfg: cfg, db: db, engine: eng, audit: audit}, nil
}

func (a *app) Close() error {
	return a.db.Close()
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
