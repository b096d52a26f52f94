package main

import (
	"database/sql"
	"fmt"

	"bench_monitor/internal/config"
	"bench_monitor/internal/logger"
	"bench_monitor/internal/repository/db"

	"github.com/spf13/cobra"
)

const defaultConfigDir = "configs"

// app holds what every subcommand needs after the config is loaded.
type app struct {
	configDir string
	cfg       *config.Config
	log       *logger.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:          "bench-monitor",
		Short:        "Monitor a test bench and control its run state.",
		SilenceUsage: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			cfg, err := config.Load(a.configDir)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			a.cfg = cfg
			a.log = logger.Get(cfg.LogLevel, cfg.LogFormat)
			return nil
		},
	}
	root.PersistentFlags().StringVarP(&a.configDir, "config", "c", defaultConfigDir, "directory containing config.yml")

	root.AddCommand(newServeCmd(a), newUserCmd(a), newLogsCmd(a))
	return root
}

// openDB opens the SQLite database named in the config.
func (a *app) openDB() (*sql.DB, error) {
	conn, err := db.InitDB(a.cfg.DB.Path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", a.cfg.DB.Path, err)
	}
	return conn, nil
}

func (a *app) closeDB(conn *sql.DB) {
	if err := conn.Close(); err != nil {
		a.log.Errorw("failed to close sqlite", "err", err)
	}
}
