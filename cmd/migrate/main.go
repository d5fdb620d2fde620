package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/d60-Lab/relation-models/config"
	"github.com/d60-Lab/relation-models/internal/migration"
	"github.com/d60-Lab/relation-models/pkg/database"
	"github.com/d60-Lab/relation-models/pkg/logger"
)

func newMigrator() (*migration.Migrator, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if err := logger.Init(cfg.Log.Level, cfg.Log.Format); err != nil {
		return nil, err
	}
	db, err := database.InitDB(cfg)
	if err != nil {
		return nil, err
	}
	return migration.NewMigrator(db, migration.Registry())
}

func main() {
	root := &cobra.Command{
		Use:           "migrate",
		Short:         "Apply or roll back schema migrations",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	var upTo string
	up := &cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations (up to --to when given)",
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := newMigrator()
			if err != nil {
				return err
			}
			if upTo != "" {
				return m.UpTo(upTo)
			}
			return m.Up()
		},
	}
	up.Flags().StringVar(&upTo, "to", "", "target migration name, e.g. fields.0002_person_shirt_size")

	var downTo string
	down := &cobra.Command{
		Use:   "down",
		Short: "Roll back the last migration, or everything after --to",
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := newMigrator()
			if err != nil {
				return err
			}
			if downTo != "" {
				return m.DownTo(downTo)
			}
			return m.DownLast()
		},
	}
	down.Flags().StringVar(&downTo, "to", "", "migration to keep; later ones are rolled back")

	list := &cobra.Command{
		Use:   "list",
		Short: "Show every migration and whether it is applied",
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := newMigrator()
			if err != nil {
				return err
			}
			statuses, err := m.Applied()
			if err != nil {
				return err
			}
			for _, s := range statuses {
				mark := " "
				if s.Applied {
					mark = "X"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "[%s] %s\n", mark, s.Name)
			}
			return nil
		},
	}

	root.AddCommand(up, down, list)
	if err := root.Execute(); err != nil {
		logger.Error("migrate failed", zap.Error(err))
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	logger.Sync()
}
