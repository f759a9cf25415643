package main

import (
	"fmt"

	"github.com/fdg312/nutrition-hub/internal/config"
	"github.com/fdg312/nutrition-hub/internal/dbmigrate"
	"github.com/fdg312/nutrition-hub/internal/logging"
	"github.com/spf13/cobra"
)

var migrationsDir string

var migrateCmd = &cobra.Command{
	Use:       "migrate [up|down|status]",
	Short:     "Run database migrations",
	Args:      cobra.ExactArgs(1),
	ValidArgs: dbmigrate.Commands,
	RunE: func(cmd *cobra.Command, args []string) error {
		command := args[0]
		if err := dbmigrate.ValidateCommand(command); err != nil {
			return err
		}

		cfg := config.Load()
		target, err := dbmigrate.SelectTarget(cfg, false)
		if err != nil {
			return err
		}

		logger := logging.NewWithOutput(cfg, cmd.ErrOrStderr())
		if target.Warning != "" {
			logger.Warnf("migrate: %s", target.Warning)
		}
		logger.Infof("migrate: command=%s using=%s", command, target.Source)

		if err := dbmigrate.Run(command, target, migrationsDir, logger); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "migrate: %s completed successfully\n", command)
		return nil
	},
}

func init() {
	migrateCmd.Flags().StringVar(&migrationsDir, "dir", dbmigrate.DefaultMigrationsDir, "Migrations directory")
	rootCmd.AddCommand(migrateCmd)
}
