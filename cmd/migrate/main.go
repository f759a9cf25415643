package main

import (
	"os"

	_ "github.com/joho/godotenv/autoload"

	"github.com/fdg312/nutrition-hub/internal/config"
	"github.com/fdg312/nutrition-hub/internal/dbmigrate"
	"github.com/fdg312/nutrition-hub/internal/logging"
)

func main() {
	cfg := config.Load()
	logger := logging.New(cfg)

	if len(os.Args) < 2 {
		logger.Fatal("usage: go run ./cmd/migrate [up|status|down]")
	}

	command := os.Args[1]
	if err := dbmigrate.ValidateCommand(command); err != nil {
		logger.Fatal(err)
	}

	target, err := dbmigrate.SelectTarget(cfg, false)
	if err != nil {
		logger.Fatal(err)
	}
	if target.Warning != "" {
		logger.Warnf("migrate: %s", target.Warning)
	}
	logger.Infof("migrate: command=%s using=%s", command, target.Source)

	if err := dbmigrate.Run(command, target, dbmigrate.DefaultMigrationsDir, logger); err != nil {
		logger.Fatal(err)
	}

	logger.Infof("migrate: %s completed successfully", command)
}
