package dbmigrate

import (
	"database/sql"
	"fmt"
	"slices"

	"github.com/pressly/goose/v3"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// Commands lists the goose commands exposed by the CLIs.
var Commands = []string{"up", "down", "status"}

// ValidateCommand rejects anything outside Commands.
func ValidateCommand(command string) error {
	if !slices.Contains(Commands, command) {
		return fmt.Errorf("unsupported command %q (allowed: %v)", command, Commands)
	}
	return nil
}

// Run applies a goose command to the target database. logger may be nil to
// keep goose's default output.
func Run(command string, target Target, migrationsDir string, logger goose.Logger) error {
	if err := ValidateCommand(command); err != nil {
		return err
	}
	if target.URL == "" {
		return fmt.Errorf("database URL is empty")
	}
	if migrationsDir == "" {
		migrationsDir = DefaultMigrationsDir
	}

	db, err := sql.Open("pgx", target.URL)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		return fmt.Errorf("ping database: %w", err)
	}

	if logger != nil {
		goose.SetLogger(logger)
	}
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}

	if err := goose.Run(command, db, migrationsDir); err != nil {
		return fmt.Errorf("goose %s failed: %w", command, err)
	}

	return nil
}
