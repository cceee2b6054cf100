// Command seed_references fills the reference tables with default or
// file-provided names. Running it twice is harmless.
package main

import (
	"bytes"
	"context"
	_ "embed"
	"flag"
	"io"
	"log/slog"
	"os"

	"github.com/google/uuid"

	"github.com/horvbalint/recet/config"
	"github.com/horvbalint/recet/internal/database"
)

//go:embed defaults.yaml
var defaultSeed []byte

func main() {
	file := flag.String("file", "", "YAML file with reference names per table (defaults to the built-in list)")
	householdFlag := flag.String("household", "", "Seed rows for this household instead of global rows")
	sqlitePath := flag.String("sqlite", "", "Seed a SQLite database file instead of Postgres")
	flag.Parse()

	logger := config.NewLogger()
	slog.SetDefault(logger)

	if err := run(*file, *householdFlag, *sqlitePath, logger); err != nil {
		logger.Error("seeding failed", "error", err)
		os.Exit(1)
	}
}

func run(file, householdFlag, sqlitePath string, logger *slog.Logger) error {
	var household *uuid.UUID
	if householdFlag != "" {
		id, err := uuid.Parse(householdFlag)
		if err != nil {
			return err
		}
		household = &id
	}

	var src io.Reader = bytes.NewReader(defaultSeed)
	if file != "" {
		f, err := os.Open(file)
		if err != nil {
			return err
		}
		defer func() { _ = f.Close() }()
		src = f
	}
	seed, err := database.ParseReferenceSeed(src)
	if err != nil {
		return err
	}

	var db *database.DB
	if sqlitePath != "" {
		db, err = database.OpenSQLite(sqlitePath)
	} else {
		var cfg *config.Config
		if cfg, err = config.LoadConfig(); err != nil {
			return err
		}
		db, err = database.New(cfg)
	}
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	if err := database.RunMigrations(db.DB); err != nil {
		return err
	}

	created, err := database.SeedReferences(context.Background(), db.DB, seed, household)
	if err != nil {
		return err
	}
	logger.Info("reference tables seeded", "created", created, "household", householdFlag)
	return nil
}
