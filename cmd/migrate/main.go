package main

import (
	"flag"
	"log/slog"
	"os"

	"github.com/horvbalint/recet/config"
	"github.com/horvbalint/recet/internal/database"
)

func main() {
	sqlitePath := flag.String("sqlite", "", "Migrate a SQLite database file instead of Postgres")
	flag.Parse()

	logger := config.NewLogger()
	slog.SetDefault(logger)

	var (
		db  *database.DB
		err error
	)
	if *sqlitePath != "" {
		db, err = database.OpenSQLite(*sqlitePath)
	} else {
		var cfg *config.Config
		cfg, err = config.LoadConfig()
		if err != nil {
			logger.Error("failed to load configuration", "error", err)
			os.Exit(1)
		}
		db, err = database.New(cfg)
	}
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer func() { _ = db.Close() }()

	if err := database.RunMigrations(db.DB); err != nil {
		logger.Error("migration failed", "error", err)
		os.Exit(1)
	}
	logger.Info("all migrations applied successfully")
}
