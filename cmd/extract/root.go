package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/horvbalint/recet/config"
	"github.com/horvbalint/recet/internal/database"
	"github.com/horvbalint/recet/internal/extraction"
	"github.com/horvbalint/recet/internal/service"
)

var (
	flagHousehold   string
	flagDSN         string
	flagSQLite      string
	flagPretty      bool
	flagRetries     int
	flagConcurrency int
	flagThreshold   float64
)

var rootCmd = &cobra.Command{
	Use:   "extract <url>",
	Short: "Extract a structured recipe from a web page",
	Long: `Extract fetches a recipe page, asks the configured language model for a
structured recipe and resolves its labels against the reference tables.

Completion settings are read from OPENAI_BASE_URL, OPENAI_TOKEN and OPENAI_MODEL.
Without --dsn or --sqlite every reference is left empty.

Examples:
  extract https://example.com/goulash --pretty
  extract https://example.com/goulash --sqlite recet.db --household 7c0e...`,
	Args:          cobra.ExactArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runExtract,
}

func init() {
	rootCmd.Flags().StringVar(&flagHousehold, "household", "", "Household id whose reference rows are considered besides global ones")
	rootCmd.Flags().StringVar(&flagDSN, "dsn", "", "Postgres connection string for reference lookups")
	rootCmd.Flags().StringVar(&flagSQLite, "sqlite", "", "SQLite database file for reference lookups")
	rootCmd.Flags().BoolVar(&flagPretty, "pretty", false, "Indent the JSON output")
	rootCmd.Flags().IntVar(&flagRetries, "retries", 0, "Extra completion attempts after invalid model output")
	rootCmd.Flags().IntVar(&flagConcurrency, "concurrency", extraction.DefaultConcurrency, "Parallel reference lookups")
	rootCmd.Flags().Float64Var(&flagThreshold, "threshold", service.DefaultMatchThreshold, "Minimum trigram similarity for a match")
	rootCmd.MarkFlagsMutuallyExclusive("dsn", "sqlite")
}

func runExtract(cmd *cobra.Command, args []string) error {
	logger := config.NewLogger()

	if flagHousehold != "" {
		if _, err := uuid.Parse(flagHousehold); err != nil {
			return fmt.Errorf("invalid --household: %w", err)
		}
	}

	finder, closeDB, err := openFinder(logger)
	if err != nil {
		return err
	}
	defer closeDB()

	pipeline := extraction.NewPipeline(
		config.NewCompletionSource(),
		service.NewPageFetcher(nil),
		service.NewHTMLTextExtractor(logger),
		service.NewCompletionService(nil),
		extraction.NewResolver(finder, logger, nil, flagConcurrency),
		extraction.Options{Logger: logger, SchemaRetries: flagRetries},
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	recipe, err := pipeline.ExtractRecipe(ctx, extraction.Input{URL: args[0], Household: flagHousehold})
	if err != nil {
		var schemaErr *extraction.SchemaError
		if errors.As(err, &schemaErr) {
			logger.Debug("rejected completion output", "raw", schemaErr.Raw)
		}
		return err
	}

	return writeJSON(cmd.OutOrStdout(), recipe, flagPretty)
}

// openFinder picks the reference lookup backend from the flags.
func openFinder(logger *slog.Logger) (extraction.Finder, func(), error) {
	var (
		db  *database.DB
		err error
	)
	switch {
	case flagDSN != "":
		db, err = database.Open(flagDSN)
	case flagSQLite != "":
		db, err = database.OpenSQLite(flagSQLite)
	default:
		logger.Info("no database given, references will be empty")
		return extraction.NopFinder{}, func() {}, nil
	}
	if err != nil {
		return nil, nil, err
	}
	return service.NewReferenceService(db.DB, flagThreshold, logger), func() { _ = db.Close() }, nil
}

func writeJSON(w io.Writer, v any, pretty bool) error {
	enc := json.NewEncoder(w)
	if pretty {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(v)
}
