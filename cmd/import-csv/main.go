package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/iliyamo/siren-services/internal/config"
	"github.com/iliyamo/siren-services/internal/database"
	"github.com/iliyamo/siren-services/internal/importer"
	"github.com/iliyamo/siren-services/internal/logging"
	"github.com/iliyamo/siren-services/internal/repository"
)

type options struct {
	csvFile   string
	batchSize int
	truncate  bool
}

func newRootCmd() *cobra.Command {
	opts := options{}
	cmd := &cobra.Command{
		Use:   "import-csv",
		Short: "Load the SIREN StockUniteLegale CSV file into MySQL",
		Long: `import-csv reads the INSEE StockUniteLegale export and inserts it into the
unite_legale table in batches. Rows whose SIREN already exists are skipped.

Database settings come from DB_HOST, DB_PORT, DB_USER, DB_PASS and DB_NAME,
optionally through a .env file.`,
		Example: `  import-csv
  import-csv --csv-file ./data/siren.csv
  import-csv --batch-size 500 --truncate`,
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		PreRunE: func(_ *cobra.Command, _ []string) error {
			if opts.batchSize < 1 || opts.batchSize > importer.MaxBatchSize {
				return fmt.Errorf("--batch-size must be between 1 and %d", importer.MaxBatchSize)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), opts)
		},
	}
	cmd.Flags().StringVar(&opts.csvFile, "csv-file", "data/StockUniteLegale_utf8.csv", "path to the CSV file")
	cmd.Flags().IntVar(&opts.batchSize, "batch-size", importer.DefaultBatchSize, "rows per INSERT batch")
	cmd.Flags().BoolVar(&opts.truncate, "truncate", false, "empty the table before importing")
	return cmd
}

func run(ctx context.Context, opts options) error {
	// The importer serves no HTTP; APP_PORT is irrelevant.
	cfg, err := config.Load("0")
	if err != nil {
		return err
	}
	logger, err := logging.New(cfg.Env, cfg.LogLevel)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	f, err := os.Open(opts.csvFile)
	if err != nil {
		return fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()

	db, err := database.Open(cfg)
	if err != nil {
		return err
	}
	defer db.Close()
	if err := database.Ping(ctx, db); err != nil {
		return err
	}
	logger.Info("connected",
		zap.String("database", fmt.Sprintf("%s@%s:%s/%s", cfg.DBUser, cfg.DBHost, cfg.DBPort, cfg.DBName)),
		zap.String("csv_file", opts.csvFile),
		zap.Int("batch_size", opts.batchSize),
		zap.Bool("truncate", opts.truncate),
	)

	repo := repository.NewImportRepo(db)
	if opts.truncate {
		if err := repo.Truncate(ctx); err != nil {
			return fmt.Errorf("truncate unite_legale: %w", err)
		}
		logger.Info("table unite_legale truncated")
	}

	im, err := importer.New(repo, opts.batchSize, logger)
	if err != nil {
		return err
	}
	start := time.Now()
	st, err := im.Import(ctx, f)
	logger.Info("import finished",
		zap.Int64("read", st.Read),
		zap.Int64("inserted", st.Inserted),
		zap.Int64("skipped", st.Skipped),
		zap.Int("failed_batches", st.Failed),
		zap.Duration("elapsed", time.Since(start)),
	)
	return err
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
