package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/vvka-141/retailload/internal/config"
	"github.com/vvka-141/retailload/internal/db"
	"github.com/vvka-141/retailload/internal/logging"
	"github.com/vvka-141/retailload/internal/services"
	"github.com/vvka-141/retailload/pkg/retailload"
)

// Console messages. Scripts grep for them, keep them stable.
const (
	connectedMessage = "DB connected successfully..trying to insert data"
	completedFormat  = "Data insertion completed in %.3f seconds\n"
	successMessage   = "Success!"
	failureMessage   = "Something went wrong! Try again :("
)

var loadCmd = &cobra.Command{
	Use:   "load",
	Short: "Replace the sales table and load the CSV rows into it",
	Long: `Load reads the sales CSV and writes it to PostgreSQL:

1. Reads DB_HOST, DB_USER, DB_PASSWORD, DB_PORT and DB_NAME
   (after loading --env-file files, or ./.env if present)
2. Opens a connection pool (no connection is made until the first write)
3. Parses the CSV, renames its 11 columns positionally and converts
   trans_date to a timestamp
4. Drops and recreates the destination table
5. Appends every row and reports how long the append took

The whole file is parsed before the table is touched, so a bad date or a
malformed row never drops the existing table.

Examples:
  # Classic run: retail_store_sales.csv into sales_data
  retailload load

  # Different file and table, batched INSERTs instead of COPY
  retailload load --csv ./exports/march.csv --table sales_march --method insert --chunk-size 5000

  # Keep the previous table if the append fails, fail the job on error
  retailload load --atomic --exit-code`,
	Args: cobra.NoArgs,
	RunE: runLoad,
}

type loadFlagValues struct {
	csvPath, table, schema string
	index                  bool
	indexLabel             string
	method                 string
	chunkSize              int
	atomic                 bool
	envFiles               []string
	timeout                time.Duration
	connectTimeout         time.Duration
	exitCode               bool
}

var loadFlags loadFlagValues

// connectorFactory opens pools for the load command.
var connectorFactory retailload.ConnectorFactory = db.NewConnector

func defaultLoadFlags() loadFlagValues {
	defaults := retailload.DefaultLoadConfig()
	return loadFlagValues{
		csvPath:    defaults.SourcePath,
		table:      defaults.Table,
		index:      defaults.Index,
		indexLabel: defaults.IndexLabel,
		method:     string(defaults.Method),
	}
}

func init() {
	rootCmd.AddCommand(loadCmd)
	bindLoadFlags(loadCmd, &loadFlags)
}

// bindLoadFlags registers the load options on cmd. The root command and
// `load` share one set of values.
func bindLoadFlags(cmd *cobra.Command, flags *loadFlagValues) {
	defaults := defaultLoadFlags()

	cmd.Flags().StringVar(&flags.csvPath, "csv", defaults.csvPath,
		"CSV file to load, relative to the working directory")
	cmd.Flags().StringVar(&flags.table, "table", defaults.table,
		"Destination table (dropped and recreated on every run)")
	cmd.Flags().StringVar(&flags.schema, "schema", "",
		"Schema of the destination table (default: search_path)")
	cmd.Flags().BoolVar(&flags.index, "index", defaults.index,
		"Write the zero-based row position as a leading indexed column\n"+
			"Use --index=false for a table with the 11 sales columns only")
	cmd.Flags().StringVar(&flags.indexLabel, "index-label", defaults.indexLabel,
		"Name of the row position column")
	cmd.Flags().StringVar(&flags.method, "method", defaults.method,
		"How rows are appended: copy (COPY protocol) or insert (batched INSERTs)")
	cmd.Flags().IntVar(&flags.chunkSize, "chunk-size", 0,
		"Rows per INSERT batch with --method insert (0 = all rows in one batch)")
	cmd.Flags().BoolVar(&flags.atomic, "atomic", false,
		"Replace the table and append the rows in one transaction\n"+
			"A failed append then leaves the previous table untouched")
	cmd.Flags().StringSliceVar(&flags.envFiles, "env-file", nil,
		"Load environment variables from .env files (can be specified multiple times)\n"+
			"Variables already set in the environment are not overridden")
	cmd.Flags().DurationVar(&flags.timeout, "timeout", 0,
		"Abort the load after this duration (0 = no timeout)\n"+
			"Examples: 30s, 5m, 1h30m")
	cmd.Flags().DurationVar(&flags.connectTimeout, "connect-timeout", 0,
		"Give up establishing a database connection after this duration\n"+
			"(0 = driver default, whole seconds are sent as connect_timeout)")
	cmd.Flags().BoolVar(&flags.exitCode, "exit-code", false,
		"Exit with a non-zero status when the load fails (see Exit Codes)")
}

// loadConfig converts the flag values into load options.
func (f loadFlagValues) loadConfig() (retailload.LoadConfig, error) {
	method, err := retailload.ParseInsertMethod(f.method)
	if err != nil {
		return retailload.LoadConfig{}, err
	}

	cfg := retailload.LoadConfig{
		SourcePath: f.csvPath,
		Table:      f.table,
		Schema:     f.schema,
		Index:      f.index,
		IndexLabel: f.indexLabel,
		Method:     method,
		ChunkSize:  f.chunkSize,
		Atomic:     f.atomic,
	}
	if err := cfg.Validate(); err != nil {
		return retailload.LoadConfig{}, err
	}
	return cfg, nil
}

func runLoad(cmd *cobra.Command, _ []string) error {
	verbose := getVerboseFlag(cmd)
	logger := logging.NewConsoleLoggerWithWriter(cmd.ErrOrStderr(), verbose)
	defer logger.Sync() //nolint:errcheck

	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if loadFlags.timeout > 0 {
		var timeoutCancel context.CancelFunc
		ctx, timeoutCancel = context.WithTimeout(ctx, loadFlags.timeout)
		defer timeoutCancel()
	}

	out := cmd.OutOrStdout()
	if err := executeLoad(ctx, out, logger, loadFlags); err != nil {
		logger.Error("%v", err)
		fmt.Fprintln(out, failureMessage)
		if loadFlags.exitCode {
			return &reportedError{err: err}
		}
	}
	return nil
}

// executeLoad runs one load and writes the progress messages to out.
func executeLoad(ctx context.Context, out io.Writer, logger retailload.Logger, flags loadFlagValues) error {
	if err := config.LoadEnvFiles(flags.envFiles...); err != nil {
		return err
	}

	connConfig, err := config.FromEnvironment(os.LookupEnv)
	if err != nil {
		return err
	}
	connConfig.ConnectTimeout = flags.connectTimeout

	loadConfig, err := flags.loadConfig()
	if err != nil {
		return err
	}

	svc := services.NewLoadService(connectorFactory, logger)

	conn, err := svc.Connect(ctx, connConfig)
	if err != nil {
		return err
	}
	defer conn.Close()

	fmt.Fprintln(out, connectedMessage)

	result, err := svc.Load(ctx, conn, loadConfig)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, completedFormat, result.AppendDuration.Seconds())
	fmt.Fprintln(out, successMessage)
	logger.Info("Run %s: %d rows loaded into %s from source sha256 %s",
		result.RunID, result.RowsWritten, result.Table, result.SourceChecksum)
	return nil
}
