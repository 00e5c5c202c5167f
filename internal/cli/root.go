package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "retailload",
	Short: "Load the retail store sales CSV into PostgreSQL",
	Long: `retailload reads retail_store_sales.csv, renames its columns to the sales
schema, converts the transaction dates and bulk-loads the rows into the
sales_data table. The table is dropped and recreated on every run.

Running retailload without a command is the same as 'retailload load'.

Connection (all required):
  DB_HOST, DB_USER, DB_PASSWORD, DB_PORT, DB_NAME

Exit Codes (with --exit-code; otherwise a failed load exits 0):
  0  - Success
  1  - General error
  2  - CLI usage error (invalid arguments or flags)
  3  - Panic or unexpected system error
  10 - Missing or invalid DB_* variables or options
  11 - Database connection failed
  12 - CSV file missing or unreadable
  13 - CSV columns do not match the sales schema
  14 - A date or number could not be converted
  15 - Dropping or creating the table failed
  16 - Writing the rows failed`,
	Args:          cobra.NoArgs,
	RunE:          runLoad,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command
func Execute() error {
	if len(os.Args) > 1 && os.Args[1] == "--version" {
		printVersionInfo(os.Stdout)
		return nil
	}

	err := rootCmd.Execute()
	var reported *reportedError
	if err != nil && !errors.As(err, &reported) {
		fmt.Fprintf(rootCmd.ErrOrStderr(), "Error: %v\n", err)
	}
	return err
}

func init() {
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output for all commands")
	bindLoadFlags(rootCmd, &loadFlags)
}

// getVerboseFlag safely retrieves the verbose flag value
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Failed to get verbose flag: %v\n", err)
		return false
	}
	return verbose
}

// reportedError marks an error whose cause has already been logged and
// summarized on stdout, so Execute does not print it again.
type reportedError struct {
	err error
}

func (e *reportedError) Error() string { return e.err.Error() }
func (e *reportedError) Unwrap() error { return e.err }
