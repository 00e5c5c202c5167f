package retailload

// Exit codes for semantic error classification.
// They are only used when the load command runs with --exit-code;
// otherwise the process exits 0 whether the load succeeded or not.
const (
	ExitSuccess           = 0  // Load completed successfully
	ExitGeneralError      = 1  // Unknown or unclassified error
	ExitUsageError        = 2  // CLI usage error (invalid arguments or flags)
	ExitPanic             = 3  // Internal panic (unexpected crash)
	ExitConfigError       = 10 // Missing or invalid DB_* environment variables
	ExitConnectionError   = 11 // Failed to connect to database
	ExitSourceError       = 12 // CSV file missing, unreadable or malformed
	ExitSchemaMismatch    = 13 // CSV header does not match the sales schema
	ExitCoercionError     = 14 // A value could not be converted to its column type
	ExitTableReplaceError = 15 // Dropping or creating the destination table failed
	ExitAppendError       = 16 // Writing rows into the destination table failed
)

const (
	// DefaultSourcePath is the CSV file read when --csv is not given.
	// Relative paths resolve against the process working directory.
	DefaultSourcePath = "retail_store_sales.csv"

	// DefaultTable is the destination table name.
	DefaultTable = "sales_data"

	// DefaultIndexLabel names the leading row-position column.
	DefaultIndexLabel = "index"

	// DefaultAppName is the application_name prefix reported to PostgreSQL.
	DefaultAppName = "retailload"
)
