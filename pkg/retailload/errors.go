package retailload

import (
	"errors"
	"strings"
)

// Sentinel errors for each failure class of a load.
// Every error returned by the loader wraps exactly one of them,
// so callers can tell failures apart with errors.Is().
//
// Example usage:
//
//	_, err := loader.Load(ctx, conn, cfg)
//	if errors.Is(err, retailload.ErrCoercion) {
//	    // a trans_date or numeric value did not parse
//	}
var (
	// ErrInvalidConfig indicates missing or invalid configuration.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrConnectionFailed indicates the database could not be reached or refused the login.
	ErrConnectionFailed = errors.New("connection failed")

	// ErrSourceRead indicates the CSV file could not be opened or parsed.
	ErrSourceRead = errors.New("source read failed")

	// ErrSchemaMismatch indicates the CSV columns do not match the sales schema.
	ErrSchemaMismatch = errors.New("schema mismatch")

	// ErrCoercion indicates a value could not be converted to its column type.
	ErrCoercion = errors.New("type coercion failed")

	// ErrTableReplace indicates the destination table could not be dropped or recreated.
	ErrTableReplace = errors.New("table replace failed")

	// ErrAppend indicates rows could not be written to the destination table.
	ErrAppend = errors.New("append failed")
)

// usageErrorPatterns are prefixes of the errors cobra and pflag return for bad invocations.
var usageErrorPatterns = []string{
	"unknown flag",
	"unknown shorthand flag",
	"unknown command",
	"accepts ",
	"required flag",
	"invalid argument",
	"flag needs an argument",
}

// ExitCodeForError returns the appropriate exit code for an error.
// Returns ExitSuccess (0) for nil errors, semantic codes for known errors,
// and ExitGeneralError (1) for unclassified errors.
func ExitCodeForError(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Connection failures are checked first: a failed append caused by a lost
	// connection wraps both ErrAppend and ErrConnectionFailed.
	switch {
	case errors.Is(err, ErrConnectionFailed):
		return ExitConnectionError
	case errors.Is(err, ErrInvalidConfig):
		return ExitConfigError
	case errors.Is(err, ErrSourceRead):
		return ExitSourceError
	case errors.Is(err, ErrSchemaMismatch):
		return ExitSchemaMismatch
	case errors.Is(err, ErrCoercion):
		return ExitCoercionError
	case errors.Is(err, ErrTableReplace):
		return ExitTableReplaceError
	case errors.Is(err, ErrAppend):
		return ExitAppendError
	}

	errStr := err.Error()
	for _, pattern := range usageErrorPatterns {
		if strings.HasPrefix(errStr, pattern) {
			return ExitUsageError
		}
	}

	if strings.Contains(errStr, "failed to connect") ||
		strings.Contains(errStr, "connection refused") ||
		strings.Contains(errStr, "no such host") {
		return ExitConnectionError
	}

	return ExitGeneralError
}
