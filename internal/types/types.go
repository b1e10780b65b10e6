// =============================================================================
// MI Billing Merger - Shared Types
// =============================================================================
//
// This package contains shared types used across multiple modules to avoid
// import cycles. Types defined here are used by:
//   - extractor
//   - merger
//   - emitter
//   - server
//
// It also defines the error taxonomy for the merge pipeline. Per-file decode
// failures inside the billing archive are recoverable; every other error in
// the taxonomy is fatal to the merge call that hit it.
//
// =============================================================================

package types

import "errors"

// =============================================================================
// ERROR TAXONOMY
// =============================================================================

// ErrEmptyArchive is returned when the billing archive contains no eligible
// member files, or none of them yielded a single dictionary entry.
var ErrEmptyArchive = errors.New("no usable billing data found in archive")

// ErrEmptyInput is returned when the MI table has no data rows
// (fewer than a header row plus one data row).
var ErrEmptyInput = errors.New("MI file contains no data rows")

// ErrDecode indicates malformed bytes for a given table. During extraction it
// is caught per member file and processing continues; for the MI file it is
// fatal to the whole merge.
var ErrDecode = errors.New("failed to decode table")

// =============================================================================
// TABLE
// =============================================================================

// Table is a decoded tabular file: the header row plus the data rows that
// follow it. Cells are text; the decoders coerce numbers to their displayed
// form and model missing cells as empty strings. Tables are transient - they
// are parsed fresh per operation and never persisted.
type Table struct {
	// Headers is the first row of the sheet. Entries may be empty.
	Headers []string

	// Rows contains the data rows (everything after the header row).
	// Rows may be ragged; trailing empty cells are not guaranteed present.
	Rows [][]string

	// SourceName is the file name the table was decoded from.
	// Useful for error reporting.
	SourceName string
}

// =============================================================================
// BILLING DICTIONARY
// =============================================================================

// BillingRecord is one entry of the billing dictionary: the payload looked up
// during the merge for a single serial number.
type BillingRecord struct {
	// SerialNo is the join key. Always non-empty and trimmed.
	SerialNo string

	// Value is the cell taken from the value column of the billing file.
	// Empty string models a null cell.
	Value string

	// ValueHeader is the header text of the value column the value came from.
	ValueHeader string
}

// BillingDictionary maps a serial number to its billing record. Keys are
// unique; the last writer for a given serial number across all billing files
// wins. Built once per merge operation and discarded after use.
type BillingDictionary map[string]BillingRecord

// =============================================================================
// MERGE RESULT
// =============================================================================

// MergeResult is the sole contract between the core and its CLI/HTTP
// collaborators. The JSON field names are part of that contract; any
// integration must preserve their semantics exactly.
//
// Invariant on success: MatchedCount + UnmatchedCount equals the number of
// data rows processed. On failure Headers and Rows are nil - no partial
// table is ever returned.
type MergeResult struct {
	// Success indicates whether the merge completed.
	Success bool `json:"success"`

	// Headers is the original MI header row plus one appended header.
	Headers []string `json:"headers"`

	// Rows contains each original MI data row plus one appended cell.
	Rows [][]string `json:"rows"`

	// MatchedCount is the number of data rows whose join key was found in
	// the billing dictionary.
	MatchedCount int `json:"matchedCount"`

	// UnmatchedCount is the number of data rows whose join key was not found.
	UnmatchedCount int `json:"unmatchedCount"`

	// Error carries a short human-readable message when Success is false.
	Error string `json:"error,omitempty"`
}

// Failure builds a failed MergeResult from an error. Callers never need
// defensive guards beyond checking Success.
func Failure(err error) MergeResult {
	return MergeResult{Success: false, Error: err.Error()}
}
