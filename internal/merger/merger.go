// =============================================================================
// MI Billing Merger - MI Merger Module
// =============================================================================
//
// This module performs the dictionary join: every data row of the MI table
// gains one appended cell, looked up by the serial number in the configured
// join column. The transform is a linear single pass - no retries, no partial
// results. Any decode failure aborts the whole call and is returned as a
// structured failure; nothing half-merged ever reaches the caller.
//
// =============================================================================

package merger

import (
	"sort"
	"strings"

	"mimerge/internal/config"
	"mimerge/internal/tableparser"
	"mimerge/internal/types"
)

// =============================================================================
// MERGER STRUCTURE
// =============================================================================

// Merger joins an MI table against a billing dictionary.
type Merger struct {
	// joinColumn is the 0-based MI column holding the serial number.
	joinColumn int

	// fallbackHeader is the appended header used when the dictionary carries
	// no header text (defensive; extraction guarantees a non-empty
	// dictionary on success).
	fallbackHeader string
}

// New creates a Merger from the application configuration.
func New(cfg *config.Config) *Merger {
	return &Merger{
		joinColumn:     cfg.JoinIndex(),
		fallbackHeader: cfg.FallbackHeader,
	}
}

// =============================================================================
// MERGE
// =============================================================================

// Merge decodes the MI table bytes and joins each data row against the
// billing dictionary.
//
// PARAMETERS:
//   - name: The MI file name (used for format routing and error reporting).
//   - miTable: The raw MI file bytes.
//   - dict: The billing dictionary produced by the extractor.
//
// RETURNS:
//   - A MergeResult. On success MatchedCount + UnmatchedCount equals the
//     number of data rows. On failure only Success and Error are set.
//
// Rows shorter than the header row are padded with empty cells before the
// appended value, so every output row has a cell for every original column.
func (m *Merger) Merge(name string, miTable []byte, dict types.BillingDictionary) types.MergeResult {
	table, err := tableparser.Decode(name, miTable)
	if err != nil {
		return types.Failure(err)
	}
	if len(table.Rows) == 0 {
		return types.Failure(types.ErrEmptyInput)
	}

	headers := make([]string, len(table.Headers), len(table.Headers)+1)
	copy(headers, table.Headers)
	headers = append(headers, appendedHeader(dict, m.fallbackHeader))

	rows := make([][]string, 0, len(table.Rows))
	matched, unmatched := 0, 0

	for _, src := range table.Rows {
		row := make([]string, 0, len(headers))
		row = append(row, src...)

		// Pad so the appended cell lands in the new column even when the
		// source row came back short.
		for len(row) < len(headers)-1 {
			row = append(row, "")
		}

		key := strings.TrimSpace(tableparser.Cell(src, m.joinColumn))
		if record, ok := dict[key]; ok && key != "" {
			row = append(row, record.Value)
			matched++
		} else {
			row = append(row, "")
			unmatched++
		}

		rows = append(rows, row)
	}

	return types.MergeResult{
		Success:        true,
		Headers:        headers,
		Rows:           rows,
		MatchedCount:   matched,
		UnmatchedCount: unmatched,
	}
}

// appendedHeader picks the header text for the new column: the value-column
// header of the first dictionary entry in sorted key order (map iteration
// order would make repeated merges disagree), or the fallback when the
// dictionary is empty.
func appendedHeader(dict types.BillingDictionary, fallback string) string {
	keys := make([]string, 0, len(dict))
	for k := range dict {
		keys = append(keys, k)
	}
	if len(keys) == 0 {
		return fallback
	}
	sort.Strings(keys)
	if h := dict[keys[0]].ValueHeader; h != "" {
		return h
	}
	return fallback
}
