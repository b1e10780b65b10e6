// =============================================================================
// MI Billing Merger - Table Parser Module
// =============================================================================
//
// This module decodes raw file bytes into a Table (header row + data rows).
// Two formats are supported, routed by file extension:
//   - Spreadsheets (.xlsx, .xls) via excelize - first sheet only
//   - Comma-separated text (.csv) via encoding/csv
//
// The decoders are deliberately forgiving: ragged rows are allowed, quoting
// does not have to be strict, and leading whitespace in fields is dropped.
// Billing exports come from several generations of tooling and very few of
// them produce clean CSV.
//
// =============================================================================

package tableparser

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"mimerge/internal/types"
)

// =============================================================================
// DECODING
// =============================================================================

// Decode parses file bytes into a Table. The format is chosen from the file
// name's extension; anything that is not .csv is treated as a spreadsheet.
//
// PARAMETERS:
//   - name: The file name the bytes came from (used for format routing and
//     error reporting).
//   - data: The raw file bytes.
//
// RETURNS:
//   - A pointer to the decoded Table.
//   - An error wrapping types.ErrDecode if the bytes cannot be parsed, or if
//     the file yields no rows at all.
func Decode(name string, data []byte) (*types.Table, error) {
	var (
		rows [][]string
		err  error
	)

	if strings.EqualFold(filepath.Ext(name), ".csv") {
		rows, err = decodeCSV(data)
	} else {
		rows, err = decodeSpreadsheet(data)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", types.ErrDecode, name, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: %s: no rows", types.ErrDecode, name)
	}

	return &types.Table{
		Headers:    rows[0],
		Rows:       rows[1:],
		SourceName: name,
	}, nil
}

// decodeSpreadsheet reads the first sheet of an xlsx workbook.
func decodeSpreadsheet(data []byte) ([][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %v", err)
	}
	return rows, nil
}

// decodeCSV reads comma-separated text.
func decodeCSV(data []byte) ([][]string, error) {
	reader := csv.NewReader(bytes.NewReader(data))

	// Allow variable field counts and sloppy quoting; legacy exports are
	// rarely strict CSV.
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	return reader.ReadAll()
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// ColumnLabel returns the header text for a column, synthesizing a
// "Column_<n>" placeholder (1-based) when the header cell is blank.
func ColumnLabel(headers []string, index int) string {
	if index < len(headers) {
		if h := strings.TrimSpace(headers[index]); h != "" {
			return h
		}
	}
	return fmt.Sprintf("Column_%d", index+1)
}

// Cell returns the cell at the given index, or the empty string when the row
// is shorter than that.
func Cell(row []string, index int) string {
	if index >= 0 && index < len(row) {
		return row[index]
	}
	return ""
}

// IsRowEmpty checks if a row contains only empty cells.
func IsRowEmpty(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
