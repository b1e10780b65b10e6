// =============================================================================
// MI Billing Merger - Result Emitter Module
// =============================================================================
//
// This module serializes a merged header row + row set back into an xlsx
// workbook. The workbook has a single sheet (default "Processed_MI") and is
// written through excelize's stream writer so large results do not balloon
// memory during save.
//
// =============================================================================

package emitter

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"mimerge/internal/config"
)

// =============================================================================
// EMITTER STRUCTURE
// =============================================================================

// Emitter writes merge results as xlsx workbooks.
type Emitter struct {
	// sheetName is the name of the single sheet in the emitted workbook.
	sheetName string
}

// New creates an Emitter from the application configuration.
func New(cfg *config.Config) *Emitter {
	return &Emitter{sheetName: cfg.OutputSheetName}
}

// =============================================================================
// WRITING
// =============================================================================

// build assembles the workbook in memory.
func (e *Emitter) build(headers []string, rows [][]string) (*excelize.File, error) {
	f := excelize.NewFile()

	index, err := f.NewSheet(e.sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetActiveSheet(index)

	sw, err := f.NewStreamWriter(e.sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to create stream writer: %w", err)
	}

	writeRow := func(rowIdx int, cells []string) error {
		ref, err := excelize.CoordinatesToCellName(1, rowIdx)
		if err != nil {
			return err
		}
		values := make([]interface{}, len(cells))
		for i, c := range cells {
			values[i] = c
		}
		return sw.SetRow(ref, values)
	}

	if err := writeRow(1, headers); err != nil {
		return nil, fmt.Errorf("failed to write header row: %w", err)
	}
	for i, row := range rows {
		if err := writeRow(i+2, row); err != nil {
			return nil, fmt.Errorf("failed to write row %d: %w", i+1, err)
		}
	}

	if err := sw.Flush(); err != nil {
		return nil, fmt.Errorf("failed to flush stream writer: %w", err)
	}

	// Drop the default sheet excelize creates alongside ours.
	if e.sheetName != "Sheet1" {
		if err := f.DeleteSheet("Sheet1"); err != nil {
			return nil, fmt.Errorf("failed to drop default sheet: %w", err)
		}
	}

	return f, nil
}

// Write serializes the merged table to w as an xlsx workbook.
//
// PARAMETERS:
//   - headers: The merged header row.
//   - rows: The merged data rows.
//   - w: The destination writer.
//
// RETURNS:
//   - An error if the workbook cannot be assembled or written.
func (e *Emitter) Write(headers []string, rows [][]string, w io.Writer) error {
	f, err := e.build(headers, rows)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// WriteFile serializes the merged table to a file on disk.
func (e *Emitter) WriteFile(headers []string, rows [][]string, path string) error {
	f, err := e.build(headers, rows)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}
