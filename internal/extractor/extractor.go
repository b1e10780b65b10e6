// =============================================================================
// MI Billing Merger - Billing Extractor Module
// =============================================================================
//
// This module builds the billing dictionary from a ZIP archive of billing
// spreadsheets/CSVs. For every eligible member file it:
//   1. Decodes the bytes as a table (first sheet only)
//   2. Detects the serial column from the header row (keyword substring scan,
//      last matching header wins)
//   3. Takes the last column as the value column
//   4. Upserts serial -> {value, value header} into the dictionary
//
// ELIGIBILITY:
//   A member is processed when it is a regular file with a recognized tabular
//   extension and is not an OS/editor artifact (dotfiles, Office lock files,
//   __MACOSX entries, Thumbs.db and friends).
//
// ERROR POLICY:
//   Per-member failures are logged and swallowed - partial success across the
//   archive is fine. Extraction as a whole fails only when the finished
//   dictionary is empty.
//
// =============================================================================

package extractor

import (
	"archive/zip"
	"bytes"
	"fmt"
	"path"
	"strings"

	"mimerge/internal/config"
	"mimerge/internal/logging"
	"mimerge/internal/tableparser"
	"mimerge/internal/types"
)

// =============================================================================
// EXTRACTOR STRUCTURE
// =============================================================================

// Extractor builds billing dictionaries from archive bytes.
type Extractor struct {
	// minFileSize is the minimum member size in bytes. Smaller members are
	// skipped as empty/corrupt.
	minFileSize int

	// keywords are the lowercase substrings that identify a serial column.
	keywords []string

	// logger receives per-member diagnostics.
	logger logging.Logger
}

// New creates an Extractor from the application configuration.
func New(cfg *config.Config, logger logging.Logger) *Extractor {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Extractor{
		minFileSize: cfg.MinFileSizeBytes,
		keywords:    cfg.SerialKeywords,
		logger:      logger,
	}
}

// =============================================================================
// EXTRACTION
// =============================================================================

// Extract builds the billing dictionary from a ZIP archive.
//
// PARAMETERS:
//   - archive: The raw bytes of the billing ZIP.
//
// RETURNS:
//   - The accumulated dictionary, keyed by trimmed serial number.
//   - An error wrapping types.ErrDecode if the archive itself is unreadable,
//     or types.ErrEmptyArchive if no member file yielded a single entry.
//
// Members are visited in archive order; a serial number appearing in several
// files keeps the value from the file processed last.
func (e *Extractor) Extract(archive []byte) (types.BillingDictionary, error) {
	reader, err := zip.NewReader(bytes.NewReader(archive), int64(len(archive)))
	if err != nil {
		return nil, fmt.Errorf("%w: billing archive: %v", types.ErrDecode, err)
	}

	dict := make(types.BillingDictionary)

	for _, member := range reader.File {
		if !e.eligible(member) {
			continue
		}
		if err := e.extractMember(member, dict); err != nil {
			// Recoverable: keep going with the remaining members.
			e.logger.Warn("skipping %s: %v", member.Name, err)
		}
	}

	if len(dict) == 0 {
		return nil, types.ErrEmptyArchive
	}

	e.logger.Info("billing dictionary built: %d serial number(s)", len(dict))
	return dict, nil
}

// extractMember decodes one archive member and folds its rows into the
// dictionary.
func (e *Extractor) extractMember(member *zip.File, dict types.BillingDictionary) error {
	rc, err := member.Open()
	if err != nil {
		return fmt.Errorf("failed to open member: %v", err)
	}
	defer rc.Close()

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(rc); err != nil {
		return fmt.Errorf("failed to read member: %v", err)
	}

	if buf.Len() < e.minFileSize {
		e.logger.Debug("skipping %s: %d bytes is below the %d byte minimum",
			member.Name, buf.Len(), e.minFileSize)
		return nil
	}

	table, err := tableparser.Decode(member.Name, buf.Bytes())
	if err != nil {
		return err
	}
	if len(table.Rows) == 0 {
		e.logger.Debug("skipping %s: header only, no data rows", member.Name)
		return nil
	}

	serialCol := detectSerialColumn(table.Headers, e.keywords)
	valueCol := len(table.Headers) - 1
	valueHeader := tableparser.ColumnLabel(table.Headers, valueCol)

	added := 0
	for _, row := range table.Rows {
		if tableparser.IsRowEmpty(row) {
			continue
		}
		serial := strings.TrimSpace(tableparser.Cell(row, serialCol))
		if serial == "" || serial == "null" || serial == "undefined" {
			continue
		}
		dict[serial] = types.BillingRecord{
			SerialNo:    serial,
			Value:       tableparser.Cell(row, valueCol),
			ValueHeader: valueHeader,
		}
		added++
	}

	e.logger.Debug("%s: serial column %d, value column %q, %d row(s) folded in",
		member.Name, serialCol, valueHeader, added)
	return nil
}

// =============================================================================
// ELIGIBILITY RULES
// =============================================================================

// tabularExtensions are the member extensions the extractor will decode.
var tabularExtensions = map[string]bool{
	".xlsx": true,
	".xls":  true,
	".csv":  true,
}

// osArtifacts are well-known OS-generated file names that carry no data.
var osArtifacts = map[string]bool{
	".ds_store":   true,
	"thumbs.db":   true,
	"desktop.ini": true,
}

// eligible reports whether an archive member should be decoded at all.
func (e *Extractor) eligible(member *zip.File) bool {
	if member.FileInfo().IsDir() {
		return false
	}

	name := member.Name
	base := path.Base(name)

	// Metadata-only paths (macOS resource forks inside the ZIP).
	for _, part := range strings.Split(path.Dir(name), "/") {
		if strings.EqualFold(part, "__MACOSX") {
			return false
		}
	}

	// Hidden files and Office lock files.
	if strings.HasPrefix(base, ".") || strings.HasPrefix(base, "~$") {
		return false
	}
	if osArtifacts[strings.ToLower(base)] {
		return false
	}

	return tabularExtensions[strings.ToLower(path.Ext(base))]
}

// detectSerialColumn finds the serial column index in a header row.
//
// The scan runs left to right and keeps the LAST header whose lowercased text
// contains any keyword, so a later "Serial Code" beats an earlier
// "New Serial No.". When nothing matches, the first column is assumed.
func detectSerialColumn(headers []string, keywords []string) int {
	col := 0
	for i, header := range headers {
		h := strings.ToLower(header)
		for _, kw := range keywords {
			if strings.Contains(h, kw) {
				col = i
				break
			}
		}
	}
	return col
}
