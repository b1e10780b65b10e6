package merger

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"mimerge/internal/config"
	"mimerge/internal/types"
)

// =============================================================================
// FIXTURE HELPERS
// =============================================================================

// xlsxBytes builds an in-memory workbook with the given rows on its first
// sheet.
func xlsxBytes(t *testing.T, rows [][]string) []byte {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	for i, row := range rows {
		ref, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		cells := make([]interface{}, len(row))
		for j, c := range row {
			cells[j] = c
		}
		require.NoError(t, f.SetSheetRow("Sheet1", ref, &cells))
	}

	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	return buf.Bytes()
}

// miFixture is the canonical six-column MI table: join key in the 6th column.
func miFixture(t *testing.T) []byte {
	return xlsxBytes(t, [][]string{
		{"a", "b", "c", "d", "e", "SN"},
		{"x1", "x2", "x3", "x4", "x5", "S1"},
		{"y1", "y2", "y3", "y4", "y5", "S2"},
	})
}

func dictFixture() types.BillingDictionary {
	return types.BillingDictionary{
		"S1": {SerialNo: "S1", Value: "42", ValueHeader: "kWh"},
	}
}

// =============================================================================
// MERGE TESTS
// =============================================================================

func TestMergeEndToEnd(t *testing.T) {
	result := New(config.Default()).Merge("mi.xlsx", miFixture(t), dictFixture())

	require.True(t, result.Success)
	assert.Equal(t, []string{"a", "b", "c", "d", "e", "SN", "kWh"}, result.Headers)
	require.Len(t, result.Rows, 2)

	assert.Equal(t, []string{"x1", "x2", "x3", "x4", "x5", "S1", "42"}, result.Rows[0])
	assert.Equal(t, []string{"y1", "y2", "y3", "y4", "y5", "S2", ""}, result.Rows[1])
	assert.Equal(t, 1, result.MatchedCount)
	assert.Equal(t, 1, result.UnmatchedCount)
}

func TestMergeCountsInvariant(t *testing.T) {
	result := New(config.Default()).Merge("mi.xlsx", miFixture(t), dictFixture())

	require.True(t, result.Success)
	assert.Equal(t, len(result.Rows), result.MatchedCount+result.UnmatchedCount)
}

func TestMergeIsIdempotent(t *testing.T) {
	m := New(config.Default())
	mi := miFixture(t)
	dict := dictFixture()

	first := m.Merge("mi.xlsx", mi, dict)
	second := m.Merge("mi.xlsx", mi, dict)

	assert.Equal(t, first, second)
}

func TestMergeTrimsJoinKey(t *testing.T) {
	mi := xlsxBytes(t, [][]string{
		{"a", "b", "c", "d", "e", "SN"},
		{"x1", "x2", "x3", "x4", "x5", "  S1  "},
	})

	result := New(config.Default()).Merge("mi.xlsx", mi, dictFixture())

	require.True(t, result.Success)
	assert.Equal(t, 1, result.MatchedCount)
	assert.Equal(t, "42", result.Rows[0][6])
}

func TestMergeEmptyInput(t *testing.T) {
	headerOnly := xlsxBytes(t, [][]string{{"a", "b", "c", "d", "e", "SN"}})

	result := New(config.Default()).Merge("mi.xlsx", headerOnly, dictFixture())

	assert.False(t, result.Success)
	assert.Equal(t, types.ErrEmptyInput.Error(), result.Error)
	assert.Nil(t, result.Headers)
	assert.Nil(t, result.Rows)
}

func TestMergeUndecodableInput(t *testing.T) {
	result := New(config.Default()).Merge("mi.xlsx", []byte("not a workbook"), dictFixture())

	assert.False(t, result.Success)
	assert.Contains(t, result.Error, "failed to decode")
	assert.Nil(t, result.Rows)
}

func TestMergeFallbackHeaderOnEmptyDictionary(t *testing.T) {
	result := New(config.Default()).Merge("mi.xlsx", miFixture(t), types.BillingDictionary{})

	require.True(t, result.Success)
	assert.Equal(t, "Billing_Data", result.Headers[len(result.Headers)-1])
	assert.Equal(t, 0, result.MatchedCount)
	assert.Equal(t, 2, result.UnmatchedCount)
}

func TestMergeAppendedHeaderIsDeterministic(t *testing.T) {
	dict := types.BillingDictionary{
		"Z9": {SerialNo: "Z9", Value: "1", ValueHeader: "Late"},
		"A1": {SerialNo: "A1", Value: "2", ValueHeader: "Early"},
	}

	// First entry in sorted key order supplies the header.
	for i := 0; i < 10; i++ {
		result := New(config.Default()).Merge("mi.xlsx", miFixture(t), dict)
		require.True(t, result.Success)
		assert.Equal(t, "Early", result.Headers[len(result.Headers)-1])
	}
}

func TestMergePadsShortRows(t *testing.T) {
	mi := xlsxBytes(t, [][]string{
		{"a", "b", "c", "d", "e", "SN"},
		{"x1", "x2"},
	})

	result := New(config.Default()).Merge("mi.xlsx", mi, dictFixture())

	require.True(t, result.Success)
	require.Len(t, result.Rows, 1)

	// Padded to one cell per original column, then the appended (empty) cell.
	assert.Equal(t, []string{"x1", "x2", "", "", "", "", ""}, result.Rows[0])
	assert.Equal(t, 1, result.UnmatchedCount)
}

func TestMergeCustomJoinColumn(t *testing.T) {
	cfg := config.Default()
	join := 0
	cfg.JoinColumnIndex = &join

	mi := xlsxBytes(t, [][]string{
		{"SN", "b"},
		{"S1", "x2"},
	})

	result := New(cfg).Merge("mi.xlsx", mi, dictFixture())

	require.True(t, result.Success)
	assert.Equal(t, 1, result.MatchedCount)
	assert.Equal(t, "42", result.Rows[0][2])
}
