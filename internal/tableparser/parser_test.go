package tableparser

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"mimerge/internal/types"
)

// =============================================================================
// DECODING TESTS
// =============================================================================

func TestDecodeCSV(t *testing.T) {
	data := []byte("Serial,Amount\nA100,42\nA200,17\n")

	table, err := Decode("billing.csv", data)
	require.NoError(t, err)

	assert.Equal(t, []string{"Serial", "Amount"}, table.Headers)
	assert.Equal(t, [][]string{{"A100", "42"}, {"A200", "17"}}, table.Rows)
	assert.Equal(t, "billing.csv", table.SourceName)
}

func TestDecodeCSVKeepsEmptyFields(t *testing.T) {
	data := []byte("Serial,\nA100,42\n")

	table, err := Decode("billing.csv", data)
	require.NoError(t, err)

	assert.Equal(t, []string{"Serial", ""}, table.Headers)
}

func TestDecodeCSVRaggedRows(t *testing.T) {
	data := []byte("a,b,c\n1,2\n1,2,3,4\n")

	table, err := Decode("ragged.csv", data)
	require.NoError(t, err)

	assert.Equal(t, [][]string{{"1", "2"}, {"1", "2", "3", "4"}}, table.Rows)
}

func TestDecodeSpreadsheet(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]interface{}{"Serial", "Amount"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]interface{}{"A100", "42"}))

	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))

	table, err := Decode("billing.xlsx", buf.Bytes())
	require.NoError(t, err)

	assert.Equal(t, []string{"Serial", "Amount"}, table.Headers)
	require.Len(t, table.Rows, 1)
	assert.Equal(t, []string{"A100", "42"}, table.Rows[0])
}

func TestDecodeBadBytes(t *testing.T) {
	_, err := Decode("billing.xlsx", []byte("garbage"))
	assert.ErrorIs(t, err, types.ErrDecode)
}

func TestDecodeEmptyCSV(t *testing.T) {
	_, err := Decode("empty.csv", []byte(""))
	assert.ErrorIs(t, err, types.ErrDecode)
}

// =============================================================================
// HELPER TESTS
// =============================================================================

func TestColumnLabel(t *testing.T) {
	headers := []string{"Serial", "", "  "}

	assert.Equal(t, "Serial", ColumnLabel(headers, 0))
	assert.Equal(t, "Column_2", ColumnLabel(headers, 1))
	assert.Equal(t, "Column_3", ColumnLabel(headers, 2))
	assert.Equal(t, "Column_9", ColumnLabel(headers, 8))
}

func TestCell(t *testing.T) {
	row := []string{"a", "b"}

	assert.Equal(t, "a", Cell(row, 0))
	assert.Equal(t, "", Cell(row, 5))
	assert.Equal(t, "", Cell(row, -1))
}

func TestIsRowEmpty(t *testing.T) {
	assert.True(t, IsRowEmpty(nil))
	assert.True(t, IsRowEmpty([]string{"", "  "}))
	assert.False(t, IsRowEmpty([]string{"", "x"}))
}
