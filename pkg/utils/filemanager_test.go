package utils

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOutputPathIsUnique(t *testing.T) {
	fm := NewFileManager(t.TempDir(), "", false)

	first := fm.OutputPath("MI_Processed_Result")
	second := fm.OutputPath("MI_Processed_Result")

	assert.True(t, strings.HasSuffix(first, ".xlsx"))
	assert.Contains(t, filepath.Base(first), "MI_Processed_Result_")
	assert.NotEqual(t, first, second)
}

func TestArchiveInputFileMoves(t *testing.T) {
	dir := t.TempDir()
	archiveDir := filepath.Join(dir, "archive")
	src := filepath.Join(dir, "mi.xlsx")
	require.NoError(t, os.WriteFile(src, []byte("payload"), 0644))

	fm := NewFileManager(dir, archiveDir, true)
	dest, err := fm.ArchiveInputFile(src)
	require.NoError(t, err)

	assert.NoFileExists(t, src)
	assert.FileExists(t, dest)
}

func TestArchiveInputFileAvoidsClobber(t *testing.T) {
	dir := t.TempDir()
	archiveDir := filepath.Join(dir, "archive")
	require.NoError(t, os.MkdirAll(archiveDir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(archiveDir, "mi.xlsx"), []byte("old"), 0644))

	src := filepath.Join(dir, "mi.xlsx")
	require.NoError(t, os.WriteFile(src, []byte("new"), 0644))

	fm := NewFileManager(dir, archiveDir, true)
	dest, err := fm.ArchiveInputFile(src)
	require.NoError(t, err)

	// Both generations survive.
	assert.NotEqual(t, filepath.Join(archiveDir, "mi.xlsx"), dest)
	assert.FileExists(t, filepath.Join(archiveDir, "mi.xlsx"))
	assert.FileExists(t, dest)
}

func TestArchiveDisabledLeavesFile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "mi.xlsx")
	require.NoError(t, os.WriteFile(src, []byte("payload"), 0644))

	fm := NewFileManager(dir, filepath.Join(dir, "archive"), false)
	dest, err := fm.ArchiveInputFile(src)
	require.NoError(t, err)

	assert.Equal(t, src, dest)
	assert.FileExists(t, src)
}

func TestWriteErrorLog(t *testing.T) {
	dir := t.TempDir()

	path, err := WriteErrorLog([]string{"first failure", "second failure"}, dir)
	require.NoError(t, err)
	require.NotEmpty(t, path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Total Errors: 2")
	assert.Contains(t, string(data), "Error #1: first failure")
}

func TestWriteErrorLogNothingToWrite(t *testing.T) {
	path, err := WriteErrorLog(nil, t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, path)
}
