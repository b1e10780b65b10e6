// =============================================================================
// MI Billing Merger - File Manager Utility
// =============================================================================
//
// This module provides file management utilities for the merger, including:
//   - Output file naming (unique, collision-free names)
//   - Input archival (moving processed files out of the way)
//   - Error log generation
//   - Directory management
//
// ARCHIVAL STRATEGY:
//   - Input files (the MI file and the billing ZIP) are moved to the input
//     archive after a successful merge, when archival is enabled
//   - Failed inputs stay where they are
//   - Error logs are created in the output directory
//
// =============================================================================

package utils

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// FILE MANAGER
// =============================================================================

// FileManager handles file operations for the merger.
type FileManager struct {
	// OutputDir is the directory where emitted workbooks are placed.
	OutputDir string

	// InputArchiveDir is the directory for archived input files.
	InputArchiveDir string

	// ArchiveOnSuccess determines whether inputs are archived after a
	// successful merge.
	ArchiveOnSuccess bool
}

// NewFileManager creates a FileManager for the given directories.
func NewFileManager(outputDir, inputArchiveDir string, archiveOnSuccess bool) *FileManager {
	return &FileManager{
		OutputDir:        outputDir,
		InputArchiveDir:  inputArchiveDir,
		ArchiveOnSuccess: archiveOnSuccess,
	}
}

// EnsureDirectories creates all required directories if they don't exist.
func (fm *FileManager) EnsureDirectories() error {
	dirs := []string{fm.OutputDir}
	if fm.ArchiveOnSuccess {
		dirs = append(dirs, fm.InputArchiveDir)
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	return nil
}

// =============================================================================
// OUTPUT FILE NAMING
// =============================================================================

// OutputPath builds a unique output path inside the output directory.
//
// PARAMETERS:
//   - baseName: The configured base name (e.g. "MI_Processed_Result").
//
// RETURNS:
//   - A path of the form <output_dir>/<base>_<timestamp>_<uuid8>.xlsx.
//
// The short UUID suffix keeps two merges started within the same second from
// overwriting each other.
func (fm *FileManager) OutputPath(baseName string) string {
	name := fmt.Sprintf("%s_%s_%s.xlsx",
		strings.TrimSuffix(baseName, ".xlsx"),
		time.Now().Format("20060102_150405"),
		uuid.New().String()[:8])
	return filepath.Join(fm.OutputDir, name)
}

// =============================================================================
// FILE ARCHIVAL
// =============================================================================

// ArchiveInputFile moves an input file to the archive directory.
//
// PARAMETERS:
//   - filePath: The path to the file to archive.
//
// RETURNS:
//   - The path to the archived file (or the original path when archival is
//     disabled).
//   - An error if archival fails.
func (fm *FileManager) ArchiveInputFile(filePath string) (string, error) {
	if !fm.ArchiveOnSuccess {
		return filePath, nil
	}

	if err := os.MkdirAll(fm.InputArchiveDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create archive directory: %w", err)
	}

	archivePath := filepath.Join(fm.InputArchiveDir, filepath.Base(filePath))

	// Don't clobber a previously archived file of the same name.
	if _, err := os.Stat(archivePath); err == nil {
		ext := filepath.Ext(archivePath)
		base := strings.TrimSuffix(archivePath, ext)
		archivePath = fmt.Sprintf("%s_%s%s", base, uuid.New().String()[:8], ext)
	}

	// Move the file.
	if err := os.Rename(filePath, archivePath); err != nil {
		// If rename fails (e.g., cross-device), try copy and delete.
		if err := copyFile(filePath, archivePath); err != nil {
			return "", fmt.Errorf("failed to copy file to archive: %w", err)
		}
		if err := os.Remove(filePath); err != nil {
			return "", fmt.Errorf("failed to remove original file: %w", err)
		}
	}

	return archivePath, nil
}

// copyFile copies a file from src to dst.
func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}

	return out.Sync()
}

// =============================================================================
// ERROR LOG GENERATION
// =============================================================================

// WriteErrorLog writes failure messages to a timestamped log file in the
// output directory.
//
// PARAMETERS:
//   - messages: The failure messages to record.
//   - outputDir: The directory to write the log file.
//
// RETURNS:
//   - The path to the error log file ("" when there was nothing to write).
//   - An error if writing fails.
func WriteErrorLog(messages []string, outputDir string) (string, error) {
	if len(messages) == 0 {
		return "", nil
	}

	timestamp := time.Now().Format("20060102_150405")
	logPath := filepath.Join(outputDir, fmt.Sprintf("error_log_%s.txt", timestamp))

	file, err := os.Create(logPath)
	if err != nil {
		return "", fmt.Errorf("failed to create error log: %w", err)
	}
	defer file.Close()

	writer := bufio.NewWriter(file)
	fmt.Fprintf(writer, "MI Billing Merger - Error Log\nGenerated: %s\nTotal Errors: %d\n\n",
		time.Now().Format("2006-01-02 15:04:05"), len(messages))
	for i, msg := range messages {
		fmt.Fprintf(writer, "Error #%d: %s\n", i+1, msg)
	}

	if err := writer.Flush(); err != nil {
		return "", fmt.Errorf("failed to write error log: %w", err)
	}

	return logPath, nil
}
