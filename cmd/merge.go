// =============================================================================
// MI Billing Merger - Merge Command
// =============================================================================
//
// This file defines the 'merge' command, the one-shot CLI path through the
// pipeline.
//
// COMMAND USAGE:
//   mimerge merge --mi <file> --billing <zip> [flags]
//
// FLAGS:
//   --mi       : Path to the MI spreadsheet
//   --billing  : Path to the billing ZIP archive
//   --out      : Explicit output path (default: unique name under output_dir)
//   --dry-run  : Run the merge and report counts without writing the workbook
//
// PROCESSING PIPELINE:
//   1. Load configuration
//   2. Read both input files
//   3. Build the billing dictionary from the archive
//   4. Merge the MI table against the dictionary
//   5. Emit the merged workbook (unless --dry-run)
//   6. Archive inputs when configured
//   7. Print a summary
//
// =============================================================================

package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"mimerge/internal/emitter"
	"mimerge/internal/extractor"
	"mimerge/internal/merger"
	"mimerge/pkg/utils"
)

// =============================================================================
// COMMAND FLAGS
// =============================================================================

// miPath is the path to the MI spreadsheet.
var miPath string

// billingPath is the path to the billing ZIP archive.
var billingPath string

// outPath overrides the generated output path.
var outPath string

// dryRun runs the merge without writing the output workbook.
var dryRun bool

// =============================================================================
// MERGE COMMAND DEFINITION
// =============================================================================

// mergeCmd represents the 'merge' command.
var mergeCmd = &cobra.Command{
	Use:   "merge",
	Short: "Merge an MI spreadsheet with billing data from a ZIP archive",
	Long: `The merge command reads the MI spreadsheet and the billing ZIP, builds a
serial-number dictionary from every eligible spreadsheet/CSV in the archive,
and writes a copy of the MI table with one appended billing column.

Member files inside the archive that fail to decode are skipped with a
warning; the merge fails only when the archive yields no billing data at
all, or when the MI file itself cannot be decoded.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		return runMerge()
	},
}

func init() {
	rootCmd.AddCommand(mergeCmd)

	mergeCmd.Flags().StringVar(&miPath, "mi", "", "Path to the MI spreadsheet")
	mergeCmd.Flags().StringVar(&billingPath, "billing", "", "Path to the billing ZIP archive")
	mergeCmd.Flags().StringVar(&outPath, "out", "", "Output path (default: unique name under output_dir)")
	mergeCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Run the merge without writing the output workbook")

	mergeCmd.MarkFlagRequired("mi")
	mergeCmd.MarkFlagRequired("billing")
}

// =============================================================================
// MAIN PROCESSING FUNCTION
// =============================================================================

// runMerge executes the merge pipeline end to end.
func runMerge() error {
	startTime := time.Now()

	cfg, logger, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// =========================================================================
	// STEP 1: READ INPUTS
	// =========================================================================

	miBytes, err := os.ReadFile(miPath)
	if err != nil {
		return fmt.Errorf("failed to read MI file: %w", err)
	}
	billingBytes, err := os.ReadFile(billingPath)
	if err != nil {
		return fmt.Errorf("failed to read billing archive: %w", err)
	}

	// =========================================================================
	// STEP 2: BUILD THE BILLING DICTIONARY
	// =========================================================================

	dict, err := extractor.New(cfg, logger).Extract(billingBytes)
	if err != nil {
		return fmt.Errorf("extraction failed: %w", err)
	}

	// =========================================================================
	// STEP 3: MERGE
	// =========================================================================

	result := merger.New(cfg).Merge(filepath.Base(miPath), miBytes, dict)
	if !result.Success {
		fm := utils.NewFileManager(cfg.OutputDir, cfg.InputArchiveDir, false)
		if err := fm.EnsureDirectories(); err == nil {
			if logPath, err := utils.WriteErrorLog([]string{result.Error}, cfg.OutputDir); err == nil && logPath != "" {
				logger.Info("error log written to %s", logPath)
			}
		}
		return fmt.Errorf("merge failed: %s", result.Error)
	}

	// =========================================================================
	// STEP 4: EMIT THE WORKBOOK
	// =========================================================================

	written := "(dry run, nothing written)"
	if !dryRun {
		fm := utils.NewFileManager(cfg.OutputDir, cfg.InputArchiveDir, cfg.ArchiveInputs)
		if err := fm.EnsureDirectories(); err != nil {
			return err
		}

		target := outPath
		if target == "" {
			target = fm.OutputPath(cfg.OutputFileName)
		}
		if err := emitter.New(cfg).WriteFile(result.Headers, result.Rows, target); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		written = target

		// Move the processed inputs out of the way when configured.
		for _, input := range []string{miPath, billingPath} {
			if _, err := fm.ArchiveInputFile(input); err != nil {
				logger.Warn("failed to archive %s: %v", input, err)
			}
		}
	}

	// =========================================================================
	// STEP 5: PRINT SUMMARY
	// =========================================================================

	elapsed := time.Since(startTime)
	fmt.Println("\n=== Merge Complete ===")
	fmt.Printf("Billing serials: %d\n", len(dict))
	fmt.Printf("Rows processed:  %d\n", result.MatchedCount+result.UnmatchedCount)
	fmt.Printf("Matched:         %d\n", result.MatchedCount)
	fmt.Printf("Unmatched:       %d\n", result.UnmatchedCount)
	fmt.Printf("Output:          %s\n", written)
	fmt.Printf("Time elapsed:    %s\n", elapsed)

	return nil
}
