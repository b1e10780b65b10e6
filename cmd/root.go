// =============================================================================
// MI Billing Merger - Root Command
// =============================================================================
//
// This file defines the root command for the Cobra CLI. The root command is
// the base command that all other commands are attached to.
//
// COBRA CLI STRUCTURE:
//   rootCmd (mimerge)
//   ├── mergeCmd   (mimerge merge)
//   ├── serveCmd   (mimerge serve)
//   └── versionCmd (mimerge version)
//
// The root command owns the global flags (--config, --verbose); the
// subcommands load the configuration through loadConfig so the flag handling
// lives in one place.
//
// =============================================================================

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"mimerge/internal/config"
	"mimerge/internal/logging"
)

// =============================================================================
// GLOBAL VARIABLES
// =============================================================================

// cfgFile holds the path to the configuration file.
// This can be overridden using the --config flag.
var cfgFile string

// verbose enables verbose logging when set to true.
var verbose bool

// =============================================================================
// ROOT COMMAND DEFINITION
// =============================================================================

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "mimerge",
	Short: "MI Billing Merger - Join an MI spreadsheet against a ZIP of billing files",

	Long: `MI Billing Merger enriches an MI spreadsheet with billing data.

It builds a dictionary from every spreadsheet/CSV inside a billing ZIP
archive (detecting the serial-number column of each file from its headers),
then appends one column to the MI table by looking up each row's serial
number in that dictionary.

Example Usage:
  mimerge merge --mi mi.xlsx --billing billing.zip   # One-shot merge to ./output
  mimerge merge --mi mi.xlsx --billing billing.zip --dry-run
  mimerge serve                                      # HTTP API on :8080`,

	Run: func(cmd *cobra.Command, args []string) {
		// If no subcommand is provided, print the help message.
		cmd.Help()
	},
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// =============================================================================
// INITIALIZATION
// =============================================================================

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		"config.yaml",
		"Path to the configuration file (default is config.yaml)",
	)

	rootCmd.PersistentFlags().BoolVarP(
		&verbose,
		"verbose",
		"v",
		false,
		"Enable verbose output for debugging",
	)
}

// =============================================================================
// SHARED HELPERS
// =============================================================================

// loadConfig loads the configuration file and builds the console logger.
// --verbose forces debug-level logging regardless of the configured level.
func loadConfig() (*config.Config, logging.Logger, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, nil, err
	}

	level := logging.ParseLevel(cfg.LogLevel)
	if verbose {
		level = logging.LevelDebug
	}

	return cfg, logging.NewConsole(level), nil
}
