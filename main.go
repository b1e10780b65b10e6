// =============================================================================
// MI Billing Merger - Main Entry Point
// =============================================================================
//
// This is the main entry point for the MI Billing Merger CLI application.
// It initializes the Cobra CLI framework and delegates command execution to
// the cmd package.
//
// USAGE:
//   mimerge merge --mi <file> --billing <zip>  - One-shot merge
//   mimerge serve                              - HTTP API
//   mimerge version                            - Display the application version
//
// ARCHITECTURE:
//   This application follows a modular design where:
//   - cmd/           : Contains all CLI command definitions (Cobra)
//   - internal/      : Contains core business logic (not for external import)
//   - pkg/           : Contains shared utilities
//
// =============================================================================

package main

import (
	"mimerge/cmd"
)

// main is the entry point of the application.
// It simply calls the Execute function from the cmd package, which
// initializes and runs the Cobra CLI.
func main() {
	cmd.Execute()
}
