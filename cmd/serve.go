// =============================================================================
// MI Billing Merger - Serve Command
// =============================================================================
//
// This file defines the 'serve' command, which exposes the merge pipeline
// over HTTP for interactive integrations (see internal/server for the route
// table and contract).
//
// COMMAND USAGE:
//   mimerge serve [--addr :8080]
//
// =============================================================================

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"mimerge/internal/server"
)

// listenAddr overrides the configured listen address.
var listenAddr string

// serveCmd represents the 'serve' command.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API for interactive merge requests",
	Long: `The serve command starts an HTTP server exposing the merge pipeline:

  POST /api/process              - upload "mi" + "billing" files, get the
                                   merge result as JSON
  GET  /api/result/{id}/download - download the merged workbook
  GET  /healthz                  - liveness probe

Merge requests are processed one at a time; a duplicate submit waits for the
in-flight request instead of doubling the work.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&listenAddr, "addr", "", "Listen address (overrides listen_addr from the config)")
}

// runServe starts the HTTP server.
func runServe() error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	if listenAddr != "" {
		cfg.ListenAddr = listenAddr
	}

	return server.New(cfg, logger).ListenAndServe()
}
