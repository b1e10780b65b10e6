// =============================================================================
// MI Billing Merger - Configuration Module
// =============================================================================
//
// This module loads and validates the application configuration from a YAML
// file. Every option has a sensible default, so the tool runs without any
// configuration file at all; the file only needs to exist when a deployment
// wants to override something.
//
// NOTABLE OPTIONS:
//   join_column_index : which MI column carries the serial number. The
//                       historical layout puts it in the 6th column, so the
//                       default is 5 (0-based). This used to be a hard-coded
//                       constant; it is configuration now because the layout
//                       is a structural assumption, not a law.
//   serial_keywords   : substrings used to detect the serial column in
//                       billing files. Later matching headers win over
//                       earlier ones.
//
// =============================================================================

package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// =============================================================================
// CONFIGURATION STRUCTURE
// =============================================================================

// Config holds the application configuration.
type Config struct {
	// =========================================================================
	// MERGE SETTINGS
	// =========================================================================

	// JoinColumnIndex is the 0-based index of the MI column that carries the
	// serial number used as the join key. A pointer so that an explicit 0 in
	// the YAML can be told apart from an absent key.
	// Default: 5 (the 6th column).
	JoinColumnIndex *int `yaml:"join_column_index"`

	// MinFileSizeBytes is the minimum size of a billing archive member.
	// Smaller members are treated as empty/corrupt and skipped entirely.
	// Default: 100.
	MinFileSizeBytes int `yaml:"min_file_size_bytes"`

	// SerialKeywords are the lowercase substrings used to detect the serial
	// column in a billing file's header row.
	// Default: ["serial", "new serial", "sr", "meter"].
	SerialKeywords []string `yaml:"serial_keywords"`

	// FallbackHeader is the appended column header used when the billing
	// dictionary carries no header text of its own.
	// Default: "Billing_Data".
	FallbackHeader string `yaml:"fallback_header"`

	// =========================================================================
	// OUTPUT SETTINGS
	// =========================================================================

	// OutputSheetName is the sheet name of the emitted workbook.
	// Default: "Processed_MI".
	OutputSheetName string `yaml:"output_sheet_name"`

	// OutputFileName is the base name (no extension) for emitted workbooks.
	// Default: "MI_Processed_Result".
	OutputFileName string `yaml:"output_file_name"`

	// OutputDir is the directory where emitted workbooks are written.
	// Default: "./output".
	OutputDir string `yaml:"output_dir"`

	// InputArchiveDir is the directory where processed input files are moved
	// when archive_inputs is enabled.
	// Default: "./input_archive".
	InputArchiveDir string `yaml:"input_archive_dir"`

	// ArchiveInputs moves the MI file and billing archive to InputArchiveDir
	// after a successful merge.
	// Default: false.
	ArchiveInputs bool `yaml:"archive_inputs"`

	// =========================================================================
	// SERVER SETTINGS
	// =========================================================================

	// ListenAddr is the address the HTTP API binds to.
	// Default: ":8080".
	ListenAddr string `yaml:"listen_addr"`

	// MaxUploadBytes caps the size of a multipart upload request.
	// Default: 64 MiB.
	MaxUploadBytes int64 `yaml:"max_upload_bytes"`

	// =========================================================================
	// LOGGING SETTINGS
	// =========================================================================

	// LogLevel controls the verbosity of console logging.
	// Valid values: "debug", "info", "warn", "error".
	// Default: "info".
	LogLevel string `yaml:"log_level"`
}

// JoinIndex returns the configured join column index, or the default when the
// option was not set.
func (c *Config) JoinIndex() int {
	if c.JoinColumnIndex == nil {
		return DefaultJoinColumnIndex
	}
	return *c.JoinColumnIndex
}

// DefaultJoinColumnIndex is the 0-based MI join column used when the
// configuration does not override it.
const DefaultJoinColumnIndex = 5

// =============================================================================
// LOADING
// =============================================================================

// Default returns a Config with every option at its default value.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// Load reads the configuration from a YAML file. A missing file is not an
// error: the defaults are returned so the tool works out of the box.
//
// PARAMETERS:
//   - path: The path to the configuration file.
//
// RETURNS:
//   - A pointer to the Config struct.
//   - An error if the file exists but cannot be read or parsed.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	applyDefaults(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// applyDefaults sets default values for any unset configuration options.
func applyDefaults(cfg *Config) {
	if cfg.MinFileSizeBytes == 0 {
		cfg.MinFileSizeBytes = 100
	}
	if len(cfg.SerialKeywords) == 0 {
		cfg.SerialKeywords = []string{"serial", "new serial", "sr", "meter"}
	}
	if cfg.FallbackHeader == "" {
		cfg.FallbackHeader = "Billing_Data"
	}
	if cfg.OutputSheetName == "" {
		cfg.OutputSheetName = "Processed_MI"
	}
	if cfg.OutputFileName == "" {
		cfg.OutputFileName = "MI_Processed_Result"
	}
	if cfg.OutputDir == "" {
		cfg.OutputDir = "./output"
	}
	if cfg.InputArchiveDir == "" {
		cfg.InputArchiveDir = "./input_archive"
	}
	if cfg.ListenAddr == "" {
		cfg.ListenAddr = ":8080"
	}
	if cfg.MaxUploadBytes == 0 {
		cfg.MaxUploadBytes = 64 << 20
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
}

// validate rejects configurations that cannot work.
func validate(cfg *Config) error {
	if cfg.JoinColumnIndex != nil && *cfg.JoinColumnIndex < 0 {
		return fmt.Errorf("join_column_index must not be negative")
	}
	if cfg.MinFileSizeBytes < 0 {
		return fmt.Errorf("min_file_size_bytes must not be negative")
	}
	switch cfg.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log_level must be one of debug, info, warn, error")
	}
	return nil
}
