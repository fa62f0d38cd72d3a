// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"bigocheck/internal/models"

	"gopkg.in/yaml.v3"
)

// Config represents the configuration for bigocheck
type Config struct {
	// General settings
	Version     string `yaml:"version" json:"version"`
	ProjectName string `yaml:"project_name,omitempty" json:"project_name,omitempty"`

	// Analysis settings
	Analysis AnalysisConfig `yaml:"analysis" json:"analysis"`

	// Output settings
	Output OutputConfig `yaml:"output" json:"output"`

	// Rule-specific configurations
	Rules RulesConfig `yaml:"rules" json:"rules"`

	// File patterns
	Files FilesConfig `yaml:"files" json:"files"`
}

type AnalysisConfig struct {
	// Parallel analysis
	MaxWorkers int `yaml:"max_workers" json:"max_workers"`

	// Exit with status 1 when a finding reaches this severity (low, medium,
	// high, critical). Empty disables the check.
	FailOn string `yaml:"fail_on,omitempty" json:"fail_on,omitempty"`
}

type OutputConfig struct {
	// Default output format
	Format string `yaml:"format" json:"format"`

	// Colorized output
	Colors bool `yaml:"colors" json:"colors"`

	// Verbosity level
	Verbose bool `yaml:"verbose" json:"verbose"`

	// Log level for diagnostics on stderr (debug, info, warn, error).
	// Empty means warn, or debug when verbose.
	LogLevel string `yaml:"log_level,omitempty" json:"log_level,omitempty"`

	// Show individual findings below the file table
	ShowFindings bool `yaml:"show_findings" json:"show_findings"`

	// Output file path (optional)
	OutputFile string `yaml:"output_file,omitempty" json:"output_file,omitempty"`
}

type RulesConfig struct {
	NestedLoops NestedLoopConfig `yaml:"nested_loops" json:"nested_loops"`
	Recursion   ToggleConfig     `yaml:"recursion" json:"recursion"`
	Halving     ToggleConfig     `yaml:"halving" json:"halving"`
}

type NestedLoopConfig struct {
	Enabled  bool `yaml:"enabled" json:"enabled"`
	MaxDepth int  `yaml:"max_depth" json:"max_depth"`
}

type ToggleConfig struct {
	Enabled bool `yaml:"enabled" json:"enabled"`
}

type FilesConfig struct {
	// Include patterns
	Include []string `yaml:"include" json:"include"`

	// Exclude patterns
	Exclude []string `yaml:"exclude" json:"exclude"`

	// Max file size (in KB)
	MaxFileSize int `yaml:"max_file_size" json:"max_file_size"`
}

var (
	validFormats   = []string{"console", "json"}
	validLogLevels = []string{"debug", "info", "warn", "warning", "error"}
)

func DefaultConfig() *Config {
	return &Config{
		Version: "1.0",
		Analysis: AnalysisConfig{
			MaxWorkers: 4,
		},
		Output: OutputConfig{
			Format:       "console",
			Colors:       true,
			Verbose:      false,
			ShowFindings: false,
		},
		Rules: RulesConfig{
			NestedLoops: NestedLoopConfig{
				Enabled:  true,
				MaxDepth: 2,
			},
			Recursion: ToggleConfig{Enabled: true},
			Halving:   ToggleConfig{Enabled: true},
		},
		Files: FilesConfig{
			Include:     []string{"**/*.py"},
			Exclude:     []string{"**/.git/**", "**/__pycache__/**", "**/.venv/**", "**/venv/**", "**/node_modules/**"},
			MaxFileSize: 1024, // 1MB
		},
	}
}

// LoadConfig loads configuration from file or returns default
func LoadConfig(configPath string) (*Config, error) {
	// If no config path provided, look for default config files
	if configPath == "" {
		configPath = findConfigFile()
	}

	// If still no config found, return default
	if configPath == "" {
		return DefaultConfig(), nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
	}

	config := DefaultConfig() // Start with defaults

	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", configPath, err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// findConfigFile looks for config files in common locations
func findConfigFile() string {
	possiblePaths := []string{
		".bigocheck.yml",
		".bigocheck.yaml",
		"bigocheck.yml",
		"bigocheck.yaml",
		".config/bigocheck.yml",
		".config/bigocheck.yaml",
	}

	for _, path := range possiblePaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if !slices.Contains(validFormats, c.Output.Format) {
		return fmt.Errorf("invalid output format: %s (valid: %v)", c.Output.Format, validFormats)
	}

	if c.Output.LogLevel != "" && !slices.Contains(validLogLevels, strings.ToLower(c.Output.LogLevel)) {
		return fmt.Errorf("invalid log_level: %s (valid: %v)", c.Output.LogLevel, validLogLevels)
	}

	if c.Analysis.MaxWorkers < 1 {
		return fmt.Errorf("max_workers must be at least 1")
	}

	if c.Analysis.FailOn != "" {
		if _, err := models.ParseSeverity(c.Analysis.FailOn); err != nil {
			return fmt.Errorf("invalid fail_on: %w", err)
		}
	}

	if c.Rules.NestedLoops.Enabled && c.Rules.NestedLoops.MaxDepth < 2 {
		return fmt.Errorf("nested_loops max_depth must be at least 2")
	}

	if c.Files.MaxFileSize < 1 {
		return fmt.Errorf("max_file_size must be at least 1 KB")
	}

	return nil
}

// FailThreshold returns the severity configured in analysis.fail_on.
func (c *Config) FailThreshold() (models.Severity, bool) {
	if c.Analysis.FailOn == "" {
		return models.SeverityLow, false
	}
	severity, err := models.ParseSeverity(c.Analysis.FailOn)
	if err != nil {
		return models.SeverityLow, false
	}
	return severity, true
}

// SaveConfig saves configuration to file
func (c *Config) SaveConfig(configPath string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// GenerateConfig creates a sample configuration file
func GenerateConfig(configPath string) error {
	config := DefaultConfig()
	return config.SaveConfig(configPath)
}

// IsRuleEnabled checks if a specific rule is enabled
func (c *Config) IsRuleEnabled(ruleType string) bool {
	switch ruleType {
	case "nested_loops":
		return c.Rules.NestedLoops.Enabled
	case "recursion":
		return c.Rules.Recursion.Enabled
	case "halving":
		return c.Rules.Halving.Enabled
	default:
		return false
	}
}
