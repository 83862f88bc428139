package config

import (
	"fmt"
	"strings"

	"github.com/ganttd/ganttd/internal/gantt"
)

// ConfigSource represents where a configuration value came from.
type ConfigSource string

const (
	SourceDefault  ConfigSource = "default"
	SourceUserFile ConfigSource = "user file"
	SourceProjFile ConfigSource = "project file"
	SourceEnv      ConfigSource = "environment"
	SourceFlag     ConfigSource = "flag"
)

// ConfigWithSources holds configuration along with source information for each field.
type ConfigWithSources struct {
	Config  *Config
	Sources map[string]ConfigSource
}

// Default values.
const (
	DefaultHost              = "127.0.0.1"
	DefaultPort              = 8080
	DefaultSortBy            = "start_date"
	DefaultDuplicateIDPolicy = "rename"
)

// Config holds the full configuration for ganttd.
type Config struct {
	// Input
	InputFile   string `toml:"input_file"`
	InputFormat string `toml:"input_format"` // "csv" or "json"; empty sniffs the extension

	// Column mapping
	Columns ColumnsConfig `toml:"columns"`

	// Transformation options
	DuplicateIDPolicy    string   `toml:"duplicate_id_policy"`
	MaxTasks             int      `toml:"max_tasks"`
	SortBy               string   `toml:"sort_by"`
	GroupBy              []string `toml:"group_by"`
	ShowExpectedProgress bool     `toml:"show_expected_progress"`

	// Server
	Host string `toml:"host"`
	Port int    `toml:"port"`

	// Logging configuration
	LogLevel      string `toml:"log_level"`
	LogFormat     string `toml:"log_format"`
	LogTimestamps bool   `toml:"log_timestamps"`
	LogCaller     bool   `toml:"log_caller"`

	// Project root (computed)
	ProjectRoot string `toml:"-"`
}

// ColumnsConfig names the dataset columns feeding each task attribute.
type ColumnsConfig struct {
	ID           string   `toml:"id"`
	Name         string   `toml:"name"`
	Start        string   `toml:"start"`
	End          string   `toml:"end"`
	Progress     string   `toml:"progress"`
	Dependencies string   `toml:"dependencies"`
	Color        string   `toml:"color"`
	Tooltip      []string `toml:"tooltip"`
}

// Mapping converts the configured columns into the transformation mapping.
func (c *Config) Mapping() gantt.ColumnMapping {
	return gantt.ColumnMapping{
		IDColumn:           c.Columns.ID,
		NameColumn:         c.Columns.Name,
		StartColumn:        c.Columns.Start,
		EndColumn:          c.Columns.End,
		ProgressColumn:     c.Columns.Progress,
		DependenciesColumn: c.Columns.Dependencies,
		ColorColumn:        c.Columns.Color,
		TooltipColumns:     c.Columns.Tooltip,
	}
}

// Options converts the configured transformation options.
func (c *Config) Options() gantt.Options {
	return gantt.Options{
		DuplicateIDPolicy:    gantt.DuplicatePolicy(c.DuplicateIDPolicy),
		MaxTasks:             c.MaxTasks,
		SortBy:               gantt.SortMode(c.SortBy),
		GroupBy:              c.GroupBy,
		ShowExpectedProgress: c.ShowExpectedProgress,
	}
}

// ListenAddr returns the host:port the server binds to.
func (c *Config) ListenAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// setDefaults applies default values to the config.
func setDefaults(cfg *Config) {
	cfg.Host = DefaultHost
	cfg.Port = DefaultPort
	cfg.SortBy = DefaultSortBy
	cfg.DuplicateIDPolicy = DefaultDuplicateIDPolicy

	cfg.Columns = ColumnsConfig{
		ID:    "id",
		Name:  "name",
		Start: "start",
		End:   "end",
	}

	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.LogFormat == "" {
		cfg.LogFormat = "text"
	}
}

// boolFromString parses a boolean from a string.
func boolFromString(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return s == "1" || s == "true" || s == "yes" || s == "on"
}

// splitAndTrim splits a string by sep and trims whitespace from each part.
func splitAndTrim(s, sep string) []string {
	parts := strings.Split(s, sep)
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
