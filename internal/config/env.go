package config

import (
	"os"
	"strconv"
)

// loadFromEnv overrides config from environment variables and updates
// source tracking.
func loadFromEnv(cfg *Config, sources map[string]ConfigSource) {
	set := func(field string) {
		if sources != nil {
			sources[field] = SourceEnv
		}
	}

	if v := os.Getenv("GANTTD_INPUT"); v != "" {
		cfg.InputFile = v
		set("input_file")
	}
	if v := os.Getenv("GANTTD_FORMAT"); v != "" {
		cfg.InputFormat = v
		set("input_format")
	}
	if v := os.Getenv("GANTTD_DUPLICATE_ID_POLICY"); v != "" {
		cfg.DuplicateIDPolicy = v
		set("duplicate_id_policy")
	}
	if v := os.Getenv("GANTTD_MAX_TASKS"); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			cfg.MaxTasks = i
			set("max_tasks")
		}
	}
	if v := os.Getenv("GANTTD_SORT_BY"); v != "" {
		cfg.SortBy = v
		set("sort_by")
	}
	if v := os.Getenv("GANTTD_GROUP_BY"); v != "" {
		cfg.GroupBy = splitAndTrim(v, ",")
		set("group_by")
	}
	if v := os.Getenv("GANTTD_EXPECTED_PROGRESS"); v != "" {
		cfg.ShowExpectedProgress = boolFromString(v)
		set("show_expected_progress")
	}
	if v := os.Getenv("GANTTD_HOST"); v != "" {
		cfg.Host = v
		set("host")
	}
	if v := os.Getenv("GANTTD_PORT"); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			cfg.Port = i
			set("port")
		}
	}

	// Logging configuration
	if v := os.Getenv("GANTTD_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
		set("log_level")
	}
	if v := os.Getenv("GANTTD_LOG_FORMAT"); v != "" {
		cfg.LogFormat = v
		set("log_format")
	}
	if v := os.Getenv("GANTTD_LOG_TIMESTAMPS"); v != "" {
		cfg.LogTimestamps = boolFromString(v)
		set("log_timestamps")
	}
	if v := os.Getenv("GANTTD_LOG_CALLER"); v != "" {
		cfg.LogCaller = boolFromString(v)
		set("log_caller")
	}
}
