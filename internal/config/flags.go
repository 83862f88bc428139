package config

import (
	"flag"
	"strings"
)

// parseFlags defines and parses CLI flags, binding them directly to the
// config. Source tracking only records flags the user explicitly set.
func parseFlags(cfg *Config, fs *flag.FlagSet, args []string, sources map[string]ConfigSource) error {
	if fs == nil {
		fs = flag.NewFlagSet("ganttd", flag.ContinueOnError)
	}

	var groupBy, tooltip string

	fs.StringVar(&cfg.InputFile, "input", cfg.InputFile, "Path to the input dataset (CSV or JSON)")
	fs.StringVar(&cfg.InputFormat, "format", cfg.InputFormat, "Input format: csv or json (default: sniff extension)")

	fs.StringVar(&cfg.Columns.ID, "id-column", cfg.Columns.ID, "Column holding task ids")
	fs.StringVar(&cfg.Columns.Name, "name-column", cfg.Columns.Name, "Column holding task names")
	fs.StringVar(&cfg.Columns.Start, "start-column", cfg.Columns.Start, "Column holding start dates")
	fs.StringVar(&cfg.Columns.End, "end-column", cfg.Columns.End, "Column holding end dates")
	fs.StringVar(&cfg.Columns.Progress, "progress-column", cfg.Columns.Progress, "Column holding progress percentages")
	fs.StringVar(&cfg.Columns.Dependencies, "deps-column", cfg.Columns.Dependencies, "Column holding dependency lists")
	fs.StringVar(&cfg.Columns.Color, "color-column", cfg.Columns.Color, "Column used for color categories")
	fs.StringVar(&tooltip, "tooltip-columns", strings.Join(cfg.Columns.Tooltip, ","), "Comma-separated columns shown in tooltips")

	fs.StringVar(&cfg.DuplicateIDPolicy, "duplicate-id-policy", cfg.DuplicateIDPolicy, "Duplicate id policy: rename or skip")
	fs.IntVar(&cfg.MaxTasks, "max-tasks", cfg.MaxTasks, "Maximum tasks in the output (0 = unlimited)")
	fs.StringVar(&cfg.SortBy, "sort-by", cfg.SortBy, "Sort mode: start_date, end_date, name, duration, dependency_count, topological")
	fs.StringVar(&groupBy, "group-by", strings.Join(cfg.GroupBy, ","), "Comma-separated columns to group tasks by")
	fs.BoolVar(&cfg.ShowExpectedProgress, "expected-progress", cfg.ShowExpectedProgress, "Derive expected progress from today's date")

	fs.StringVar(&cfg.Host, "host", cfg.Host, "Server bind host")
	fs.IntVar(&cfg.Port, "port", cfg.Port, "Server bind port")

	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level (debug, info, warn, error)")
	fs.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "Log format (text, json, logfmt)")
	fs.BoolVar(&cfg.LogTimestamps, "log-timestamps", cfg.LogTimestamps, "Show timestamps in logs")
	fs.BoolVar(&cfg.LogCaller, "log-caller", cfg.LogCaller, "Show caller location in logs")

	if err := fs.Parse(args); err != nil {
		return err
	}

	flagToSource := map[string]string{
		"input":               "input_file",
		"format":              "input_format",
		"id-column":           "columns",
		"name-column":         "columns",
		"start-column":        "columns",
		"end-column":          "columns",
		"progress-column":     "columns",
		"deps-column":         "columns",
		"color-column":        "columns",
		"tooltip-columns":     "columns",
		"duplicate-id-policy": "duplicate_id_policy",
		"max-tasks":           "max_tasks",
		"sort-by":             "sort_by",
		"group-by":            "group_by",
		"expected-progress":   "show_expected_progress",
		"host":                "host",
		"port":                "port",
		"log-level":           "log_level",
		"log-format":          "log_format",
		"log-timestamps":      "log_timestamps",
		"log-caller":          "log_caller",
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "group-by":
			cfg.GroupBy = splitAndTrim(groupBy, ",")
		case "tooltip-columns":
			cfg.Columns.Tooltip = splitAndTrim(tooltip, ",")
		}
		if sources == nil {
			return
		}
		if fieldName, ok := flagToSource[f.Name]; ok {
			sources[fieldName] = SourceFlag
		}
	})

	return nil
}
