package cmd

import (
	"flag"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/ganttd/ganttd/internal/config"
)

// doctorCommand checks config values, the column mapping, and the input
// file, and reports what the transform would actually run with.
func doctorCommand(cws *config.ConfigWithSources, args []string) error {
	// Parse doctor-specific flags
	fs := flag.NewFlagSet("ganttd doctor", flag.ContinueOnError)
	verbose := fs.Bool("v", false, "Verbose output")

	if err := fs.Parse(args); err != nil {
		return err
	}
	remaining := fs.Args()
	if len(remaining) > 1 {
		return fmt.Errorf("unexpected arguments: %v", remaining[1:])
	}
	cfg := cws.Config
	if len(remaining) == 1 {
		cfg.InputFile = remaining[0]
	}

	fmt.Println("Ganttd Doctor")
	fmt.Println("=============")
	fmt.Println()

	allOK := true

	// Check project root
	fmt.Printf("Project root: %s\n", cfg.ProjectRoot)
	if _, err := os.Stat(cfg.ProjectRoot); err != nil {
		fmt.Printf("  ❌ Error: %v\n", err)
		allOK = false
	} else {
		fmt.Println("  ✅ OK")
	}
	fmt.Println()

	// Report the active config file
	fmt.Println("Config file:")
	if file := cws.GetConfigFile(); file != "" {
		fmt.Printf("  ✅ %s\n", file)
	} else {
		fmt.Println("  ⚠️  None found (using defaults, environment, and flags)")
	}
	fmt.Println()

	// Check config values
	if !checkConfigValues(cfg) {
		allOK = false
	}
	fmt.Println()

	// Check column mapping
	if !checkColumnMapping(cfg) {
		allOK = false
	}
	fmt.Println()

	// Check input file
	if !checkInputFile(cfg, *verbose) {
		allOK = false
	}
	fmt.Println()

	if *verbose {
		printSources(cws)
		fmt.Println()
	}

	// Overall status
	if allOK {
		fmt.Println("✅ All checks passed!")
		return nil
	}
	fmt.Println("⚠️  Some checks failed. Ganttd may not function correctly.")
	return fmt.Errorf("doctor checks failed")
}

func checkConfigValues(cfg *config.Config) bool {
	ok := true
	fmt.Println("Config:")

	switch cfg.DuplicateIDPolicy {
	case "rename", "skip":
		fmt.Printf("  ✅ Duplicate id policy: %s\n", cfg.DuplicateIDPolicy)
	default:
		fmt.Printf("  ❌ Duplicate id policy: %s (expected rename|skip)\n", cfg.DuplicateIDPolicy)
		ok = false
	}

	switch cfg.SortBy {
	case "start_date", "end_date", "name", "duration", "dependency_count", "topological":
		fmt.Printf("  ✅ Sort mode: %s\n", cfg.SortBy)
	default:
		fmt.Printf("  ❌ Sort mode: %s (expected start_date|end_date|name|duration|dependency_count|topological)\n", cfg.SortBy)
		ok = false
	}

	if cfg.MaxTasks < 0 {
		fmt.Printf("  ❌ Max tasks: %d (expected 0 or a positive count)\n", cfg.MaxTasks)
		ok = false
	} else if cfg.MaxTasks == 0 {
		fmt.Println("  ✅ Max tasks: unlimited")
	} else {
		fmt.Printf("  ✅ Max tasks: %d\n", cfg.MaxTasks)
	}

	switch strings.ToLower(cfg.LogLevel) {
	case "", "debug", "info", "warn", "warning", "error", "fatal":
		fmt.Printf("  ✅ Log level: %s\n", orDefault(cfg.LogLevel, "info"))
	default:
		fmt.Printf("  ⚠️  Log level: %s (unknown, falls back to info)\n", cfg.LogLevel)
	}

	fmt.Printf("  ✅ Server address: %s\n", cfg.ListenAddr())
	return ok
}

func checkColumnMapping(cfg *config.Config) bool {
	ok := true
	fmt.Println("Column mapping:")

	required := []struct{ label, value string }{
		{"Id column", cfg.Columns.ID},
		{"Start column", cfg.Columns.Start},
		{"End column", cfg.Columns.End},
	}
	for _, col := range required {
		if col.value == "" {
			fmt.Printf("  ❌ %s: not configured\n", col.label)
			ok = false
		} else {
			fmt.Printf("  ✅ %s: %s\n", col.label, col.value)
		}
	}

	optional := []struct{ label, value string }{
		{"Name column", cfg.Columns.Name},
		{"Progress column", cfg.Columns.Progress},
		{"Dependencies column", cfg.Columns.Dependencies},
		{"Color column", cfg.Columns.Color},
	}
	for _, col := range optional {
		if col.value != "" {
			fmt.Printf("  ✅ %s: %s\n", col.label, col.value)
		}
	}
	if len(cfg.Columns.Tooltip) > 0 {
		fmt.Printf("  ✅ Tooltip columns: %s\n", strings.Join(cfg.Columns.Tooltip, ", "))
	}
	return ok
}

func checkInputFile(cfg *config.Config, verbose bool) bool {
	fmt.Printf("Input file: %s\n", orDefault(cfg.InputFile, "(not configured)"))
	if cfg.InputFile == "" {
		fmt.Println("  ⚠️  Not configured (required for transform and preview)")
		return true
	}

	info, err := os.Stat(cfg.InputFile)
	if err != nil {
		fmt.Printf("  ❌ Error: %v\n", err)
		return false
	}
	if info.IsDir() {
		fmt.Println("  ❌ Error: path is a directory")
		return false
	}

	ds, err := loadDataset(cfg)
	if err != nil {
		fmt.Printf("  ❌ Load error: %v\n", err)
		return false
	}
	fmt.Printf("  ✅ OK (%d rows, %d columns)\n", len(ds.Rows), len(ds.Columns))

	ok := true
	mapped := map[string]string{
		"id":    cfg.Columns.ID,
		"name":  cfg.Columns.Name,
		"start": cfg.Columns.Start,
		"end":   cfg.Columns.End,
	}
	if cfg.Columns.Progress != "" {
		mapped["progress"] = cfg.Columns.Progress
	}
	if cfg.Columns.Dependencies != "" {
		mapped["dependencies"] = cfg.Columns.Dependencies
	}
	if cfg.Columns.Color != "" {
		mapped["color"] = cfg.Columns.Color
	}
	for i, col := range cfg.Columns.Tooltip {
		mapped[fmt.Sprintf("tooltip[%d]", i)] = col
	}

	for _, role := range sortedKeys(mapped) {
		column := mapped[role]
		if column == "" {
			continue
		}
		if !ds.HasColumn(column) {
			fmt.Printf("  ❌ Mapped %s column %q not found in input\n", role, column)
			ok = false
		} else if verbose {
			fmt.Printf("  ✅ Mapped %s column: %s\n", role, column)
		}
	}
	return ok
}

// printSources shows where each effective config value came from.
func printSources(cws *config.ConfigWithSources) {
	fmt.Println("Value sources:")
	for _, field := range sortedKeys(cws.Sources) {
		fmt.Printf("  %-24s %s\n", field, cws.Sources[field])
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
