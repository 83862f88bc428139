package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ganttd/ganttd/internal/config"
	"github.com/ganttd/ganttd/internal/tabular"
)

// loadDataset reads the configured input file as CSV or JSON. The format
// comes from the config when set, otherwise from the file extension.
func loadDataset(cfg *config.Config) (*tabular.Dataset, error) {
	if cfg.InputFile == "" {
		return nil, fmt.Errorf("no input file specified (use -input or a positional argument)")
	}

	format, err := inputFormat(cfg)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(cfg.InputFile)
	if err != nil {
		return nil, fmt.Errorf("opening input file: %w", err)
	}
	defer f.Close()

	var ds *tabular.Dataset
	switch format {
	case "csv":
		ds, err = tabular.LoadCSV(f)
	case "json":
		ds, err = tabular.LoadJSON(f)
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s input %s: %w", format, cfg.InputFile, err)
	}
	return ds, nil
}

// inputFormat resolves the effective input format: explicit config wins,
// then the file extension.
func inputFormat(cfg *config.Config) (string, error) {
	format := strings.ToLower(strings.TrimSpace(cfg.InputFormat))
	if format == "" {
		switch strings.ToLower(filepath.Ext(cfg.InputFile)) {
		case ".csv":
			format = "csv"
		case ".json":
			format = "json"
		default:
			return "", fmt.Errorf("cannot determine input format for %s (use -format csv|json)", cfg.InputFile)
		}
	}
	if format != "csv" && format != "json" {
		return "", fmt.Errorf("unknown input format %q (expected csv or json)", format)
	}
	return format, nil
}
