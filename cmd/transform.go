package cmd

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/ganttd/ganttd/internal/config"
	"github.com/ganttd/ganttd/internal/gantt"
	"github.com/ganttd/ganttd/internal/logging"
)

// transformCommand reads the input dataset, runs the transformation, and
// emits the result as JSON.
func transformCommand(ctx context.Context, cfg *config.Config, args []string) error {
	// Parse any additional flags for the transform command
	fs := flag.NewFlagSet("ganttd transform", flag.ContinueOnError)
	output := fs.String("output", "", "Write the result to a file instead of stdout")
	fs.StringVar(output, "o", "", "Write the result to a file instead of stdout")
	pretty := fs.Bool("pretty", true, "Indent the JSON output")

	if err := fs.Parse(args); err != nil {
		return err
	}

	remaining := fs.Args()
	if len(remaining) > 1 {
		return fmt.Errorf("unexpected arguments: %v", remaining[1:])
	}
	if len(remaining) == 1 {
		cfg.InputFile = remaining[0]
	}

	result, err := runTransform(cfg, os.Stderr)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	var w io.Writer = os.Stdout
	if *output != "" {
		f, err := os.Create(*output)
		if err != nil {
			return fmt.Errorf("creating output file: %w", err)
		}
		defer f.Close()
		w = f
	}
	return writeJSON(w, result, *pretty)
}

// runTransform loads the configured input and runs the pipeline with the
// configured mapping and options. Shared by transform and preview; preview
// passes io.Discard so log lines don't bleed into the alt screen.
func runTransform(cfg *config.Config, logW io.Writer) (*gantt.TransformResult, error) {
	logger := logging.NewFromConfig(logW, cfg.LogLevel, cfg.LogFormat, cfg.LogTimestamps, cfg.LogCaller)

	ds, err := loadDataset(cfg)
	if err != nil {
		return nil, err
	}

	result, err := gantt.NewTransformer(logger).Transform(ds, cfg.Mapping(), cfg.Options())
	if err != nil {
		return nil, err
	}
	for _, warning := range result.Metadata.Warnings {
		logger.Warn(warning)
	}
	if reqErr := result.RequestError(); reqErr != nil {
		return nil, reqErr
	}
	return result, nil
}

func writeJSON(w io.Writer, v any, pretty bool) error {
	enc := json.NewEncoder(w)
	if pretty {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(v)
}
