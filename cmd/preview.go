package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"

	"github.com/ganttd/ganttd/internal/config"
	"github.com/ganttd/ganttd/internal/gantt"
	"github.com/ganttd/ganttd/internal/ui"
)

// previewCommand renders the transformed timeline in the terminal. The
// input file is re-read on every reload so edits show up with r.
func previewCommand(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("ganttd preview", flag.ContinueOnError)
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
	if cfg.InputFile == "" {
		return fmt.Errorf("no input file specified (use -input or a positional argument)")
	}

	return ui.RunPreview(ctx, func() (*gantt.TransformResult, error) {
		return runTransform(cfg, io.Discard)
	})
}
