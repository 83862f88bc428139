package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/ganttd/ganttd/internal/config"
	"github.com/ganttd/ganttd/internal/logging"
	"github.com/ganttd/ganttd/internal/server"
)

// serveCommand runs the HTTP transformation service until the context is
// cancelled. Host and port come from the global config.
func serveCommand(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("ganttd serve", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if remaining := fs.Args(); len(remaining) > 0 {
		return fmt.Errorf("unexpected arguments: %v", remaining)
	}

	logger := logging.NewFromConfig(os.Stderr, cfg.LogLevel, cfg.LogFormat, cfg.LogTimestamps, cfg.LogCaller)
	return server.New(cfg, logger).Run(ctx)
}
