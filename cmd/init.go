package cmd

import (
	"flag"
	"fmt"
	"os"

	"github.com/ganttd/ganttd/internal/config"
)

// initCommand writes an example ganttd.toml to the current directory.
func initCommand(args []string) error {
	fs := flag.NewFlagSet("ganttd init", flag.ContinueOnError)
	force := fs.Bool("force", false, "Overwrite an existing ganttd.toml")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if remaining := fs.Args(); len(remaining) > 0 {
		return fmt.Errorf("unexpected arguments: %v", remaining)
	}

	const path = "ganttd.toml"
	if _, err := os.Stat(path); err == nil && !*force {
		return fmt.Errorf("%s already exists (use -force to overwrite)", path)
	}

	if err := os.WriteFile(path, []byte(config.ExampleConfig()), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	fmt.Printf("Wrote %s\n", path)
	return nil
}
