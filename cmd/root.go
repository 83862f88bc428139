// Package cmd implements the CLI command structure for ganttd.
package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ganttd/ganttd/internal/config"
)

// Version is set via ldflags at build time.
var Version = "dev"

// Run executes the ganttd CLI.
func Run(ctx context.Context, args []string) error {
	// Create a flag set for global options
	fs := flag.NewFlagSet("ganttd", flag.ContinueOnError)
	fs.Usage = func() {
		printUsage(fs, os.Stderr)
	}
	help := fs.Bool("help", false, "Show help")
	fs.BoolVar(help, "h", false, "Show help")
	showVersion := fs.Bool("version", false, "Show version")
	fs.BoolVar(showVersion, "v", false, "Show version")

	// Global flags
	cws, err := config.LoadWithSources(fs, args)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	cfg := cws.Config
	if *help {
		printUsage(fs, os.Stdout)
		return nil
	}
	if *showVersion {
		return versionCommand()
	}

	// Determine the subcommand
	// If no args or first arg is a flag, use "transform" as default
	subcommand := "transform"
	remainingArgs := fs.Args()
	if len(remainingArgs) > 0 {
		// Check if it looks like a subcommand (doesn't start with -)
		if !strings.HasPrefix(remainingArgs[0], "-") {
			subcommand = remainingArgs[0]
			remainingArgs = remainingArgs[1:]
		}
	}

	// Execute the subcommand
	switch subcommand {
	case "transform":
		return transformCommand(ctx, cfg, remainingArgs)
	case "serve":
		return serveCommand(ctx, cfg, remainingArgs)
	case "preview":
		return previewCommand(ctx, cfg, remainingArgs)
	case "doctor":
		return doctorCommand(cws, remainingArgs)
	case "init":
		return initCommand(remainingArgs)
	case "version", "--version", "-v":
		return versionCommand()
	case "help", "--help", "-h":
		printUsage(fs, os.Stdout)
		return nil
	default:
		// If it's not a recognized command, it might be an input file for
		// transform. Check if it's an existing file
		if fi, err := os.Stat(subcommand); err == nil && !fi.IsDir() {
			cfg.InputFile = subcommand
			return transformCommand(ctx, cfg, remainingArgs)
		}
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", subcommand)
		printUsage(fs, os.Stderr)
		return fmt.Errorf("unknown command: %s", subcommand)
	}
}

// versionCommand prints version information.
func versionCommand() error {
	fmt.Printf("ganttd version %s\n", Version)
	return nil
}

// printUsage prints the usage message.
func printUsage(fs *flag.FlagSet, w io.Writer) {
	fmt.Fprintln(w, "Ganttd - Turn tabular project data into Gantt chart tasks")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  ganttd [command] [options]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  transform [file]  Transform a dataset and print tasks as JSON (default command)")
	fmt.Fprintln(w, "  preview [file]    Render the transformed timeline in the terminal")
	fmt.Fprintln(w, "  serve             Run the HTTP transformation service")
	fmt.Fprintln(w, "  doctor            Check config, input file, and column mapping")
	fmt.Fprintln(w, "  init              Write an example ganttd.toml to the current directory")
	fmt.Fprintln(w, "  version           Show version information")
	fmt.Fprintln(w, "  help              Show this help message")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Global Options:")
	fs.SetOutput(w)
	fs.PrintDefaults()
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Transform Options (use with 'transform' command):")
	fmt.Fprintln(w, "  -o, -output string")
	fmt.Fprintln(w, "        Write the result to a file instead of stdout")
	fmt.Fprintln(w, "  -pretty")
	fmt.Fprintln(w, "        Indent the JSON output (default true)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Doctor Options (use with 'doctor' command):")
	fmt.Fprintln(w, "  -v    Verbose output, including value sources")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Init Options (use with 'init' command):")
	fmt.Fprintln(w, "  -force")
	fmt.Fprintln(w, "        Overwrite an existing ganttd.toml")
}
