// Package cmd provides tests for CLI command handlers.
package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/ganttd/ganttd/internal/config"
	"github.com/ganttd/ganttd/internal/gantt"
)

const sampleCSV = `id,name,start,end
1,Design,2024-01-01,2024-01-05
2,Build,2024-01-06,2024-01-20
`

// TestRun tests the main Run function.
func TestRun(t *testing.T) {
	t.Run("shows help with --help flag", func(t *testing.T) {
		if err := Run(context.Background(), []string{"--help"}); err != nil {
			t.Errorf("expected no error with --help, got %v", err)
		}
	})

	t.Run("shows help with -h flag", func(t *testing.T) {
		if err := Run(context.Background(), []string{"-h"}); err != nil {
			t.Errorf("expected no error with -h, got %v", err)
		}
	})

	t.Run("shows version with --version flag", func(t *testing.T) {
		if err := Run(context.Background(), []string{"--version"}); err != nil {
			t.Errorf("expected no error with --version, got %v", err)
		}
	})

	t.Run("shows help with help command", func(t *testing.T) {
		if err := Run(context.Background(), []string{"help"}); err != nil {
			t.Errorf("expected no error with help command, got %v", err)
		}
	})

	t.Run("unknown command returns error", func(t *testing.T) {
		err := Run(context.Background(), []string{"unknown-command"})
		if err == nil {
			t.Fatal("expected error for unknown command, got nil")
		}
		if !strings.Contains(err.Error(), "unknown command") {
			t.Errorf("expected 'unknown command' error, got %v", err)
		}
	})

	t.Run("transform without input returns error", func(t *testing.T) {
		t.Chdir(t.TempDir())
		err := Run(context.Background(), []string{"transform"})
		if err == nil {
			t.Fatal("expected error for transform without input, got nil")
		}
		if !strings.Contains(err.Error(), "no input file") {
			t.Errorf("expected 'no input file' error, got %v", err)
		}
	})
}

func TestRunTransformWritesOutput(t *testing.T) {
	t.Chdir(t.TempDir())
	if err := os.WriteFile("input.csv", []byte(sampleCSV), 0644); err != nil {
		t.Fatal(err)
	}

	if err := Run(context.Background(), []string{"transform", "-o", "out.json", "input.csv"}); err != nil {
		t.Fatalf("Run(transform) error = %v", err)
	}

	data, err := os.ReadFile("out.json")
	if err != nil {
		t.Fatalf("ReadFile(out.json) error = %v", err)
	}
	var result gantt.TransformResult
	if err := json.Unmarshal(data, &result); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if len(result.Tasks) != 2 {
		t.Fatalf("tasks = %d, want 2", len(result.Tasks))
	}
	if result.Tasks[0].Name != "Design" || result.Tasks[1].Name != "Build" {
		t.Errorf("tasks = %+v", result.Tasks)
	}
}

func TestRunTreatsExistingFileAsInput(t *testing.T) {
	t.Chdir(t.TempDir())
	if err := os.WriteFile("plan.csv", []byte(sampleCSV), 0644); err != nil {
		t.Fatal(err)
	}

	// A bare file path should behave like "transform <file>"
	if err := Run(context.Background(), []string{"plan.csv", "-o", "out.json"}); err != nil {
		t.Fatalf("Run(plan.csv) error = %v", err)
	}
	if _, err := os.Stat("out.json"); err != nil {
		t.Fatalf("expected out.json to exist: %v", err)
	}
}

func TestRunTransformEmptyDataset(t *testing.T) {
	t.Chdir(t.TempDir())
	if err := os.WriteFile("input.csv", []byte("id,name,start,end\n"), 0644); err != nil {
		t.Fatal(err)
	}

	err := Run(context.Background(), []string{"transform", "input.csv"})
	if err == nil {
		t.Fatal("expected error for empty dataset, got nil")
	}
	var reqErr *gantt.RequestError
	if !errors.As(err, &reqErr) || reqErr.Code != gantt.ErrEmptyDataset {
		t.Errorf("expected EMPTY_DATASET error, got %v", err)
	}
}

func TestInputFormat(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		format  string
		want    string
		wantErr bool
	}{
		{name: "csv extension", file: "tasks.csv", want: "csv"},
		{name: "json extension", file: "tasks.json", want: "json"},
		{name: "explicit format wins", file: "tasks.txt", format: "json", want: "json"},
		{name: "case insensitive", file: "tasks.txt", format: "CSV", want: "csv"},
		{name: "unknown extension", file: "tasks.txt", wantErr: true},
		{name: "unknown format", file: "tasks.csv", format: "xml", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &config.Config{InputFile: tt.file, InputFormat: tt.format}
			got, err := inputFormat(cfg)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("inputFormat() = %q, want error", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("inputFormat() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("inputFormat() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestInitCommandWritesExampleConfig(t *testing.T) {
	t.Chdir(t.TempDir())

	if err := initCommand(nil); err != nil {
		t.Fatalf("initCommand() error = %v", err)
	}

	data, err := os.ReadFile("ganttd.toml")
	if err != nil {
		t.Fatalf("ReadFile(ganttd.toml) error = %v", err)
	}
	if string(data) != config.ExampleConfig() {
		t.Error("config file does not match example config")
	}
}

func TestInitCommandRefusesOverwrite(t *testing.T) {
	t.Chdir(t.TempDir())
	if err := os.WriteFile("ganttd.toml", []byte("existing"), 0644); err != nil {
		t.Fatal(err)
	}

	if err := initCommand(nil); err == nil {
		t.Fatal("expected error when ganttd.toml exists, got nil")
	}
	data, _ := os.ReadFile("ganttd.toml")
	if string(data) != "existing" {
		t.Error("config file was overwritten without -force")
	}

	if err := initCommand([]string{"-force"}); err != nil {
		t.Fatalf("initCommand(-force) error = %v", err)
	}
	data, _ = os.ReadFile("ganttd.toml")
	if string(data) != config.ExampleConfig() {
		t.Error("config file was not overwritten with -force")
	}
}

func TestDoctorCommand(t *testing.T) {
	t.Run("passes with a valid input file", func(t *testing.T) {
		t.Chdir(t.TempDir())
		if err := os.WriteFile("input.csv", []byte(sampleCSV), 0644); err != nil {
			t.Fatal(err)
		}

		if err := Run(context.Background(), []string{"-input", "input.csv", "doctor"}); err != nil {
			t.Errorf("doctor failed on a valid setup: %v", err)
		}
	})

	t.Run("passes without an input file", func(t *testing.T) {
		t.Chdir(t.TempDir())
		if err := Run(context.Background(), []string{"doctor"}); err != nil {
			t.Errorf("doctor failed without input (should only warn): %v", err)
		}
	})

	t.Run("fails on an invalid sort mode", func(t *testing.T) {
		t.Chdir(t.TempDir())
		err := Run(context.Background(), []string{"-sort-by", "bogus", "doctor"})
		if err == nil {
			t.Fatal("expected doctor to fail for invalid sort mode, got nil")
		}
		if !strings.Contains(err.Error(), "doctor checks failed") {
			t.Errorf("expected 'doctor checks failed', got %v", err)
		}
	})

	t.Run("fails when a mapped column is missing", func(t *testing.T) {
		t.Chdir(t.TempDir())
		if err := os.WriteFile("input.csv", []byte(sampleCSV), 0644); err != nil {
			t.Fatal(err)
		}

		err := Run(context.Background(), []string{"-input", "input.csv", "-start-column", "begin", "doctor"})
		if err == nil {
			t.Fatal("expected doctor to fail for missing column, got nil")
		}
	})
}

// TestVersionCommand tests the versionCommand function.
func TestVersionCommand(t *testing.T) {
	if err := versionCommand(); err != nil {
		t.Errorf("versionCommand() returned error: %v", err)
	}
}
