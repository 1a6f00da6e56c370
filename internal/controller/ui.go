// Package controller provides output adapters for annotation progress and coverage.
package controller

import (
	"context"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	m "retype.dev/pkg/retype/internal/model"
)

// StartMode defines the mode of operation for the UI.
type StartMode int

// Available StartMode values.
const (
	ModeRun StartMode = iota
	ModeIndex
	ModeStats
)

func (s StartMode) String() string {
	switch s {
	case ModeIndex:
		return "index"
	case ModeStats:
		return "stats"
	default:
		return "run"
	}
}

// StartOption is a functional option for Start method.
type StartOption func(*StartConfig)

// StartConfig holds configuration for starting the UI.
type StartConfig struct {
	mode StartMode
}

// WithRunMode sets the UI to annotation mode.
func WithRunMode() StartOption {
	return func(c *StartConfig) {
		c.mode = ModeRun
	}
}

// WithIndexMode sets the UI to symbol indexing mode.
func WithIndexMode() StartOption {
	return func(c *StartConfig) {
		c.mode = ModeIndex
	}
}

// WithStatsMode sets the UI to coverage-only mode.
func WithStatsMode() StartOption {
	return func(c *StartConfig) {
		c.mode = ModeStats
	}
}

func newStartConfig(options []StartOption) StartConfig {
	config := StartConfig{mode: ModeRun}
	for _, option := range options {
		option(&config)
	}

	return config
}

// Stage names a step of the pipeline.
type Stage string

// Pipeline stages in execution order.
const (
	StageNormalize Stage = "normalizing program"
	StageSymbols   Stage = "loading declarations"
	StageAliases   Stage = "applying aliases"
	StageAnnotate  Stage = "annotating"
	StageApply     Stage = "applying edits"
	StageWrite     Stage = "writing output"
)

// UI defines the interface for reporting pipeline progress and results.
// Implementations can use different output methods (simple text, TUI, etc).
type UI interface {
	Start(ctx context.Context, options ...StartOption) error
	Close(ctx context.Context)
	Wait(ctx context.Context) // Wait for UI to finish rendering
	DisplayStage(ctx context.Context, stage Stage)
	DisplayCoverage(ctx context.Context, coverage m.Coverage) error
	DisplayDiff(ctx context.Context, diff string) error
	DisplayWritten(ctx context.Context, output m.Path, edits int)
	DisplayIndexed(ctx context.Context, symbols m.Path, modules int, classes int)
}

// NewUI selects the interactive UI for terminals and plain text otherwise.
func NewUI(cmd *cobra.Command, tty bool) UI {
	if tty {
		return NewTUI(cmd.OutOrStdout())
	}

	return NewSimpleUI(cmd)
}

// IsTTY reports whether f is an interactive terminal.
func IsTTY(f *os.File) bool {
	if f == nil {
		return false
	}

	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
