package controller

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	m "retype.dev/pkg/retype/internal/model"
)

// SimpleUI implements UI using cobra Command's output writer.
type SimpleUI struct {
	cmd    *cobra.Command
	config StartConfig
}

// NewSimpleUI creates a new SimpleUI.
func NewSimpleUI(cmd *cobra.Command) *SimpleUI {
	return &SimpleUI{cmd: cmd}
}

// Start initializes the UI.
func (s *SimpleUI) Start(ctx context.Context, options ...StartOption) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.config = newStartConfig(options)

	return nil
}

// Close finalizes the UI.
func (s *SimpleUI) Close(ctx context.Context) {
	if err := ctx.Err(); err != nil {
		return
	}
}

// Wait blocks until the UI is closed (no-op for SimpleUI).
func (s *SimpleUI) Wait(ctx context.Context) {
	if err := ctx.Err(); err != nil {
		return
	}
	// SimpleUI doesn't block - it just prints and continues
}

// DisplayStage prints the stage being entered.
func (s *SimpleUI) DisplayStage(ctx context.Context, stage Stage) {
	if err := ctx.Err(); err != nil {
		return
	}

	s.printf("%s...\n", stage)
}

// DisplayCoverage prints the coverage table.
func (s *SimpleUI) DisplayCoverage(ctx context.Context, coverage m.Coverage) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.printf("\n%s", renderCoverageTable(coverage))

	return nil
}

// DisplayDiff prints a unified diff of the output.
func (s *SimpleUI) DisplayDiff(ctx context.Context, diff string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if diff == "" {
		s.printf("no changes\n")
		return nil
	}

	s.printf("%s", diff)

	return nil
}

// DisplayWritten reports the written output.
func (s *SimpleUI) DisplayWritten(ctx context.Context, output m.Path, edits int) {
	if err := ctx.Err(); err != nil {
		return
	}

	s.printf("applied %d edits, result saved into %s\n", edits, output)
}

// DisplayIndexed reports a rebuilt symbol cache.
func (s *SimpleUI) DisplayIndexed(ctx context.Context, symbols m.Path, modules int, classes int) {
	if err := ctx.Err(); err != nil {
		return
	}

	s.printf("indexed %d modules (%d classes) into %s\n", modules, classes, symbols)
}

func (s *SimpleUI) printf(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(s.cmd.OutOrStdout(), format, args...)
}
