package controller

import (
	"bytes"
	"context"
	"os"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "retype.dev/pkg/retype/internal/model"
)

func sampleCoverage() m.Coverage {
	var coverage m.Coverage

	coverage.Record(m.SiteClass, m.Matched)
	coverage.Record(m.SiteClass, m.NoDeclaration)
	coverage.Record(m.SiteFunction, m.Matched)
	coverage.Record(m.SiteFunction, m.Skipped)
	coverage.Record(m.SiteField, m.NoDeclaration)

	return coverage
}

func TestFormatCoverage(t *testing.T) {
	got := FormatCoverage(sampleCoverage())

	assert.Equal(t, "classes: total: 2, typedefs: 1, 50.00%\n"+
		"functions: total: 2, typedefs: 2, 100.00%\n"+
		"fields: total: 1, typedefs: 0, 0.00%\n"+
		"total (avg % of classes + fields + functions): 50.00%\n", got)
}

func TestFormatCoverage_Empty(t *testing.T) {
	got := FormatCoverage(m.Coverage{})
	assert.Contains(t, got, "classes: total: 0, typedefs: 0, 0.00%")
	assert.Contains(t, got, "0.00%\n")
}

func newTestCommand() (*cobra.Command, *bytes.Buffer) {
	var out bytes.Buffer

	cmd := &cobra.Command{Use: "test"}
	cmd.SetOut(&out)

	return cmd, &out
}

func TestSimpleUI(t *testing.T) {
	ctx := context.Background()

	cmd, out := newTestCommand()
	ui := NewSimpleUI(cmd)

	require.NoError(t, ui.Start(ctx, WithRunMode()))
	ui.DisplayStage(ctx, StageAnnotate)
	require.NoError(t, ui.DisplayCoverage(ctx, sampleCoverage()))
	ui.DisplayWritten(ctx, "out.js", 3)
	ui.DisplayIndexed(ctx, "symbols.json", 2, 5)
	ui.Wait(ctx)
	ui.Close(ctx)

	text := out.String()
	assert.Contains(t, text, "annotating...")
	assert.Contains(t, text, "KIND")
	assert.Contains(t, text, "functions")
	assert.Contains(t, text, "100.00%")
	assert.Contains(t, text, "AVERAGE")
	assert.Contains(t, text, "applied 3 edits, result saved into out.js")
	assert.Contains(t, text, "indexed 2 modules (5 classes) into symbols.json")
}

func TestSimpleUI_Diff(t *testing.T) {
	ctx := context.Background()

	cmd, out := newTestCommand()
	ui := NewSimpleUI(cmd)

	require.NoError(t, ui.DisplayDiff(ctx, ""))
	require.NoError(t, ui.DisplayDiff(ctx, "--- a\n+++ b\n"))

	assert.Equal(t, "no changes\n--- a\n+++ b\n", out.String())
}

func TestSimpleUI_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	cmd, out := newTestCommand()
	ui := NewSimpleUI(cmd)

	require.ErrorIs(t, ui.Start(ctx), context.Canceled)
	ui.DisplayStage(ctx, StageAnnotate)
	require.ErrorIs(t, ui.DisplayCoverage(ctx, m.Coverage{}), context.Canceled)
	assert.Empty(t, out.String())
}

func TestNewUI(t *testing.T) {
	cmd, _ := newTestCommand()

	_, ok := NewUI(cmd, false).(*SimpleUI)
	assert.True(t, ok)

	_, ok = NewUI(cmd, true).(*TUI)
	assert.True(t, ok)
}

func TestIsTTY(t *testing.T) {
	assert.False(t, IsTTY(nil))

	f, err := os.CreateTemp(t.TempDir(), "out")
	require.NoError(t, err)

	defer func() {
		_ = f.Close()
	}()

	assert.False(t, IsTTY(f))
}

func TestStartMode_String(t *testing.T) {
	assert.Equal(t, "run", ModeRun.String())
	assert.Equal(t, "index", ModeIndex.String())
	assert.Equal(t, "stats", ModeStats.String())
}

func TestProgressModel(t *testing.T) {
	model := newProgressModel(ModeStats)
	assert.NotNil(t, model.Init())

	var updated interface{} = model

	step := func(msg interface{}) {
		next, _ := updated.(progressModel).Update(msg)
		updated = next
	}

	step(stageMsg(StageSymbols))
	step(stageMsg(StageAnnotate))
	step(noteMsg("indexed 1 modules"))
	step(summaryMsg("classes: total: 1\n"))

	pm := updated.(progressModel)
	assert.Equal(t, []Stage{StageSymbols}, pm.stages)
	assert.Equal(t, StageAnnotate, pm.current)

	view := pm.View()
	assert.Contains(t, view, "retype stats")
	assert.Contains(t, view, string(StageSymbols))
	assert.Contains(t, view, string(StageAnnotate))
	assert.Contains(t, view, "indexed 1 modules")
	assert.Contains(t, view, "classes: total: 1")

	next, cmd := pm.Update(doneMsg{})
	assert.NotNil(t, cmd)

	pm = next.(progressModel)
	assert.True(t, pm.done)
	assert.Empty(t, pm.current)
	assert.Equal(t, []Stage{StageSymbols, StageAnnotate}, pm.stages)
}

func TestTUI_WithoutStart(t *testing.T) {
	ctx := context.Background()

	var out bytes.Buffer
	ui := NewTUI(&out)

	ui.DisplayStage(ctx, StageAnnotate)
	require.NoError(t, ui.DisplayDiff(ctx, "+added\n"))
	ui.Close(ctx)

	assert.Equal(t, "+added\n", out.String())
}
