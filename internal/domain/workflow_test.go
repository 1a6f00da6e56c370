package domain

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"retype.dev/pkg/retype/internal/adapter"
	adaptermocks "retype.dev/pkg/retype/internal/adapter/mocks"
	"retype.dev/pkg/retype/internal/controller"
	controllermocks "retype.dev/pkg/retype/internal/controller/mocks"
	m "retype.dev/pkg/retype/internal/model"
)

const constructorProgram = `ig.module("game.a").defines(function() {
    a.b = a.c.extend({
        hp: 0,
        init: function(x) { return x; }
    });
});
`

type workflowFixture struct {
	fs       *adapter.LocalSourceFSAdapter
	typedefs m.Path
	input    m.Path
	output   m.Path
	symbols  m.Path
	out      *bytes.Buffer
}

func newWorkflowFixture(t *testing.T, program string) *workflowFixture {
	t.Helper()

	ctx := context.Background()
	fsAdapter := adapter.NewLocalSourceFSAdapter()
	root := t.TempDir()

	f := &workflowFixture{
		fs:       fsAdapter,
		typedefs: m.Path(filepath.Join(root, "typedefs")),
		input:    m.Path(filepath.Join(root, "game.compiled.js")),
		output:   m.Path(filepath.Join(root, "out", "game.compiled.typed.js")),
		symbols:  m.Path(filepath.Join(root, "typedefs.json")),
		out:      &bytes.Buffer{},
	}

	modules := filepath.Join(string(f.typedefs), "modules")
	require.NoError(t, fsAdapter.MkdirAll(ctx, m.Path(modules)))
	require.NoError(t, fsAdapter.WriteFile(ctx, m.Path(filepath.Join(modules, "game.a.d.ts")), []byte(entityDeclarations), 0o644))
	require.NoError(t, fsAdapter.WriteFile(ctx, f.input, []byte(program), 0o644))

	return f
}

func (f *workflowFixture) simpleUI() controller.UI {
	cmd := &cobra.Command{Use: "retype"}
	cmd.SetOut(f.out)

	return controller.NewSimpleUI(cmd)
}

func (f *workflowFixture) workflow(store adapter.SymbolStore, normalizer adapter.Normalizer, ui controller.UI) Workflow {
	if store == nil {
		store = adapter.NewJSONSymbolStore(f.fs)
	}

	if normalizer == nil {
		normalizer = adapter.IdentityNormalizer{}
	}

	if ui == nil {
		ui = f.simpleUI()
	}

	return NewWorkflow(
		f.fs,
		adapter.NewTreeSitterAdapter(),
		store,
		normalizer,
		adapter.NewYAMLAliasSource(f.fs, ""),
		ui,
		DefaultConfig(),
	)
}

func (f *workflowFixture) runArgs() RunArgs {
	return RunArgs{Typedefs: f.typedefs, Input: f.input, Output: f.output, Symbols: f.symbols}
}

func TestWorkflow_Run(t *testing.T) {
	ctx := context.Background()
	f := newWorkflowFixture(t, constructorProgram)

	require.NoError(t, f.workflow(nil, nil, nil).Run(ctx, f.runArgs()))

	written, err := os.ReadFile(string(f.output))
	require.NoError(t, err)
	assert.Contains(t, string(written), "hp/*: number*/: 0,")
	assert.Contains(t, string(written), "init: function(hp/*: number*/)/*: A*/ { return hp; }")

	cached, err := adapter.NewJSONSymbolStore(f.fs).LoadSymbols(ctx, f.symbols)
	require.NoError(t, err)
	assert.True(t, cached.HasModule("game.a"))

	text := f.out.String()
	assert.Contains(t, text, "applied 5 edits, result saved into")
	assert.Contains(t, text, "AVERAGE")
}

func TestWorkflow_RunDryRun(t *testing.T) {
	ctx := context.Background()
	f := newWorkflowFixture(t, constructorProgram)

	args := f.runArgs()
	args.DryRun = true

	require.NoError(t, f.workflow(nil, nil, nil).Run(ctx, args))

	_, err := os.Stat(string(f.output))
	require.ErrorIs(t, err, os.ErrNotExist)

	text := f.out.String()
	assert.Contains(t, text, "--- "+string(f.input))
	assert.Contains(t, text, "+++ "+string(f.output))
	assert.Contains(t, text, "-        init: function(x) { return x; }")
	assert.Contains(t, text, "+        init: function(hp/*: number*/)/*: A*/ { return hp; }")
}

func TestWorkflow_RunUsesSymbolCache(t *testing.T) {
	ctx := context.Background()
	f := newWorkflowFixture(t, constructorProgram)

	cached := loadTable(t, declarationUnit("game.a", `declare namespace a {
    interface b {
        init(energy: number): B;
    }
}
`))

	store := adaptermocks.NewMockSymbolStore(t)
	store.On("LoadSymbols", mock.Anything, f.symbols).Return(cached, nil).Once()

	require.NoError(t, f.workflow(store, nil, nil).Run(ctx, f.runArgs()))

	written, err := os.ReadFile(string(f.output))
	require.NoError(t, err)
	assert.Contains(t, string(written), "init: function(energy/*: number*/)/*: B*/ { return energy; }")
}

func TestWorkflow_RunRefreshesMissingCache(t *testing.T) {
	ctx := context.Background()
	f := newWorkflowFixture(t, constructorProgram)

	store := adaptermocks.NewMockSymbolStore(t)
	store.On("LoadSymbols", mock.Anything, f.symbols).Return(nil, adapter.ErrNoSymbolCache).Once()
	store.On("SaveSymbols", mock.Anything, f.symbols, mock.AnythingOfType("*model.SymbolTable")).Return(nil).Once()

	require.NoError(t, f.workflow(store, nil, nil).Run(ctx, f.runArgs()))
}

func TestWorkflow_RunNoCache(t *testing.T) {
	ctx := context.Background()
	f := newWorkflowFixture(t, constructorProgram)

	args := f.runArgs()
	args.NoCache = true

	store := adaptermocks.NewMockSymbolStore(t)

	require.NoError(t, f.workflow(store, nil, nil).Run(ctx, args))
	store.AssertNotCalled(t, "LoadSymbols", mock.Anything, mock.Anything)
	store.AssertNotCalled(t, "SaveSymbols", mock.Anything, mock.Anything, mock.Anything)
}

func TestWorkflow_RunMissingConfig(t *testing.T) {
	ctx := context.Background()
	f := newWorkflowFixture(t, constructorProgram)

	ui := controllermocks.NewMockUI(t)

	args := f.runArgs()
	args.Output = ""

	err := f.workflow(nil, nil, ui).Run(ctx, args)
	require.ErrorIs(t, err, ErrMissingConfig)
	assert.Contains(t, err.Error(), "paths.output")
}

func TestWorkflow_RunNormalizeFailure(t *testing.T) {
	ctx := context.Background()
	f := newWorkflowFixture(t, constructorProgram)

	ui := controllermocks.NewMockUI(t)
	ui.On("Start", mock.Anything, mock.Anything).Return(nil).Once()
	ui.On("DisplayStage", mock.Anything, mock.Anything).Maybe()
	ui.On("Close", mock.Anything).Return().Once()

	normalizeErr := errors.New("normalizer exited with status 1")

	normalizer := adaptermocks.NewMockNormalizer(t)
	normalizer.On("Normalize", mock.Anything, []byte(constructorProgram)).Return(nil, normalizeErr).Once()

	err := f.workflow(nil, normalizer, ui).Run(ctx, f.runArgs())
	require.ErrorIs(t, err, normalizeErr)

	_, statErr := os.Stat(string(f.output))
	require.ErrorIs(t, statErr, os.ErrNotExist)
}

func TestWorkflow_RunFailureWritesNothing(t *testing.T) {
	ctx := context.Background()
	f := newWorkflowFixture(t, "var unrelated = 1;\n")

	err := f.workflow(nil, nil, nil).Run(ctx, f.runArgs())
	require.ErrorIs(t, err, ErrNoRegistration)

	_, statErr := os.Stat(string(f.output))
	require.ErrorIs(t, statErr, os.ErrNotExist)
}

func TestWorkflow_Index(t *testing.T) {
	ctx := context.Background()
	f := newWorkflowFixture(t, constructorProgram)

	ui := controllermocks.NewMockUI(t)
	ui.On("Start", mock.Anything, mock.Anything).Return(nil).Once()
	ui.On("DisplayStage", mock.Anything, controller.StageSymbols).Once()
	ui.On("DisplayIndexed", mock.Anything, f.symbols, 1, 1).Once()
	ui.On("Close", mock.Anything).Return().Once()

	require.NoError(t, f.workflow(nil, nil, ui).Index(ctx, IndexArgs{Typedefs: f.typedefs, Symbols: f.symbols}))

	table, err := adapter.NewJSONSymbolStore(f.fs).LoadSymbols(ctx, f.symbols)
	require.NoError(t, err)

	owner, ok := table.Owner("a.b")
	require.True(t, ok)
	assert.Equal(t, "game.a", owner)
}

func TestWorkflow_IndexMissingConfig(t *testing.T) {
	f := newWorkflowFixture(t, constructorProgram)

	err := f.workflow(nil, nil, controllermocks.NewMockUI(t)).Index(context.Background(), IndexArgs{Typedefs: f.typedefs})
	require.ErrorIs(t, err, ErrMissingConfig)
}

func TestWorkflow_Stats(t *testing.T) {
	ctx := context.Background()
	f := newWorkflowFixture(t, constructorProgram)

	var coverage m.Coverage

	ui := controllermocks.NewMockUI(t)
	ui.On("Start", mock.Anything, mock.Anything).Return(nil).Once()
	ui.On("DisplayStage", mock.Anything, mock.Anything).Maybe()
	ui.On("DisplayCoverage", mock.Anything, mock.AnythingOfType("model.Coverage")).
		Run(func(args mock.Arguments) { coverage = args.Get(1).(m.Coverage) }).
		Return(nil).Once()
	ui.On("Close", mock.Anything).Return().Once()

	err := f.workflow(nil, nil, ui).Stats(ctx, StatsArgs{Typedefs: f.typedefs, Input: f.input, Symbols: f.symbols})
	require.NoError(t, err)

	assert.Equal(t, m.Counter{Typed: 1}, coverage.Classes)
	assert.Equal(t, m.Counter{Typed: 1}, coverage.Functions)
	assert.Equal(t, m.Counter{Typed: 1}, coverage.Fields)

	_, statErr := os.Stat(string(f.output))
	require.ErrorIs(t, statErr, os.ErrNotExist)
}

func TestUnifiedDiff(t *testing.T) {
	diff, err := UnifiedDiff("a.js", "b.js", []byte("x\ny\n"), []byte("x\nz\n"))
	require.NoError(t, err)
	assert.Contains(t, diff, "--- a.js")
	assert.Contains(t, diff, "+++ b.js")
	assert.Contains(t, diff, "-y")
	assert.Contains(t, diff, "+z")

	diff, err = UnifiedDiff("a.js", "b.js", []byte("same\n"), []byte("same\n"))
	require.NoError(t, err)
	assert.Empty(t, diff)
}
