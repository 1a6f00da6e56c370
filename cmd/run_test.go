package cmd

import (
	"bytes"
	"errors"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"retype.dev/pkg/retype/internal/domain"
	domainmocks "retype.dev/pkg/retype/internal/domain/mocks"
	m "retype.dev/pkg/retype/internal/model"
)

func useMockWorkflow(t *testing.T) *domainmocks.MockWorkflow {
	t.Helper()

	mockWorkflow := domainmocks.NewMockWorkflow(t)

	originalWorkflow := workflow
	workflow = mockWorkflow
	t.Cleanup(func() { workflow = originalWorkflow })

	return mockWorkflow
}

func newTestRootCmd(sub ...func() *cobra.Command) *cobra.Command {
	cmd := newRootCmd()
	for _, build := range sub {
		cmd.AddCommand(build())
	}

	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})

	return cmd
}

func TestRunCmd_Flags(t *testing.T) {
	mockWorkflow := useMockWorkflow(t)
	cmd := newTestRootCmd(newRunCmd)

	mockWorkflow.On("Run", mock.Anything, mock.MatchedBy(func(args domain.RunArgs) bool {
		return args.Typedefs == m.Path("defs") &&
			args.Input == m.Path("game.compiled.js") &&
			args.Output == m.Path("game.typed.js") &&
			args.Symbols == m.Path("symbols.json") &&
			!args.NoCache &&
			!args.DryRun
	})).Return(nil)

	cmd.SetArgs([]string{
		"-t", "defs",
		"-i", "game.compiled.js",
		"--symbols", "symbols.json",
		"run", "-o", "game.typed.js",
	})
	require.NoError(t, cmd.Execute())
}

func TestRunCmd_DryRunAndNoCache(t *testing.T) {
	mockWorkflow := useMockWorkflow(t)
	cmd := newTestRootCmd(newRunCmd)

	mockWorkflow.On("Run", mock.Anything, mock.MatchedBy(func(args domain.RunArgs) bool {
		return args.NoCache && args.DryRun
	})).Return(nil)

	cmd.SetArgs([]string{"--no-cache", "run", "--dry-run"})
	require.NoError(t, cmd.Execute())
}

func TestRunCmd_LegacyEnvironment(t *testing.T) {
	t.Setenv(legacyTypedefsEnv, "/srv/typedefs")
	t.Setenv(legacyInputEnv, "/srv/game.compiled.js")
	t.Setenv(legacyOutputEnv, "/srv/game.typed.js")

	mockWorkflow := useMockWorkflow(t)
	cmd := newTestRootCmd(newRunCmd)

	mockWorkflow.On("Run", mock.Anything, mock.MatchedBy(func(args domain.RunArgs) bool {
		return args.Typedefs == m.Path("/srv/typedefs") &&
			args.Input == m.Path("/srv/game.compiled.js") &&
			args.Output == m.Path("/srv/game.typed.js")
	})).Return(nil)

	cmd.SetArgs([]string{"run"})
	require.NoError(t, cmd.Execute())
}

func TestRunCmd_PrefixedEnvironmentWins(t *testing.T) {
	t.Setenv(legacyInputEnv, "legacy.js")
	t.Setenv("RETYPE_PATHS_INPUT", "prefixed.js")

	mockWorkflow := useMockWorkflow(t)
	cmd := newTestRootCmd(newRunCmd)

	mockWorkflow.On("Run", mock.Anything, mock.MatchedBy(func(args domain.RunArgs) bool {
		return args.Input == m.Path("prefixed.js")
	})).Return(nil)

	cmd.SetArgs([]string{"run"})
	require.NoError(t, cmd.Execute())
}

func TestRunCmd_PropagatesError(t *testing.T) {
	mockWorkflow := useMockWorkflow(t)
	cmd := newTestRootCmd(newRunCmd)

	mockWorkflow.On("Run", mock.Anything, mock.Anything).Return(domain.ErrMissingConfig)

	cmd.SetArgs([]string{"run"})
	err := cmd.Execute()
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrMissingConfig))
}

func TestNewRunCmd(t *testing.T) {
	cmd := newRunCmd()

	assert.Equal(t, "run", cmd.Use)
	assert.NotEmpty(t, cmd.Short)
	assert.Equal(t, runLongDescription, cmd.Long)

	outputFlag := cmd.Flags().Lookup(outputFlagName)
	require.NotNil(t, outputFlag)
	assert.Equal(t, "o", outputFlag.Shorthand)
	assert.NotNil(t, cmd.Flags().Lookup(dryRunFlagName))
}
