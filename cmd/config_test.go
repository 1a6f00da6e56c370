package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigConstants(t *testing.T) {
	assert.Equal(t, "retype", configBaseName)
	assert.Equal(t, "retype.yaml", configFileName)
	assert.Equal(t, ".", configFolderPath)
	assert.Equal(t, "output", outputFlagName)
	assert.Equal(t, "no-cache", noCacheFlagName)
	assert.Equal(t, "paths.typedefs", typedefsKey)
	assert.Equal(t, "typedefs.json", defaultSymbols)
	assert.Equal(t, false, defaultNoCache)
	assert.Equal(t, "RETYPE", envPrefix)
}

func TestConfigVersionConstants(t *testing.T) {
	assert.Equal(t, "version", configVersionKey)
	assert.Equal(t, 1, currentConfigVersion)
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("RETYPE_DOTENV_PROBE=loaded\n"), 0o644))
	t.Cleanup(func() { _ = os.Unsetenv("RETYPE_DOTENV_PROBE") })

	require.NoError(t, loadDotEnv(path))
	assert.Equal(t, "loaded", os.Getenv("RETYPE_DOTENV_PROBE"))
}

func TestLoadDotEnv_MissingFile(t *testing.T) {
	assert.NoError(t, loadDotEnv(filepath.Join(t.TempDir(), ".env")))
}

func TestLoadDotEnv_KeepsExistingVariables(t *testing.T) {
	t.Setenv("RETYPE_DOTENV_PROBE", "from-shell")

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("RETYPE_DOTENV_PROBE=from-file\n"), 0o644))

	require.NoError(t, loadDotEnv(path))
	assert.Equal(t, "from-shell", os.Getenv("RETYPE_DOTENV_PROBE"))
}

func TestDomainConfig_Defaults(t *testing.T) {
	config := domainConfig()

	assert.Equal(t, "modules", config.Corpus.ModulesDir)
	assert.NotEmpty(t, config.Resolver.BaseClasses)
	assert.Equal(t, config.Corpus.QualifiedRoots, config.Resolver.QualifiedRoots)
	assert.True(t, config.Annotator.GenerateEdits)
}

func TestDomainConfig_Overrides(t *testing.T) {
	original := viper.Get(resolveMaxDepthKey)
	t.Cleanup(func() { viper.Set(resolveMaxDepthKey, original) })

	viper.Set(resolveMaxDepthKey, 7)

	assert.Equal(t, 7, domainConfig().Resolver.MaxDepth)
}

func TestParseSlogLevel(t *testing.T) {
	tests := []struct {
		value string
		want  string
	}{
		{"", "INFO"},
		{"debug", "DEBUG"},
		{"WARNING", "WARN"},
		{"error", "ERROR"},
		{"-4", "DEBUG"},
		{"bogus", "INFO"},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			assert.Equal(t, tt.want, parseSlogLevel(tt.value, 0).String())
		})
	}
}
