// Package cmd provides the root command and CLI setup for retype.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"retype.dev/pkg/retype/internal/adapter"
	"retype.dev/pkg/retype/internal/controller"
	"retype.dev/pkg/retype/internal/domain"
	m "retype.dev/pkg/retype/internal/model"
)

var fsAdapter adapter.SourceFSAdapter
var syntaxAdapter adapter.SyntaxAdapter
var symbolStore adapter.SymbolStore
var ui controller.UI

// workflow overrides the configured pipeline when set.
var workflow domain.Workflow

var typedefsFlag string
var inputFlag string
var symbolsFlag string
var aliasesFlag string
var noCacheFlag bool
var verboseFlag bool
var logFileFlag string

func init() {
	configureRootFlags(rootCmd)

	// Initialize shared dependencies.
	ui = controller.NewUI(rootCmd, controller.IsTTY(os.Stdout))
	fsAdapter = adapter.NewLocalSourceFSAdapter()
	syntaxAdapter = adapter.NewTreeSitterAdapter()
	symbolStore = adapter.NewJSONSymbolStore(fsAdapter)
}

const rootLongDescription = `Retype back-annotates a compiled Impact game bundle with the types of a
TypeScript declaration corpus. Parameters are renamed to their declared names
and every typed site gets a /*: T*/ comment, so the bundle can be read and
checked as typed JavaScript.

Paths come from flags, retype.yaml, RETYPE_* environment variables, or the
legacy TYPEDEF_REPO, GAME_COMPILED_JS and OUTPUT_GAME_COMPILED_JS variables.`

const runLongDescription = `Annotate the compiled program and write the result to the output path.

With --dry-run the result is shown as a unified diff and nothing is written.`

const statsLongDescription = `Walk the compiled program without generating edits and print how many
classes, functions and fields the declaration corpus covers.`

const indexLongDescription = `Parse the declaration corpus and rewrite the symbol cache, ignoring any
cache that already exists.`

// rootCmd represents the base command when called without any subcommands.
var rootCmd = baseRootCmd()

func baseRootCmd() *cobra.Command {
	return &cobra.Command{
		Use:          "retype",
		Short:        "Back-annotate compiled JavaScript with declared types",
		Long:         rootLongDescription,
		SilenceUsage: true,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			configureLogger(viper.GetString(logFilenameKey), viper.GetBool(logVerboseKey))
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}
}

func newRootCmd() *cobra.Command {
	cmd := baseRootCmd()
	configureRootFlags(cmd)

	return cmd
}

func configureRootFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVarP(&typedefsFlag, typedefsFlagName, "t", viper.GetString(typedefsKey), "root of the declaration corpus")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(typedefsFlagName), typedefsKey)

	cmd.PersistentFlags().StringVarP(&inputFlag, inputFlagName, "i", viper.GetString(inputKey), "compiled program to annotate")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(inputFlagName), inputKey)

	cmd.PersistentFlags().StringVar(&symbolsFlag, symbolsFlagName, viper.GetString(symbolsKey), "symbol cache file")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(symbolsFlagName), symbolsKey)

	cmd.PersistentFlags().StringVar(&aliasesFlag, aliasesFlagName, viper.GetString(aliasesFileKey), "alias table (YAML); empty uses the built-in table")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(aliasesFlagName), aliasesFileKey)

	cmd.PersistentFlags().BoolVar(&noCacheFlag, noCacheFlagName, viper.GetBool(noCacheKey), "ignore and do not write the symbol cache")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(noCacheFlagName), noCacheKey)

	cmd.PersistentFlags().BoolVarP(&verboseFlag, verboseFlagName, "v", viper.GetBool(logVerboseKey), "log at debug level")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(verboseFlagName), logVerboseKey)

	cmd.PersistentFlags().StringVar(&logFileFlag, logFileFlagName, viper.GetString(logFilenameKey), "log file")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(logFileFlagName), logFilenameKey)
}

// bindFlagToConfig wires a Cobra flag to a Viper key so config/env values feed the flag.
func bindFlagToConfig(flag *pflag.Flag, key string) {
	if flag == nil {
		cobra.CheckErr(fmt.Errorf("flag for config key %q not found", key))
		return
	}

	cobra.CheckErr(viper.BindPFlag(key, flag))
}

// currentWorkflow returns the override when one is set, otherwise a workflow
// assembled from the current configuration.
func currentWorkflow() domain.Workflow {
	if workflow != nil {
		return workflow
	}

	return domain.NewWorkflow(
		fsAdapter,
		syntaxAdapter,
		symbolStore,
		newNormalizer(),
		adapter.NewYAMLAliasSource(fsAdapter, configPath(aliasesFileKey)),
		ui,
		domainConfig(),
	)
}

func newNormalizer() adapter.Normalizer {
	command := viper.GetStringSlice(normalizeCommandKey)
	if len(command) == 0 {
		return adapter.IdentityNormalizer{}
	}

	return adapter.NewCommandNormalizer(fsAdapter, command, configPath(normalizeCacheDirKey))
}

func configPath(key string) m.Path {
	return m.Path(viper.GetString(key))
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}
