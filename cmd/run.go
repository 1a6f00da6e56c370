package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"retype.dev/pkg/retype/internal/domain"
)

var runOutputFlag string
var runDryRunFlag bool

// runCmd represents the run command.
var runCmd = newRunCmd()

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Annotate the compiled program",
		Long:  runLongDescription,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return currentWorkflow().Run(cmd.Context(), domain.RunArgs{
				Typedefs: configPath(typedefsKey),
				Input:    configPath(inputKey),
				Output:   configPath(outputKey),
				Symbols:  configPath(symbolsKey),
				NoCache:  viper.GetBool(noCacheKey),
				DryRun:   runDryRunFlag,
			})
		},
	}

	configureRunFlags(cmd)

	return cmd
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func configureRunFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&runOutputFlag, outputFlagName, "o", viper.GetString(outputKey), "path of the annotated program")
	bindFlagToConfig(cmd.Flags().Lookup(outputFlagName), outputKey)
	cmd.Flags().BoolVar(&runDryRunFlag, dryRunFlagName, false, "print a unified diff instead of writing the output")
}
