package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"retype.dev/pkg/retype/internal/domain"
)

// statsCmd represents the stats command.
var statsCmd = newStatsCmd()

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Report declaration coverage of the compiled program",
		Long:  statsLongDescription,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return currentWorkflow().Stats(cmd.Context(), domain.StatsArgs{
				Typedefs: configPath(typedefsKey),
				Input:    configPath(inputKey),
				Symbols:  configPath(symbolsKey),
				NoCache:  viper.GetBool(noCacheKey),
			})
		},
	}

	return cmd
}

func init() {
	rootCmd.AddCommand(statsCmd)
}
