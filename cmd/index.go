package cmd

import (
	"github.com/spf13/cobra"

	"retype.dev/pkg/retype/internal/domain"
)

// indexCmd represents the index command.
var indexCmd = newIndexCmd()

func newIndexCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "index",
		Short: "Rebuild the symbol cache from the declaration corpus",
		Long:  indexLongDescription,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return currentWorkflow().Index(cmd.Context(), domain.IndexArgs{
				Typedefs: configPath(typedefsKey),
				Symbols:  configPath(symbolsKey),
			})
		},
	}
}

func init() {
	rootCmd.AddCommand(indexCmd)
}
