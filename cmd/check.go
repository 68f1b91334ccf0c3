package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"fixtura.dev/pkg/fixtura/internal/domain"
)

var checkParallelFlag int

// checkCmd represents the check command.
var checkCmd = newCheckCmd()

func newCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check [paths...]",
		Short: "Validate fixture configuration files",
		Long:  checkLongDescription,
		RunE: func(cmd *cobra.Command, args []string) error {
			return workflow.Check(cmd.Context(), domain.CheckArgs{
				Paths:   parsePaths(args),
				Threads: viper.GetInt(checkParallelConfigKey),
			})
		},
	}

	configureCheckFlags(cmd)

	return cmd
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func configureCheckFlags(cmd *cobra.Command) {
	cmd.Flags().IntVarP(&checkParallelFlag, parallelFlagName, "p", viper.GetInt(checkParallelConfigKey), "number of files checked concurrently")
	bindFlagToConfig(cmd.Flags().Lookup(parallelFlagName), checkParallelConfigKey)
}
