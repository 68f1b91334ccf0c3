// Package cmd provides the root command and CLI setup for fixtura.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"fixtura.dev/pkg/fixtura/internal/adapter"
	"fixtura.dev/pkg/fixtura/internal/controller"
	"fixtura.dev/pkg/fixtura/internal/domain"
	"fixtura.dev/pkg/fixtura/pkg/fixtura"
)

var fsAdapter adapter.ConfigFSAdapter
var fileAdapter adapter.ConfigFileAdapter
var workflow domain.Workflow
var ui controller.UI

// logFileFlag is a root-level flag naming the log file.
var logFileFlag string

// verboseFlag switches logging to Debug.
var verboseFlag bool

func init() {
	configureRootFlags(rootCmd)

	// Initialize shared dependencies.
	ui = controller.NewUI(rootCmd)
	fsAdapter = adapter.NewLocalConfigFSAdapter()
	fileAdapter = adapter.NewLocalConfigFileAdapter(fsAdapter)
	workflow = domain.NewWorkflow(fsAdapter, fileAdapter, ui)
}

const pathPatternsHelp = `Supports Go-style path patterns:
  - ./...             recursively scan current directory
  - ./testdata/...    recursively scan testdata directory
  - a.yaml ./fixtures scan files and directories

Without paths, the configuration.files setting is used, then ./...`

const rootLongDescription = `Fixtura builds test fixtures for Go: object graphs whose members are
filled with unique values, linked fixture items and testify mocks, shaped by
configuration written in code or in YAML files.

The CLI manages those YAML configuration files.

` + pathPatternsHelp

const checkLongDescription = `Validate fixture configuration files and report a verdict per file.

` + pathPatternsHelp

const listLongDescription = `List the fixture items configured by configuration files.

` + pathPatternsHelp

// rootCmd represents the base command when called without any subcommands.
var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	return &cobra.Command{
		Use:          "fixtura",
		Short:        "Go test fixture configuration tool",
		Long:         rootLongDescription,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}
}

func configureRootFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVar(&logFileFlag, logFileFlagName, viper.GetString(logFilenameKey), "log file path")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(logFileFlagName), logFilenameKey)

	cmd.PersistentFlags().BoolVarP(&verboseFlag, verboseFlagName, "v", viper.GetBool(logVerboseKey), "log at debug level")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(verboseFlagName), logVerboseKey)

	cmd.PersistentPreRun = func(_ *cobra.Command, _ []string) {
		configureLogger(viper.GetString(logFilenameKey), viper.GetBool(logVerboseKey))
	}
}

// bindFlagToConfig wires a Cobra flag to a Viper key so config/env values feed the flag.
func bindFlagToConfig(flag *pflag.Flag, key string) {
	if flag == nil {
		cobra.CheckErr(fmt.Errorf("flag for config key %q not found", key))
		return
	}

	cobra.CheckErr(viper.BindPFlag(key, flag))
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

// parsePaths returns the configuration paths named on the command line,
// falling back to the configured files and then to the current tree.
func parsePaths(args []string) []string {
	if len(args) > 0 {
		return append([]string(nil), args...)
	}

	if configured := viper.GetStringSlice(fixtura.ConfigurationFilesKey); len(configured) > 0 {
		return configured
	}

	return []string{"./..."}
}
