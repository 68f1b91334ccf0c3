package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"fixtura.dev/pkg/fixtura/internal/adapter"
)

// initCmd represents the init command.
var initCmd = newInitCmd()

func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Generate a default fixtura.yaml and a sample fixtures file",
		Long: `Create a fixtura.yaml in the current working directory populated with the
current CLI defaults, and a fixtures.yaml showing the configuration file format.
Existing files are never overwritten.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			targetPath := filepath.Join(configFolderPath, configFileName)
			samplePath := filepath.Join(configFolderPath, sampleFixturesFileName)

			if _, err := fsAdapter.FileInfo(samplePath); err == nil {
				return fmt.Errorf("failed to write sample fixtures: %s already exists", samplePath)
			}

			err := viper.SafeWriteConfigAs(targetPath)
			if err != nil {
				return fmt.Errorf("failed to write config file: %w", err)
			}

			content, err := fileAdapter.Encode(sampleDocument())
			if err != nil {
				return err
			}

			if err := fsAdapter.WriteFile(samplePath, content, 0o644); err != nil {
				return fmt.Errorf("failed to write sample fixtures: %w", err)
			}

			cmd.Printf("wrote %s and %s\n", targetPath, samplePath)

			return nil
		},
	}
}

func init() {
	rootCmd.AddCommand(initCmd)
}

func sampleDocument() *adapter.ConfigurationDocument {
	return &adapter.ConfigurationDocument{
		Version: currentConfigVersion,
		Fixtures: []adapter.FixtureDocument{
			{
				Type:        "*example.com/shop.Cart",
				Constructor: "NewCart",
				Parameters: map[string]adapter.MemberDocument{
					"owner": {ValueDocument: adapter.ValueDocument{Value: yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: "alice"}}},
				},
				Members: map[string]adapter.MemberDocument{
					"Total": {ValueDocument: adapter.ValueDocument{Unique: true}},
					"Store": {ValueDocument: adapter.ValueDocument{Link: &adapter.LinkDocument{Type: "*example.com/shop.Store", Name: "main"}}},
				},
			},
			{
				Type: "*example.com/shop.Store",
				Name: "main",
				Members: map[string]adapter.MemberDocument{
					"Name": {ValueDocument: adapter.ValueDocument{Value: yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: "Main Street"}}},
				},
			},
		},
	}
}
