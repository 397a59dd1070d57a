package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"steward/config"
	"steward/workspace"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage steward configuration",
	Long:  `Get and set configuration values for steward`,
}

// configContext loads the effective config and the workspace it came from.
func configContext() (string, *config.Config, error) {
	workspacePath, err := workspace.DetectWorkspace()
	if err != nil {
		return "", nil, fmt.Errorf("failed to detect workspace: %w", err)
	}

	cfg, err := config.LoadConfig(workspacePath)
	if err != nil {
		return "", nil, fmt.Errorf("failed to load config: %w", err)
	}

	return workspacePath, cfg, nil
}

var configGetCmd = &cobra.Command{
	Use:   "get [key]",
	Short: "Get a configuration value",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		_, cfg, err := configContext()
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}

		value, err := cfg.Get(args[0])
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}

		fmt.Printf("%s = %v\n", args[0], value)
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Set a configuration value",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		key, value := args[0], args[1]

		workspacePath, cfg, err := configContext()
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}

		if err := cfg.Set(key, value); err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}

		if err := config.SaveLocalConfig(workspacePath, cfg); err != nil {
			fmt.Printf("Error saving config: %v\n", err)
			return
		}

		fmt.Printf("Set %s = %s\n", key, value)
	},
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all configuration values",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		_, cfg, err := configContext()
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}

		for _, key := range config.Keys() {
			value, err := cfg.Get(key)
			if err != nil {
				continue
			}
			fmt.Printf("%s = %v\n", key, value)
		}
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configListCmd)
}
