package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"steward/config"
	"steward/workspace"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Keep this project's tasks in its own .steward directory",
	Long: `Create a .steward directory here so the task table, chat
transcripts, and configuration live with this project instead of in
the shared ~/.steward directory.`,
	Run: func(cmd *cobra.Command, args []string) {
		// init acts on the directory it is run in, not a detected root; a
		// nested project gets its own .steward.
		workspacePath, err := os.Getwd()
		if err != nil {
			fmt.Printf("Error reading current directory: %v\n", err)
			return
		}

		if err := workspace.EnsureStewardDir(workspacePath); err != nil {
			fmt.Printf("Error creating .steward directory: %v\n", err)
			return
		}

		configPath := filepath.Join(workspacePath, ".steward", "config.json")
		if _, err := os.Stat(configPath); err == nil {
			fmt.Printf("steward is already initialized for %s\n", workspacePath)
			return
		}

		if err := config.SaveLocalConfig(workspacePath, config.DefaultConfig()); err != nil {
			fmt.Printf("Error saving local config: %v\n", err)
			return
		}

		fmt.Printf("Initialized steward for %s\n", workspacePath)
		fmt.Println("This project now keeps its own task table and configuration")
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
