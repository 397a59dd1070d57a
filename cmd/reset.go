package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"steward/config"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete saved chat transcripts",
	Long: `Delete the saved chat transcripts under the data directory.
The task table is never touched.`,
	Run: func(cmd *cobra.Command, args []string) {
		env, err := loadEnvironment()
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}
		defer env.Close()

		historyDir := config.HistoryDir(env.dataDir)
		entries, err := os.ReadDir(historyDir)
		if os.IsNotExist(err) {
			fmt.Println("No chat transcripts to delete.")
			return
		}
		if err != nil {
			fmt.Printf("Error reading transcripts: %v\n", err)
			return
		}

		if err := os.RemoveAll(historyDir); err != nil {
			fmt.Printf("Error deleting transcripts: %v\n", err)
			return
		}

		fmt.Printf("Deleted %d chat transcripts. The task table is untouched.\n", len(entries))
	},
}

func init() {
	rootCmd.AddCommand(resetCmd)
}
