package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"steward/task"
)

var flagDueDays int

var dueCmd = &cobra.Command{
	Use:   "due",
	Short: "Print tasks due within the coming days",
	Run: func(cmd *cobra.Command, args []string) {
		env, err := loadEnvironment()
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}
		defer env.Close()

		store, err := openStore(env)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}

		tasks, err := store.Load()
		if err != nil {
			fmt.Printf("Error reading task table: %v\n", err)
			return
		}

		due := task.DueWithin(tasks, time.Now(), flagDueDays)
		if len(due) == 0 {
			fmt.Printf("Nothing due within %d days.\n", flagDueDays)
			return
		}

		printTasks(due)
	},
}

func init() {
	dueCmd.Flags().IntVar(&flagDueDays, "days", 7, "How many days ahead to look")
	rootCmd.AddCommand(dueCmd)
}
