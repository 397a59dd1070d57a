package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"steward/task"
)

var tasksCmd = &cobra.Command{
	Use:   "tasks",
	Short: "Print the task table",
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

		printTasks(tasks)
	},
}

func printTasks(tasks []task.Task) {
	if len(tasks) == 0 {
		fmt.Println(task.NoTasksSummary)
		return
	}

	fmt.Printf("%-4s %-32s %-12s %-16s %-10s\n", "ID", "Task", "Due Date", "Assigned To", "Status")
	for _, t := range tasks {
		fmt.Printf("%-4d %-32s %-12s %-16s %-10s\n", t.ID, t.Title, t.DueDate, t.AssignedTo, t.Status)
		if t.Description != "" {
			fmt.Printf("     %s\n", t.Description)
		}
	}
}

func init() {
	rootCmd.AddCommand(tasksCmd)
}
