package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"steward/command"
	"steward/llm"
)

var askCmd = &cobra.Command{
	Use:   "ask [message]",
	Short: "Send one message without opening the chat",
	Long: `Send a single message to the assistant and print its answer.
Commands the assistant issues are applied to the task table exactly as
they would be in the chat.`,
	Args: cobra.ExactArgs(1),
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

		eng, err := buildEngine(env, store)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), llm.DefaultTimeout)
		defer cancel()

		turn, err := eng.ProcessTurn(ctx, args[0])
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}

		text := command.StripBlocks(turn.Reply)
		if text != "" {
			fmt.Println(text)
		}
		if turn.Outcome != nil && turn.Outcome.Message != "" && !strings.Contains(text, turn.Outcome.Message) {
			fmt.Println(turn.Outcome.Message)
		}
	},
}

func init() {
	rootCmd.AddCommand(askCmd)
}
