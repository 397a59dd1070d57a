package cmd

import (
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"steward/chat"
	"steward/command"
	"steward/config"
	"steward/engine"
	"steward/llm"
	"steward/logging"
	"steward/task"
	"steward/tui"
	"steward/workspace"
)

var (
	flagModel   string
	flagAPIKey  string
	flagBaseURL string
	flagDataDir string
	flagDebug   bool
)

// environment is everything a command needs after startup: the detected
// workspace, the merged configuration, and the resolved data directory.
type environment struct {
	workspacePath string
	cfg           *config.Config
	dataDir       string
	closeLog      func()
}

func (e *environment) Close() {
	if e.closeLog != nil {
		e.closeLog()
	}
}

// loadEnvironment detects the workspace, loads and merges configuration,
// applies flag overrides, and points the logger at the data directory.
func loadEnvironment() (*environment, error) {
	workspacePath, err := workspace.DetectWorkspace()
	if err != nil {
		return nil, fmt.Errorf("failed to detect workspace: %w", err)
	}

	cfg, err := config.LoadConfig(workspacePath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if flagModel != "" {
		cfg.Model = flagModel
	}
	if flagAPIKey != "" {
		cfg.APIKey = flagAPIKey
	}
	if flagBaseURL != "" {
		cfg.BaseURL = flagBaseURL
	}
	if flagDataDir != "" {
		cfg.DataDir = flagDataDir
	}
	if flagDebug {
		cfg.Debug = true
	}

	dataDir, err := cfg.ResolveDataDir(workspacePath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve data directory: %w", err)
	}

	closeLog, err := logging.Setup(config.LogPath(dataDir), cfg.Debug)
	if err != nil {
		return nil, fmt.Errorf("failed to set up logging: %w", err)
	}

	return &environment{
		workspacePath: workspacePath,
		cfg:           cfg,
		dataDir:       dataDir,
		closeLog:      closeLog,
	}, nil
}

// openStore opens the task table under the data directory, creating an
// empty one on first run.
func openStore(env *environment) (*task.Store, error) {
	store := task.NewStore(config.TasksPath(env.dataDir))
	if err := store.Ensure(); err != nil {
		return nil, fmt.Errorf("failed to prepare task table: %w", err)
	}
	return store, nil
}

// buildEngine wires the configured model adapter, the conversation, and
// the interpreter into a turn runner.
func buildEngine(env *environment, store *task.Store) (*engine.Engine, error) {
	baseURL := env.cfg.BaseURL
	if llm.GetProviderFromModel(env.cfg.Model) == "ollama" && env.cfg.OllamaURL != "" {
		baseURL = env.cfg.OllamaURL
	}

	adapter, err := llm.CreateAdapter(env.cfg.Model, env.cfg.APIKey, baseURL)
	if err != nil {
		return nil, err
	}

	conversation := chat.NewConversation(store, env.cfg.MaxHistory, config.HistoryDir(env.dataDir))
	return engine.NewEngine(adapter, conversation, command.NewInterpreter(store)), nil
}

var rootCmd = &cobra.Command{
	Use:   "steward",
	Short: "Steward is a conversational task manager",
	Long: `Steward is a terminal-based, AI-driven task manager.
You tell it what needs doing in plain language and it keeps a task
table up to date on disk, answering questions about what is on your
plate along the way.`,
	Run: func(cmd *cobra.Command, args []string) {
		env, err := loadEnvironment()
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
		defer env.Close()

		store, err := openStore(env)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}

		eng, err := buildEngine(env, store)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}

		// Watch the task table so edits from other tools show up live.
		watcher, err := task.NewWatcher(store.Path())
		if err != nil {
			fmt.Printf("Warning: could not watch the task table: %v\n", err)
			watcher = nil
		}
		if watcher != nil {
			defer watcher.Stop()
		}

		log.Info().Str("model", env.cfg.Model).Str("data_dir", env.dataDir).Msg("starting steward")

		if err := tui.StartTUI(env.workspacePath, env.cfg, eng, store, watcher); err != nil {
			fmt.Printf("Error starting TUI: %v\n", err)
			os.Exit(1)
		}
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagModel, "model", "", "Model to chat with, as provider:name")
	rootCmd.PersistentFlags().StringVar(&flagAPIKey, "api-key", "", "API key for the model provider")
	rootCmd.PersistentFlags().StringVar(&flagBaseURL, "base-url", "", "Base URL for the model provider")
	rootCmd.PersistentFlags().StringVar(&flagDataDir, "data-dir", "", "Directory holding the task table and transcripts")
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "Enable debug logging")
}
