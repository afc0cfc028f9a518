package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/slovo/internal/config"
	"github.com/abhisek/slovo/internal/store"
)

// cfg is loaded once per invocation by the root command's pre-run hook.
var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "slovo",
	Short: "Ukrainian grammar quizzes in Telegram and the terminal",
	Long: "Slovo quizzes learners on Ukrainian word stress, parts of speech and noun\n" +
		"declension, with AI explanations for wrong answers.",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString("config")
		envFile, _ := cmd.Flags().GetString("env")

		c, err := config.Load(path, envFile)
		if err != nil {
			return err
		}
		if dsn, _ := cmd.Flags().GetString("db"); dsn != "" {
			c.Storage.DSN = dsn
		}
		if lvl, _ := cmd.Flags().GetString("log-level"); lvl != "" {
			c.Log.Level = lvl
		}
		if err := c.Validate(); err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}
		cfg = c
		slog.SetDefault(cfg.Log.Logger(os.Stderr))
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPlay(cmd)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "Path to YAML config (default ./"+config.DefaultFile+" if present)")
	flags.String("env", ".env", "Path to a .env file with secrets")
	flags.String("db", "", "Database DSN or SQLite path (overrides storage.dsn)")
	flags.String("log-level", "", "Log level: debug, info, warn, error")

	rootCmd.AddCommand(botCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(corpusCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}

// openStore opens and migrates the configured database.
func openStore() (*store.Store, error) {
	dsn, err := cfg.DSN()
	if err != nil {
		return nil, fmt.Errorf("resolve database: %w", err)
	}
	s, err := store.Open(cfg.Storage.Driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return s, nil
}
