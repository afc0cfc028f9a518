package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/slovo/internal/app"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play in the terminal",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPlay(cmd)
	},
}

func init() {
	playCmd.Flags().String("log-file", "", "Write logs here; the terminal UI owns stderr")
}

// runPlay opens the store, builds the engine and launches the TUI.
func runPlay(cmd *cobra.Command) error {
	var w io.Writer = io.Discard
	if path, _ := cmd.Flags().GetString("log-file"); path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		defer f.Close()
		w = f
	}
	logger := cfg.Log.Logger(w)
	slog.SetDefault(logger)

	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	engine, err := buildEngine(cmd.Context(), st, logger)
	if err != nil {
		return err
	}

	return app.Run(app.Options{
		Engine:  engine,
		Results: st.ResultRepo(),
		Version: displayVersion(),
	})
}
