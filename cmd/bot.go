package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/spf13/cobra"

	"github.com/abhisek/slovo/internal/telegram"
)

var botCmd = &cobra.Command{
	Use:   "bot",
	Short: "Run the Telegram bot (long polling)",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.ValidateBot(); err != nil {
			return err
		}
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		logger := slog.Default()

		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		engine, err := buildEngine(ctx, st, logger)
		if err != nil {
			return err
		}

		api, err := tgbotapi.NewBotAPI(cfg.Telegram.Token)
		if err != nil {
			return fmt.Errorf("connect to telegram: %w", err)
		}
		api.Debug = cfg.Telegram.Debug
		logger.Info("authorized", "bot", api.Self.UserName)

		bot := telegram.New(api, engine, telegram.Config{PollTimeout: cfg.Telegram.PollTimeout}, logger)
		return bot.Run(ctx)
	},
}
