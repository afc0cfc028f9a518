package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/slovo/internal/quiz"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show quiz results per game",
	RunE: func(cmd *cobra.Command, args []string) error {
		chat, _ := cmd.Flags().GetString("chat")

		s, err := openStore()
		if err != nil {
			return err
		}
		defer s.Close()

		sums, err := s.ResultRepo().Summary(cmd.Context(), chat)
		if err != nil {
			return fmt.Errorf("query results: %w", err)
		}
		if len(sums) == 0 {
			fmt.Println("No finished quizzes yet.")
			return nil
		}

		fmt.Printf("%-16s  %6s  %8s  %8s  %8s\n", "Game", "Games", "Correct", "Asked", "Accuracy")
		fmt.Println(strings.Repeat("─", 56))

		var games, score, total int
		for _, k := range sums {
			fmt.Printf("%-16s  %6d  %8d  %8d  %7.0f%%\n",
				quiz.Kind(k.Kind).Title(), k.Games, k.Score, k.Total, k.Accuracy()*100)
			games += k.Games
			score += k.Score
			total += k.Total
		}

		fmt.Println(strings.Repeat("─", 56))
		acc := 0.0
		if total > 0 {
			acc = float64(score) / float64(total) * 100
		}
		fmt.Printf("%-16s  %6d  %8d  %8d  %7.0f%%\n", "TOTAL", games, score, total, acc)
		return nil
	},
}

func init() {
	statsCmd.Flags().String("chat", "", "Only this conversation (Telegram chat id, or \"local\" for the terminal)")
}
