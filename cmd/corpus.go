package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/abhisek/slovo/internal/corpus"
	"github.com/abhisek/slovo/internal/declension"
	"github.com/abhisek/slovo/internal/quiz"
)

var corpusCmd = &cobra.Command{
	Use:   "corpus",
	Short: "Inspect the word and sentence corpora",
}

var corpusCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Load every corpus and report rejected entries",
	RunE: func(cmd *cobra.Command, args []string) error {
		corpora, err := corpus.Load(cfg.Corpus, slog.Default())
		if err != nil {
			return err
		}

		for _, r := range corpora.Reports {
			fmt.Println(r)
			for _, s := range r.Samples {
				fmt.Printf("    %s\n", s)
			}
		}

		gens := corpora.Generators(declension.Config{NumberFallback: cfg.Quiz.NumberFallback})
		fmt.Println()
		for _, k := range quiz.Kinds {
			state := "unavailable"
			if _, ok := gens[k]; ok {
				state = "ready"
			}
			fmt.Printf("%-16s %s\n", k.Title(), state)
		}
		return nil
	},
}

func init() {
	corpusCmd.AddCommand(corpusCheckCmd)
}
