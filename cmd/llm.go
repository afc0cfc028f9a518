package cmd

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/slovo/internal/llm"
	"github.com/abhisek/slovo/internal/store"
)

var llmCmd = &cobra.Command{
	Use:   "llm",
	Short: "Inspect the tutor's calls to the language model",
}

var llmListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent LLM calls, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		purpose, _ := cmd.Flags().GetString("purpose")
		if purpose != "" {
			if _, err := llm.ParsePurpose(purpose); err != nil {
				return err
			}
		}

		s, err := openStore()
		if err != nil {
			return err
		}
		defer s.Close()

		events, err := s.EventRepo().QueryLLMEvents(cmd.Context(), store.QueryOpts{Limit: limit, Purpose: purpose})
		if err != nil {
			return fmt.Errorf("query events: %w", err)
		}
		if len(events) == 0 {
			fmt.Println("No LLM events found.")
			return nil
		}
		writeEvents(os.Stdout, events)
		return nil
	},
}

func writeEvents(w io.Writer, events []store.LLMEvent) {
	fmt.Fprintf(w, "%-5s  %-19s  %-11s  %-28s  %-6s  %-6s  %-7s  %s\n",
		"ID", "Timestamp", "Purpose", "Model", "In", "Out", "Ms", "Result")
	fmt.Fprintln(w, strings.Repeat("\u2500", 104))

	for _, e := range events {
		result := "ok"
		if !e.Success {
			result = e.Failure
			if result == "" {
				result = "failed"
			}
		}
		fmt.Fprintf(w, "%-5d  %-19s  %-11s  %-28s  %-6d  %-6d  %-7d  %s\n",
			e.ID,
			e.Timestamp.Local().Format(time.DateTime),
			e.Purpose,
			truncate(e.Model, 28),
			e.InputTokens,
			e.OutputTokens,
			e.LatencyMs,
			result,
		)
	}
}

var llmViewCmd = &cobra.Command{
	Use:   "view <id>",
	Short: "Show the prompt and reply of one LLM event",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("event id %q is not a number", args[0])
		}

		s, err := openStore()
		if err != nil {
			return err
		}
		defer s.Close()

		e, err := s.EventRepo().GetLLMEvent(cmd.Context(), id)
		if err != nil {
			return fmt.Errorf("load event %d: %w", id, err)
		}
		if e == nil {
			return fmt.Errorf("no LLM event with id %d", id)
		}
		writeEvent(os.Stdout, e)
		return nil
	},
}

func writeEvent(w io.Writer, e *store.LLMEvent) {
	result := "ok"
	if !e.Success {
		result = "failed: " + e.Failure
	}
	fmt.Fprintf(w, "#%d  %s  %s\n", e.ID, e.Timestamp.Local().Format(time.DateTime), llm.Purpose(e.Purpose).Title())
	fmt.Fprintf(w, "%s / %s, %d in + %d out tokens, %dms, %s\n",
		e.Provider, e.Model, e.InputTokens, e.OutputTokens, e.LatencyMs, result)
	if e.ErrorMessage != "" {
		fmt.Fprintf(w, "error: %s\n", e.ErrorMessage)
	}
	writeSection(w, "prompt", e.RequestBody)
	writeSection(w, "reply", e.ResponseBody)
}

func writeSection(w io.Writer, title, body string) {
	fmt.Fprintf(w, "\n\u2500\u2500 %s %s\n", title, strings.Repeat("\u2500", 56-len(title)))
	body = strings.TrimRight(body, "\n")
	if body == "" {
		body = "(not captured)"
	}
	fmt.Fprintln(w, body)
}

var llmStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show LLM usage per purpose, failures and estimated cost",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore()
		if err != nil {
			return err
		}
		defer s.Close()

		ctx := cmd.Context()
		repo := s.EventRepo()
		usage, err := repo.LLMUsageByPurpose(ctx)
		if err != nil {
			return fmt.Errorf("query usage: %w", err)
		}
		if len(usage) == 0 {
			fmt.Println("No LLM usage recorded yet.")
			return nil
		}
		failures, err := repo.LLMFailures(ctx)
		if err != nil {
			return fmt.Errorf("query failures: %w", err)
		}
		models, err := repo.LLMUsageByModel(ctx)
		if err != nil {
			return fmt.Errorf("query model usage: %w", err)
		}

		writeUsage(os.Stdout, usage, failures)
		if len(failures) > 0 {
			fmt.Println()
			writeFailures(os.Stdout, failures)
		}
		if len(models) > 0 {
			fmt.Println()
			writeCost(os.Stdout, models)
		}
		return nil
	},
}

// writeUsage prints one row per purpose. Failed counts every call that
// ended without a reply; Skipped is the share of those the open circuit
// breaker turned away before reaching the vendor.
func writeUsage(w io.Writer, usage []store.LLMUsage, failures []store.LLMFailure) {
	failed := map[string]int{}
	skipped := map[string]int{}
	for _, f := range failures {
		failed[f.Purpose] += f.Calls
		if f.Failure == string(llm.FailureShortCircuit) {
			skipped[f.Purpose] += f.Calls
		}
	}

	fmt.Fprintln(w, "Usage by Purpose")
	fmt.Fprintln(w, strings.Repeat("\u2500", 90))
	fmt.Fprintf(w, "%-26s  %6s  %6s  %7s  %9s  %9s  %7s\n",
		"Purpose", "Calls", "Failed", "Skipped", "Input", "Output", "Avg Ms")
	fmt.Fprintln(w, strings.Repeat("\u2500", 90))

	var calls, fails, skips, in, out int
	for _, u := range usage {
		fmt.Fprintf(w, "%-26s  %6d  %6d  %7d  %9d  %9d  %7d\n",
			llm.Purpose(u.Purpose).Title(), u.Calls, failed[u.Purpose], skipped[u.Purpose],
			u.InputTokens, u.OutputTokens, u.AvgLatencyMs)
		calls += u.Calls
		fails += failed[u.Purpose]
		skips += skipped[u.Purpose]
		in += u.InputTokens
		out += u.OutputTokens
	}

	fmt.Fprintln(w, strings.Repeat("\u2500", 90))
	fmt.Fprintf(w, "%-26s  %6d  %6d  %7d  %9d  %9d\n", "TOTAL", calls, fails, skips, in, out)
}

func writeFailures(w io.Writer, failures []store.LLMFailure) {
	fmt.Fprintln(w, "Failures")
	fmt.Fprintln(w, strings.Repeat("\u2500", 50))
	for _, f := range failures {
		fmt.Fprintf(w, "%-26s  %-14s  %6d\n", llm.Purpose(f.Purpose).Title(), f.Failure, f.Calls)
	}
}

func writeCost(w io.Writer, models []store.LLMUsage) {
	fmt.Fprintln(w, "Estimated Cost (USD)")
	fmt.Fprintln(w, strings.Repeat("\u2500", 72))
	fmt.Fprintf(w, "%-32s  %6s  %10s  %10s  %10s\n", "Model", "Calls", "Input", "Output", "Cost")
	fmt.Fprintln(w, strings.Repeat("\u2500", 72))

	var total float64
	var unknown []string
	for _, m := range models {
		cost := llm.LookupCost(m.Model)
		if cost == nil {
			unknown = append(unknown, m.Model)
			fmt.Fprintf(w, "%-32s  %6d  %10d  %10d  %10s\n",
				truncate(m.Model, 32), m.Calls, m.InputTokens, m.OutputTokens, "?")
			continue
		}
		c := cost.Cost(m.InputTokens, m.OutputTokens)
		total += c
		fmt.Fprintf(w, "%-32s  %6d  %10d  %10d  %10s\n",
			truncate(m.Model, 32), m.Calls, m.InputTokens, m.OutputTokens, formatCost(c))
	}

	fmt.Fprintln(w, strings.Repeat("\u2500", 72))
	label := "TOTAL"
	if len(unknown) > 0 {
		label = "TOTAL (partial)"
	}
	fmt.Fprintf(w, "%-32s  %6s  %10s  %10s  %10s\n", label, "", "", "", formatCost(total))
	if len(unknown) > 0 {
		fmt.Fprintf(w, "\nPricing unavailable for: %s\n", strings.Join(unknown, ", "))
	}
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}

func formatCost(usd float64) string {
	if usd < 0.01 {
		return fmt.Sprintf("$%.4f", usd)
	}
	return fmt.Sprintf("$%.2f", usd)
}

func init() {
	llmListCmd.Flags().IntP("limit", "n", 20, "Number of events to show")
	llmListCmd.Flags().StringP("purpose", "p", "", "Filter by purpose (explanation, example)")

	llmCmd.AddCommand(llmListCmd)
	llmCmd.AddCommand(llmViewCmd)
	llmCmd.AddCommand(llmStatsCmd)
}
