package cmd

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/slovo/internal/store"
)

func TestWriteUsageSplitsPurposes(t *testing.T) {
	usage := []store.LLMUsage{
		{Purpose: "example", Calls: 4, InputTokens: 400, OutputTokens: 80, AvgLatencyMs: 350},
		{Purpose: "explanation", Calls: 6, InputTokens: 900, OutputTokens: 300, AvgLatencyMs: 800},
	}
	failures := []store.LLMFailure{
		{Purpose: "explanation", Failure: "short_circuit", Calls: 2},
		{Purpose: "explanation", Failure: "timeout", Calls: 1},
		{Purpose: "example", Failure: "malformed", Calls: 1},
	}

	var buf bytes.Buffer
	writeUsage(&buf, usage, failures)
	lines := strings.Split(buf.String(), "\n")

	row := func(prefix string) []string {
		for _, l := range lines {
			if strings.HasPrefix(l, prefix) {
				return strings.Fields(strings.TrimPrefix(l, prefix))
			}
		}
		t.Fatalf("no row %q in:\n%s", prefix, buf.String())
		return nil
	}
	assert.Equal(t, []string{"6", "3", "2", "900", "300", "800"}, row("wrong-answer explanations"))
	assert.Equal(t, []string{"4", "1", "0", "400", "80", "350"}, row("example sentences"))
	assert.Equal(t, []string{"10", "4", "2", "1300", "380"}, row("TOTAL"))
}

func TestWriteFailures(t *testing.T) {
	var buf bytes.Buffer
	writeFailures(&buf, []store.LLMFailure{{Purpose: "explanation", Failure: "short_circuit", Calls: 2}})
	assert.Contains(t, buf.String(), "wrong-answer explanations")
	assert.Contains(t, buf.String(), "short_circuit")
}

func TestWriteCostMarksUnknownModels(t *testing.T) {
	var buf bytes.Buffer
	writeCost(&buf, []store.LLMUsage{
		{Model: "gpt-4o-mini", Calls: 2, InputTokens: 1_000_000, OutputTokens: 1_000_000},
		{Model: "home-made", Calls: 1},
	})
	out := buf.String()
	assert.Contains(t, out, "$0.75")
	assert.Contains(t, out, "TOTAL (partial)")
	assert.Contains(t, out, "Pricing unavailable for: home-made")
}

func TestWriteEventsShowsFailureKind(t *testing.T) {
	ts := time.Date(2026, 3, 1, 12, 0, 0, 0, time.Local)
	var buf bytes.Buffer
	writeEvents(&buf, []store.LLMEvent{
		{ID: 2, Timestamp: ts, LLMRequestEventData: store.LLMRequestEventData{Purpose: "example", Model: "gpt-4o-mini", Failure: "short_circuit"}},
		{ID: 1, Timestamp: ts, LLMRequestEventData: store.LLMRequestEventData{Purpose: "explanation", Model: "gpt-4o-mini", Success: true}},
	})
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 4)
	assert.True(t, strings.HasSuffix(lines[2], "short_circuit"), lines[2])
	assert.True(t, strings.HasSuffix(lines[3], "ok"), lines[3])
}

func TestWriteEvent(t *testing.T) {
	e := &store.LLMEvent{
		ID:        7,
		Timestamp: time.Date(2026, 3, 1, 12, 0, 0, 0, time.Local),
		LLMRequestEventData: store.LLMRequestEventData{
			Provider: "openai", Model: "gpt-4o-mini", Purpose: "explanation",
			Failure: "truncated", ErrorMessage: "openai: reply cut off at the token limit",
			RequestBody: "[user]\nПоясни наголос.\n\n",
		},
	}
	var buf bytes.Buffer
	writeEvent(&buf, e)
	out := buf.String()

	assert.True(t, strings.HasPrefix(out, "#7  2026-03-01 12:00:00  wrong-answer explanations\n"), out)
	assert.Contains(t, out, "openai / gpt-4o-mini, 0 in + 0 out tokens, 0ms, failed: truncated\n")
	assert.Contains(t, out, "error: openai: reply cut off at the token limit\n")
	assert.Contains(t, out, "[user]\nПоясни наголос.\n\n── reply")
	assert.True(t, strings.HasSuffix(out, "(not captured)\n"), out)
}
