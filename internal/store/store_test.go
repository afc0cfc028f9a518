package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(DriverSQLite, ":memory:")
	require.NoError(t, err, "open test store")
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpenUnknownDriver(t *testing.T) {
	_, err := Open("mysql", "whatever")
	assert.Error(t, err)
}

func TestPragmasApplied(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	tests := []struct {
		pragma string
		want   string
	}{
		// WAL falls back to "memory" for in-memory databases.
		{"foreign_keys", "1"},
		{"synchronous", "1"}, // NORMAL = 1
		{"busy_timeout", "5000"},
	}

	for _, tt := range tests {
		var got string
		err := db.QueryRow("PRAGMA " + tt.pragma).Scan(&got)
		if assert.NoError(t, err, "PRAGMA %s", tt.pragma) {
			assert.Equal(t, tt.want, got, "PRAGMA %s", tt.pragma)
		}
	}
}

func TestAutoMigrationCreatesTables(t *testing.T) {
	s := openTestStore(t)

	for _, table := range Tables {
		var name string
		err := s.DB().QueryRow(
			"SELECT name FROM sqlite_master WHERE type='table' AND name=?", table.Name,
		).Scan(&name)
		require.NoError(t, err, "table %s", table.Name)
		assert.Equal(t, table.Name, name)
	}
}

func TestMigrationIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "slovo.db")

	s, err := Open(DriverSQLite, path)
	require.NoError(t, err)
	require.NoError(t, s.DialogueRepo().Save(context.Background(), "42", []byte(`{"state":"awaiting_name"}`)))
	require.NoError(t, s.Close())

	s, err = Open(DriverSQLite, path)
	require.NoError(t, err)
	defer s.Close()

	got, err := s.DialogueRepo().Load(context.Background(), "42")
	require.NoError(t, err)
	assert.JSONEq(t, `{"state":"awaiting_name"}`, string(got))
}

func TestDialogueRepo(t *testing.T) {
	s := openTestStore(t)
	repo := s.DialogueRepo()
	ctx := context.Background()

	got, err := repo.Load(ctx, "100")
	require.NoError(t, err)
	assert.Nil(t, got, "unknown conversation has no state")

	require.NoError(t, repo.Save(ctx, "100", []byte(`{"state":"awaiting_name"}`)))
	require.NoError(t, repo.Save(ctx, "100", []byte(`{"state":"awaiting_game_choice"}`)))
	require.NoError(t, repo.Save(ctx, "200", []byte(`{"state":"start"}`)))

	got, err = repo.Load(ctx, "100")
	require.NoError(t, err)
	assert.JSONEq(t, `{"state":"awaiting_game_choice"}`, string(got), "save overwrites")

	require.NoError(t, repo.Delete(ctx, "100"))
	require.NoError(t, repo.Delete(ctx, "100"), "deleting twice is fine")

	got, err = repo.Load(ctx, "100")
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = repo.Load(ctx, "200")
	require.NoError(t, err)
	assert.JSONEq(t, `{"state":"start"}`, string(got), "other conversations untouched")
}

func TestResultRepo(t *testing.T) {
	s := openTestStore(t)
	repo := s.ResultRepo()
	ctx := context.Background()

	results := []QuizResult{
		{ConversationID: "1", Kind: "stress", Score: 4, Total: 5},
		{ConversationID: "1", Kind: "stress", Score: 10, Total: 10},
		{ConversationID: "1", Kind: "declension", Score: 1, Total: 5},
		{ConversationID: "2", Kind: "stress", Score: 0, Total: 5, ID: uuid.New(), FinishedAt: time.Now().Add(-time.Hour)},
	}
	for _, r := range results {
		require.NoError(t, repo.Record(ctx, r))
	}

	all, err := repo.Summary(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, []KindSummary{
		{Kind: "declension", Games: 1, Score: 1, Total: 5},
		{Kind: "stress", Games: 3, Score: 14, Total: 20},
	}, all)

	mine, err := repo.Summary(ctx, "1")
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, KindSummary{Kind: "stress", Games: 2, Score: 14, Total: 15}, mine[1])
	assert.InDelta(t, 14.0/15.0, mine[1].Accuracy(), 1e-9)

	none, err := repo.Summary(ctx, "nobody")
	require.NoError(t, err)
	assert.Empty(t, none)
	assert.Zero(t, KindSummary{}.Accuracy())
}

func TestEventRepo(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	events := []LLMRequestEventData{
		{Provider: "openai", Model: "gpt-4o-mini", Purpose: "explanation", InputTokens: 100, OutputTokens: 20, LatencyMs: 300, Success: true,
			RequestBody: "[user]\nпоясни", ResponseBody: `{"text":"так"}`},
		{Provider: "openai", Model: "gpt-4o-mini", Purpose: "example", InputTokens: 50, OutputTokens: 10, LatencyMs: 100, Success: true},
		{Provider: "openai", Model: "gpt-4o", Purpose: "explanation", InputTokens: 10, LatencyMs: 500, Failure: "timeout", ErrorMessage: "context deadline exceeded"},
		{Provider: "openai", Model: "gpt-4o", Purpose: "explanation", Failure: "short_circuit", ErrorMessage: "circuit open"},
	}
	for _, e := range events {
		require.NoError(t, repo.AppendLLMRequest(ctx, e))
	}

	got, err := repo.QueryLLMEvents(ctx, QueryOpts{})
	require.NoError(t, err)
	require.Len(t, got, 4)
	assert.Equal(t, 4, got[0].ID, "newest first")
	assert.False(t, got[0].Success)
	assert.Equal(t, "short_circuit", got[0].Failure)
	assert.Equal(t, "timeout", got[1].Failure)
	assert.Equal(t, "context deadline exceeded", got[1].ErrorMessage)
	assert.WithinDuration(t, time.Now(), got[0].Timestamp, time.Minute)

	limited, err := repo.QueryLLMEvents(ctx, QueryOpts{Limit: 1, Purpose: "explanation", Before: 3})
	require.NoError(t, err)
	require.Len(t, limited, 1)
	assert.Equal(t, 1, limited[0].ID)

	after, err := repo.QueryLLMEvents(ctx, QueryOpts{After: 1, From: time.Now().Add(-time.Hour)})
	require.NoError(t, err)
	assert.Len(t, after, 3)

	one, err := repo.GetLLMEvent(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, one)
	assert.Equal(t, "[user]\nпоясни", one.RequestBody)
	assert.Equal(t, `{"text":"так"}`, one.ResponseBody)

	missing, err := repo.GetLLMEvent(ctx, 99)
	require.NoError(t, err)
	assert.Nil(t, missing)

	byPurpose, err := repo.LLMUsageByPurpose(ctx)
	require.NoError(t, err)
	assert.Equal(t, []LLMUsage{
		{Purpose: "example", Calls: 1, InputTokens: 50, OutputTokens: 10, AvgLatencyMs: 100},
		{Purpose: "explanation", Calls: 3, InputTokens: 110, OutputTokens: 20, AvgLatencyMs: 266},
	}, byPurpose)

	failures, err := repo.LLMFailures(ctx)
	require.NoError(t, err)
	assert.Equal(t, []LLMFailure{
		{Purpose: "explanation", Failure: "short_circuit", Calls: 1},
		{Purpose: "explanation", Failure: "timeout", Calls: 1},
	}, failures)

	byModel, err := repo.LLMUsageByModel(ctx)
	require.NoError(t, err)
	require.Len(t, byModel, 2)
	assert.Equal(t, "gpt-4o", byModel[0].Model)
	assert.Equal(t, 2, byModel[0].Calls)
	assert.Equal(t, 2, byModel[1].Calls)
}

func TestDefaultDBPath(t *testing.T) {
	dir := t.TempDir()

	t.Setenv("SLOVO_DB", filepath.Join(dir, "custom", "x.db"))
	p, err := DefaultDBPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "custom", "x.db"), p)
	_, err = os.Stat(filepath.Join(dir, "custom"))
	assert.NoError(t, err, "parent directory is created")

	t.Setenv("SLOVO_DB", "")
	t.Setenv("XDG_DATA_HOME", dir)
	p, err = DefaultDBPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "slovo", "slovo.db"), p)
}

func TestPostgres(t *testing.T) {
	dsn := os.Getenv("SLOVO_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("SLOVO_TEST_POSTGRES_DSN not set")
	}
	s, err := Open(DriverPostgres, dsn)
	require.NoError(t, err)
	defer s.Close()

	ctx := context.Background()
	conv := "pg-" + uuid.NewString()
	repo := s.DialogueRepo()
	require.NoError(t, repo.Save(ctx, conv, []byte(`{"state":"start"}`)))
	require.NoError(t, repo.Save(ctx, conv, []byte(`{"state":"awaiting_name"}`)))
	got, err := repo.Load(ctx, conv)
	require.NoError(t, err)
	assert.JSONEq(t, `{"state":"awaiting_name"}`, string(got))
	require.NoError(t, repo.Delete(ctx, conv))

	require.NoError(t, s.ResultRepo().Record(ctx, QuizResult{ConversationID: conv, Kind: "stress", Score: 1, Total: 2}))
	sum, err := s.ResultRepo().Summary(ctx, conv)
	require.NoError(t, err)
	assert.Equal(t, []KindSummary{{Kind: "stress", Games: 1, Score: 1, Total: 2}}, sum)
}
