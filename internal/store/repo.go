package store

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit   int       // max results (0 = unlimited)
	After   int       // id > After
	Before  int       // id < Before
	From    time.Time // timestamp >= From
	To      time.Time // timestamp <= To
	Purpose string    // exact purpose match when set
}

// DialogueRepo persists one opaque dialogue state per conversation.
type DialogueRepo interface {
	// Load returns the stored state, or nil if the conversation has none.
	Load(ctx context.Context, conversationID string) ([]byte, error)

	// Save replaces the stored state.
	Save(ctx context.Context, conversationID string, state []byte) error

	// Delete forgets the conversation. Deleting an unknown one is not an error.
	Delete(ctx context.Context, conversationID string) error
}

// QuizResult is a finished quiz.
type QuizResult struct {
	ID             uuid.UUID
	ConversationID string
	Kind           string
	Score          int
	Total          int
	FinishedAt     time.Time
}

// KindSummary aggregates results for one quiz kind.
type KindSummary struct {
	Kind  string
	Games int
	Score int
	Total int
}

// Accuracy returns Score/Total, or 0 when nothing was asked.
func (k KindSummary) Accuracy() float64 {
	if k.Total == 0 {
		return 0
	}
	return float64(k.Score) / float64(k.Total)
}

// ResultRepo records finished quizzes.
type ResultRepo interface {
	// Record stores r, assigning an ID and FinishedAt when they are zero.
	Record(ctx context.Context, r QuizResult) error

	// Summary aggregates results per kind, optionally for one conversation.
	Summary(ctx context.Context, conversationID string) ([]KindSummary, error)
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	// Failure classifies an unsuccessful call, e.g. "timeout" or
	// "short_circuit". Empty on success.
	Failure      string
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// LLMEvent is a stored LLMRequestEventData.
type LLMEvent struct {
	ID        int
	Timestamp time.Time
	LLMRequestEventData
}

// LLMUsage aggregates calls for one purpose or model.
type LLMUsage struct {
	Purpose      string
	Model        string
	Calls        int
	InputTokens  int
	OutputTokens int
	AvgLatencyMs int64
}

// LLMFailure counts failed calls of one failure kind for one purpose.
type LLMFailure struct {
	Purpose string
	Failure string
	Calls   int
}

// EventRepo provides append and query access to LLM events.
type EventRepo interface {
	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	// QueryLLMEvents returns events newest first.
	QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMEvent, error)

	// GetLLMEvent returns one event, or nil if it does not exist.
	GetLLMEvent(ctx context.Context, id int) (*LLMEvent, error)

	LLMUsageByPurpose(ctx context.Context) ([]LLMUsage, error)
	LLMUsageByModel(ctx context.Context) ([]LLMUsage, error)

	// LLMFailures counts failed calls per purpose and failure kind.
	LLMFailures(ctx context.Context) ([]LLMFailure, error)
}
