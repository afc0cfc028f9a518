package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/google/uuid"
)

type resultRepo struct {
	db      *sql.DB
	dialect string
}

func (r *resultRepo) Record(ctx context.Context, res QuizResult) error {
	if res.ID == uuid.Nil {
		res.ID = uuid.New()
	}
	if res.FinishedAt.IsZero() {
		res.FinishedAt = time.Now()
	}

	query, args := entsql.Dialect(r.dialect).
		Insert(QuizResultsTable.Name).
		Columns("id", "conversation_id", "kind", "score", "total", "finished_at").
		Values(res.ID.String(), res.ConversationID, res.Kind, res.Score, res.Total, res.FinishedAt.UTC()).
		Query()

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("record quiz result: %w", err)
	}
	return nil
}

func (r *resultRepo) Summary(ctx context.Context, conversationID string) ([]KindSummary, error) {
	sel := entsql.Dialect(r.dialect).
		Select(
			"kind",
			entsql.As(entsql.Count("*"), "games"),
			entsql.As(entsql.Sum("score"), "score"),
			entsql.As(entsql.Sum("total"), "total"),
		).
		From(entsql.Table(QuizResultsTable.Name)).
		GroupBy("kind").
		OrderBy("kind")
	if conversationID != "" {
		sel = sel.Where(entsql.EQ("conversation_id", conversationID))
	}
	query, args := sel.Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query result summary: %w", err)
	}
	defer rows.Close()

	var out []KindSummary
	for rows.Next() {
		var k KindSummary
		if err := rows.Scan(&k.Kind, &k.Games, &k.Score, &k.Total); err != nil {
			return nil, fmt.Errorf("scan result summary: %w", err)
		}
		out = append(out, k)
	}
	return out, rows.Err()
}
