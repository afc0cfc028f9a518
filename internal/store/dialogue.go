package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

type dialogueRepo struct {
	db      *sql.DB
	dialect string
}

func (r *dialogueRepo) Load(ctx context.Context, conversationID string) ([]byte, error) {
	query, args := entsql.Dialect(r.dialect).
		Select("state").
		From(entsql.Table(DialoguesTable.Name)).
		Where(entsql.EQ("conversation_id", conversationID)).
		Query()

	var state string
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&state)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load dialogue %q: %w", conversationID, err)
	}
	return []byte(state), nil
}

func (r *dialogueRepo) Save(ctx context.Context, conversationID string, state []byte) error {
	query, args := entsql.Dialect(r.dialect).
		Insert(DialoguesTable.Name).
		Columns("conversation_id", "state", "updated_at").
		Values(conversationID, string(state), time.Now().UTC()).
		OnConflict(
			entsql.ConflictColumns("conversation_id"),
			entsql.ResolveWithNewValues(),
		).
		Query()

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save dialogue %q: %w", conversationID, err)
	}
	return nil
}

func (r *dialogueRepo) Delete(ctx context.Context, conversationID string) error {
	query, args := entsql.Dialect(r.dialect).
		Delete(DialoguesTable.Name).
		Where(entsql.EQ("conversation_id", conversationID)).
		Query()

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("delete dialogue %q: %w", conversationID, err)
	}
	return nil
}
