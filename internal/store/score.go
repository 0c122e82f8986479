package store

import (
	"context"
	"database/sql"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/abhisek/codequiz/internal/quiz"
)

// ScoreRepo stores completed quiz records. It implements quiz.ScoreRepo.
type ScoreRepo struct {
	db *sql.DB
}

var _ quiz.ScoreRepo = (*ScoreRepo)(nil)

var scoreColumns = []string{
	"user_id", "session_id", "score", "total", "max_combo", "percentage", "completed_at",
}

// Save appends rec under userID. Saving the same session twice is a no-op,
// so retries after an ambiguous failure are safe.
func (r *ScoreRepo) Save(ctx context.Context, userID string, rec quiz.ScoreRecord) error {
	if userID == "" {
		return fmt.Errorf("save score: empty user id")
	}
	query, args := builder.Insert(scoresTable).
		Columns(scoreColumns...).
		Values(userID, rec.SessionID, rec.Score, rec.Total, rec.MaxCombo, rec.Percentage, rec.CompletedAt.UTC()).
		OnConflict(entsql.ConflictColumns("session_id"), entsql.DoNothing()).
		Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save score: %w", err)
	}
	return nil
}

// ListByUser returns the user's records, most recent first.
func (r *ScoreRepo) ListByUser(ctx context.Context, userID string) ([]quiz.ScoreRecord, error) {
	query, args := builder.Select(scoreColumns...).
		From(builder.Table(scoresTable)).
		Where(entsql.EQ("user_id", userID)).
		OrderBy(entsql.Desc("completed_at"), entsql.Desc(primaryKeyColumn)).
		Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list scores: %w", err)
	}
	defer rows.Close()

	var out []quiz.ScoreRecord
	for rows.Next() {
		var rec quiz.ScoreRecord
		if err := rows.Scan(&rec.UserID, &rec.SessionID, &rec.Score, &rec.Total,
			&rec.MaxCombo, &rec.Percentage, &rec.CompletedAt); err != nil {
			return nil, fmt.Errorf("scan score: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
