package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/abhisek/codequiz/internal/quiz"
)

// eventRepo implements EventRepo on top of the global sequence counter.
type eventRepo struct {
	db  *sql.DB
	seq *sequenceCounter
}

var quizEventColumns = []string{
	"sequence", "timestamp", "session_id", "user_id", "action",
	"question_index", "topic", "prompt", "selected", "correct", "score", "combo",
}

func (r *eventRepo) AppendQuizEvent(ctx context.Context, ev quiz.Event) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	query, args := builder.Insert(quizEventsTable).
		Columns(quizEventColumns...).
		Values(seqNum, time.Now().UTC(), ev.SessionID, ev.UserID, string(ev.Action),
			ev.QuestionIndex, ev.Topic, ev.Prompt, ev.Selected, ev.Correct, ev.Score, ev.Combo).
		Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save quiz event: %w", err)
	}
	return nil
}

func (r *eventRepo) QueryQuizEvents(ctx context.Context, opts QueryOpts) ([]QuizEvent, error) {
	sel := builder.Select(quizEventColumns...).
		From(builder.Table(quizEventsTable)).
		OrderBy(entsql.Desc("sequence"))
	if ps := opts.predicates(); len(ps) > 0 {
		sel.Where(entsql.And(ps...))
	}
	if opts.Limit > 0 {
		sel.Limit(opts.Limit)
	}
	query, args := sel.Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query quiz events: %w", err)
	}
	defer rows.Close()

	var out []QuizEvent
	for rows.Next() {
		var (
			e      QuizEvent
			action string
		)
		if err := rows.Scan(&e.Sequence, &e.Timestamp, &e.SessionID, &e.UserID, &action,
			&e.QuestionIndex, &e.Topic, &e.Prompt, &e.Selected, &e.Correct, &e.Score, &e.Combo); err != nil {
			return nil, fmt.Errorf("scan quiz event: %w", err)
		}
		e.Action = quiz.EventAction(action)
		out = append(out, e)
	}
	return out, rows.Err()
}
