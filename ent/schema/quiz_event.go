package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// QuizEvent records quiz session lifecycle and answer events.
type QuizEvent struct {
	ent.Schema
}

func (QuizEvent) Mixin() []ent.Mixin {
	return []ent.Mixin{EventMixin{}}
}

func (QuizEvent) Fields() []ent.Field {
	return []ent.Field{
		field.String("session_id").
			NotEmpty().
			Comment("UUID grouping events in a session"),
		field.String("user_id").
			Default("").
			Comment("Username, empty for guest sessions"),
		field.String("action").
			NotEmpty().
			Comment("start, answer, timeout or end"),
		field.Int("question_index").
			Default(0),
		field.String("topic").
			Default(""),
		field.String("prompt").
			Default("").
			Comment("Prompt as shown, including variation markers"),
		field.Int("selected").
			Default(-1).
			Comment("Chosen option index, -1 when none"),
		field.Bool("correct").
			Default(false),
		field.Int("score").
			Default(0).
			Comment("Running score after the event"),
		field.Int("combo").
			Default(0).
			Comment("Running combo after the event"),
	}
}

func (QuizEvent) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("session_id"),
		index.Fields("user_id"),
		index.Fields("action"),
	}
}
