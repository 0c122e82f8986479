package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// Score holds one completed quiz session per row. Rows are append-only.
type Score struct {
	ent.Schema
}

func (Score) Fields() []ent.Field {
	return []ent.Field{
		field.String("user_id").
			NotEmpty().
			Comment("Username of the player"),
		field.String("session_id").
			Unique().
			Comment("Session that produced the record"),
		field.Int("score"),
		field.Int("total").
			Comment("Questions in the session"),
		field.Int("max_combo"),
		field.Int("percentage").
			Comment("Rounded score/total*100"),
		field.Time("completed_at").
			Comment("UTC completion time"),
	}
}

func (Score) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("user_id", "completed_at"),
	}
}
