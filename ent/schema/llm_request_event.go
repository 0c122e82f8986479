package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// LLMRequestEvent is one provider call made by `codequiz catalog draft`.
// `codequiz events usage` prices these rows per model.
type LLMRequestEvent struct {
	ent.Schema
}

func (LLMRequestEvent) Mixin() []ent.Mixin {
	return []ent.Mixin{EventMixin{}}
}

func (LLMRequestEvent) Fields() []ent.Field {
	return []ent.Field{
		field.String("provider").
			Comment("CODEQUIZ_LLM_PROVIDER value that served the call"),
		field.String("model").
			Comment("Model the provider reported, looked up in the price table"),
		field.String("purpose").
			Comment("Caller tag from llm.WithPurpose; drafts use catalog-draft"),
		field.Int("input_tokens").
			Default(0).
			Comment("Prompt tokens, including the existing-question list"),
		field.Int("output_tokens").
			Default(0).
			Comment("Tokens of the drafted templates JSON"),
		field.Int64("latency_ms").
			Default(0).
			Comment("Duration of this attempt; every retry logs its own row"),
		field.Bool("success").
			Comment("False for transport errors and schema-invalid drafts"),
		field.String("error_message").
			Default("").
			Comment("Error text shown by `codequiz events llm`"),
	}
}

func (LLMRequestEvent) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("provider"),
		index.Fields("purpose"),
		index.Fields("success"),
	}
}
