package authoring

import (
	"github.com/abhisek/codequiz/internal/catalog"
	"github.com/abhisek/codequiz/internal/llm"
)

// DraftSchema is the response shape for a batch of drafted templates.
var DraftSchema = &llm.Schema{
	Name:        "codequiz-template-drafts",
	Description: "New multiple-choice programming quiz questions for one topic",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"templates": map[string]any{
				"type":     "array",
				"minItems": 1,
				"items":    catalog.TemplateSchema,
			},
		},
		"required":             []any{"templates"},
		"additionalProperties": false,
	},
}

type draftOutput struct {
	Templates []catalog.Template `json:"templates"`
}
