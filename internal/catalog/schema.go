package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

const schemaURL = "schema://codequiz/catalog.json"

// TemplateSchema describes one template. Catalog templates and alternates
// share it, as do drafted templates.
var TemplateSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"prompt": map[string]any{"type": "string", "minLength": 1},
		"options": map[string]any{
			"type":     "array",
			"items":    map[string]any{"type": "string", "minLength": 1},
			"minItems": OptionCount,
			"maxItems": OptionCount,
		},
		"answer": map[string]any{"type": "integer", "minimum": 0, "maximum": OptionCount - 1},
		"hint":   map[string]any{"type": "string"},
	},
	"required":             []any{"prompt", "options", "answer", "hint"},
	"additionalProperties": false,
}

// Definition is the JSON schema for catalog files.
var Definition = map[string]any{
	"$schema": "https://json-schema.org/draft/2020-12/schema",
	"type":    "object",
	"properties": map[string]any{
		"version": map[string]any{"type": "string"},
		"topics": map[string]any{
			"type":     "array",
			"minItems": 1,
			"items": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"name":       map[string]any{"type": "string", "minLength": 1},
					"templates":  map[string]any{"type": "array", "minItems": 1, "items": TemplateSchema},
					"alternates": map[string]any{"type": "array", "items": TemplateSchema},
				},
				"required":             []any{"name", "templates"},
				"additionalProperties": false,
			},
		},
	},
	"required":             []any{"version", "topics"},
	"additionalProperties": false,
}

var (
	compileOnce sync.Once
	compiled    *jsonschema.Schema
	compileErr  error
)

func compiledSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		// The compiler wants JSON-decoded values, not Go literals.
		raw, err := json.Marshal(Definition)
		if err != nil {
			compileErr = fmt.Errorf("marshal catalog schema: %w", err)
			return
		}
		def, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
		if err != nil {
			compileErr = fmt.Errorf("parse catalog schema: %w", err)
			return
		}
		c := jsonschema.NewCompiler()
		if err := c.AddResource(schemaURL, def); err != nil {
			compileErr = fmt.Errorf("add catalog schema: %w", err)
			return
		}
		compiled, compileErr = c.Compile(schemaURL)
	})
	return compiled, compileErr
}

func validateSchema(data []byte) error {
	sch, err := compiledSchema()
	if err != nil {
		return err
	}
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("parse catalog: %w", err)
	}
	if err := sch.Validate(doc); err != nil {
		return fmt.Errorf("catalog schema: %w", err)
	}
	return nil
}
