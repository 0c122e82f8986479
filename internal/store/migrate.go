package store

import (
	"context"
	"fmt"
	"strings"

	"entgo.io/ent"
	entsql "entgo.io/ent/dialect/sql"
	sqlschema "entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"

	"github.com/abhisek/codequiz/ent/schema"
)

// Table names of the entities in ent/schema.
const (
	usersTable       = "users"
	scoresTable      = "scores"
	quizEventsTable  = "quiz_events"
	llmEventsTable   = "llm_request_events"
	sequenceTable    = "global_sequence"
	primaryKeyColumn = "id"
)

var entities = []struct {
	table  string
	schema ent.Interface
}{
	{usersTable, schema.User{}},
	{scoresTable, schema.Score{}},
	{quizEventsTable, schema.QuizEvent{}},
	{llmEventsTable, schema.LLMRequestEvent{}},
}

// migrate creates or upgrades every entity table.
func migrate(ctx context.Context, drv *entsql.Driver) error {
	tables := make([]*sqlschema.Table, 0, len(entities))
	for _, e := range entities {
		t, err := tableFor(e.table, e.schema)
		if err != nil {
			return err
		}
		tables = append(tables, t)
	}

	m, err := sqlschema.NewMigrate(drv)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}
	return m.Create(ctx, tables...)
}

// tableFor builds the migration table for an ent schema: an auto-increment
// id, then mixin fields, then the schema's own fields and indexes.
func tableFor(name string, s ent.Interface) (*sqlschema.Table, error) {
	t := sqlschema.NewTable(name).
		AddPrimary(&sqlschema.Column{Name: primaryKeyColumn, Type: field.TypeInt, Increment: true})

	var (
		fields  []ent.Field
		indexes []ent.Index
	)
	for _, m := range s.Mixin() {
		fields = append(fields, m.Fields()...)
		indexes = append(indexes, m.Indexes()...)
	}
	fields = append(fields, s.Fields()...)
	indexes = append(indexes, s.Indexes()...)

	for _, f := range fields {
		d := f.Descriptor()
		if d.Err != nil {
			return nil, fmt.Errorf("%s.%s: %w", name, d.Name, d.Err)
		}
		col := &sqlschema.Column{
			Name:     d.Name,
			Type:     d.Info.Type,
			Unique:   d.Unique,
			Nullable: d.Optional || d.Nillable,
			Size:     int64(d.Size),
			Comment:  d.Comment,
		}
		// Func defaults are applied by the repositories on insert.
		switch v := d.Default.(type) {
		case string, bool, int, int64, float64:
			col.Default = v
		}
		t.AddColumn(col)
	}

	for _, ix := range indexes {
		d := ix.Descriptor()
		t.AddIndex(indexName(name, d.Fields), d.Unique, d.Fields)
	}
	return t, nil
}

func indexName(table string, columns []string) string {
	return strings.ReplaceAll(table, "_", "") + "_" + strings.Join(columns, "_")
}
