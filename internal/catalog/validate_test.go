package catalog

import (
	"errors"
	"strings"
	"testing"
)

func validTemplate(prompt string) Template {
	return Template{Prompt: prompt, Options: []string{"a", "b", "c", "d"}, Answer: 0, Hint: "h"}
}

func TestValidate_Default(t *testing.T) {
	if err := Validate(Default()); err != nil {
		t.Fatalf("default catalog invalid: %v", err)
	}
}

func TestValidate_Empty(t *testing.T) {
	for _, c := range []*Catalog{nil, {Version: "v1.0.0"}, {Version: "v1.0.0", Topics: []Topic{{Name: "A"}}}} {
		if err := Validate(c); !errors.Is(err, ErrEmptyCatalog) {
			t.Errorf("got %v, want ErrEmptyCatalog", err)
		}
	}
}

func TestValidate_Problems(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Catalog)
		want   string
	}{
		{"bad version", func(c *Catalog) { c.Version = "1.0" }, "invalid version"},
		{"wrong major", func(c *Catalog) { c.Version = "v2.0.0" }, "unsupported version"},
		{"empty topic name", func(c *Catalog) { c.Topics[0].Name = " " }, "empty name"},
		{"duplicate topic", func(c *Catalog) { c.Topics[1].Name = "A" }, "duplicate topic"},
		{"topic without templates", func(c *Catalog) { c.Topics[1].Templates = nil }, "has no templates"},
		{"empty prompt", func(c *Catalog) { c.Topics[0].Templates[0].Prompt = "" }, "empty prompt"},
		{"option count", func(c *Catalog) { c.Topics[0].Templates[0].Options = []string{"a", "b"} }, "has 2 options"},
		{"empty option", func(c *Catalog) { c.Topics[0].Templates[0].Options[2] = "" }, "option 2 is empty"},
		{"duplicate option", func(c *Catalog) { c.Topics[0].Templates[0].Options[1] = "a" }, "duplicate option"},
		{"answer out of range", func(c *Catalog) { c.Topics[0].Templates[0].Answer = 7 }, "out of range"},
		{"duplicate prompt", func(c *Catalog) { c.Topics[1].Templates[0].Prompt = "p1" }, "already used"},
		{"duplicate alternate prompt", func(c *Catalog) { c.Topics[0].Alternates = []Template{validTemplate("p2")} }, "already used"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &Catalog{Version: "v1.0.0", Topics: []Topic{
				{Name: "A", Templates: []Template{validTemplate("p1")}},
				{Name: "B", Templates: []Template{validTemplate("p2")}},
			}}
			tt.mutate(c)
			err := Validate(c)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestValidate_CollectsAllErrors(t *testing.T) {
	c := &Catalog{Version: "bogus", Topics: []Topic{
		{Name: "A", Templates: []Template{{Prompt: "", Options: []string{"x"}, Answer: 3}}},
	}}
	err := Validate(c)
	if err == nil {
		t.Fatal("expected error")
	}
	for _, want := range []string{"invalid version", "empty prompt", "has 1 options", "out of range"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error missing %q: %v", want, err)
		}
	}
}

func TestValidateTemplate(t *testing.T) {
	if err := ValidateTemplate(validTemplate("ok")); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := ValidateTemplate(Template{Prompt: "x"}); err == nil {
		t.Error("expected error for template without options")
	}
}
