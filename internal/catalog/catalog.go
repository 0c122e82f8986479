// Package catalog holds the fixed bank of quiz question templates grouped by
// topic. The runtime catalog is loaded once at startup and never mutated;
// authoring tools build new catalogs with Merge and write them back with Save.
package catalog

import (
	_ "embed"
	"fmt"
	"slices"
)

// OptionCount is the number of answer options every template carries.
const OptionCount = 4

// Template is a single multiple-choice question.
type Template struct {
	Prompt  string   `json:"prompt"`
	Options []string `json:"options"`
	Answer  int      `json:"answer"` // index into Options
	Hint    string   `json:"hint"`
}

// CorrectText returns the text of the correct option.
func (t Template) CorrectText() string {
	if t.Answer < 0 || t.Answer >= len(t.Options) {
		return ""
	}
	return t.Options[t.Answer]
}

// Clone returns a deep copy so callers can reorder options freely.
func (t Template) Clone() Template {
	t.Options = slices.Clone(t.Options)
	return t
}

// Topic groups templates under a display name.
type Topic struct {
	Name      string     `json:"name"`
	Templates []Template `json:"templates"`

	// Alternates are alternate phrasings that may replace any template of
	// this topic when a question is generated.
	Alternates []Template `json:"alternates,omitempty"`
}

// Catalog is a versioned set of topics.
type Catalog struct {
	Version string  `json:"version"`
	Topics  []Topic `json:"topics"`
}

// Entry is a template paired with the topic it belongs to.
type Entry struct {
	Topic    *Topic
	Template Template
}

//go:embed default.json
var defaultJSON []byte

var defaultCatalog *Catalog

func init() {
	c, err := Parse(defaultJSON)
	if err != nil {
		panic(fmt.Sprintf("catalog: embedded default is invalid: %v", err))
	}
	defaultCatalog = c
}

// Default returns the built-in catalog.
func Default() *Catalog {
	return defaultCatalog
}

// Templates returns every template flattened in catalog order.
func (c *Catalog) Templates() []Entry {
	var out []Entry
	for i := range c.Topics {
		for _, t := range c.Topics[i].Templates {
			out = append(out, Entry{Topic: &c.Topics[i], Template: t})
		}
	}
	return out
}

// Size returns the total number of templates.
func (c *Catalog) Size() int {
	n := 0
	for _, t := range c.Topics {
		n += len(t.Templates)
	}
	return n
}

// TopicNames returns topic names in catalog order.
func (c *Catalog) TopicNames() []string {
	names := make([]string, 0, len(c.Topics))
	for _, t := range c.Topics {
		names = append(names, t.Name)
	}
	return names
}

// Topic returns the topic with the given name.
func (c *Catalog) Topic(name string) (*Topic, bool) {
	for i := range c.Topics {
		if c.Topics[i].Name == name {
			return &c.Topics[i], true
		}
	}
	return nil, false
}

// Clone returns a deep copy of the catalog.
func (c *Catalog) Clone() *Catalog {
	out := &Catalog{Version: c.Version, Topics: make([]Topic, len(c.Topics))}
	for i, t := range c.Topics {
		nt := Topic{Name: t.Name}
		for _, tmpl := range t.Templates {
			nt.Templates = append(nt.Templates, tmpl.Clone())
		}
		for _, tmpl := range t.Alternates {
			nt.Alternates = append(nt.Alternates, tmpl.Clone())
		}
		out.Topics[i] = nt
	}
	return out
}

// Merge returns a copy of c with drafts appended to the named topic, creating
// the topic at the end if it does not exist. The result is validated.
func (c *Catalog) Merge(topic string, drafts []Template) (*Catalog, error) {
	out := c.Clone()
	t, ok := out.Topic(topic)
	if !ok {
		out.Topics = append(out.Topics, Topic{Name: topic})
		t = &out.Topics[len(out.Topics)-1]
	}
	for _, d := range drafts {
		t.Templates = append(t.Templates, d.Clone())
	}
	if err := Validate(out); err != nil {
		return nil, err
	}
	return out, nil
}
