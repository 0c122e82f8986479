// Package questiongen turns catalog templates into quiz questions, avoiding
// repeats until every template has been used once.
package questiongen

import (
	"math/rand/v2"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/codequiz/internal/catalog"
)

// minShuffleOptions is the smallest option count eligible for the shuffled
// variation.
const minShuffleOptions = 4

// ErrEmptyCatalog is returned by New when the catalog has no templates.
var ErrEmptyCatalog = catalog.ErrEmptyCatalog

// Option configures a Generator.
type Option func(*Generator)

// WithRand sets the random source used for picks and shuffles.
func WithRand(r *rand.Rand) Option {
	return func(g *Generator) { g.rng = r }
}

// WithIDFunc sets the function that assigns question IDs.
func WithIDFunc(f func() string) Option {
	return func(g *Generator) { g.newID = f }
}

// Generator produces questions from a catalog. Each Generator owns its own
// used set; two generators over one catalog do not affect each other.
type Generator struct {
	mu      sync.Mutex
	entries []catalog.Entry
	used    map[string]struct{}
	rng     *rand.Rand
	newID   func() string
}

// New creates a Generator over a validated catalog.
func New(c *catalog.Catalog, opts ...Option) (*Generator, error) {
	if c == nil || c.Size() == 0 {
		return nil, ErrEmptyCatalog
	}
	if err := catalog.Validate(c); err != nil {
		return nil, err
	}

	now := uint64(time.Now().UnixNano())
	g := &Generator{
		entries: c.Clone().Templates(),
		used:    make(map[string]struct{}),
		rng:     rand.New(rand.NewPCG(now, now>>1|1)),
		newID:   newID,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

func newID() string {
	if id, err := uuid.NewV7(); err == nil {
		return id.String()
	}
	return uuid.NewString()
}

// Generate returns one question. Templates already used are skipped; once
// every template has been used the used set is cleared and all templates
// become eligible again.
func (g *Generator) Generate() Question {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.generateLocked()
}

// GenerateUnique returns count questions. Questions are distinct by template
// unless count exceeds the catalog size, in which case the used set resets
// mid-batch and repeats follow.
func (g *Generator) GenerateUnique(count int) []Question {
	g.mu.Lock()
	defer g.mu.Unlock()

	out := make([]Question, 0, max(count, 0))
	for range count {
		out = append(out, g.generateLocked())
	}
	return out
}

func (g *Generator) generateLocked() Question {
	available := g.availableLocked()
	if len(available) == 0 {
		clear(g.used)
		available = g.availableLocked()
	}

	entry := available[g.rng.IntN(len(available))]
	tmpl := entry.Template

	variations := g.variations(entry)
	q := variations[g.rng.IntN(len(variations))]

	g.used[tmpl.Prompt] = struct{}{}

	q.ID = g.newID()
	q.Topic = entry.Topic.Name
	q.SourcePrompt = tmpl.Prompt
	return q
}

func (g *Generator) availableLocked() []catalog.Entry {
	var out []catalog.Entry
	for _, e := range g.entries {
		if _, ok := g.used[e.Template.Prompt]; !ok {
			out = append(out, e)
		}
	}
	return out
}

// variations builds every candidate question for a template.
func (g *Generator) variations(e catalog.Entry) []Question {
	tmpl := e.Template
	out := []Question{fromTemplate(tmpl, Original)}

	if len(tmpl.Options) >= minShuffleOptions {
		opts, answer := shuffleOptions(g.rng, tmpl.Options, tmpl.Answer)
		out = append(out, Question{
			Prompt:    tmpl.Prompt + ShuffleMarker,
			Options:   opts,
			Answer:    answer,
			Hint:      tmpl.Hint,
			Variation: Shuffled,
		})
	}

	for _, alt := range e.Topic.Alternates {
		out = append(out, fromTemplate(alt, Alternate))
	}
	return out
}

func fromTemplate(t catalog.Template, v Variation) Question {
	t = t.Clone()
	return Question{
		Prompt:    t.Prompt,
		Options:   t.Options,
		Answer:    t.Answer,
		Hint:      t.Hint,
		Variation: v,
	}
}

// Used returns how many templates are currently in the used set.
func (g *Generator) Used() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.used)
}

// Available returns how many templates can be drawn before the next reset.
func (g *Generator) Available() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.availableLocked())
}

// Size returns the number of templates the generator draws from.
func (g *Generator) Size() int {
	return len(g.entries)
}

// Reset clears the used set.
func (g *Generator) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	clear(g.used)
}

