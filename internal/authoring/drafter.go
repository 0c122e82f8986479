// Package authoring drafts new catalog templates with a language model.
// Drafts are offline input for the catalog file; quizzes themselves only
// ever play templates from a loaded catalog.
package authoring

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"unicode"

	"github.com/abhisek/codequiz/internal/catalog"
	"github.com/abhisek/codequiz/internal/llm"
)

// Purpose labels drafting requests in the LLM event log.
const Purpose = "catalog-draft"

// Config tunes drafting requests.
type Config struct {
	MaxTokens   int
	Temperature float64

	// MaxExisting caps how many existing prompts are listed for the model
	// to avoid.
	MaxExisting int

	// MaxCount caps a single Draft call.
	MaxCount int
}

// DefaultConfig returns the standard drafting settings.
func DefaultConfig() Config {
	return Config{
		MaxTokens:   2048,
		Temperature: 0.8,
		MaxExisting: 40,
		MaxCount:    10,
	}
}

// Rejection is a drafted template that was dropped.
type Rejection struct {
	Template catalog.Template
	Reason   string
}

// Result holds the outcome of one Draft call.
type Result struct {
	Topic    string
	Accepted []catalog.Template
	Rejected []Rejection
}

// Drafter asks a provider for new templates and filters them against a
// catalog.
type Drafter struct {
	provider llm.Provider
	catalog  *catalog.Catalog
	config   Config
	log      *slog.Logger
}

// NewDrafter creates a Drafter that avoids the prompts already in c.
func NewDrafter(provider llm.Provider, c *catalog.Catalog, cfg Config) *Drafter {
	return &Drafter{
		provider: provider,
		catalog:  c,
		config:   cfg,
		log:      slog.New(slog.DiscardHandler),
	}
}

// WithLogger sets the logger used for dropped drafts.
func (d *Drafter) WithLogger(l *slog.Logger) *Drafter {
	d.log = l
	return d
}

// Draft requests count new templates for topic. Drafts failing template
// validation or repeating a prompt already in the catalog (or earlier in
// the same batch) are moved to Result.Rejected. The model may return fewer
// or more than count; extras are dropped.
func (d *Drafter) Draft(ctx context.Context, topic string, count int) (*Result, error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return nil, errors.New("topic is required")
	}
	if count < 1 {
		return nil, fmt.Errorf("count must be at least 1, got %d", count)
	}
	if d.config.MaxCount > 0 && count > d.config.MaxCount {
		return nil, fmt.Errorf("count %d exceeds the limit of %d", count, d.config.MaxCount)
	}

	existing := d.existingPrompts(topic)
	req := llm.Request{
		System:      systemPrompt,
		Messages:    []llm.Message{{Role: llm.RoleUser, Content: buildUserMessage(topic, count, existing, d.config.MaxExisting)}},
		Schema:      DraftSchema,
		MaxTokens:   d.config.MaxTokens,
		Temperature: d.config.Temperature,
	}

	resp, err := d.provider.Generate(llm.WithPurpose(ctx, Purpose), req)
	if err != nil {
		return nil, fmt.Errorf("drafting %q: %w", topic, err)
	}

	var out draftOutput
	if err := json.Unmarshal(resp.Content, &out); err != nil {
		return nil, fmt.Errorf("parse draft response: %w", err)
	}

	seen := make(map[string]bool)
	for _, p := range d.allPrompts() {
		seen[normalizePrompt(p)] = true
	}

	res := &Result{Topic: topic}
	for _, t := range out.Templates {
		t.Prompt = strings.TrimSpace(t.Prompt)
		reason := ""
		switch {
		case len(res.Accepted) == count:
			reason = "more drafts than requested"
		case seen[normalizePrompt(t.Prompt)]:
			reason = "duplicate prompt"
		default:
			if err := catalog.ValidateTemplate(t); err != nil {
				reason = err.Error()
			}
		}
		if reason != "" {
			d.log.Debug("dropped draft", "topic", topic, "prompt", t.Prompt, "reason", reason)
			res.Rejected = append(res.Rejected, Rejection{Template: t, Reason: reason})
			continue
		}
		seen[normalizePrompt(t.Prompt)] = true
		res.Accepted = append(res.Accepted, t)
	}
	return res, nil
}

// existingPrompts lists the prompts of topic first, then the rest of the
// catalog, so the most relevant ones survive MaxExisting trimming.
func (d *Drafter) existingPrompts(topic string) []string {
	var others, own []string
	for _, tp := range d.catalog.Topics {
		for _, p := range topicPrompts(tp) {
			if strings.EqualFold(tp.Name, topic) {
				own = append(own, p)
			} else {
				others = append(others, p)
			}
		}
	}
	// buildExistingList keeps the tail.
	return append(others, own...)
}

func (d *Drafter) allPrompts() []string {
	var out []string
	for _, tp := range d.catalog.Topics {
		out = append(out, topicPrompts(tp)...)
	}
	return out
}

func topicPrompts(tp catalog.Topic) []string {
	out := make([]string, 0, len(tp.Templates)+len(tp.Alternates))
	for _, t := range tp.Templates {
		out = append(out, t.Prompt)
	}
	for _, t := range tp.Alternates {
		out = append(out, t.Prompt)
	}
	return out
}

// normalizePrompt folds case and drops everything but letters and digits,
// so emoji and punctuation differences do not hide a repeat.
func normalizePrompt(p string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(p) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}
