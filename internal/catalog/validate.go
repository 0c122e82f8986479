package catalog

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/mod/semver"
)

// ErrEmptyCatalog is returned when a catalog has no templates at all.
var ErrEmptyCatalog = errors.New("catalog has no templates")

// SupportedMajor is the catalog format major version this build reads.
const SupportedMajor = "v1"

// Validate performs all semantic checks on the catalog.
// Returns a combined error describing all problems found, or nil if valid.
func Validate(c *Catalog) error {
	if c == nil || c.Size() == 0 {
		return ErrEmptyCatalog
	}

	var errs []string

	if !semver.IsValid(c.Version) {
		errs = append(errs, fmt.Sprintf("invalid version %q", c.Version))
	} else if semver.Major(c.Version) != SupportedMajor {
		errs = append(errs, fmt.Sprintf("unsupported version %q (want %s.x.x)", c.Version, SupportedMajor))
	}

	topics := make(map[string]bool, len(c.Topics))
	prompts := make(map[string]string)

	for i, t := range c.Topics {
		name := strings.TrimSpace(t.Name)
		if name == "" {
			errs = append(errs, fmt.Sprintf("topic %d has an empty name", i))
		} else if topics[name] {
			errs = append(errs, fmt.Sprintf("duplicate topic: %q", name))
		}
		topics[name] = true

		if len(t.Templates) == 0 {
			errs = append(errs, fmt.Sprintf("topic %q has no templates", t.Name))
		}

		check := func(kind string, j int, tmpl Template) {
			where := fmt.Sprintf("topic %q %s %d", t.Name, kind, j)
			for _, msg := range templateProblems(tmpl) {
				errs = append(errs, where+": "+msg)
			}
			if tmpl.Prompt == "" {
				return
			}
			if prev, dup := prompts[tmpl.Prompt]; dup {
				errs = append(errs, fmt.Sprintf("%s: prompt %q already used by %s", where, tmpl.Prompt, prev))
			}
			prompts[tmpl.Prompt] = where
		}
		for j, tmpl := range t.Templates {
			check("template", j, tmpl)
		}
		for j, tmpl := range t.Alternates {
			check("alternate", j, tmpl)
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("catalog validation failed:\n  %s", strings.Join(errs, "\n  "))
	}
	return nil
}

// ValidateTemplate checks a single template in isolation.
func ValidateTemplate(t Template) error {
	if errs := templateProblems(t); len(errs) > 0 {
		return fmt.Errorf("invalid template: %s", strings.Join(errs, "; "))
	}
	return nil
}

func templateProblems(t Template) []string {
	var errs []string
	if strings.TrimSpace(t.Prompt) == "" {
		errs = append(errs, "empty prompt")
	}
	if len(t.Options) != OptionCount {
		errs = append(errs, fmt.Sprintf("has %d options, want %d", len(t.Options), OptionCount))
	}
	seen := make(map[string]bool, len(t.Options))
	for k, o := range t.Options {
		if strings.TrimSpace(o) == "" {
			errs = append(errs, fmt.Sprintf("option %d is empty", k))
			continue
		}
		// Options are located by text after shuffling, so they must be distinct.
		if seen[o] {
			errs = append(errs, fmt.Sprintf("duplicate option %q", o))
		}
		seen[o] = true
	}
	if t.Answer < 0 || t.Answer >= len(t.Options) {
		errs = append(errs, fmt.Sprintf("answer index %d out of range", t.Answer))
	}
	return errs
}
