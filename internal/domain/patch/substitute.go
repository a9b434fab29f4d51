package patch

import (
	"bytes"
	"fmt"
	"regexp"

	m "github.com/flatgrass/retouch/internal/model"
)

// Substituter rewrites every match of a regular expression across a file's
// whole content. Whitespace classes in the pattern span newlines, so a match
// may cover several lines.
type Substituter struct {
	name        string
	pattern     *regexp.Regexp
	replacement string
}

// NewSubstituter builds a Substituter from a substitute rule.
func NewSubstituter(rule m.Rule) (*Substituter, error) {
	pattern, err := regexp.Compile(rule.Pattern)
	if err != nil {
		return nil, fmt.Errorf("substitute %q: %w", rule.Name, err)
	}

	return &Substituter{
		name:        rule.Name,
		pattern:     pattern,
		replacement: rule.Replacement,
	}, nil
}

// Name returns the name of the rule the substituter was built from.
func (p *Substituter) Name() string {
	return p.name
}

// Kind reports m.RuleSubstitute.
func (p *Substituter) Kind() m.RuleKind {
	return m.RuleSubstitute
}

// Apply replaces every match of the pattern and reports whether the content
// changed. A replacement that reproduces the input counts as no change.
func (p *Substituter) Apply(content []byte) Result {
	patched := p.pattern.ReplaceAll(content, []byte(p.replacement))
	if bytes.Equal(patched, content) {
		return Result{Content: content, Outcome: m.OutcomeNoChange}
	}

	return Result{
		Content: patched,
		Outcome: m.OutcomeFixed,
		Diff:    diffContent(content, patched),
	}
}
