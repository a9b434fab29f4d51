// Package patch provides the text patchers the workflow applies to target files.
package patch

import (
	"fmt"
	"strings"

	"github.com/pmezard/go-difflib/difflib"

	m "github.com/flatgrass/retouch/internal/model"
)

// Result is the outcome of applying a Patcher to one file's content.
type Result struct {
	// Content is the patched content. It is the input, untouched, whenever
	// Outcome is not OutcomeFixed.
	Content []byte

	// Outcome classifies what the patcher did.
	Outcome m.Outcome

	// Diff is a unified diff of the change, set only for OutcomeFixed.
	Diff string
}

// Patcher transforms one file's content in memory. Implementations never
// touch the filesystem.
type Patcher interface {
	// Name returns the name of the rule the patcher was built from.
	Name() string

	// Kind reports which rule kind the patcher implements.
	Kind() m.RuleKind

	// Apply transforms content and classifies the result.
	Apply(content []byte) Result
}

// FromRule builds the Patcher implementing the given rule.
func FromRule(rule m.Rule) (Patcher, error) {
	switch rule.Kind {
	case m.RuleInject:
		return NewInjector(rule), nil
	case m.RuleSubstitute:
		return NewSubstituter(rule)
	default:
		return nil, fmt.Errorf("unknown rule kind %q", rule.Kind)
	}
}

// splitLines splits content into lines, each keeping its trailing newline.
// The final element has no newline when the content does not end with one.
// Empty content yields no lines.
func splitLines(content []byte) []string {
	if len(content) == 0 {
		return nil
	}

	lines := strings.SplitAfter(string(content), "\n")
	if last := len(lines) - 1; lines[last] == "" {
		lines = lines[:last]
	}

	return lines
}

func diffContent(original, patched []byte) string {
	diff := difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(original)),
		B:        difflib.SplitLines(string(patched)),
		FromFile: "original",
		ToFile:   "patched",
		Context:  3,
	}

	text, err := difflib.GetUnifiedDiffString(diff)
	if err != nil {
		return ""
	}

	return text
}
