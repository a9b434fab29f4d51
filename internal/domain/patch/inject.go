package patch

import (
	"strings"

	m "github.com/flatgrass/retouch/internal/model"
)

// Injector inserts a single line into a file: it locates the first line
// containing the anchor, then inserts the configured line right before the
// next line containing the stop token. A marker already present anywhere in
// the file makes the whole operation a no-op.
type Injector struct {
	name   string
	marker string
	anchor string
	stop   string
	insert string
}

// NewInjector builds an Injector from an inject rule. The insertion line is
// normalized to end with a newline.
func NewInjector(rule m.Rule) *Injector {
	insert := rule.Insert
	if !strings.HasSuffix(insert, "\n") {
		insert += "\n"
	}

	return &Injector{
		name:   rule.Name,
		marker: rule.Marker,
		anchor: rule.Anchor,
		stop:   rule.Stop,
		insert: insert,
	}
}

// Name returns the name of the rule the injector was built from.
func (p *Injector) Name() string {
	return p.name
}

// Kind reports m.RuleInject.
func (p *Injector) Kind() m.RuleKind {
	return m.RuleInject
}

// Apply inserts the configured line unless the marker is already present or
// no line contains the anchor. Only the first anchor occurrence counts, and
// the anchor line itself is never searched for the stop token. When no line
// after the anchor contains the stop token the insertion falls through to
// the end of the file.
func (p *Injector) Apply(content []byte) Result {
	lines := splitLines(content)

	if _, found := indexContaining(lines, p.marker, 0); found {
		return Result{Content: content, Outcome: m.OutcomeAlreadyPresent}
	}

	anchorAt, found := indexContaining(lines, p.anchor, 0)
	if !found {
		return Result{Content: content, Outcome: m.OutcomeAnchorMissing}
	}

	insertAt, found := indexContaining(lines, p.stop, anchorAt+1)
	if !found {
		insertAt = len(lines)
	}

	patched := make([]string, 0, len(lines)+1)
	patched = append(patched, lines[:insertAt]...)
	patched = append(patched, p.insert)
	patched = append(patched, lines[insertAt:]...)

	result := []byte(strings.Join(patched, ""))

	return Result{
		Content: result,
		Outcome: m.OutcomeFixed,
		Diff:    diffContent(content, result),
	}
}

// indexContaining returns the index of the first line at or after from that
// contains needle.
func indexContaining(lines []string, needle string, from int) (int, bool) {
	for i := from; i < len(lines); i++ {
		if strings.Contains(lines[i], needle) {
			return i, true
		}
	}

	return 0, false
}
