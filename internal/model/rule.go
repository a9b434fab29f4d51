// Package model defines the data structures for patch rules and run reports.
package model

// Path represents a file system path.
type Path string

// RuleKind represents the category of patch rule.
type RuleKind string

const (
	// RuleInject inserts a missing line at an anchored position.
	RuleInject RuleKind = "inject"
	// RuleSubstitute rewrites every match of a regular expression.
	RuleSubstitute RuleKind = "substitute"
)

// Rule describes one targeted edit and the files it applies to. Only the
// fields matching Kind are meaningful.
type Rule struct {
	Name  string
	Kind  RuleKind
	Files []Path

	// Inject fields.
	Marker string // line content proving the insert already happened
	Anchor string // substring locating the line to scan from
	Stop   string // token marking the line the insert goes before
	Insert string // the line to insert

	// Substitute fields.
	Pattern     string
	Replacement string
}
