package model

import (
	"fmt"
	"time"
)

// Outcome represents what happened to a single file under a single rule.
type Outcome string

const (
	// OutcomeFixed means the file content changed and was (or would be) written back.
	OutcomeFixed Outcome = "fixed"
	// OutcomeAlreadyPresent means the presence marker was found, so nothing was inserted.
	OutcomeAlreadyPresent Outcome = "already-present"
	// OutcomeAnchorMissing means the anchor line was not found, so the file was left alone.
	OutcomeAnchorMissing Outcome = "anchor-missing"
	// OutcomeNoChange means the substitution matched nothing or reproduced the input.
	OutcomeNoChange Outcome = "no-change"
	// OutcomeError means the file could not be read or written.
	OutcomeError Outcome = "error"
)

// RunMode distinguishes real patch runs from previews.
type RunMode string

const (
	// RunApply writes changed files back to disk.
	RunApply RunMode = "apply"
	// RunPlan computes outcomes and diffs without writing anything.
	RunPlan RunMode = "plan"
)

// FileResult holds the outcome of applying one rule to one file.
type FileResult struct {
	Rule    string
	Kind    RuleKind
	Path    Path
	Outcome Outcome
	Diff    string // unified diff, populated when the content changed
	Before  string // content fingerprint before the run
	After   string // content fingerprint after the run
	Err     error  // set when Outcome is OutcomeError
}

// Changed reports whether the rule produced new content for the file.
func (r FileResult) Changed() bool {
	return r.Outcome == OutcomeFixed
}

// Message renders the console line for this result.
func (r FileResult) Message() string {
	switch r.Outcome {
	case OutcomeFixed:
		if r.Kind == RuleSubstitute {
			return fmt.Sprintf("Fixed %s in: %s", r.Rule, r.Path)
		}

		return fmt.Sprintf("Fixed: %s", r.Path)
	case OutcomeAlreadyPresent:
		return fmt.Sprintf("Already has %s: %s", r.Rule, r.Path)
	case OutcomeAnchorMissing:
		return fmt.Sprintf("Could not fix: %s", r.Path)
	case OutcomeNoChange:
		return fmt.Sprintf("No changes needed in: %s", r.Path)
	case OutcomeError:
		return fmt.Sprintf("Failed: %s: %v", r.Path, r.Err)
	default:
		return fmt.Sprintf("%s: %s", r.Outcome, r.Path)
	}
}

// RunReport captures everything a single run did.
type RunReport struct {
	Mode       RunMode
	Config     Path
	StartedAt  time.Time
	FinishedAt time.Time
	Results    []FileResult
}

// Summary tallies run results by outcome.
type Summary struct {
	Fixed          int
	AlreadyPresent int
	AnchorMissing  int
	NoChange       int
	Errors         int
}

// Summary counts the results of the run by outcome.
func (r RunReport) Summary() Summary {
	var s Summary

	for _, result := range r.Results {
		switch result.Outcome {
		case OutcomeFixed:
			s.Fixed++
		case OutcomeAlreadyPresent:
			s.AlreadyPresent++
		case OutcomeAnchorMissing:
			s.AnchorMissing++
		case OutcomeNoChange:
			s.NoChange++
		case OutcomeError:
			s.Errors++
		}
	}

	return s
}
