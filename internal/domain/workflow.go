// Package domain implements the patch run workflow for retouch.
package domain

import (
	"fmt"
	"regexp"
	"time"

	"github.com/flatgrass/retouch/internal/adapter"
	"github.com/flatgrass/retouch/internal/config"
	"github.com/flatgrass/retouch/internal/controller"
	"github.com/flatgrass/retouch/internal/domain/patch"
	m "github.com/flatgrass/retouch/internal/model"
)

// PlanArgs configures a dry run of the patch set.
type PlanArgs struct {
	Config  m.Path
	Exclude []string
}

// ApplyArgs configures a run that writes fixed files back to disk and stores
// a run report.
type ApplyArgs struct {
	PlanArgs
	Reports m.Path
}

// ViewArgs configures browsing of stored run reports.
type ViewArgs struct {
	Reports m.Path
}

// Workflow defines the interface for patch run operations.
type Workflow interface {
	Apply(args ApplyArgs) error
	Plan(args PlanArgs) error
	View(args ViewArgs) error
}

type workflow struct {
	files   adapter.FileStore
	reports adapter.ReportStore
	ui      controller.UI
	now     func() time.Time
}

// NewWorkflow creates a new Workflow instance with the provided adapters.
func NewWorkflow(files adapter.FileStore, reports adapter.ReportStore, ui controller.UI) Workflow {
	return &workflow{
		files:   files,
		reports: reports,
		ui:      ui,
		now:     time.Now,
	}
}

// Apply loads the patch set, patches every target file in order and stores
// the run report.
func (w *workflow) Apply(args ApplyArgs) error {
	return w.run(args, m.RunApply)
}

// Plan performs the same pass as Apply without writing any file or report.
func (w *workflow) Plan(args PlanArgs) error {
	return w.run(ApplyArgs{PlanArgs: args}, m.RunPlan)
}

// View shows the most recent stored run report.
func (w *workflow) View(args ViewArgs) error {
	report, err := w.reports.Latest(args.Reports)
	if err != nil {
		return err
	}

	if err := w.ui.Start(controller.WithViewMode()); err != nil {
		return err
	}
	defer w.ui.Close()

	return w.ui.DisplayReport(report)
}

// run executes the patch pass. Files are processed strictly in order: rules
// in configuration order, each rule's files in list order, one at a time. A
// failure on one file is recorded and does not stop the rest of the pass.
func (w *workflow) run(args ApplyArgs, mode m.RunMode) error {
	cfg, err := config.Load(string(args.Config))
	if err != nil {
		return err
	}

	filters, err := compileFilters(args.Exclude)
	if err != nil {
		return err
	}

	rules := cfg.Rules()
	jobs := make([]patchJob, 0, len(rules))
	totalFiles := 0

	for _, rule := range rules {
		patcher, err := patch.FromRule(rule)
		if err != nil {
			return err
		}

		files := filterFiles(rule.Files, filters)
		totalFiles += len(files)

		jobs = append(jobs, patchJob{patcher: patcher, files: files})
	}

	startOption := controller.WithApplyMode()
	if mode == m.RunPlan {
		startOption = controller.WithPlanMode()
	}

	if err := w.ui.Start(startOption); err != nil {
		return err
	}
	defer w.ui.Close()

	w.ui.DisplayRunInfo(len(rules), totalFiles)

	report := m.RunReport{
		Mode:      mode,
		Config:    args.Config,
		StartedAt: w.now(),
	}

	for _, job := range jobs {
		for _, file := range job.files {
			result := w.patchFile(job.patcher, file, mode)
			report.Results = append(report.Results, result)
			w.ui.DisplayResult(result)
		}
	}

	report.FinishedAt = w.now()

	if err := w.ui.DisplaySummary(report); err != nil {
		return err
	}

	if mode == m.RunApply {
		if _, err := w.reports.SaveReport(args.Reports, report); err != nil {
			return fmt.Errorf("save run report: %w", err)
		}
	}

	if failed := report.Summary().Errors; failed > 0 {
		return fmt.Errorf("%d file(s) failed", failed)
	}

	return nil
}

// patchJob pairs a built patcher with the files it still applies to after
// exclude filtering.
type patchJob struct {
	patcher patch.Patcher
	files   []m.Path
}

// patchFile runs one patcher against one file. Read and write failures are
// recorded as the file's outcome, never propagated, so a bad file cannot
// stop the pass.
func (w *workflow) patchFile(patcher patch.Patcher, file m.Path, mode m.RunMode) m.FileResult {
	result := m.FileResult{
		Rule: patcher.Name(),
		Kind: patcher.Kind(),
		Path: file,
	}

	content, err := w.files.ReadFile(file)
	if err != nil {
		result.Outcome = m.OutcomeError
		result.Err = err

		return result
	}

	result.Before = adapter.Fingerprint(content)
	result.After = result.Before

	patched := patcher.Apply(content)
	result.Outcome = patched.Outcome
	result.Diff = patched.Diff

	if patched.Outcome != m.OutcomeFixed {
		return result
	}

	result.After = adapter.Fingerprint(patched.Content)

	if mode == m.RunPlan {
		return result
	}

	if err := w.files.WriteFile(file, patched.Content); err != nil {
		result.Outcome = m.OutcomeError
		result.Err = err
		result.After = result.Before
	}

	return result
}

func compileFilters(exclude []string) ([]*regexp.Regexp, error) {
	filters := make([]*regexp.Regexp, 0, len(exclude))

	for _, pattern := range exclude {
		filter, err := regexp.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid exclude pattern %q: %w", pattern, err)
		}

		filters = append(filters, filter)
	}

	return filters, nil
}

func filterFiles(files []m.Path, filters []*regexp.Regexp) []m.Path {
	if len(filters) == 0 {
		return files
	}

	kept := make([]m.Path, 0, len(files))

	for _, file := range files {
		if matchesAny(string(file), filters) {
			continue
		}

		kept = append(kept, file)
	}

	return kept
}

func matchesAny(path string, filters []*regexp.Regexp) bool {
	for _, filter := range filters {
		if filter.MatchString(path) {
			return true
		}
	}

	return false
}
