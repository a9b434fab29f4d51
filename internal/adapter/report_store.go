package adapter

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	m "github.com/flatgrass/retouch/internal/model"
)

const (
	indexFileName = "_index.yaml"
	reportExt     = ".yaml"
	reportHashLen = 16
)

// ErrNoReports indicates the reports directory holds no run reports.
var ErrNoReports = errors.New("no run reports found")

// ReportStore persists and retrieves run reports.
type ReportStore interface {
	// SaveReport writes the report into dir under a content-hashed file name
	// and refreshes the directory index. It returns the written file's path.
	SaveReport(dir m.Path, report m.RunReport) (m.Path, error)

	// LoadReports parses every stored report in dir, newest first.
	LoadReports(dir m.Path) ([]m.RunReport, error)

	// Latest returns the most recently started run stored in dir.
	Latest(dir m.Path) (m.RunReport, error)
}

// LocalReportStore stores run reports as YAML files in a local directory,
// one file per run plus an _index.yaml summarizing the directory.
type LocalReportStore struct{}

// NewLocalReportStore constructs a LocalReportStore.
func NewLocalReportStore() *LocalReportStore {
	return &LocalReportStore{}
}

// SaveReport writes the report and regenerates the index.
func (rs *LocalReportStore) SaveReport(dir m.Path, report m.RunReport) (m.Path, error) {
	if dir == "" {
		return "", errors.New("reports directory path is required")
	}

	if err := os.MkdirAll(string(dir), 0o750); err != nil {
		return "", err
	}

	data, err := yaml.Marshal(toReportYAML(report))
	if err != nil {
		return "", err
	}

	path := filepath.Join(string(dir), Fingerprint(data)[:reportHashLen]+reportExt)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return "", err
	}

	if err := rs.regenerateIndex(dir); err != nil {
		return "", err
	}

	return m.Path(path), nil
}

// LoadReports parses every stored report in dir, newest first.
func (rs *LocalReportStore) LoadReports(dir m.Path) ([]m.RunReport, error) {
	names, err := rs.listReportFiles(dir)
	if err != nil {
		return nil, err
	}

	reports := make([]m.RunReport, len(names))

	var g errgroup.Group

	for i, name := range names {
		i, name := i, name
		g.Go(func() error {
			report, err := rs.loadReportFile(dir, name)
			if err != nil {
				return err
			}

			reports[i] = report

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(reports, func(i, j int) bool {
		return reports[i].StartedAt.After(reports[j].StartedAt)
	})

	return reports, nil
}

// Latest returns the most recently started run stored in dir.
func (rs *LocalReportStore) Latest(dir m.Path) (m.RunReport, error) {
	reports, err := rs.LoadReports(dir)
	if err != nil {
		return m.RunReport{}, err
	}

	if len(reports) == 0 {
		return m.RunReport{}, ErrNoReports
	}

	return reports[0], nil
}

// listReportFiles returns the report file names in dir, excluding the index.
func (rs *LocalReportStore) listReportFiles(dir m.Path) ([]string, error) {
	if dir == "" {
		return nil, errors.New("reports directory path is required")
	}

	entries, err := os.ReadDir(string(dir))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNoReports
		}

		return nil, err
	}

	names := make([]string, 0, len(entries))

	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || name == indexFileName || !strings.HasSuffix(name, reportExt) {
			continue
		}

		names = append(names, name)
	}

	return names, nil
}

func (rs *LocalReportStore) loadReportFile(dir m.Path, name string) (m.RunReport, error) {
	data, err := os.ReadFile(filepath.Join(string(dir), name))
	if err != nil {
		return m.RunReport{}, err
	}

	var decoded runReportYAML
	if err := yaml.Unmarshal(data, &decoded); err != nil {
		return m.RunReport{}, fmt.Errorf("parse report %s: %w", name, err)
	}

	return fromReportYAML(decoded), nil
}

// regenerateIndex rewrites _index.yaml from the report files currently in dir.
func (rs *LocalReportStore) regenerateIndex(dir m.Path) error {
	names, err := rs.listReportFiles(dir)
	if err != nil {
		return err
	}

	indexPath := filepath.Join(string(dir), indexFileName)

	if len(names) == 0 {
		if err := os.Remove(indexPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}

		return nil
	}

	index := indexYAML{
		GeneratedAt: time.Now(),
		TotalRuns:   len(names),
	}

	for _, name := range names {
		report, err := rs.loadReportFile(dir, name)
		if err != nil {
			return err
		}

		summary := report.Summary()
		index.Runs = append(index.Runs, indexRunYAML{
			File:      name,
			Mode:      string(report.Mode),
			StartedAt: report.StartedAt,
			Fixed:     summary.Fixed,
			Errors:    summary.Errors,
			Total:     len(report.Results),
		})
	}

	sort.Slice(index.Runs, func(i, j int) bool {
		return index.Runs[i].StartedAt.After(index.Runs[j].StartedAt)
	})

	data, err := yaml.Marshal(index)
	if err != nil {
		return err
	}

	return os.WriteFile(indexPath, data, 0o600)
}

// runReportYAML is the on-disk shape of a run report.
type runReportYAML struct {
	Mode       string           `yaml:"mode"`
	Config     string           `yaml:"config"`
	StartedAt  time.Time        `yaml:"started_at"`
	FinishedAt time.Time        `yaml:"finished_at"`
	Results    []fileResultYAML `yaml:"results"`
}

type fileResultYAML struct {
	Rule    string `yaml:"rule"`
	Kind    string `yaml:"kind"`
	Path    string `yaml:"path"`
	Outcome string `yaml:"outcome"`
	Diff    string `yaml:"diff,omitempty"`
	Before  string `yaml:"before,omitempty"`
	After   string `yaml:"after,omitempty"`
	Err     string `yaml:"err,omitempty"`
}

type indexYAML struct {
	GeneratedAt time.Time      `yaml:"generated_at"`
	TotalRuns   int            `yaml:"total_runs"`
	Runs        []indexRunYAML `yaml:"runs"`
}

type indexRunYAML struct {
	File      string    `yaml:"file"`
	Mode      string    `yaml:"mode"`
	StartedAt time.Time `yaml:"started_at"`
	Fixed     int       `yaml:"fixed"`
	Errors    int       `yaml:"errors"`
	Total     int       `yaml:"total"`
}

func toReportYAML(report m.RunReport) runReportYAML {
	out := runReportYAML{
		Mode:       string(report.Mode),
		Config:     string(report.Config),
		StartedAt:  report.StartedAt,
		FinishedAt: report.FinishedAt,
		Results:    make([]fileResultYAML, 0, len(report.Results)),
	}

	for _, result := range report.Results {
		entry := fileResultYAML{
			Rule:    result.Rule,
			Kind:    string(result.Kind),
			Path:    string(result.Path),
			Outcome: string(result.Outcome),
			Diff:    result.Diff,
			Before:  result.Before,
			After:   result.After,
		}
		if result.Err != nil {
			entry.Err = result.Err.Error()
		}

		out.Results = append(out.Results, entry)
	}

	return out
}

func fromReportYAML(decoded runReportYAML) m.RunReport {
	report := m.RunReport{
		Mode:       m.RunMode(decoded.Mode),
		Config:     m.Path(decoded.Config),
		StartedAt:  decoded.StartedAt,
		FinishedAt: decoded.FinishedAt,
		Results:    make([]m.FileResult, 0, len(decoded.Results)),
	}

	for _, entry := range decoded.Results {
		result := m.FileResult{
			Rule:    entry.Rule,
			Kind:    m.RuleKind(entry.Kind),
			Path:    m.Path(entry.Path),
			Outcome: m.Outcome(entry.Outcome),
			Diff:    entry.Diff,
			Before:  entry.Before,
			After:   entry.After,
		}
		if entry.Err != "" {
			result.Err = errors.New(entry.Err)
		}

		report.Results = append(report.Results, result)
	}

	return report
}
