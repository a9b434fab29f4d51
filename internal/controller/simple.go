package controller

import (
	"bytes"
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	m "github.com/flatgrass/retouch/internal/model"
)

var (
	colorFixed   = color.New(color.FgGreen, color.Bold).SprintFunc()
	colorSkipped = color.New(color.FgYellow).SprintFunc()
	colorFailed  = color.New(color.FgRed, color.Bold).SprintFunc()
)

// SimpleUI implements UI using cobra Command's output stream.
type SimpleUI struct {
	cmd  *cobra.Command
	mode StartMode
}

// NewSimpleUI creates a new SimpleUI.
func NewSimpleUI(cmd *cobra.Command) *SimpleUI {
	return &SimpleUI{cmd: cmd}
}

// Start initializes the UI.
func (s *SimpleUI) Start(options ...StartOption) error {
	config := StartConfig{}
	for _, option := range options {
		option(&config)
	}

	s.mode = config.mode

	return nil
}

// Close finalizes the UI.
func (s *SimpleUI) Close() {

}

// DisplayRunInfo announces how many rules and files the run covers.
func (s *SimpleUI) DisplayRunInfo(rules int, files int) {
	verb := "Applying"
	if s.mode == ModePlan {
		verb = "Previewing"
	}

	s.printf("%s %d rule(s) across %d file(s)\n", verb, rules, files)
}

// DisplayResult prints the outcome line for one (rule, file) pair.
func (s *SimpleUI) DisplayResult(result m.FileResult) {
	s.printf("%s\n", paintMessage(result))
}

// DisplaySummary renders the outcome counts for a finished run.
func (s *SimpleUI) DisplaySummary(report m.RunReport) error {
	summary := report.Summary()

	var tableBuffer bytes.Buffer

	table := tablewriter.NewWriter(&tableBuffer)
	table.SetHeader([]string{"Outcome", "Files"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetColumnAlignment([]int{tablewriter.ALIGN_LEFT, tablewriter.ALIGN_CENTER})

	rows := []struct {
		outcome m.Outcome
		count   int
	}{
		{m.OutcomeFixed, summary.Fixed},
		{m.OutcomeAlreadyPresent, summary.AlreadyPresent},
		{m.OutcomeAnchorMissing, summary.AnchorMissing},
		{m.OutcomeNoChange, summary.NoChange},
		{m.OutcomeError, summary.Errors},
	}

	for _, row := range rows {
		if row.count == 0 {
			continue
		}

		table.Append([]string{string(row.outcome), fmt.Sprintf("%d", row.count)})
	}

	table.SetFooter([]string{"Total", fmt.Sprintf("%d", len(report.Results))})
	table.Render()
	s.printf("\n%s", tableBuffer.String())

	if report.Mode == m.RunPlan {
		s.printf("\nDry run: no files were written.\n")
	}

	return nil
}

// DisplayReport renders a stored run report with per-file outcomes and the
// recorded diffs.
func (s *SimpleUI) DisplayReport(report m.RunReport) error {
	s.printf("Run %s started %s (config %s)\n",
		report.Mode, report.StartedAt.Format(time.RFC3339), report.Config)

	var tableBuffer bytes.Buffer

	table := tablewriter.NewWriter(&tableBuffer)
	table.SetHeader([]string{"Rule", "Outcome", "Path"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetColumnAlignment([]int{tablewriter.ALIGN_LEFT, tablewriter.ALIGN_CENTER, tablewriter.ALIGN_LEFT})

	for _, result := range report.Results {
		table.Append([]string{result.Rule, string(result.Outcome), string(result.Path)})
	}

	table.SetFooter([]string{"Total", fmt.Sprintf("%d", len(report.Results)), ""})
	table.Render()
	s.printf("\n%s", tableBuffer.String())

	for _, result := range report.Results {
		if result.Diff == "" {
			continue
		}

		s.printf("\n%s: %s\n%s", result.Rule, result.Path, result.Diff)
	}

	return nil
}

func paintMessage(result m.FileResult) string {
	message := result.Message()

	switch result.Outcome {
	case m.OutcomeFixed:
		return colorFixed(message)
	case m.OutcomeAnchorMissing, m.OutcomeError:
		return colorFailed(message)
	default:
		return colorSkipped(message)
	}
}

func (s *SimpleUI) printf(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(s.cmd.OutOrStdout(), format, args...)
}
