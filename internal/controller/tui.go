package controller

import (
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	m "github.com/flatgrass/retouch/internal/model"
)

var (
	fixedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	skippedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	failedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
)

// TUI implements UI using Bubble Tea for interactive display.
type TUI struct {
	output io.Writer
	mode   StartMode
}

// NewTUI creates a new TUI.
func NewTUI(output io.Writer) *TUI {
	return &TUI{output: output}
}

// Start initializes the UI.
func (t *TUI) Start(options ...StartOption) error {
	config := StartConfig{}
	for _, option := range options {
		option(&config)
	}

	t.mode = config.mode

	return nil
}

// Close finalizes the UI.
func (t *TUI) Close() {

}

// DisplayRunInfo announces how many rules and files the run covers.
func (t *TUI) DisplayRunInfo(rules int, files int) {
	verb := "Applying"
	if t.mode == ModePlan {
		verb = "Previewing"
	}

	_, _ = fmt.Fprintf(t.output, "%s %d rule(s) across %d file(s)\n", verb, rules, files)
}

// DisplayResult prints the styled outcome line for one (rule, file) pair.
func (t *TUI) DisplayResult(result m.FileResult) {
	_, _ = fmt.Fprintf(t.output, "%s\n", styleMessage(result))
}

// DisplaySummary prints the outcome counts for a finished run.
func (t *TUI) DisplaySummary(report m.RunReport) error {
	summary := report.Summary()

	_, _ = fmt.Fprintf(t.output, "\nFixed %d, skipped %d, failed %d of %d file(s)\n",
		summary.Fixed,
		summary.AlreadyPresent+summary.NoChange,
		summary.AnchorMissing+summary.Errors,
		len(report.Results),
	)

	if report.Mode == m.RunPlan {
		_, _ = fmt.Fprintln(t.output, "Dry run: no files were written.")
	}

	return nil
}

// DisplayReport shows a stored run report using the Bubble Tea browser.
// Reports short enough to fit on screen are printed statically instead.
func (t *TUI) DisplayReport(report m.RunReport) error {
	model := newReportModel(report)

	// Get initial terminal size
	if f, ok := t.output.(*os.File); ok {
		width, height, err := term.GetSize(int(f.Fd()))
		if err == nil {
			model.width = width
			model.height = height
		}
	}

	// If the report is small, just print and exit
	if !model.needsPagination() {
		_, err := fmt.Fprint(t.output, model.staticView())
		return err
	}

	program := tea.NewProgram(model, tea.WithOutput(t.output), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return err
	}

	return nil
}

func styleMessage(result m.FileResult) string {
	message := result.Message()

	switch result.Outcome {
	case m.OutcomeFixed:
		return fixedStyle.Render(message)
	case m.OutcomeAnchorMissing, m.OutcomeError:
		return failedStyle.Render(message)
	default:
		return skippedStyle.Render(message)
	}
}
