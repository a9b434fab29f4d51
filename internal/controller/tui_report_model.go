package controller

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	m "github.com/flatgrass/retouch/internal/model"
)

type tickMsg time.Time

const (
	outcomeColWidth = 15
	diffPaneHeight  = 10
	minListHeight   = 5

	// Title (2) + summary (2) + table chrome (4) + headers (2) + diff pane
	// with border (12) + footer (1).
	reportChromeHeight = 23
)

// Simple delegate for result list items.
type resultDelegate struct {
	offset int
}

func (d resultDelegate) Height() int  { return 1 }
func (d resultDelegate) Spacing() int { return 0 }
func (d resultDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd {
	return nil
}

func (d resultDelegate) Render(w io.Writer, l list.Model, index int, item list.Item) {
	entry, ok := item.(resultItem)
	if !ok {
		return
	}

	isSelected := index == l.Index()

	var labelStyle lipgloss.Style

	var displayLabel string

	label := fmt.Sprintf("%s: %s", entry.result.Rule, entry.result.Path)
	width := l.Width() - outcomeColWidth - 2

	if isSelected {
		labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("6")).
			Bold(true)

		displayLabel = animateScroll(label, width, d.offset)
	} else {
		labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))

		displayLabel = truncateToWidth(label, width)
	}

	badge := outcomeStyle(entry.result.Outcome).
		Width(outcomeColWidth).
		Align(lipgloss.Right).
		Render(string(entry.result.Outcome))

	line := fmt.Sprintf("%s  %s", badge, labelStyle.Render(displayLabel))
	_, _ = fmt.Fprint(w, line)
}

func outcomeStyle(outcome m.Outcome) lipgloss.Style {
	switch outcome {
	case m.OutcomeFixed:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	case m.OutcomeAnchorMissing, m.OutcomeError:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	default:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	}
}

func animateScroll(text string, width int, offset int) string {
	if width <= 0 {
		return ""
	}

	textWidth := lipgloss.Width(text)
	if textWidth <= width {
		return text
	}

	// Gap between repeats
	gap := "   "

	// Initial pause before scrolling starts (in ticks)
	pause := 5

	if offset < pause {
		return truncateToWidth(text, width)
	}

	effectiveStep := offset - pause

	// Create the repeating pattern: text + gap
	// We work with runes to handle multi-byte characters correctly
	runes := []rune(text + gap)
	n := len(runes)

	if n == 0 {
		return ""
	}

	start := effectiveStep % n

	// Construct the window
	res := make([]rune, 0, width)
	for i := 0; i < width; i++ {
		idx := (start + i) % n
		res = append(res, runes[idx])
	}

	return string(res)
}

func truncateToWidth(text string, width int) string {
	if width <= 0 {
		return ""
	}

	if lipgloss.Width(text) <= width {
		return text
	}

	const ellipsis = "…"

	if width <= 1 {
		return ellipsis
	}

	maxWidth := width - lipgloss.Width(ellipsis)
	if maxWidth <= 0 {
		return ellipsis
	}

	currentWidth := 0

	result := make([]rune, 0, len(text))
	for _, r := range text {
		rWidth := lipgloss.Width(string(r))
		if currentWidth+rWidth > maxWidth {
			break
		}

		result = append(result, r)
		currentWidth += rWidth
	}

	return string(result) + ellipsis
}

// reportModel browses a stored run report: a result list on top and a diff
// pane for the selected result below it.
type reportModel struct {
	width        int
	height       int
	resultList   list.Model
	delegate     resultDelegate
	diffPane     viewport.Model
	report       m.RunReport
	animOffset   int
	lastSelected int
}

func newReportModel(report m.RunReport) reportModel {
	delegate := resultDelegate{}
	resultList := list.New([]list.Item{}, delegate, 80, 20)
	resultList.SetShowPagination(false)
	resultList.SetShowFilter(true)
	resultList.SetShowHelp(false)
	resultList.SetShowTitle(false)
	resultList.SetShowStatusBar(false)
	resultList.FilterInput.Placeholder = "Filter by path…"

	items := make([]list.Item, 0, len(report.Results))
	for _, result := range report.Results {
		items = append(items, resultItem{result: result})
	}

	resultList.SetItems(items)

	rm := reportModel{
		resultList:   resultList,
		delegate:     delegate,
		diffPane:     viewport.New(80, diffPaneHeight),
		report:       report,
		lastSelected: -1,
	}

	if len(items) > 0 {
		rm.lastSelected = 0
	}

	return rm.refreshDiff()
}

func (rm reportModel) Init() tea.Cmd {
	return tea.Tick(time.Second/2, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (rm reportModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		rm.width = msg.Width
		rm.height = msg.Height
		rm.resultList.SetWidth(rm.width)
		rm.diffPane.Width = rm.width - 6
		rm.diffPane.Height = diffPaneHeight

	case tickMsg:
		if rm.resultList.FilterState() != list.Filtering {
			rm.animOffset++
			rm.delegate.offset = rm.animOffset
			rm.resultList.SetDelegate(rm.delegate)

			return rm, tea.Tick(time.Millisecond*150, func(t time.Time) tea.Msg {
				return tickMsg(t)
			})
		}

		return rm, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return rm, tea.Quit
		case "pgup", "pgdown", " ":
			var newPane viewport.Model

			newPane, cmd = rm.diffPane.Update(msg)
			rm.diffPane = newPane

			return rm, cmd
		default:
			// Pass all other key events to the list
			var newList list.Model

			newList, cmd = rm.resultList.Update(msg)
			rm.resultList = newList

			// Detect selection change to reset animation and swap the diff
			if rm.resultList.Index() != rm.lastSelected {
				rm.lastSelected = rm.resultList.Index()
				rm.animOffset = 0
				rm.delegate.offset = 0
				rm.resultList.SetDelegate(rm.delegate)
				rm = rm.refreshDiff()
			}

			return rm, cmd
		}
	}

	return rm, cmd
}

// refreshDiff loads the selected result's diff into the diff pane.
func (rm reportModel) refreshDiff() reportModel {
	item, ok := rm.resultList.SelectedItem().(resultItem)
	if !ok {
		rm.diffPane.SetContent("")

		return rm
	}

	diff := item.result.Diff
	if diff == "" {
		diff = "No diff recorded for this file."
	}

	rm.diffPane.SetContent(diff)
	rm.diffPane.GotoTop()

	return rm
}

func (rm reportModel) View() string {
	// Styles
	titleStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("205")).
		Bold(true).
		Padding(1, 0, 0, 2)

	summaryStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("252")).
		Padding(0, 0, 1, 2)

	accentStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("6")) // Cyan

	// 1. Title
	title := titleStyle.Render("🩹 Retouch Run Report")

	// 2. Summary
	counts := rm.report.Summary()
	summary := summaryStyle.Render(fmt.Sprintf(
		"Mode: %s   Started: %s   Fixed: %s   Failed: %s",
		accentStyle.Render(string(rm.report.Mode)),
		accentStyle.Render(rm.report.StartedAt.Format(time.RFC3339)),
		accentStyle.Render(fmt.Sprintf("%d", counts.Fixed)),
		accentStyle.Render(fmt.Sprintf("%d", counts.AnchorMissing+counts.Errors)),
	))

	// 3. Result table with border
	table := rm.renderTable()

	// 4. Diff pane for the selected result
	diff := rm.renderDiffPane()

	// 5. Footer
	footerStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("8")).
		Align(lipgloss.Center).
		Width(rm.width)

	footer := footerStyle.Render("↑/k up • ↓/j down • pgup/pgdn diff • / filter • q quit")

	return lipgloss.JoinVertical(lipgloss.Left,
		title,
		summary,
		table,
		diff,
		footer,
	)
}

func (rm reportModel) renderTable() string {
	listHeight := rm.height - reportChromeHeight
	if listHeight < minListHeight {
		listHeight = minListHeight
	}

	// Window width minus margin (2), border (2) and padding (2)
	listWidth := rm.width - 6

	rm.resultList.SetHeight(listHeight)
	rm.resultList.SetWidth(listWidth)

	// Column headers inside the table area
	headerStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("8")).
		Bold(true).
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("8")).
		Width(listWidth)

	headers := headerStyle.Render(fmt.Sprintf("%*s  %s", outcomeColWidth, "Outcome", "Rule: File"))

	tableContainer := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("6")).
		Margin(0, 1).
		Padding(0, 1)

	return tableContainer.Render(
		lipgloss.JoinVertical(lipgloss.Left,
			headers,
			rm.resultList.View(),
		),
	)
}

func (rm reportModel) renderDiffPane() string {
	paneStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("8")).
		Margin(0, 1).
		Padding(0, 1)

	return paneStyle.Render(rm.diffPane.View())
}

// staticView renders the whole report as plain styled text for outputs that
// cannot host the interactive browser.
func (rm reportModel) staticView() string {
	var b strings.Builder

	counts := rm.report.Summary()

	fmt.Fprintf(&b, "Run %s started %s (config %s)\n",
		rm.report.Mode, rm.report.StartedAt.Format(time.RFC3339), rm.report.Config)
	fmt.Fprintf(&b, "Fixed %d, failed %d, total %d\n\n",
		counts.Fixed, counts.AnchorMissing+counts.Errors, len(rm.report.Results))

	for _, result := range rm.report.Results {
		badge := fmt.Sprintf("%*s", outcomeColWidth, string(result.Outcome))
		fmt.Fprintf(&b, "%s  %s: %s\n", outcomeStyle(result.Outcome).Render(badge), result.Rule, result.Path)
	}

	for _, result := range rm.report.Results {
		if result.Diff == "" {
			continue
		}

		fmt.Fprintf(&b, "\n%s: %s\n%s", result.Rule, result.Path, result.Diff)
	}

	return b.String()
}

// itemsPerPage returns how many results fit on one screen.
func (rm reportModel) itemsPerPage() int {
	perPage := rm.height - reportChromeHeight
	if perPage < minListHeight {
		perPage = minListHeight
	}

	return perPage
}

// needsPagination returns true if the report is too large to fit on screen.
func (rm reportModel) needsPagination() bool {
	if len(rm.report.Results) == 0 {
		return false
	}

	return rm.height > 0 && len(rm.report.Results) > rm.itemsPerPage()
}
