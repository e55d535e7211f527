// Package browse provides the Bubble Tea correction table browser.
package browse

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/tcm/internal/model"
	"github.com/verte-zerg/tcm/internal/stats"
	"github.com/verte-zerg/tcm/internal/tcm"
)

const (
	tabPairs = iota
	tabSuspicious
)

var (
	activeNavStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F0F0F0")).
			Bold(true).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#C89A3A"))
	inactiveNavStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#B0B0B0")).
				Padding(0, 1).
				Border(lipgloss.RoundedBorder(), true).
				BorderForeground(lipgloss.Color("#4A4A4A"))
	headerStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	errorStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	tableMutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#B8B8B8"))
)

// Model implements the Bubble Tea browser.
type Model struct {
	store  stats.EventLister
	filter model.EventFilter

	table  *tcm.Table
	aggs   []model.CorrectionAggregate
	errMsg string

	tabs      []string
	activeTab int
	grid      table.Model

	width  int
	height int

	query       string
	filterMode  bool
	filterInput textinput.Model
}

// NewModel constructs a browser over the journal behind st.
func NewModel(st stats.EventLister, filter model.EventFilter) *Model {
	m := &Model{
		store:  st,
		filter: filter,
		tabs:   []string{"Pairs", "Suspicious"},
	}
	m.filterInput = textinput.New()
	m.filterInput.Prompt = "Suspicious: "
	m.filterInput.Placeholder = "e2e5"
	m.filterInput.Cursor.SetMode(cursor.CursorBlink)
	m.grid = table.New(table.WithFocused(true))
	m.grid.SetStyles(gridStyles())
	m.reload()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateLayout()
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		if m.filterMode {
			return m.updateFilter(msg)
		}
		switch msg.String() {
		case "q":
			return m, tea.Quit
		case "left", "h":
			m.moveTab(-1)
			return m, nil
		case "right", "l", "tab":
			m.moveTab(1)
			return m, nil
		case "/":
			m.filterMode = true
			m.filterInput.SetValue(m.query)
			return m, m.filterInput.Focus()
		case "r":
			m.reload()
			return m, nil
		case "g", "home":
			m.grid.GotoTop()
			return m, nil
		case "G", "end":
			m.grid.GotoBottom()
			return m, nil
		}
		var cmd tea.Cmd
		m.grid, cmd = m.grid.Update(msg)
		return m, cmd
	}
	return m, nil
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	headerHeight, bodyHeight, footerHeight := m.layoutHeights()
	header := fitLines(m.renderHeader(), m.width, headerHeight)
	body := fitLines(m.renderBody(), m.width, bodyHeight)
	footer := fitLines(m.renderFooter(), m.width, footerHeight)
	return strings.Join([]string{header, body, footer}, "\n")
}

func (m *Model) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.filterMode = false
		m.filterInput.Blur()
		return m, nil
	case tea.KeyEnter:
		m.query = strings.TrimSpace(m.filterInput.Value())
		m.filterMode = false
		m.filterInput.Blur()
		m.applyRows()
		return m, nil
	}
	var cmd tea.Cmd
	m.filterInput, cmd = m.filterInput.Update(msg)
	return m, cmd
}

func (m *Model) reload() {
	built, err := stats.BuildTable(context.Background(), m.store, m.filter)
	if err != nil {
		m.errMsg = err.Error()
		m.table = tcm.New()
	} else {
		m.errMsg = ""
		m.table = built
	}
	m.aggs = stats.Flatten(m.table)
	m.applyRows()
}

func (m *Model) moveTab(delta int) {
	next := (m.activeTab + delta + len(m.tabs)) % len(m.tabs)
	if next == m.activeTab {
		return
	}
	m.activeTab = next
	m.applyRows()
}

func (m *Model) applyRows() {
	var cols []table.Column
	var rows []table.Row
	if m.activeTab == tabSuspicious {
		cols, rows = suspiciousData(m.table, m.query)
	} else {
		cols, rows = pairData(m.aggs, m.query)
	}
	// Rows must shrink before columns or the table indexes past the new width.
	m.grid.SetRows(nil)
	m.grid.SetColumns(cols)
	m.grid.SetRows(rows)
	m.grid.GotoTop()
}

func (m *Model) layoutHeights() (headerHeight, bodyHeight, footerHeight int) {
	tabsHeight := lipgloss.Height(activeNavStyle.Render("X"))
	headerHeight = tabsHeight + 1
	footerHeight = 1
	if m.errMsg != "" {
		footerHeight++
	}
	bodyHeight = m.height - headerHeight - footerHeight
	if bodyHeight < 1 {
		bodyHeight = 1
	}
	return headerHeight, bodyHeight, footerHeight
}

func (m *Model) updateLayout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	_, bodyHeight, _ := m.layoutHeights()
	m.grid.SetWidth(m.width)
	m.grid.SetHeight(maxInt(1, bodyHeight-1))
	promptWidth := lipgloss.Width(m.filterInput.Prompt)
	m.filterInput.Width = maxInt(10, m.width-promptWidth-2)
}

func (m *Model) renderHeader() string {
	parts := make([]string, 0, len(m.tabs))
	for i, tab := range m.tabs {
		if i == m.activeTab {
			parts = append(parts, activeNavStyle.Render(tab))
		} else {
			parts = append(parts, inactiveNavStyle.Render(tab))
		}
	}
	tabs := padLines(lipgloss.JoinHorizontal(lipgloss.Top, parts...), m.width)
	return tabs + "\n" + headerStyle.Render(truncateLine(m.summary(), m.width))
}

func (m *Model) summary() string {
	query := m.query
	if query == "" {
		query = "any"
	}
	source := m.filter.Source
	if source == "" {
		source = "any"
	}
	confirmed := 0
	for _, agg := range m.aggs {
		confirmed += agg.Count
	}
	return fmt.Sprintf("Suspicious: %d  Pairs: %d  Confirmations: %d  filter=%s  source=%s",
		m.table.Len(), len(m.aggs), confirmed, query, source)
}

func (m *Model) renderBody() string {
	if m.filterMode {
		return "Filter (enter to apply, esc to cancel)\n" + m.filterInput.View()
	}
	if len(m.grid.Rows()) == 0 {
		if m.query != "" {
			return fmt.Sprintf("No suspicious moves match %q.", m.query)
		}
		return "No corrections found."
	}
	return tableMutedStyle.Render(m.grid.View())
}

func (m *Model) renderFooter() string {
	help := headerStyle.Render("Nav: left/right  Scroll: up/down  Filter: /  Reload: r  Quit: q")
	if m.filterMode {
		help = headerStyle.Render("enter: apply  esc: cancel  ctrl+c: quit")
	}
	if m.errMsg != "" {
		return help + "\n" + errorStyle.Render(m.errMsg)
	}
	return help
}

func pairData(aggs []model.CorrectionAggregate, query string) ([]table.Column, []table.Row) {
	columns := []table.Column{
		{Title: "Suspicious", Width: 12},
		{Title: "Correct", Width: 12},
		{Title: "Count", Width: 7},
	}
	rows := make([]table.Row, 0, len(aggs))
	for _, agg := range aggs {
		if !matches(agg.Suspicious, query) {
			continue
		}
		rows = append(rows, table.Row{agg.Suspicious, agg.Correct, fmt.Sprintf("%d", agg.Count)})
	}
	return columns, rows
}

func suspiciousData(t *tcm.Table, query string) ([]table.Column, []table.Row) {
	columns := []table.Column{
		{Title: "Suspicious", Width: 12},
		{Title: "Candidates", Width: 10},
		{Title: "Confirmations", Width: 13},
		{Title: "Leading", Width: 12},
	}
	moves := t.SuspiciousMoves()
	rows := make([]table.Row, 0, len(moves))
	for _, suspicious := range moves {
		if !matches(suspicious, query) {
			continue
		}
		corrections, _ := t.GetCorrectMoves(suspicious)
		ranked := stats.RankCorrectMoves(suspicious, corrections)
		total := 0
		for _, agg := range ranked {
			total += agg.Count
		}
		leading := "-"
		if len(ranked) > 0 && ranked[0].Count > 0 {
			leading = ranked[0].Correct
		}
		rows = append(rows, table.Row{
			suspicious,
			fmt.Sprintf("%d", len(ranked)),
			fmt.Sprintf("%d", total),
			leading,
		})
	}
	return columns, rows
}

func matches(move, query string) bool {
	if query == "" {
		return true
	}
	return strings.Contains(strings.ToLower(move), strings.ToLower(query))
}

func gridStyles() table.Styles {
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("#4A4A4A")).
		Foreground(lipgloss.Color("#C0C0C0")).
		Bold(true).
		Padding(0, 1).
		PaddingLeft(0)
	styles.Cell = styles.Cell.
		Padding(0, 1).
		PaddingLeft(0)
	styles.Selected = styles.Cell.
		Foreground(lipgloss.Color("#F0F0F0")).
		Bold(true)
	return styles
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func padLines(s string, width int) string {
	if width <= 0 || s == "" {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = padLine(line, width)
	}
	return strings.Join(lines, "\n")
}

func padLine(line string, width int) string {
	lineWidth := lipgloss.Width(line)
	if lineWidth < width {
		return line + strings.Repeat(" ", width-lineWidth)
	}
	return line
}

func fitLines(s string, width, height int) string {
	if width <= 0 || height <= 0 {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = padLine(line, width)
	}
	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, strings.Repeat(" ", width))
	}
	return strings.Join(lines, "\n")
}

func truncateLine(s string, width int) string {
	if width <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	if width <= 3 {
		return string(runes[:width])
	}
	return string(runes[:width-3]) + "..."
}
