// Package tui is an interactive findings browser: a table of findings with a
// detail pane, search, clipboard copy, and on-demand rescan.
package tui

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/issuehound/issuehound/internal/types"
)

var (
	tableBorderStyle = lipgloss.NewStyle().
				BorderStyle(lipgloss.NormalBorder()).
				BorderForeground(lipgloss.Color("240"))

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("6")).
			Bold(true).
			Padding(0, 1)

	matchStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("9")).
			Bold(true)

	statusStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("236")).
			Foreground(lipgloss.Color("7"))

	emptyTextStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("15")).
			Align(lipgloss.Center)
)

// severityText returns plain text for severity (ANSI codes break table truncation).
func severityText(s types.Severity) string {
	switch s {
	case types.SevHigh:
		return "HIGH"
	case types.SevMed:
		return "MED"
	case types.SevLow:
		return "LOW"
	default:
		return string(s)
	}
}

type rescanDoneMsg struct {
	findings []types.Finding
	err      error
}

type statusMsg string

type Model struct {
	table       table.Model
	viewport    viewport.Model
	spinner     spinner.Model
	searchInput textinput.Model

	findings []types.Finding
	visible  []types.Finding

	rescanFunc func() ([]types.Finding, error)

	width, height int
	searching     bool
	scanning      bool
	showSecrets   bool
	status        string
	lastScanTime  time.Time

	viewingCached   bool
	cachedTimestamp time.Time
}

func NewModel(findings []types.Finding, rescanFunc func() ([]types.Finding, error)) Model {
	t := table.New(
		table.WithColumns(columnsFor(80)),
		table.WithFocused(true),
		table.WithHeight(10),
	)

	s := table.DefaultStyles()
	s.Header = lipgloss.NewStyle().
		Background(lipgloss.Color("235")).
		Foreground(lipgloss.Color("15")).
		Bold(true).
		Padding(0, 1).
		Align(lipgloss.Left)
	s.Selected = lipgloss.NewStyle().
		Foreground(lipgloss.Color("232")).
		Background(lipgloss.Color("208")).
		Bold(true).
		Padding(0, 1)
	s.Cell = lipgloss.NewStyle().Padding(0, 1)
	t.SetStyles(s)

	// Line spinner avoids Braille characters that render poorly on some terminals
	sp := spinner.New()
	sp.Spinner = spinner.Line
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))

	ti := textinput.New()
	ti.Placeholder = "Search item, rule, or match..."
	ti.CharLimit = 100
	ti.Width = 50
	ti.Prompt = "/ "
	ti.PromptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	ti.TextStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))

	m := Model{
		table:        t,
		spinner:      sp,
		searchInput:  ti,
		findings:     findings,
		rescanFunc:   rescanFunc,
		lastScanTime: time.Now(),
	}
	m.applyFilter("")
	return m
}

func columnsFor(width int) []table.Column {
	itemW := width/4 - 2
	if itemW < 12 {
		itemW = 12
	}
	return []table.Column{
		{Title: "Sev", Width: 5},
		{Title: "Rule", Width: 22},
		{Title: "Item", Width: itemW},
		{Title: "Source", Width: 15},
	}
}

func (m *Model) applyFilter(query string) {
	query = strings.ToLower(strings.TrimSpace(query))
	m.visible = m.visible[:0]
	for _, f := range m.findings {
		if query == "" ||
			strings.Contains(strings.ToLower(f.Ref.ID), query) ||
			strings.Contains(strings.ToLower(f.Rule), query) ||
			strings.Contains(strings.ToLower(f.Matched), query) {
			m.visible = append(m.visible, f)
		}
	}
	rows := make([]table.Row, len(m.visible))
	for i, f := range m.visible {
		rows[i] = table.Row{
			severityText(f.Severity),
			f.Rule,
			f.Ref.CollectionKey + "/" + f.Ref.ID,
			string(f.Source),
		}
	}
	m.table.SetRows(rows)
	if m.table.Cursor() >= len(rows) {
		m.table.SetCursor(0)
	}
}

func (m Model) selected() (types.Finding, bool) {
	i := m.table.Cursor()
	if i < 0 || i >= len(m.visible) {
		return types.Finding{}, false
	}
	return m.visible[i], true
}

func (m Model) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.table.SetColumns(columnsFor(msg.Width))
		h := msg.Height/2 - 4
		if h < 5 {
			h = 5
		}
		m.table.SetHeight(h)
		m.viewport = viewport.New(msg.Width-4, msg.Height-h-7)
		return m, nil

	case rescanDoneMsg:
		m.scanning = false
		m.viewingCached = false
		if msg.err != nil {
			m.status = "rescan failed: " + msg.err.Error()
			return m, nil
		}
		m.findings = msg.findings
		m.lastScanTime = time.Now()
		m.status = fmt.Sprintf("rescan finished: %d findings", len(msg.findings))
		m.applyFilter(m.searchInput.Value())
		return m, nil

	case statusMsg:
		m.status = string(msg)
		return m, nil

	case spinner.TickMsg:
		if !m.scanning {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if m.searching {
			switch msg.String() {
			case "enter", "esc":
				m.searching = false
				m.searchInput.Blur()
			default:
				var cmd tea.Cmd
				m.searchInput, cmd = m.searchInput.Update(msg)
				m.applyFilter(m.searchInput.Value())
				return m, cmd
			}
			return m, nil
		}
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "/":
			m.searching = true
			m.searchInput.Focus()
			return m, textinput.Blink
		case "s":
			m.showSecrets = !m.showSecrets
			return m, nil
		case "c":
			return m, m.copySelection()
		case "r":
			if m.rescanFunc != nil && !m.scanning {
				m.scanning = true
				m.status = ""
				return m, tea.Batch(m.spinner.Tick, m.rescan())
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m Model) rescan() tea.Cmd {
	return func() tea.Msg {
		findings, err := m.rescanFunc()
		return rescanDoneMsg{findings: findings, err: err}
	}
}

func (m Model) copySelection() tea.Cmd {
	f, ok := m.selected()
	if !ok {
		return nil
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "Item: %s/%s\n", f.Ref.CollectionKey, f.Ref.ID)
	fmt.Fprintf(&sb, "Rule: %s (%s)\n", f.Rule, f.Severity)
	fmt.Fprintf(&sb, "Source: %s @%d\n", f.Source, f.Offset)
	fmt.Fprintf(&sb, "Match: %s\n", f.Matched)
	if err := clipboard.WriteAll(sb.String()); err != nil {
		return func() tea.Msg { return statusMsg("clipboard unavailable") }
	}
	return func() tea.Msg { return statusMsg("Copied finding details to clipboard") }
}

func mask(s string) string {
	if len(s) <= 8 {
		return "********"
	}
	return s[:4] + "…" + s[len(s)-4:]
}

// highlightSnippet renders the display snippet through chroma so URLs and
// key-value assignments get terminal colors. The markdown lexer copes well
// with issue and wiki text.
func highlightSnippet(snippet string) string {
	lexer := lexers.Get("markdown")
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	style := styles.Get("monokai")
	if style == nil {
		style = styles.Fallback
	}
	formatter := formatters.Get("terminal256")
	if formatter == nil {
		formatter = formatters.Fallback
	}

	iterator, err := lexer.Tokenise(nil, snippet)
	if err != nil {
		return snippet
	}
	var buf bytes.Buffer
	if err := formatter.Format(&buf, style, iterator); err != nil {
		return snippet
	}
	return buf.String()
}
