package watch

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/benchworks/jig-client/internal/client"
)

// Model is the main BubbleTea model for the watch TUI.
type Model struct {
	apiURL string

	width  int
	height int

	snap      client.Snapshot
	health    healthMsg
	connected bool
	lastError string
	lastFetch time.Time

	table table.Model
	theme Theme
}

// New creates a new watch TUI model pointed at a jig-client status API.
func New(apiURL string) *Model {
	columns := []table.Column{
		{Title: "Slot", Width: 5},
		{Title: "Label", Width: 16},
		{Title: "Group", Width: 10},
		{Title: "Dev", Width: 4},
		{Title: "Status", Width: 7},
		{Title: "Value", Width: 10},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(16),
	)

	return &Model{
		apiURL: apiURL,
		table:  t,
		theme:  NewDefaultTheme(),
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		fetchSnapshot(m.apiURL),
		fetchHealth(m.apiURL),
		tea.Tick(time.Second, func(t time.Time) tea.Msg { return tickMsg(t) }),
		tea.EnterAltScreen,
	)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if msg.Height > 10 {
			m.table.SetHeight(msg.Height - 8)
		}

	case tickMsg:
		return m, tea.Batch(
			fetchSnapshot(m.apiURL),
			fetchHealth(m.apiURL),
			tea.Tick(time.Second, func(t time.Time) tea.Msg { return tickMsg(t) }),
		)

	case snapshotMsg:
		m.snap = client.Snapshot(msg)
		m.connected = true
		m.lastError = ""
		m.lastFetch = time.Now()
		m.table.SetRows(m.rows())

	case healthMsg:
		m.health = msg

	case errMsg:
		m.connected = false
		m.lastError = msg.Error()
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	title := m.theme.Title.Render("jig-client watch")

	header := m.renderHeader()
	body := m.theme.Border.Render(m.table.View())

	footer := m.theme.Dim.Render("q: quit")
	if m.lastError != "" {
		footer = m.theme.StatusFail.Render("disconnected: "+m.lastError) + "  " + footer
	}

	return lipgloss.JoinVertical(lipgloss.Left, title, header, body, footer)
}

func (m Model) renderHeader() string {
	board := m.snap.Board
	if board == "" {
		board = "(unknown board)"
	}

	blink := m.theme.BlinkStale.Render("no blink")
	if !m.snap.LastBlink.IsZero() {
		age := time.Since(m.snap.LastBlink)
		// Two missed liveness intervals means the client loop is wedged.
		if age < 2500*time.Millisecond {
			blink = m.theme.BlinkLive.Render(fmt.Sprintf("alive %.1fs ago", age.Seconds()))
		} else {
			blink = m.theme.BlinkStale.Render(fmt.Sprintf("stale %.1fs", age.Seconds()))
		}
	}

	pass, fail := 0, 0
	for _, it := range m.snap.Items {
		switch it.Status {
		case "pass":
			pass++
		case "fail":
			fail++
		}
	}

	return fmt.Sprintf("  %s  %s  %s  %s",
		m.theme.Highlight.Render(board),
		blink,
		m.theme.StatusPass.Render(fmt.Sprintf("%d pass", pass)),
		m.theme.StatusFail.Render(fmt.Sprintf("%d fail", fail)),
	)
}

func (m Model) rows() []table.Row {
	rows := make([]table.Row, 0, len(m.snap.Items))
	for _, it := range m.snap.Items {
		status := it.Status
		switch status {
		case "pass":
			status = m.theme.StatusPass.Render("PASS")
		case "fail":
			status = m.theme.StatusFail.Render("FAIL")
		default:
			status = m.theme.StatusNone.Render("-")
		}
		rows = append(rows, table.Row{
			fmt.Sprintf("%d", it.UIID),
			it.Label,
			it.Group,
			fmt.Sprintf("%d", it.Dev),
			status,
			it.Text,
		})
	}
	return rows
}

// Run starts the watch TUI and blocks until the operator quits.
func Run(apiURL string) error {
	p := tea.NewProgram(New(apiURL))
	_, err := p.Run()
	return err
}
