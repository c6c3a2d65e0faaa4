// Package ui renders the test-item table on the attached display and owns
// the ordered item registry the dispatch loop sweeps.
//
// The panel keeps a per-slot model (color + text) and repaints the whole grid
// on Refresh, so a sweep that updates many slots costs one repaint.
package ui

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/benchworks/jig-client/internal/log"
)

type slot struct {
	item  Item
	color Color
	text  string
}

// Panel is the terminal-backed Screen implementation.
type Panel struct {
	title   string
	columns int
	items   []Item
	slots   map[int]*slot
	order   []int

	theme  Theme
	out    io.Writer
	logger *slog.Logger
}

// NewPanel builds a panel over the given item registry, rendering to out.
func NewPanel(title string, columns int, items []Item, out io.Writer) (*Panel, error) {
	if len(items) == 0 {
		return nil, fmt.Errorf("ui: no display items configured")
	}
	if columns <= 0 {
		columns = 4
	}

	p := &Panel{
		title:   title,
		columns: columns,
		items:   items,
		slots:   make(map[int]*slot, len(items)),
		theme:   NewDefaultTheme(),
		out:     out,
		logger:  log.WithComponent("ui"),
	}
	for _, it := range items {
		if _, dup := p.slots[it.UIID]; dup {
			return nil, fmt.Errorf("ui: duplicate ui_id %d", it.UIID)
		}
		p.slots[it.UIID] = &slot{item: it, color: ColorNeutral}
		p.order = append(p.order, it.UIID)
	}
	return p, nil
}

// Items returns the registry in its stable display order.
func (p *Panel) Items() []Item {
	return p.items
}

// SetColor updates a slot's color in the model. Unknown slots are logged and
// ignored; a bad slot reference must not take the whole panel down.
func (p *Panel) SetColor(uiID int, c Color) {
	s, ok := p.slots[uiID]
	if !ok {
		p.logger.Warn("set color on unknown slot", "ui_id", uiID)
		return
	}
	s.color = c
}

// SetText updates a slot's value text in the model.
func (p *Panel) SetText(uiID int, text string) {
	s, ok := p.slots[uiID]
	if !ok {
		p.logger.Warn("set text on unknown slot", "ui_id", uiID)
		return
	}
	s.text = text
}

// Refresh repaints the whole grid from the model.
func (p *Panel) Refresh() {
	var cells []string
	for _, id := range p.order {
		cells = append(cells, p.renderCell(p.slots[id]))
	}

	var rows []string
	for i := 0; i < len(cells); i += p.columns {
		end := i + p.columns
		if end > len(cells) {
			end = len(cells)
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells[i:end]...))
	}

	var b strings.Builder
	// Home the cursor and clear so repaints land in place.
	b.WriteString("\x1b[H\x1b[2J")
	b.WriteString(p.theme.Title.Render(p.title))
	b.WriteString("\n")
	b.WriteString(lipgloss.JoinVertical(lipgloss.Left, rows...))
	b.WriteString("\n")

	if _, err := io.WriteString(p.out, b.String()); err != nil {
		p.logger.Error("display write failed", "error", err)
	}
}

func (p *Panel) renderCell(s *slot) string {
	var value string
	switch s.color {
	case ColorPass:
		value = p.theme.Pass.Render(s.text)
	case ColorFail:
		value = p.theme.Fail.Render(s.text)
	default:
		value = p.theme.Neutral.Render(s.text)
	}
	body := p.theme.Label.Render(s.item.Label) + "\n" + value
	return p.theme.Cell.Render(body)
}
