package ui

import (
	"fmt"

	"github.com/benchworks/jig-client/internal/config"
	"github.com/benchworks/jig-client/internal/protocol"
)

// Color is a display color sentinel. The concrete rendering decides what the
// sentinels look like; the dispatch loop only ever speaks in these three.
type Color int

const (
	// ColorNeutral is the slot's background color (liveness "off" phase,
	// unqueried slots).
	ColorNeutral Color = iota
	ColorPass
	ColorFail
)

// Item is one diagnostic check bound to one display slot. Items are owned by
// the display layer; the dispatch loop reads them, never mutates them.
type Item struct {
	UIID  int
	Group protocol.Group
	Dev   int
	Info  bool
	Label string
}

// Screen is what the dispatch loop needs from a display: per-slot color and
// text updates, plus a batched repaint.
type Screen interface {
	SetColor(uiID int, c Color)
	SetText(uiID int, text string)
	Refresh()
}

// ItemsFromConfig resolves the configured item table into display items,
// preserving file order.
func ItemsFromConfig(items []config.ItemConfig) ([]Item, error) {
	out := make([]Item, 0, len(items))
	for i, ic := range items {
		g, ok := protocol.GroupFromName(ic.Group)
		if !ok {
			return nil, fmt.Errorf("ui: items[%d]: unknown group %q", i, ic.Group)
		}
		label := ic.Label
		if label == "" {
			label = fmt.Sprintf("%s/%d", ic.Group, ic.Dev)
		}
		out = append(out, Item{
			UIID:  ic.UIID,
			Group: g,
			Dev:   ic.Dev,
			Info:  ic.Info,
			Label: label,
		})
	}
	return out, nil
}
