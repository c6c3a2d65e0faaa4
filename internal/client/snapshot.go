package client

import (
	"time"

	"github.com/benchworks/jig-client/internal/protocol"
)

// ItemState is the externally visible state of one display slot.
type ItemState struct {
	UIID   int    `json:"ui_id"`
	Label  string `json:"label"`
	Group  string `json:"group"`
	Dev    int    `json:"dev"`
	Info   bool   `json:"info,omitempty"`
	Text   string `json:"text"`
	Status string `json:"status"` // pass | fail | none
}

// Snapshot is a point-in-time copy of the client state for the status API.
type Snapshot struct {
	Board     string      `json:"board,omitempty"`
	Items     []ItemState `json:"items"`
	LastBlink time.Time   `json:"last_blink"`
	BlinkOn   bool        `json:"blink_on"`
}

// Snapshot returns a copy of the current item states in registry order.
func (c *Client) Snapshot() Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()

	snap := Snapshot{
		Board:     c.board,
		Items:     make([]ItemState, 0, len(c.items)),
		LastBlink: c.lastBlink,
		BlinkOn:   c.blinkOn,
	}
	for _, it := range c.items {
		snap.Items = append(snap.Items, c.state[it.UIID])
	}
	return snap
}

// store updates the snapshot mirror for one slot.
func (c *Client) store(uiID int, disp protocol.Display) {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := c.state[uiID]
	s.Text = disp.Text
	s.Status = statusName(disp.Status)
	c.state[uiID] = s
}

func statusName(s protocol.Status) string {
	switch s {
	case protocol.StatusPass:
		return "pass"
	case protocol.StatusFail:
		return "fail"
	default:
		return "none"
	}
}
