// Package client runs the diagnostic dispatch loop: one sequential init
// sweep over the item registry, then a forever loop that blinks the liveness
// slot at a fixed cadence.
package client

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/benchworks/jig-client/internal/device"
	"github.com/benchworks/jig-client/internal/journal"
	"github.com/benchworks/jig-client/internal/log"
	"github.com/benchworks/jig-client/internal/protocol"
	"github.com/benchworks/jig-client/internal/timer"
	"github.com/benchworks/jig-client/internal/ui"
)

// Config holds the dispatch loop settings.
type Config struct {
	LoopDelay     time.Duration
	AliveInterval time.Duration
	AliveUIID     int
}

// Client owns the dispatch loop state: the liveness timer anchor and blink
// phase live here, not in function-local statics.
type Client struct {
	cfg     Config
	items   []ui.Item
	screen  ui.Screen
	checker device.Checker
	journal *journal.Journal
	clock   timer.Clock
	logger  *slog.Logger
	board   string

	alive timer.Stamp
	phase bool

	// Snapshot mirror for the status API. The dispatch loop itself is
	// single-threaded; the mirror is the only state shared outward.
	mu        sync.RWMutex
	state     map[int]ItemState
	lastBlink time.Time
	blinkOn   bool
}

// Option customizes a Client.
type Option func(*Client)

// WithJournal records the init sweep into a result journal.
func WithJournal(j *journal.Journal) Option {
	return func(c *Client) { c.journal = j }
}

// WithClock replaces the liveness clock. Test hook.
func WithClock(clock timer.Clock) Option {
	return func(c *Client) { c.clock = clock }
}

// WithBoard tags snapshots and journal runs with the board identity.
func WithBoard(board string) Option {
	return func(c *Client) { c.board = board }
}

// New creates a dispatch loop over the given registry, display, and checker.
func New(cfg Config, items []ui.Item, screen ui.Screen, checker device.Checker, opts ...Option) *Client {
	c := &Client{
		cfg:     cfg,
		items:   items,
		screen:  screen,
		checker: checker,
		clock:   timer.SystemClock,
		logger:  log.WithComponent("client"),
		state:   make(map[int]ItemState, len(items)),
	}
	for _, opt := range opts {
		opt(c)
	}
	for _, it := range items {
		c.state[it.UIID] = ItemState{
			UIID:  it.UIID,
			Label: it.Label,
			Group: it.Group.Name(),
			Dev:   it.Dev,
			Info:  it.Info,
		}
	}
	return c
}

// InitSweep queries every registered item exactly once, in registry order,
// and paints the results. The display is refreshed once before and once
// after the sweep; per-item updates only touch the model.
//
// Items whose identifiers do not fit the frame are painted "n/a" and skipped
// rather than queried with a corrupt frame.
func (c *Client) InitSweep(ctx context.Context) error {
	c.screen.Refresh()

	runID := ""
	if c.journal != nil {
		id, err := c.journal.BeginRun(ctx, c.board)
		if err != nil {
			c.logger.Error("journal run start failed", "error", err)
		} else {
			runID = id
		}
	}

	for _, item := range c.items {
		frame, err := protocol.EncodeQuery(protocol.Query{
			UIID:  item.UIID,
			Group: item.Group,
			Dev:   item.Dev,
		})
		if err != nil {
			c.logger.Warn("item rejected", "ui_id", item.UIID, "error", err)
			c.screen.SetColor(item.UIID, ui.ColorNeutral)
			c.screen.SetText(item.UIID, "n/a")
			c.store(item.UIID, protocol.Display{Text: "n/a", Status: protocol.StatusNone})
			c.record(ctx, runID, item, false, "", "n/a")
			continue
		}

		ok, resp := c.checker.Check(frame)
		disp := protocol.DecodeResponse(resp, ok, item.Group, item.Dev, item.Info)

		if !item.Info {
			c.screen.SetColor(item.UIID, statusColor(disp.Status))
		}
		c.screen.SetText(item.UIID, disp.Text)
		c.store(item.UIID, disp)
		c.record(ctx, runID, item, ok, string(resp), disp.Text)
	}

	c.screen.Refresh()

	if c.journal != nil && runID != "" {
		if err := c.journal.FinishRun(ctx, runID); err != nil {
			c.logger.Error("journal run finish failed", "error", err)
		}
	}
	return nil
}

// Run anchors the liveness timer and loops until ctx is cancelled, pacing
// each pass with the configured loop delay.
func (c *Client) Run(ctx context.Context) error {
	timer.Check(c.clock, &c.alive, 0)

	for {
		select {
		case <-ctx.Done():
			c.logger.Info("dispatch loop stopped")
			return nil
		default:
		}

		c.aliveTick()
		time.Sleep(c.cfg.LoopDelay)
	}
}

// aliveTick drives the liveness blink. The slot is painted with the current
// phase, then the phase flips; the display is flushed only on the "on"
// transition so a full blink cycle costs one repaint.
func (c *Client) aliveTick() {
	intervalMs := float64(c.cfg.AliveInterval) / float64(time.Millisecond)
	if !timer.Check(c.clock, &c.alive, intervalMs) {
		return
	}

	if c.phase {
		c.screen.SetColor(c.cfg.AliveUIID, ui.ColorPass)
	} else {
		c.screen.SetColor(c.cfg.AliveUIID, ui.ColorNeutral)
	}
	c.phase = !c.phase

	if c.phase {
		c.screen.Refresh()
	}

	c.mu.Lock()
	c.lastBlink = time.Now()
	c.blinkOn = c.phase
	c.mu.Unlock()
}

func (c *Client) record(ctx context.Context, runID string, item ui.Item, ok bool, raw, display string) {
	if c.journal == nil || runID == "" {
		return
	}
	err := c.journal.RecordResult(ctx, runID, journal.Result{
		UIID:    item.UIID,
		Group:   item.Group.Name(),
		Dev:     item.Dev,
		OK:      ok,
		Raw:     raw,
		Display: display,
	})
	if err != nil {
		c.logger.Error("journal record failed", "ui_id", item.UIID, "error", err)
	}
}

func statusColor(s protocol.Status) ui.Color {
	switch s {
	case protocol.StatusPass:
		return ui.ColorPass
	case protocol.StatusFail:
		return ui.ColorFail
	default:
		return ui.ColorNeutral
	}
}
