// Package announce pushes the board's network identity to the label printer
// on the test fixture. The printer speaks a one-line text protocol over TCP;
// delivery is fire-and-forget and never fatal to the client.
package announce

import (
	"fmt"
	"log/slog"
	"net"
	"time"

	"github.com/benchworks/jig-client/internal/log"
)

// Kind tags what an announcement payload carries.
type Kind string

const KindMAC Kind = "mac-address"

// ChannelDefault is the printer's default label channel.
const ChannelDefault = 0

// Config holds the announcer settings.
type Config struct {
	Endpoint string
	Timeout  time.Duration
}

// Announcer talks to the fixture's label printer.
type Announcer struct {
	cfg    Config
	logger *slog.Logger
}

// New creates an announcer. It does not touch the network until TryInit.
func New(cfg Config) *Announcer {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 2 * time.Second
	}
	return &Announcer{cfg: cfg, logger: log.WithComponent("announce")}
}

// TryInit probes the printer endpoint once. A false return means the fixture
// has no printer attached; the client carries on without announcing.
func (a *Announcer) TryInit() bool {
	conn, err := net.DialTimeout("tcp", a.cfg.Endpoint, a.cfg.Timeout)
	if err != nil {
		a.logger.Warn("label printer unreachable", "endpoint", a.cfg.Endpoint, "error", err)
		return false
	}
	_ = conn.Close()
	return true
}

// Announce sends one labeled line to the printer. Errors are logged, not
// returned; the production line must not stall on a printer hiccup.
func (a *Announcer) Announce(kind Kind, payload string, channel int) {
	conn, err := net.DialTimeout("tcp", a.cfg.Endpoint, a.cfg.Timeout)
	if err != nil {
		a.logger.Error("announce dial failed", "endpoint", a.cfg.Endpoint, "error", err)
		return
	}
	defer conn.Close()

	_ = conn.SetWriteDeadline(time.Now().Add(a.cfg.Timeout))
	if _, err := fmt.Fprintf(conn, "%s,%d,%s\n", kind, channel, payload); err != nil {
		a.logger.Error("announce write failed", "endpoint", a.cfg.Endpoint, "error", err)
		return
	}
	a.logger.Info("announced", "kind", string(kind), "channel", channel, "payload", payload)
}
