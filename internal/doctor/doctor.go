// Package doctor validates jig-client configuration before a board is put on
// the line: slot collisions, identifier overflows, and wiring mistakes that
// would otherwise only show up as "n/a" slots mid-run.
package doctor

import (
	"fmt"
	"net"

	"github.com/benchworks/jig-client/internal/config"
	"github.com/benchworks/jig-client/internal/protocol"
)

// Result holds the outcome of a validation run.
type Result struct {
	Valid    bool    `json:"valid"`
	Errors   []Issue `json:"errors,omitempty"`
	Warnings []Issue `json:"warnings,omitempty"`
}

// Issue describes a single validation error or warning.
type Issue struct {
	Category string `json:"category"`
	Message  string `json:"message"`
	Field    string `json:"field,omitempty"`
}

// Doctor validates a loaded configuration.
type Doctor struct {
	cfg *config.Config
}

// New creates a Doctor from a loaded config.
func New(cfg *config.Config) *Doctor {
	return &Doctor{cfg: cfg}
}

// Validate runs all checks and returns a result.
func (d *Doctor) Validate() *Result {
	r := &Result{Valid: true}

	d.validateService(r)
	d.validateItems(r)
	d.validateAliveSlot(r)
	d.validateAnnounce(r)
	d.validateAPI(r)

	r.Valid = len(r.Errors) == 0
	return r
}

func (d *Doctor) addError(r *Result, category, field, msg string) {
	r.Errors = append(r.Errors, Issue{Category: category, Field: field, Message: msg})
}

func (d *Doctor) addWarning(r *Result, category, field, msg string) {
	r.Warnings = append(r.Warnings, Issue{Category: category, Field: field, Message: msg})
}

func (d *Doctor) validateService(r *Result) {
	if d.cfg.Service.AliveInterval <= 0 {
		d.addError(r, "service", "service.alive_interval", "alive_interval must be positive")
	}
	if d.cfg.Service.LoopDelay <= 0 {
		d.addError(r, "service", "service.loop_delay", "loop_delay must be positive")
	}
}

// validateItems surfaces everything the dispatch loop would reject at init
// time, so overflows are caught before the board is on the bench.
func (d *Doctor) validateItems(r *Result) {
	if len(d.cfg.Display.Items) == 0 {
		d.addError(r, "display", "display.items", "at least one test item is required")
		return
	}

	seen := make(map[int]int)
	for i, item := range d.cfg.Display.Items {
		field := fmt.Sprintf("display.items[%d]", i)

		if item.UIID < 0 || item.UIID > protocol.MaxUIID {
			d.addError(r, "display", field+".ui_id",
				fmt.Sprintf("ui_id %d does not fit the 4-digit frame field (0-%d); the slot would render as n/a", item.UIID, protocol.MaxUIID))
		}
		if item.Dev < 0 || item.Dev > protocol.MaxDev {
			d.addError(r, "display", field+".dev",
				fmt.Sprintf("dev %d does not fit the 3-digit frame field (0-%d); the slot would render as n/a", item.Dev, protocol.MaxDev))
		}

		if g, ok := protocol.GroupFromName(item.Group); !ok {
			d.addError(r, "display", field+".group", fmt.Sprintf("unknown group %q", item.Group))
		} else if int(g) > protocol.MaxGrp {
			d.addError(r, "display", field+".group",
				fmt.Sprintf("group code %d does not fit the 2-digit frame field", int(g)))
		}

		if prev, dup := seen[item.UIID]; dup {
			d.addError(r, "display", field+".ui_id",
				fmt.Sprintf("ui_id %d already used by items[%d]", item.UIID, prev))
		}
		seen[item.UIID] = i

		if item.Label == "" {
			d.addWarning(r, "display", field+".label", "label is empty; the slot will show group/dev")
		}
	}
}

func (d *Doctor) validateAliveSlot(r *Result) {
	for _, item := range d.cfg.Display.Items {
		if item.UIID == d.cfg.Service.AliveUIID {
			return
		}
	}
	d.addWarning(r, "service", "service.alive_ui_id",
		fmt.Sprintf("alive slot %d is not in display.items; blink updates will be dropped", d.cfg.Service.AliveUIID))
}

func (d *Doctor) validateAnnounce(r *Result) {
	if !d.cfg.Announce.Enabled {
		return
	}
	if d.cfg.Announce.Endpoint == "" {
		d.addError(r, "announce", "announce.endpoint", "endpoint is required when announce is enabled")
		return
	}
	if _, _, err := net.SplitHostPort(d.cfg.Announce.Endpoint); err != nil {
		d.addError(r, "announce", "announce.endpoint",
			fmt.Sprintf("endpoint %q is not host:port", d.cfg.Announce.Endpoint))
	}
	if d.cfg.Announce.Interface == "" {
		d.addWarning(r, "announce", "announce.interface", "no interface set; MAC announcement will fail")
	}
}

func (d *Doctor) validateAPI(r *Result) {
	if !d.cfg.API.Enabled {
		return
	}
	if d.cfg.API.Listen == "" {
		d.addError(r, "api", "api.listen", "api.listen is required when the API is enabled")
		return
	}
	if _, _, err := net.SplitHostPort(d.cfg.API.Listen); err != nil {
		d.addError(r, "api", "api.listen", fmt.Sprintf("listen %q is not host:port", d.cfg.API.Listen))
	}
}
