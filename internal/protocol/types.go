package protocol

import "fmt"

// Frame geometry. Every query is exactly QueryBytes on the wire; device
// responses are at most RespBytes of ASCII.
const (
	QueryBytes = 19
	RespBytes  = 6
)

// Field ranges are fixed by the zero-padded decimal widths in the frame.
const (
	MaxUIID = 9999 // 4 digits
	MaxGrp  = 99   // 2 digits
	MaxDev  = 999  // 3 digits
)

// Group identifies a device category. Each category shares one
// result-interpretation rule (see FormatMode).
type Group int

const (
	GroupSystem   Group = 0
	GroupStorage  Group = 1
	GroupUSB      Group = 2
	GroupHDMI     Group = 3
	GroupADC      Group = 4
	GroupEthernet Group = 5
	GroupHeader   Group = 6
	GroupAudio    Group = 7
	GroupLED      Group = 8
	GroupIR       Group = 9
)

var groupNames = map[string]Group{
	"system":   GroupSystem,
	"storage":  GroupStorage,
	"usb":      GroupUSB,
	"hdmi":     GroupHDMI,
	"adc":      GroupADC,
	"ethernet": GroupEthernet,
	"header":   GroupHeader,
	"audio":    GroupAudio,
	"led":      GroupLED,
	"ir":       GroupIR,
}

// GroupFromName resolves a config-file category name to its wire code.
func GroupFromName(name string) (Group, bool) {
	g, ok := groupNames[name]
	return g, ok
}

// Name returns the config-file name for g, or its decimal code if unknown.
func (g Group) Name() string {
	for name, code := range groupNames {
		if code == g {
			return name
		}
	}
	return fmt.Sprintf("group-%d", int(g))
}

// Query addresses one test item on the wire.
type Query struct {
	UIID  int
	Group Group
	Dev   int
}

// FormatError reports a query field that does not fit its fixed digit width.
// Encoding rejects such fields outright rather than emitting a corrupt frame.
type FormatError struct {
	Field string
	Value int
	Max   int
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("protocol: %s=%d out of range [0,%d]", e.Field, e.Value, e.Max)
}

// Status is the pass/fail verdict derived from a device check.
type Status int

const (
	// StatusNone means the display color must not be touched (info items).
	StatusNone Status = iota
	StatusPass
	StatusFail
)

// Display is the decoded, display-ready form of one response.
type Display struct {
	Text   string
	Status Status
}

// FormatMode selects how a category's response bytes become display text.
type FormatMode int

const (
	// FormatNumeric reinterprets the response as a lenient decimal integer
	// and re-renders it canonically ("007" becomes "7").
	FormatNumeric FormatMode = iota
	// FormatRaw passes the response text through unchanged (pass/fail
	// tokens such as "OK"/"NG").
	FormatRaw
)

// anyDev matches every device index within a category.
const anyDev = -1

type formatRule struct {
	group Group
	dev   int
	mode  FormatMode
}

// formatRules pins non-default interpretation modes per category. HDMI
// reports a pass/fail token; Ethernet device 1 reports the link verdict
// rather than a speed value. First match wins; everything else is numeric.
var formatRules = []formatRule{
	{group: GroupHDMI, dev: anyDev, mode: FormatRaw},
	{group: GroupEthernet, dev: 1, mode: FormatRaw},
}

// ModeFor returns the interpretation mode for a category/device pair.
func ModeFor(g Group, dev int) FormatMode {
	for _, r := range formatRules {
		if r.group != g {
			continue
		}
		if r.dev == anyDev || r.dev == dev {
			return r.mode
		}
	}
	return FormatNumeric
}
