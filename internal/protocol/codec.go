// Package protocol implements the fixed-width JIG wire protocol: 19-byte
// ASCII queries to the device-check subsystem and up to 6 bytes of response.
//
// Frame layout:
//
//	start | cmd | ui id | grp | dev | action | payload | end
//	  @   |  C  | 0000  | 00  | 000 |   0    | 001000  |  #
package protocol

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	startMarker = '@'
	endMarker   = '#'
	cmdCheck    = 'C'
	actionNone  = '0'

	// payloadDefault fills the 6 extra-data bytes of a check query. The
	// first four carry the protocol revision tag, the last two are reserved.
	payloadDefault = "001000"
)

// EncodeQuery builds the 19-byte check query for one test item. Fields that
// exceed their digit widths are rejected with a FormatError; a corrupt frame
// is never produced.
func EncodeQuery(q Query) ([]byte, error) {
	if q.UIID < 0 || q.UIID > MaxUIID {
		return nil, &FormatError{Field: "ui_id", Value: q.UIID, Max: MaxUIID}
	}
	if q.Group < 0 || int(q.Group) > MaxGrp {
		return nil, &FormatError{Field: "group", Value: int(q.Group), Max: MaxGrp}
	}
	if q.Dev < 0 || q.Dev > MaxDev {
		return nil, &FormatError{Field: "dev", Value: q.Dev, Max: MaxDev}
	}

	frame := fmt.Sprintf("%c%c%04d%02d%03d%c%s%c",
		startMarker, cmdCheck, q.UIID, int(q.Group), q.Dev,
		actionNone, payloadDefault, endMarker)

	return []byte(frame), nil
}

// ParseQuery recovers the addressed item from a query frame. It is the exact
// inverse of EncodeQuery for every in-range field combination.
func ParseQuery(frame []byte) (Query, error) {
	if len(frame) != QueryBytes {
		return Query{}, fmt.Errorf("protocol: frame length %d, want %d", len(frame), QueryBytes)
	}
	if frame[0] != startMarker || frame[QueryBytes-1] != endMarker {
		return Query{}, fmt.Errorf("protocol: bad frame markers %q", frame)
	}
	if frame[1] != cmdCheck {
		return Query{}, fmt.Errorf("protocol: unknown command %q", frame[1])
	}

	uiID, err := parseField(frame[2:6], "ui_id")
	if err != nil {
		return Query{}, err
	}
	grp, err := parseField(frame[6:8], "group")
	if err != nil {
		return Query{}, err
	}
	dev, err := parseField(frame[8:11], "dev")
	if err != nil {
		return Query{}, err
	}

	return Query{UIID: uiID, Group: Group(grp), Dev: dev}, nil
}

func parseField(b []byte, name string) (int, error) {
	n, err := strconv.Atoi(string(b))
	if err != nil {
		return 0, fmt.Errorf("protocol: %s field %q is not numeric", name, b)
	}
	return n, nil
}

// DecodeResponse turns a raw device response into its display form.
//
// The response buffer is read up to RespBytes and up to the first NUL,
// whichever comes first. Categories in raw mode keep the response text as-is;
// numeric categories are reinterpreted leniently as a decimal value and
// re-rendered canonically. The verdict comes solely from ok and is withheld
// for info items, which never receive a color update.
func DecodeResponse(resp []byte, ok bool, g Group, dev int, info bool) Display {
	text := clampResponse(resp)

	if ModeFor(g, dev) == FormatNumeric {
		text = strconv.Itoa(leadingInt(text))
	}

	d := Display{Text: text}
	switch {
	case info:
		d.Status = StatusNone
	case ok:
		d.Status = StatusPass
	default:
		d.Status = StatusFail
	}
	return d
}

// clampResponse bounds the buffer to RespBytes and strips the NUL padding a
// fixed-size response register carries.
func clampResponse(resp []byte) string {
	if len(resp) > RespBytes {
		resp = resp[:RespBytes]
	}
	if i := indexByte(resp, 0); i >= 0 {
		resp = resp[:i]
	}
	return strings.TrimSpace(string(resp))
}

func indexByte(b []byte, c byte) int {
	for i := range b {
		if b[i] == c {
			return i
		}
	}
	return -1
}

// leadingInt parses the longest numeric prefix of s, matching C atoi: optional
// sign, then digits; anything non-numeric up front yields zero.
func leadingInt(s string) int {
	i := 0
	neg := false
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		neg = s[i] == '-'
		i++
	}
	n := 0
	start := i
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		n = n*10 + int(s[i]-'0')
		i++
	}
	if i == start {
		return 0
	}
	if neg {
		return -n
	}
	return n
}
