// Package device implements the device-check subsystem behind the wire
// protocol: per-category probes answering check queries with a verdict and up
// to six bytes of response.
package device

import "github.com/benchworks/jig-client/internal/protocol"

// Checker executes one encoded check query against the hardware.
// Implementations must be safe to call repeatedly and must not block
// indefinitely.
type Checker interface {
	Setup() error
	Check(frame []byte) (ok bool, resp []byte)
}

// clampResp bounds a probe response to the protocol's response register size.
func clampResp(s string) []byte {
	if len(s) > protocol.RespBytes {
		s = s[:protocol.RespBytes]
	}
	return []byte(s)
}
