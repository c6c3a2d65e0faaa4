package device

import "github.com/benchworks/jig-client/internal/protocol"

type stubKey struct {
	group protocol.Group
	dev   int
}

type stubResult struct {
	ok   bool
	resp string
}

// Stub is a scriptable Checker used by tests and by bench mode, where the
// client runs off-board without real hardware.
type Stub struct {
	results map[stubKey]stubResult
}

// NewStub returns an empty stub; unprogrammed queries fail with "NG".
func NewStub() *Stub {
	return &Stub{results: make(map[stubKey]stubResult)}
}

// Program sets the result returned for a category/device pair.
func (s *Stub) Program(g protocol.Group, dev int, ok bool, resp string) {
	s.results[stubKey{group: g, dev: dev}] = stubResult{ok: ok, resp: resp}
}

func (s *Stub) Setup() error { return nil }

func (s *Stub) Check(frame []byte) (bool, []byte) {
	q, err := protocol.ParseQuery(frame)
	if err != nil {
		return false, clampResp("NG")
	}
	r, found := s.results[stubKey{group: q.Group, dev: q.Dev}]
	if !found {
		return false, clampResp("NG")
	}
	return r.ok, clampResp(r.resp)
}
