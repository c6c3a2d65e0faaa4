package timer

import "testing"

// fakeClock is a hand-settable clock.
type fakeClock struct {
	sec  int64
	usec int64
}

func (f *fakeClock) now() (int64, int64) { return f.sec, f.usec }

func (f *fakeClock) set(sec, usec int64) { f.sec, f.usec = sec, usec }

func TestCheck_OneShotAlwaysFiresAndAnchors(t *testing.T) {
	clk := &fakeClock{}
	var last Stamp

	clk.set(100, 250)
	if !Check(clk.now, &last, 0) {
		t.Fatal("one-shot check must return true")
	}
	if last.Sec != 100 || last.Usec != 250 {
		t.Fatalf("anchor not updated: got %+v", last)
	}

	clk.set(100, 300)
	if !Check(clk.now, &last, 0) {
		t.Fatal("one-shot check must return true on every call")
	}
	if last.Sec != 100 || last.Usec != 300 {
		t.Fatalf("anchor not re-updated: got %+v", last)
	}
}

func TestCheck_IntervalElapsed(t *testing.T) {
	tests := []struct {
		name       string
		last       Stamp
		nowSec     int64
		nowUsec    int64
		intervalMs float64
		want       bool
	}{
		{
			name: "well before interval",
			last: Stamp{Sec: 100, Usec: 0}, nowSec: 100, nowUsec: 500000,
			intervalMs: 1000, want: false,
		},
		{
			name: "exactly at interval is not yet elapsed",
			last: Stamp{Sec: 100, Usec: 0}, nowSec: 101, nowUsec: 0,
			intervalMs: 1000, want: false,
		},
		{
			name: "one microsecond past interval",
			last: Stamp{Sec: 100, Usec: 0}, nowSec: 101, nowUsec: 1,
			intervalMs: 1000, want: true,
		},
		{
			name: "far past interval",
			last: Stamp{Sec: 100, Usec: 0}, nowSec: 105, nowUsec: 0,
			intervalMs: 1000, want: true,
		},
		{
			// Elapsed 200us spanning a second boundary; the fractional
			// subtraction must carry correctly.
			name: "microsecond carry across second boundary, not elapsed",
			last: Stamp{Sec: 10, Usec: 999900}, nowSec: 11, nowUsec: 100,
			intervalMs: 100, want: false,
		},
		{
			name: "microsecond carry across second boundary, elapsed",
			last: Stamp{Sec: 10, Usec: 999900}, nowSec: 11, nowUsec: 100,
			intervalMs: 0.1, want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clk := &fakeClock{sec: tt.nowSec, usec: tt.nowUsec}
			last := tt.last

			got := Check(clk.now, &last, tt.intervalMs)
			if got != tt.want {
				t.Fatalf("Check() = %v, want %v", got, tt.want)
			}

			if tt.want {
				if last.Sec != tt.nowSec || last.Usec != tt.nowUsec {
					t.Fatalf("firing must re-anchor to now, got %+v", last)
				}
			} else if last != tt.last {
				t.Fatalf("non-firing check must not touch the anchor, got %+v", last)
			}
		})
	}
}

func TestCheck_FalseImmediatelyAfterFiring(t *testing.T) {
	clk := &fakeClock{}
	var last Stamp

	clk.set(100, 0)
	Check(clk.now, &last, 0)

	clk.set(101, 500)
	if !Check(clk.now, &last, 1000) {
		t.Fatal("interval elapsed, expected true")
	}

	// Same instant again: the anchor just moved to now.
	if Check(clk.now, &last, 1000) {
		t.Fatal("expected false immediately after a firing")
	}

	clk.set(102, 0)
	if Check(clk.now, &last, 1000) {
		t.Fatal("expected false before the next interval elapses")
	}

	clk.set(102, 501)
	if !Check(clk.now, &last, 1000) {
		t.Fatal("expected true after the next interval elapses")
	}
}
