// Package ratelimit tracks the throttling window the V2EX API reports through
// its rate-limit response headers.
//
// The API attaches three headers to every response: the size of the current
// window, the number of requests left in it, and the seconds until it resets.
// Tracker records the most recently observed value of each so callers can
// inspect their remaining budget without issuing an extra request.
package ratelimit

import (
	"net/http"
	"strconv"
	"sync/atomic"
)

// Response header names the tracker reads, matched exactly.
const (
	HeaderLimit     = "X-Rate-Limit-Limit"
	HeaderRemaining = "X-Rate-Limit-Remaining"
	HeaderReset     = "X-Rate-Limit-Reset"
)

// Tracker holds the most recently observed rate-limit window.
//
// The three cells are updated independently: a response that carries only
// some of the headers updates only those cells, and a header that fails to
// parse leaves its cell at the previous value. Each cell is last-write-wins
// by call-completion order; no ordering is guaranteed between cells.
//
// All methods are safe for concurrent use. Reads are lock-free and never
// block an in-flight update; an update never blocks another update. The
// zero value is ready to use, reporting zeroes until the first update.
type Tracker struct {
	limit     atomic.Uint32
	remaining atomic.Uint32
	reset     atomic.Int64
}

// Window is a point-in-time copy of the tracker's cells.
//
// Because the cells update independently, the three values may originate
// from different responses when headers are inconsistently present.
type Window struct {
	// Limit is the maximum number of requests allowed per window.
	Limit uint16
	// Remaining is the number of requests left in the current window.
	Remaining uint16
	// Reset is the number of seconds until the window resets.
	Reset int64
}

// Limit returns the most recently reported window size.
func (t *Tracker) Limit() uint16 {
	return uint16(t.limit.Load())
}

// Remaining returns the most recently reported remaining request count.
func (t *Tracker) Remaining() uint16 {
	return uint16(t.remaining.Load())
}

// Reset returns the most recently reported seconds until the window resets.
func (t *Tracker) Reset() int64 {
	return t.reset.Load()
}

// Snapshot returns a copy of all three cells.
func (t *Tracker) Snapshot() Window {
	return Window{
		Limit:     t.Limit(),
		Remaining: t.Remaining(),
		Reset:     t.Reset(),
	}
}

// UpdateFromHeaders stores any rate-limit values present in h.
//
// Each header is handled on its own: a value that is absent or does not
// parse is skipped, leaving the prior cell value untouched. The limit and
// remaining headers must fit in 16 bits; the reset header is a signed
// 64-bit second count, since the API may report non-positive values.
func (t *Tracker) UpdateFromHeaders(h http.Header) {
	if raw := h.Get(HeaderLimit); raw != "" {
		if v, err := strconv.ParseUint(raw, 10, 16); err == nil {
			t.limit.Store(uint32(v))
		}
	}

	if raw := h.Get(HeaderRemaining); raw != "" {
		if v, err := strconv.ParseUint(raw, 10, 16); err == nil {
			t.remaining.Store(uint32(v))
		}
	}

	if raw := h.Get(HeaderReset); raw != "" {
		if v, err := strconv.ParseInt(raw, 10, 64); err == nil {
			t.reset.Store(v)
		}
	}
}
