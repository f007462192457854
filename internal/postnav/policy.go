package postnav

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// Policy decides which of several overlapping clicks on one page ends up in
// the content pane.
type Policy int

const (
	// LatestClick: a new click cancels the in-flight one and only the most
	// recent click may write the content pane.
	LatestClick Policy = iota

	// LastSettled: no cancellation, every successful retrieval writes, so the
	// retrieval that settles last wins regardless of click order.
	LastSettled
)

func (p Policy) String() string {
	switch p {
	case LatestClick:
		return "latest"
	case LastSettled:
		return "settled"
	default:
		return fmt.Sprintf("policy(%d)", int(p))
	}
}

// ParsePolicy accepts "latest" (or "latest-click") and "settled" (or "last-settled").
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "latest", "latest-click":
		return LatestClick, nil
	case "settled", "last-settled":
		return LastSettled, nil
	default:
		return LatestClick, fmt.Errorf("unknown click policy %q", s)
	}
}

// coordinator is the single-slot request sequencer of a page.
// It owns every write to the content container.
type coordinator struct {
	mu     sync.Mutex
	seq    uint64
	cancel context.CancelFunc
}

// begin registers a new request and returns its sequence number, the context
// the request must run under, and a release func to call when it is done.
func (c *coordinator) begin(parent context.Context, policy Policy) (uint64, context.Context, func()) {
	ctx, cancel := context.WithCancel(parent)

	c.mu.Lock()
	c.seq++
	seq := c.seq
	if policy == LatestClick {
		if c.cancel != nil {
			c.cancel()
		}
		c.cancel = cancel
	}
	c.mu.Unlock()

	release := func() {
		cancel()
		c.mu.Lock()
		if c.seq == seq {
			c.cancel = nil
		}
		c.mu.Unlock()
	}
	return seq, ctx, release
}

// superseded reports whether a newer request has taken over the slot.
func (c *coordinator) superseded(seq uint64, policy Policy) bool {
	if policy != LatestClick {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.seq != seq
}

// commit runs write if the request is still allowed to touch the content
// pane. The check and the write happen under one lock.
func (c *coordinator) commit(seq uint64, policy Policy, write func() error) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if policy == LatestClick && c.seq != seq {
		return false, nil
	}
	return true, write()
}

// locked runs fn while no request can commit.
func (c *coordinator) locked(fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fn()
}

func (c *coordinator) current() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.seq
}
