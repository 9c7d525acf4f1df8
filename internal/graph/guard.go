package graph

import "slices"

// Counters stores retry attempt counts. *state.SessionState implements it so
// every session owns its own counters.
type Counters interface {
	RetryCount(key string) int
	SetRetryCount(key string, n int)
}

// RetryGuard bounds how often a conditional edge may take one of its loop
// labels before the fallback label is forced.
type RetryGuard struct {
	Max      int
	Loop     []string
	Fallback string
}

// IsLoop reports whether label sends the session back around the loop.
func (g RetryGuard) IsLoop(label string) bool {
	return slices.Contains(g.Loop, label)
}

// ShouldForceFallback records that label was chosen on the edge counted
// under key and reports whether the fallback must be taken instead.
//
// A loop label increments the counter before the check; once it reaches Max
// the counter resets and true is returned. Any other label resets the counter.
func (g RetryGuard) ShouldForceFallback(c Counters, key, label string) bool {
	if !g.IsLoop(label) {
		c.SetRetryCount(key, 0)
		return false
	}
	n := c.RetryCount(key) + 1
	if n >= g.Max {
		c.SetRetryCount(key, 0)
		return true
	}
	c.SetRetryCount(key, n)
	return false
}
