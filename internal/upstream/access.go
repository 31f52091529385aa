package upstream

import "sync"

// AccessState is the Iron Bank direct-access verdict.
type AccessState int

const (
	// AccessUntested means no probe has settled the verdict yet.
	AccessUntested AccessState = iota

	// AccessConfirmed means a direct-access probe succeeded once.
	AccessConfirmed

	// AccessDenied means a direct-access probe failed once.
	AccessDenied
)

// AccessCache records whether direct Iron Bank registry access works.
// Access is assumed to be all-or-nothing for a run, so a single probe
// settles the verdict for every later image from that registry. The cache
// is shared by all Finders in the process; transitions are one-way and the
// state never changes again once confirmed or denied.
//
// Concurrent first use may issue more than one probe before the verdict
// settles; that is acceptable, the verdict just must not oscillate.
type AccessCache struct {
	mu    sync.Mutex
	state AccessState
}

// NewAccessCache creates an untested AccessCache.
func NewAccessCache() *AccessCache {
	return &AccessCache{}
}

// State returns the current verdict.
func (c *AccessCache) State() AccessState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Confirm settles the verdict as confirmed. Returns true if this call
// settled it; false if the verdict was already settled either way.
func (c *AccessCache) Confirm() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != AccessUntested {
		return false
	}
	c.state = AccessConfirmed
	return true
}

// Deny settles the verdict as denied. Returns true if this call settled
// it; false if the verdict was already settled either way.
func (c *AccessCache) Deny() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != AccessUntested {
		return false
	}
	c.state = AccessDenied
	return true
}
