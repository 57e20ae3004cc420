package engagement

import "sync"

// flightTable enforces one outstanding remote toggle per key. A second
// request while one is in flight marks exactly one follow-up run rather
// than firing in parallel, so the optimistic-then-reconcile ordering
// stays consistent.
type flightTable struct {
	mu      sync.Mutex
	pending map[string]*flight
}

type flight struct {
	queued bool
}

// acquire reports whether the caller owns the flight for key. When it
// returns false, an owner exists and one follow-up has been queued on
// its behalf.
func (t *flightTable) acquire(key string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.pending == nil {
		t.pending = make(map[string]*flight)
	}
	if f, ok := t.pending[key]; ok {
		f.queued = true
		return false
	}
	t.pending[key] = &flight{}
	return true
}

// release ends the owner's current run. It returns true when a queued
// follow-up should run (ownership is retained), false when the flight
// is fully released.
func (t *flightTable) release(key string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	f := t.pending[key]
	if f != nil && f.queued {
		f.queued = false
		return true
	}
	delete(t.pending, key)
	return false
}
