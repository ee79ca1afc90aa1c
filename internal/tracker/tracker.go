package tracker

import (
	"sync"
	"time"

	"github.com/jdgomezv/delivery-dispatch/internal/domain"
)

// PendingAction marks one order as having a dealer command in flight.
type PendingAction struct {
	OrderID   int64
	Target    domain.Status
	CreatedAt time.Time
	Deadline  time.Time
}

// Tracker holds at most one pending action per order. A lock is cleared by a
// satisfying authoritative event, by an error event, or by its deadline
// passing; a dropped server reply must never leave an order busy forever.
type Tracker struct {
	mu    sync.Mutex
	ttl   time.Duration
	locks map[int64]PendingAction
	now   func() time.Time
}

func New(ttl time.Duration) *Tracker {
	return &Tracker{
		ttl:   ttl,
		locks: make(map[int64]PendingAction),
		now:   time.Now,
	}
}

// Begin records a lock for the order. It refuses while a live lock exists
// for the same order; an expired leftover is replaced.
func (t *Tracker) Begin(orderID int64, target domain.Status) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	if pa, ok := t.locks[orderID]; ok && now.Before(pa.Deadline) {
		return false
	}
	t.locks[orderID] = PendingAction{
		OrderID:   orderID,
		Target:    target,
		CreatedAt: now,
		Deadline:  now.Add(t.ttl),
	}
	return true
}

// Resolve clears the lock unconditionally.
func (t *Tracker) Resolve(orderID int64) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.locks[orderID]; !ok {
		return false
	}
	delete(t.locks, orderID)
	return true
}

// ResolveAll clears every lock and returns what was cleared. Used for error
// events that carry no order id.
func (t *Tracker) ResolveAll() []PendingAction {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make([]PendingAction, 0, len(t.locks))
	for _, pa := range t.locks {
		out = append(out, pa)
	}
	t.locks = make(map[int64]PendingAction)
	return out
}

// Busy reports whether the order has a live lock. An expired lock reads as
// not busy; the sweep removes and reports it.
func (t *Tracker) Busy(orderID int64) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	pa, ok := t.locks[orderID]
	return ok && t.now().Before(pa.Deadline)
}

// Get returns the live lock for the order, if any.
func (t *Tracker) Get(orderID int64) (PendingAction, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	pa, ok := t.locks[orderID]
	if !ok || !t.now().Before(pa.Deadline) {
		return PendingAction{}, false
	}
	return pa, true
}

// Expired removes and returns every lock whose deadline passed, so the
// caller can surface each timeout exactly once.
func (t *Tracker) Expired() []PendingAction {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	var out []PendingAction
	for id, pa := range t.locks {
		if !now.Before(pa.Deadline) {
			out = append(out, pa)
			delete(t.locks, id)
		}
	}
	return out
}
