package reconciler

import (
	"sync"

	"github.com/jdgomezv/delivery-dispatch/internal/domain"
)

// Result says what a single event application did to the collection.
type Result int

const (
	NoChange Result = iota
	Inserted
	Updated
	Removed
	Stale
)

// Collection is the dealer-facing active-order queue: every member holds a
// dealer-relevant status, ordered with the newest arrivals first. All reads
// hand out copies; the inbound router goroutine is the only writer once the
// stream is up.
type Collection struct {
	mu     sync.RWMutex
	orders []domain.OrderSnapshot
	index  map[int64]int
}

func NewCollection() *Collection {
	return &Collection{index: make(map[int64]int)}
}

// Seed replaces the whole collection with the initial REST page. Members with
// a non-dealer-relevant status are skipped so the queue invariant holds from
// the first frame.
func (c *Collection) Seed(orders []domain.OrderSnapshot) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.orders = c.orders[:0]
	c.index = make(map[int64]int, len(orders))
	for _, o := range orders {
		if !o.Status.DealerRelevant() {
			continue
		}
		if _, ok := c.index[o.ID]; ok {
			continue
		}
		c.index[o.ID] = len(c.orders)
		c.orders = append(c.orders, o)
	}
}

// Apply merges one authoritative snapshot into the collection:
//  1. terminal status: the order leaves the queue, no-op if it was never here
//  2. known id: replaced in place, position untouched
//  3. new id with a dealer-relevant status: prepended
//
// Applying the same event twice, or two events for one id in either order,
// converges on last-write-wins. The only exception is a snapshot whose
// nonzero version is behind the held one; that is stale data and is refused.
func (c *Collection) Apply(snap domain.OrderSnapshot) Result {
	c.mu.Lock()
	defer c.mu.Unlock()

	pos, held := c.index[snap.ID]

	if !snap.Status.DealerRelevant() {
		if !held {
			return NoChange
		}
		c.removeAt(pos, snap.ID)
		return Removed
	}

	if held {
		cur := c.orders[pos]
		if cur.Version != 0 && snap.Version != 0 && snap.Version < cur.Version {
			return Stale
		}
		c.orders[pos] = snap
		return Updated
	}

	c.orders = append([]domain.OrderSnapshot{snap}, c.orders...)
	for id, i := range c.index {
		c.index[id] = i + 1
	}
	c.index[snap.ID] = 0
	return Inserted
}

// Drop removes an order regardless of status, used when a fleet event shows
// the order was claimed by a different dealer.
func (c *Collection) Drop(id int64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	pos, ok := c.index[id]
	if !ok {
		return false
	}
	c.removeAt(pos, id)
	return true
}

func (c *Collection) removeAt(pos int, id int64) {
	c.orders = append(c.orders[:pos], c.orders[pos+1:]...)
	delete(c.index, id)
	for i := pos; i < len(c.orders); i++ {
		c.index[c.orders[i].ID] = i
	}
}

func (c *Collection) Get(id int64) (domain.OrderSnapshot, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	pos, ok := c.index[id]
	if !ok {
		return domain.OrderSnapshot{}, false
	}
	return c.orders[pos], true
}

// Orders returns a copied projection in queue order.
func (c *Collection) Orders() []domain.OrderSnapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]domain.OrderSnapshot, len(c.orders))
	copy(out, c.orders)
	return out
}

func (c *Collection) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.orders)
}
