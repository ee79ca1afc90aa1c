package reconciler

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jdgomezv/delivery-dispatch/internal/domain"
)

func snap(id int64, status domain.Status) domain.OrderSnapshot {
	return domain.OrderSnapshot{ID: id, Status: status}
}

func ids(c *Collection) []int64 {
	orders := c.Orders()
	out := make([]int64, len(orders))
	for i, o := range orders {
		out[i] = o.ID
	}
	return out
}

func TestApplyUpdatesInPlace(t *testing.T) {
	// scenario: a PENDIENTE order the dealer accepts moves to EN_CAMINO
	c := NewCollection()
	require.Equal(t, Inserted, c.Apply(snap(1, domain.StatusPendiente)))

	require.Equal(t, Updated, c.Apply(snap(1, domain.StatusEnCamino)))
	got, ok := c.Get(1)
	require.True(t, ok)
	require.Equal(t, domain.StatusEnCamino, got.Status)
	require.Equal(t, 1, c.Len())
}

func TestApplyRemovesTerminal(t *testing.T) {
	for _, terminal := range []domain.Status{domain.StatusEntregado, domain.StatusRechazado, domain.StatusCancelado} {
		c := NewCollection()
		c.Apply(snap(1, domain.StatusEnCamino))
		require.Equal(t, Removed, c.Apply(snap(1, terminal)), terminal)
		require.Zero(t, c.Len())

		// removing an order we never held is a no-op
		require.Equal(t, NoChange, c.Apply(snap(99, terminal)))
	}
}

func TestApplyPrependsNewOrders(t *testing.T) {
	c := NewCollection()
	require.Equal(t, Inserted, c.Apply(snap(7, domain.StatusPendiente)))
	c.Apply(snap(8, domain.StatusPendiente))
	c.Apply(snap(9, domain.StatusPendiente))
	require.Equal(t, []int64{9, 8, 7}, ids(c))
}

func TestApplyIsIdempotent(t *testing.T) {
	c := NewCollection()
	ev := domain.OrderSnapshot{ID: 1, Status: domain.StatusEnCamino, Total: 30}
	c.Apply(snap(2, domain.StatusPendiente))
	c.Apply(ev)

	before := c.Orders()
	c.Apply(ev)
	require.Equal(t, before, c.Orders())
}

func TestUpdateKeepsPosition(t *testing.T) {
	c := NewCollection()
	c.Apply(snap(1, domain.StatusPendiente))
	c.Apply(snap(2, domain.StatusPendiente))
	c.Apply(snap(3, domain.StatusPendiente))
	require.Equal(t, []int64{3, 2, 1}, ids(c))

	// updating the middle order must not move it
	c.Apply(domain.OrderSnapshot{ID: 2, Status: domain.StatusEnCamino, Total: 99})
	require.Equal(t, []int64{3, 2, 1}, ids(c))

	got, _ := c.Get(2)
	require.Equal(t, float64(99), got.Total)
}

func TestRemovalReindexes(t *testing.T) {
	c := NewCollection()
	c.Apply(snap(1, domain.StatusPendiente))
	c.Apply(snap(2, domain.StatusPendiente))
	c.Apply(snap(3, domain.StatusPendiente))

	c.Apply(snap(2, domain.StatusCancelado))
	require.Equal(t, []int64{3, 1}, ids(c))

	got, ok := c.Get(1)
	require.True(t, ok)
	require.Equal(t, int64(1), got.ID)
}

func TestStaleVersionRejected(t *testing.T) {
	c := NewCollection()
	c.Apply(domain.OrderSnapshot{ID: 1, Status: domain.StatusEnCamino, Version: 5})

	require.Equal(t, Stale, c.Apply(domain.OrderSnapshot{ID: 1, Status: domain.StatusPendiente, Version: 3}))
	got, _ := c.Get(1)
	require.Equal(t, domain.StatusEnCamino, got.Status)

	// versionless events keep last-write-wins
	require.Equal(t, Updated, c.Apply(domain.OrderSnapshot{ID: 1, Status: domain.StatusPendiente}))
	got, _ = c.Get(1)
	require.Equal(t, domain.StatusPendiente, got.Status)
}

func TestSeedReplacesAndFilters(t *testing.T) {
	c := NewCollection()
	c.Apply(snap(1, domain.StatusPendiente))

	c.Seed([]domain.OrderSnapshot{
		snap(10, domain.StatusPendiente),
		snap(11, domain.StatusEntregado),
		snap(12, domain.StatusEnCamino),
		snap(10, domain.StatusPendiente),
	})
	require.Equal(t, []int64{10, 12}, ids(c))

	c.Seed(nil)
	require.Zero(t, c.Len())
}

func TestDrop(t *testing.T) {
	c := NewCollection()
	c.Apply(snap(1, domain.StatusEnCamino))
	require.True(t, c.Drop(1))
	require.False(t, c.Drop(1))
	require.Zero(t, c.Len())
}

func TestOrdersReturnsCopy(t *testing.T) {
	c := NewCollection()
	c.Apply(snap(1, domain.StatusPendiente))

	proj := c.Orders()
	proj[0].Status = domain.StatusCancelado

	got, _ := c.Get(1)
	require.Equal(t, domain.StatusPendiente, got.Status)
}
