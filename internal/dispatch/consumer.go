package dispatch

import (
	"context"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"github.com/jdgomezv/delivery-dispatch/internal/codec"
	"github.com/jdgomezv/delivery-dispatch/internal/domain"
	"github.com/jdgomezv/delivery-dispatch/internal/logger"
	"github.com/jdgomezv/delivery-dispatch/internal/reconciler"
)

// consume runs one subscription until the session context dies. The status
// topic is fleet-wide fan-out, so every connection gets its own consumer
// group and starts from the tail; history is covered by the REST seed.
func (c *Client) consume(ctx context.Context, topic string, handle func([]byte)) {
	defer c.wg.Done()

	group := "dealer-" + strconv.FormatInt(c.cfg.DealerID, 10) + "-" + uuid.NewString()
	r := kafka.NewReader(kafka.ReaderConfig{
		Brokers:         c.brokers,
		GroupID:         group,
		Topic:           topic,
		MinBytes:        1,
		MaxBytes:        10e6,
		StartOffset:     kafka.LastOffset,
		ReadLagInterval: -1,
	})
	defer r.Close()

	backoff := time.Millisecond * 300
	for {
		m, err := r.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			logger.Warn("fetch failed", "topic", topic, "err", err)
			time.Sleep(backoff)
			continue
		}

		handle(m.Value)

		if err := r.CommitMessages(ctx, m); err != nil && ctx.Err() == nil {
			logger.Warn("commit failed", "topic", topic, "err", err)
		}
	}
}

// handleOrderFrame is the status-topic half of the router: decode, filter
// fleet noise, merge, settle any matching lock. It never blocks and never
// lets a bad payload past the decode boundary.
func (c *Client) handleOrderFrame(b []byte) {
	snap, err := codec.DecodeOrderEvent(b)
	if err != nil {
		logger.Warn("dropping order frame", "err", err)
		return
	}

	// The broadcast carries every dealer's orders. One claimed by somebody
	// else is not ours to show; if we were holding it, we lost the race.
	if snap.DealerID != 0 && snap.DealerID != c.cfg.DealerID {
		if c.orders.Drop(snap.ID) {
			logger.Info("order claimed by another dealer", "order", snap.ID, "dealer", snap.DealerID)
		}
		return
	}

	res := c.orders.Apply(snap)
	if res == reconciler.Stale {
		logger.Debug("stale order event ignored", "order", snap.ID, "version", snap.Version)
		return
	}

	if pa, ok := c.locks.Get(snap.ID); ok && snap.Status.Satisfies(pa.Target) {
		c.locks.Resolve(snap.ID)
	}
}

// handleErrorFrame is the per-dealer queue half: a rejection clears the lock
// without touching the collection and is surfaced once.
func (c *Client) handleErrorFrame(b []byte) {
	ev, err := codec.DecodeErrorEvent(b)
	if err != nil {
		logger.Warn("dropping error frame", "err", err)
		return
	}

	if ev.OrderID != 0 {
		c.locks.Resolve(ev.OrderID)
	} else {
		// Observed payloads omit the order id. With nothing to correlate on,
		// free every in-flight action rather than leave one stuck busy.
		c.locks.ResolveAll()
	}

	c.notify(domain.Notification{OrderID: ev.OrderID, Messages: ev.Errors})
}

// sweepLocks turns expired locks into the same failure path a rejection
// takes, so a dropped server reply cannot pin an order busy forever.
func (c *Client) sweepLocks(ctx context.Context) {
	defer c.wg.Done()

	interval := c.cfg.LockTTL / 4
	if interval < time.Second {
		interval = time.Second
	}
	t := time.NewTicker(interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			for _, pa := range c.locks.Expired() {
				logger.Warn("action timed out", "order", pa.OrderID, "target", pa.Target)
				c.notify(domain.Notification{
					OrderID:  pa.OrderID,
					Messages: []string{"status change request timed out"},
				})
			}
		}
	}
}
