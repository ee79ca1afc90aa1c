package dispatch

import (
	"context"
	"strconv"

	"github.com/segmentio/kafka-go"

	"github.com/jdgomezv/delivery-dispatch/internal/codec"
	"github.com/jdgomezv/delivery-dispatch/internal/domain"
	"github.com/jdgomezv/delivery-dispatch/internal/logger"
)

// RequestStatusChange publishes a status-change command for the order. It is
// fire-and-forget: the returned nil only means the frame was handed to the
// transport. The real outcome arrives later as either a matching snapshot on
// the status topic or a rejection on the error queue; until one of those (or
// the lock deadline) the order reads as busy.
func (c *Client) RequestStatusChange(ctx context.Context, orderID int64, next domain.Status) error {
	if !c.connected.Load() {
		return ErrNotConnected
	}

	if cur, ok := c.orders.Get(orderID); ok && !cur.Status.CanTransitionTo(next) {
		return ErrInvalidTransition
	}

	frame, err := codec.EncodeStatusCommand(domain.StatusCommand{
		OrderID:  orderID,
		DealerID: c.cfg.DealerID,
		Status:   next,
	})
	if err != nil {
		return err
	}

	if !c.locks.Begin(orderID, next) {
		return ErrActionInFlight
	}

	c.mu.Lock()
	w := c.writer
	c.mu.Unlock()
	if w == nil {
		c.locks.Resolve(orderID)
		return ErrNotConnected
	}

	err = w.WriteMessages(ctx, kafka.Message{
		Key:   []byte(strconv.FormatInt(orderID, 10)),
		Value: frame,
		Headers: []kafka.Header{
			{Key: "content-type", Value: []byte("application/json")},
		},
	})
	if err != nil {
		// never reached the transport, so the lock has nothing to wait for
		c.locks.Resolve(orderID)
		return err
	}

	logger.Info("status change requested", "order", orderID, "status", next)
	return nil
}
