package dispatch

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/sethvargo/go-retry"

	"github.com/jdgomezv/delivery-dispatch/internal/domain"
	"github.com/jdgomezv/delivery-dispatch/internal/logger"
	"github.com/jdgomezv/delivery-dispatch/internal/reconciler"
	"github.com/jdgomezv/delivery-dispatch/internal/tracker"
)

var (
	ErrNotConnected      = errors.New("not connected to the dispatch stream")
	ErrActionInFlight    = errors.New("an action is already in flight for this order")
	ErrInvalidTransition = errors.New("status is not reachable from the order's current status")
)

type Config struct {
	Brokers           string
	OrdersTopic       string
	ErrorsQueuePrefix string
	CommandsTopic     string
	DealerID          int64
	Reconnect         time.Duration
	LockTTL           time.Duration
}

// Client owns one logical broker session for a dealer: the two inbound
// subscriptions, the outbound command writer, the reconciled order queue and
// the in-flight action locks. Construct one per dealer screen and Disconnect
// when the screen goes away.
type Client struct {
	cfg     Config
	brokers []string

	orders *reconciler.Collection
	locks  *tracker.Tracker
	notifs chan domain.Notification

	mu        sync.Mutex
	cancel    context.CancelFunc
	writer    *kafka.Writer
	wg        sync.WaitGroup
	connected atomic.Bool
}

func NewClient(cfg Config) *Client {
	if cfg.Reconnect <= 0 {
		cfg.Reconnect = 5 * time.Second
	}
	if cfg.LockTTL <= 0 {
		cfg.LockTTL = 30 * time.Second
	}
	return &Client{
		cfg:     cfg,
		brokers: strings.Split(cfg.Brokers, ","),
		orders:  reconciler.NewCollection(),
		locks:   tracker.New(cfg.LockTTL),
		notifs:  make(chan domain.Notification, 16),
	}
}

// Connect brings the session up in the background: it probes the broker on a
// fixed backoff until it answers or Disconnect is called, then arms the
// subscriptions. Calling it while a session is already up is a no-op; the
// caller watches Connected rather than an error.
func (c *Client) Connect(ctx context.Context) {
	c.mu.Lock()
	if c.cancel != nil {
		c.mu.Unlock()
		return
	}
	runCtx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	c.mu.Unlock()

	c.wg.Add(1)
	go c.run(runCtx)
}

func (c *Client) run(ctx context.Context) {
	defer c.wg.Done()

	err := retry.Do(ctx, retry.NewConstant(c.cfg.Reconnect), func(ctx context.Context) error {
		conn, err := kafka.DialContext(ctx, "tcp", c.brokers[0])
		if err != nil {
			logger.Warn("broker unreachable, retrying", "addr", c.brokers[0], "err", err)
			return retry.RetryableError(err)
		}
		_ = conn.Close()
		return nil
	})
	if err != nil {
		// disconnected while still dialing
		return
	}

	c.mu.Lock()
	c.writer = &kafka.Writer{
		Addr:         kafka.TCP(c.brokers...),
		Topic:        c.cfg.CommandsTopic,
		Balancer:     &kafka.LeastBytes{},
		RequiredAcks: kafka.RequireOne,
		Async:        false,
	}
	c.mu.Unlock()

	errQueue := c.cfg.ErrorsQueuePrefix + "." + strconv.FormatInt(c.cfg.DealerID, 10)

	c.wg.Add(3)
	go c.consume(ctx, c.cfg.OrdersTopic, c.handleOrderFrame)
	go c.consume(ctx, errQueue, c.handleErrorFrame)
	go c.sweepLocks(ctx)

	c.connected.Store(true)
	logger.Info("dispatch stream connected", "dealer", c.cfg.DealerID, "topic", c.cfg.OrdersTopic, "errors", errQueue)

	<-ctx.Done()
	c.connected.Store(false)
}

// Disconnect tears the session down: subscriptions first, so no further
// frames are dispatched, then the writer and the collection. Projections
// already handed out stay valid. Idempotent.
func (c *Client) Disconnect() {
	c.mu.Lock()
	cancel := c.cancel
	c.cancel = nil
	c.mu.Unlock()

	if cancel == nil {
		return
	}
	c.connected.Store(false)
	cancel()
	c.wg.Wait()

	c.mu.Lock()
	w := c.writer
	c.writer = nil
	c.mu.Unlock()
	if w != nil {
		_ = w.Close()
	}

	c.orders.Seed(nil)
	logger.Info("dispatch stream disconnected", "dealer", c.cfg.DealerID)
}

func (c *Client) Connected() bool {
	return c.connected.Load()
}

// Seed loads the initial REST page into the collection. Call before Connect
// so the stream only has to merge deltas.
func (c *Client) Seed(orders []domain.OrderSnapshot) {
	c.orders.Seed(orders)
}

// Orders returns the reconciled active queue, newest first.
func (c *Client) Orders() []domain.OrderSnapshot {
	return c.orders.Orders()
}

func (c *Client) Order(id int64) (domain.OrderSnapshot, bool) {
	return c.orders.Get(id)
}

// Busy reports whether the order has a dealer action in flight.
func (c *Client) Busy(orderID int64) bool {
	return c.locks.Busy(orderID)
}

// Notifications carries command rejections, action timeouts and other
// transient failures. Each value is surfaced exactly once.
func (c *Client) Notifications() <-chan domain.Notification {
	return c.notifs
}

func (c *Client) notify(n domain.Notification) {
	select {
	case c.notifs <- n:
	default:
		logger.Warn("notification dropped, channel full", "order", n.OrderID)
	}
}
