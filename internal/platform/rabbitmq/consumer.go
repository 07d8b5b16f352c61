package rabbitmq

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/jungle/notifications-service/internal/config"
	"github.com/jungle/notifications-service/internal/platform/logger"
	"github.com/jungle/notifications-service/internal/redact"
)

// Handler processes the body of one delivery. A returned error rejects the
// message without requeue.
type Handler interface {
	Handle(ctx context.Context, routingKey string, body []byte) error
}

// HandlerFunc adapts a function to the Handler interface.
type HandlerFunc func(ctx context.Context, routingKey string, body []byte) error

// Handle calls f.
func (f HandlerFunc) Handle(ctx context.Context, routingKey string, body []byte) error {
	return f(ctx, routingKey, body)
}

// Option configures a Consumer.
type Option func(*Consumer)

// WithDialer replaces the amqp091-go dialer, mainly for tests.
func WithDialer(d Dialer) Option {
	return func(c *Consumer) {
		c.dial = d
	}
}

// Consumer drains the notifications queue and hands each delivery to a Handler.
type Consumer struct {
	cfg     config.BrokerConfig
	handler Handler
	dial    Dialer
	logger  *slog.Logger
	state   atomic.Int32
}

// NewConsumer creates a consumer for the given broker settings.
func NewConsumer(cfg config.BrokerConfig, handler Handler, logger *slog.Logger, opts ...Option) (*Consumer, error) {
	if handler == nil {
		return nil, errors.New("handler cannot be nil")
	}
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	if cfg.Prefetch <= 0 {
		return nil, fmt.Errorf("prefetch must be positive, got %d", cfg.Prefetch)
	}

	c := &Consumer{
		cfg:     cfg,
		handler: handler,
		dial:    DialAMQP,
		logger:  logger.With("component", "rabbitmq_consumer", "queue", cfg.Queue),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// State reports where the current session is in its lifecycle.
func (c *Consumer) State() State {
	return State(c.state.Load())
}

func (c *Consumer) setState(s State) {
	c.state.Store(int32(s))
	c.logger.Debug("consumer state changed", "state", s.String())
}

// Run executes one broker session. It returns nil once ctx is cancelled and
// in-flight deliveries are settled, or a *TransportError when the session
// cannot start or the broker closes the delivery stream.
func (c *Consumer) Run(ctx context.Context) error {
	c.setState(StateConnecting)

	conn, err := c.dial(c.cfg.URL)
	if err != nil {
		c.setState(StateDisconnected)
		return newTransportError("dial", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		c.closeConnection(conn)
		c.setState(StateDisconnected)
		return newTransportError("open_channel", err)
	}
	defer c.shutdown(ch, conn)

	closed := ch.NotifyClose(make(chan *amqp.Error, 1))

	if err := c.declareTopology(ch); err != nil {
		return err
	}
	c.setState(StateTopologyReady)

	deliveries, err := ch.Consume(c.cfg.Queue, c.cfg.ConsumerTag, false, false, false, false, nil)
	if err != nil {
		return newTransportError("consume", err)
	}
	c.setState(StateConsuming)

	c.logger.Info("consuming task events",
		"exchange", c.cfg.Exchange,
		"patterns", c.cfg.Patterns(),
		"prefetch", c.cfg.Prefetch,
		"dead_letter_exchange", c.cfg.DeadLetterExchange)

	var wg sync.WaitGroup
	for i := 0; i < c.cfg.Prefetch; i++ {
		wg.Add(1)
		go c.worker(ctx, &wg, i, deliveries)
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-ctx.Done():
		<-done
		c.logger.Info("consumer stopping", "reason", ctx.Err())
		return nil
	case <-done:
	}

	if ctx.Err() != nil {
		return nil
	}

	select {
	case amqpErr := <-closed:
		if amqpErr != nil {
			return newTransportError("consume", fmt.Errorf("%w: %s", ErrConnectionClosed, amqpErr.Error()))
		}
	default:
	}
	return newTransportError("consume", ErrConnectionClosed)
}

func (c *Consumer) declareTopology(ch Channel) error {
	if err := ch.ExchangeDeclare(c.cfg.Exchange, amqp.ExchangeTopic, true, false, false, false, nil); err != nil {
		return newTransportError("exchange_declare", err)
	}

	var args amqp.Table
	if c.cfg.DeadLetterExchange != "" {
		args = amqp.Table{"x-dead-letter-exchange": c.cfg.DeadLetterExchange}
	}
	if _, err := ch.QueueDeclare(c.cfg.Queue, true, false, false, false, args); err != nil {
		return newTransportError("queue_declare", err)
	}

	patterns := c.cfg.Patterns()
	if len(patterns) == 0 {
		return newTransportError("queue_bind", errors.New("no routing patterns configured"))
	}
	for _, pattern := range patterns {
		if err := ch.QueueBind(c.cfg.Queue, pattern, c.cfg.Exchange, false, nil); err != nil {
			return newTransportError("queue_bind", fmt.Errorf("pattern %q: %w", pattern, err))
		}
	}

	if err := ch.Qos(c.cfg.Prefetch, 0, false); err != nil {
		return newTransportError("qos", err)
	}
	return nil
}

func (c *Consumer) worker(ctx context.Context, wg *sync.WaitGroup, id int, deliveries <-chan amqp.Delivery) {
	defer wg.Done()

	c.logger.Debug("starting worker", "worker_id", id)
	for {
		select {
		case <-ctx.Done():
			c.logger.Debug("stopping worker", "worker_id", id)
			return
		case d, ok := <-deliveries:
			if !ok {
				c.logger.Debug("delivery stream closed, stopping worker", "worker_id", id)
				return
			}
			c.handleDelivery(ctx, d)
		}
	}
}

// handleDelivery settles exactly one delivery. In-flight work is not
// cancelled by shutdown; it is bounded by the handler timeout instead.
func (c *Consumer) handleDelivery(ctx context.Context, d amqp.Delivery) {
	if d.Acknowledger == nil {
		c.logger.Warn("received empty delivery, skipping", "delivery_tag", d.DeliveryTag)
		return
	}

	log := c.logger.With(
		"routing_key", d.RoutingKey,
		"delivery_tag", d.DeliveryTag,
		"message_id", d.MessageId)

	hctx := context.WithoutCancel(ctx)
	if c.cfg.HandlerTimeout > 0 {
		var cancel context.CancelFunc
		hctx, cancel = context.WithTimeout(hctx, c.cfg.HandlerTimeout)
		defer cancel()
	}
	hctx = logger.WithLogger(hctx, log)

	if err := c.invoke(hctx, d); err != nil {
		log.Error("failed to process message, rejecting without requeue",
			"error", redact.Error(err),
			"payload_preview", redact.Preview(d.Body, redact.DefaultPreviewLength))
		if nackErr := d.Nack(false, false); nackErr != nil {
			log.Error("failed to nack message", "error", nackErr)
		}
		return
	}

	if err := d.Ack(false); err != nil {
		log.Error("failed to ack message, falling back to nack", "error", err)
		if nackErr := d.Nack(false, false); nackErr != nil {
			log.Error("fallback nack failed", "error", nackErr)
		}
		return
	}
	log.Debug("message acknowledged")
}

func (c *Consumer) invoke(ctx context.Context, d amqp.Delivery) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler panic: %v", r)
		}
	}()
	return c.handler.Handle(ctx, d.RoutingKey, d.Body)
}

// shutdown closes the channel then the connection. Close errors are logged,
// never returned.
func (c *Consumer) shutdown(ch Channel, conn Connection) {
	if err := ch.Close(); err != nil && !errors.Is(err, amqp.ErrClosed) {
		c.logger.Warn("error closing broker channel", "error", redact.Error(err))
	}
	c.closeConnection(conn)
	c.setState(StateDisconnected)
}

func (c *Consumer) closeConnection(conn Connection) {
	if err := conn.Close(); err != nil && !errors.Is(err, amqp.ErrClosed) {
		c.logger.Warn("error closing broker connection", "error", redact.Error(err))
	}
}
