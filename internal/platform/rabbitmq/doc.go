// Package rabbitmq implements the queue consumer that drains task events
// from the broker.
//
// A Consumer runs one broker session per call to Run: it dials, declares the
// topic exchange and durable queue, binds every configured routing pattern,
// applies the prefetch limit and then processes deliveries with a worker pool
// sized to that limit. Each delivery is acknowledged only after its handler
// returns; handler failures are negatively acknowledged without requeue so the
// dead-letter exchange, when configured, receives them. Reconnecting is left
// to the caller.
package rabbitmq
