// Package pipeline turns one broker delivery into stored notifications and
// realtime pushes.
package pipeline

import (
	"context"
	"errors"
	"log/slog"

	"github.com/jungle/notifications-service/internal/events"
	"github.com/jungle/notifications-service/internal/platform/logger"
	"github.com/jungle/notifications-service/internal/realtime"
	"github.com/jungle/notifications-service/internal/service"
)

// Emitter pushes a frame to the live connections of the given users.
type Emitter interface {
	EmitToUsers(ctx context.Context, event string, data any, recipients []string) (realtime.EmitResult, error)
}

// Processor parses a delivery, dispatches it and pushes the event to the
// notified users. Push failures never fail the message.
type Processor struct {
	dispatcher service.Dispatcher
	emitter    Emitter
	logger     *slog.Logger
}

// NewProcessor creates a Processor.
func NewProcessor(dispatcher service.Dispatcher, emitter Emitter, logger *slog.Logger) (*Processor, error) {
	if dispatcher == nil {
		return nil, errors.New("dispatcher cannot be nil")
	}
	if emitter == nil {
		return nil, errors.New("emitter cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{
		dispatcher: dispatcher,
		emitter:    emitter,
		logger:     logger.With("component", "pipeline"),
	}, nil
}

// Handle processes one message body delivered under routingKey. A returned
// error means the event was not recorded.
func (p *Processor) Handle(ctx context.Context, routingKey string, body []byte) error {
	log := logger.FromContextOrDefault(ctx, p.logger)

	event, err := events.Parse(routingKey, body)
	if err != nil {
		return err
	}

	meta := event.Meta()
	log = log.With("event_type", string(meta.Type), "task_id", meta.TaskID)
	ctx = logger.WithLogger(ctx, log)

	if !meta.MatchesRoutingKey(routingKey) {
		log.Warn("routing key does not match event type, using event type",
			"routing_key", routingKey)
	}

	recipients, err := p.dispatcher.Dispatch(ctx, event)
	if err != nil {
		return err
	}

	if len(recipients) == 0 {
		log.Debug("task event processed, no recipients")
		return nil
	}

	result, err := p.emitter.EmitToUsers(ctx, meta.Type.RealtimeName(), event, recipients)
	if err != nil {
		log.Warn("realtime push failed", "error", err, "recipients", len(recipients))
		return nil
	}

	log.Info("task event processed",
		"recipients", len(recipients),
		"connected_recipients", result.Recipients,
		"delivered", result.Delivered,
		"failed", result.Failed)
	return nil
}
