package main

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/jungle/notifications-service/internal/config"
	"github.com/jungle/notifications-service/internal/redact"
)

// errHealthySession ends a retry run so the next failure starts again from
// the initial backoff.
var errHealthySession = errors.New("consumer session ran long enough to reset backoff")

// backoffFactory returns a fresh backoff for each run of failures.
type backoffFactory struct {
	newBackoff  func() retry.Backoff
	healthyTime time.Duration
}

func newReconnectBackoff(cfg config.BrokerConfig) backoffFactory {
	return backoffFactory{
		newBackoff: func() retry.Backoff {
			b := retry.NewExponential(cfg.ReconnectInitialBackoff)
			b = retry.WithJitterPercent(10, b)
			return retry.WithCappedDuration(cfg.ReconnectMaxBackoff, b)
		},
		healthyTime: cfg.ReconnectMaxBackoff,
	}
}

// superviseConsumer restarts run with capped exponential backoff until ctx
// is cancelled. run returns nil only when its context is done.
func superviseConsumer(
	ctx context.Context,
	run func(context.Context) error,
	backoff backoffFactory,
	logger *slog.Logger,
) error {
	log := logger.With("component", "consumer_supervisor")

	for {
		attempt := 0
		err := retry.Do(ctx, backoff.newBackoff(), func(ctx context.Context) error {
			attempt++
			started := time.Now()

			err := run(ctx)
			if ctx.Err() != nil {
				return nil
			}
			if err == nil {
				err = errors.New("consumer session ended without error")
			}

			log.Warn("consumer session ended, reconnecting",
				"error", redact.Error(err),
				"attempt", attempt)

			if time.Since(started) >= backoff.healthyTime {
				return errHealthySession
			}
			return retry.RetryableError(err)
		})

		switch {
		case ctx.Err() != nil:
			log.Info("consumer supervisor stopped")
			return nil
		case errors.Is(err, errHealthySession):
			continue
		case err != nil:
			return err
		default:
			return nil
		}
	}
}
