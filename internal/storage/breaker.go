package storage

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"github.com/sony/gobreaker/v2"

	"docport/internal/config"
)

// breakerStorage fails fast while object storage is unhealthy. It never
// retries; a rejected call returns immediately with an error for which
// IsCircuitOpen reports true.
type breakerStorage struct {
	next    Storage
	breaker *gobreaker.CircuitBreaker[any]
}

// WithBreaker wraps next in a circuit breaker configured by cfg.
// When cfg.Enabled is false next is returned unchanged.
func WithBreaker(next Storage, cfg config.BreakerConfig, log zerolog.Logger) Storage {
	if !cfg.Enabled {
		return next
	}

	settings := gobreaker.Settings{
		Name:        "object-storage",
		MaxRequests: cfg.HalfOpenMax,
		Timeout:     cfg.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < cfg.MinRequests {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return failureRatio >= cfg.FailureRatio
		},
		IsSuccessful: func(err error) bool {
			// A missing object or an abandoned request says nothing about backend health.
			return err == nil ||
				errors.Is(err, ErrObjectNotFound) ||
				errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn().
				Str("component", "storage").
				Str("event", "circuit_breaker_state_change").
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("circuit breaker state changed")
		},
	}

	return &breakerStorage{
		next:    next,
		breaker: gobreaker.NewCircuitBreaker[any](settings),
	}
}

// IsCircuitOpen reports whether err was produced by an open or saturated breaker.
func IsCircuitOpen(err error) bool {
	return errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests)
}

func (b *breakerStorage) PresignPut(ctx context.Context, key, contentType string, expiry time.Duration) (string, error) {
	out, err := b.breaker.Execute(func() (any, error) {
		return b.next.PresignPut(ctx, key, contentType, expiry)
	})
	if err != nil {
		return "", err
	}
	return out.(string), nil
}

func (b *breakerStorage) PresignGet(ctx context.Context, key string, expiry time.Duration) (string, error) {
	out, err := b.breaker.Execute(func() (any, error) {
		return b.next.PresignGet(ctx, key, expiry)
	})
	if err != nil {
		return "", err
	}
	return out.(string), nil
}

func (b *breakerStorage) Stat(ctx context.Context, key string) (ObjectInfo, error) {
	out, err := b.breaker.Execute(func() (any, error) {
		return b.next.Stat(ctx, key)
	})
	if err != nil {
		return ObjectInfo{}, err
	}
	return out.(ObjectInfo), nil
}
