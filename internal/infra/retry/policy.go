package retry

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"

	"xeyronox-link-bot/internal/config"
	"xeyronox-link-bot/internal/infra/metrics"
)

// Policy is the single retry discipline applied at the outbound boundary:
// bounded attempts on an exponential curve with jitter.
type Policy struct {
	MaxAttempts     int
	InitialInterval time.Duration
	MaxInterval     time.Duration
	Multiplier      float64
	Jitter          float64

	log *zerolog.Logger
}

// New builds a policy; zero values fall back to 3 attempts, 4s..10s, x2.
func New(maxAttempts int, initial, max time.Duration, logger *zerolog.Logger) Policy {
	if maxAttempts <= 0 {
		maxAttempts = 3
	}
	if initial <= 0 {
		initial = 4 * time.Second
	}
	if max < initial {
		max = initial
	}
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return Policy{
		MaxAttempts:     maxAttempts,
		InitialInterval: initial,
		MaxInterval:     max,
		Multiplier:      2,
		Jitter:          0.2,
		log:             logger,
	}
}

func FromConfig(cfg config.RetryConfig, logger *zerolog.Logger) Policy {
	return New(cfg.MaxRetries, cfg.MinInterval, cfg.MaxInterval, logger)
}

// Permanent marks err as not worth retrying; Do returns it unwrapped.
func Permanent(err error) error {
	return backoff.Permanent(err)
}

func (p Policy) backOff() *backoff.ExponentialBackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = p.InitialInterval
	b.MaxInterval = p.MaxInterval
	b.Multiplier = p.Multiplier
	b.RandomizationFactor = p.Jitter
	b.MaxElapsedTime = 0 // bounded by attempts, not wall time
	b.Reset()
	return b
}

// Do runs fn until it succeeds, returns a Permanent error, ctx ends, or
// MaxAttempts is used up. The last error is returned, wrapped with op.
func (p Policy) Do(ctx context.Context, op string, fn func(ctx context.Context) error) error {
	if p.MaxAttempts <= 0 {
		p = New(p.MaxAttempts, p.InitialInterval, p.MaxInterval, p.log)
	}
	logger := p.log
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}

	attempts := 0
	operation := func() error {
		attempts++
		return fn(ctx)
	}
	notify := func(err error, wait time.Duration) {
		metrics.IncRetry(op)
		logger.Warn().Err(err).
			Str("op", op).
			Int("attempt", attempts).
			Int("max_attempts", p.MaxAttempts).
			Dur("backoff", wait).
			Msg("attempt failed, retrying")
	}

	b := backoff.WithContext(backoff.WithMaxRetries(p.backOff(), uint64(p.MaxAttempts-1)), ctx)
	if err := backoff.RetryNotify(operation, b, notify); err != nil {
		return fmt.Errorf("%s: gave up after %d attempt(s): %w", op, attempts, err)
	}
	return nil
}
