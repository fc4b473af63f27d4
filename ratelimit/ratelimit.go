package ratelimit

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	apperrors "yt-ingest/errors"
)

// Gate enforces a minimum interval between outbound calls to a rate-limited
// origin. One shared Gate guards one origin; every network call to that
// origin must pass Acquire first, no matter which request is driving it.
type Gate struct {
	origin  string
	limiter *rate.Limiter
	logger  zerolog.Logger
}

func NewGate(origin string, minInterval time.Duration, logger zerolog.Logger) *Gate {
	return &Gate{
		origin:  origin,
		limiter: rate.NewLimiter(rate.Every(minInterval), 1),
		logger:  logger.With().Str("origin", origin).Logger(),
	}
}

// Acquire blocks until the minimum interval since the previous acquisition
// has elapsed and returns how long it waited. Reserving the slot is atomic,
// so concurrent callers are serialized in reservation order. If the context
// deadline cannot cover the wait the slot is released and a
// rate_limited_timeout error is returned before any sleeping; once Acquire
// returns, the slot is spent and the caller should finish its call rather
// than abandon it.
func (g *Gate) Acquire(ctx context.Context) (time.Duration, error) {
	const op = "Gate.Acquire"

	r := g.limiter.Reserve()
	if !r.OK() {
		return 0, apperrors.Internal(op, nil, "rate limiter cannot reserve")
	}

	delay := r.Delay()
	if deadline, ok := ctx.Deadline(); ok && delay > time.Until(deadline) {
		r.Cancel()
		return 0, apperrors.RateLimitedTimeout(op, nil, "rate limit wait exceeds caller deadline")
	}

	if delay > 0 {
		g.logger.Debug().
			Dur("wait", delay).
			Msg("Waiting for rate gate")
		time.Sleep(delay)
	}

	return delay, nil
}
