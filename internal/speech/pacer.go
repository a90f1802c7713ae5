package speech

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Pacer spaces out synthesis requests to stay under engine rate limits.
type Pacer interface {
	Wait(ctx context.Context) error
}

// IntervalPacer lets one request through per interval. The first request
// is not delayed.
type IntervalPacer struct {
	limiter *rate.Limiter
}

// NewIntervalPacer returns a pacer with at least d between requests.
// A non-positive d disables pacing.
func NewIntervalPacer(d time.Duration) Pacer {
	if d <= 0 {
		return NoPacer{}
	}
	return &IntervalPacer{limiter: rate.NewLimiter(rate.Every(d), 1)}
}

func (p *IntervalPacer) Wait(ctx context.Context) error {
	start := time.Now()
	err := p.limiter.Wait(ctx)
	pacingWaitDuration.Observe(time.Since(start).Seconds())
	return err
}

// NoPacer never waits, but still honors cancellation.
type NoPacer struct{}

func (NoPacer) Wait(ctx context.Context) error { return ctx.Err() }
