package commentary

import (
	"context"
	"errors"
	"time"

	"golang.org/x/time/rate"

	"github.com/DhavalSuthar-24/crickpro/internal/match"
	"github.com/DhavalSuthar-24/crickpro/internal/telemetry"
)

// Resilient calls a primary generator under a rate limit and a timeout and
// answers with a stock phrase whenever the primary cannot. Generate never
// returns an error.
type Resilient struct {
	primary  Generator // nil means stock phrases only
	fallback *Fallback
	limiter  *rate.Limiter
	timeout  time.Duration
}

// NewResilient allows perMinute primary calls per minute. A non-positive
// perMinute disables the limit.
func NewResilient(primary Generator, perMinute int, timeout time.Duration) *Resilient {
	limit := rate.Inf
	burst := 1
	if perMinute > 0 {
		limit = rate.Every(time.Minute / time.Duration(perMinute))
		burst = perMinute
	}
	return &Resilient{
		primary:  primary,
		fallback: NewFallback(),
		limiter:  rate.NewLimiter(limit, burst),
		timeout:  timeout,
	}
}

func (r *Resilient) Generate(ctx context.Context, s match.MatchState, label, extra string) (string, error) {
	if r.primary == nil {
		return r.stock(), nil
	}
	if !r.limiter.Allow() {
		telemetry.Debugf("commentary: rate limited, using stock phrase")
		return r.stock(), nil
	}

	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	start := time.Now()
	text, err := r.primary.Generate(ctx, s, label, extra)
	telemetry.Metrics.CommentaryLatency.Record(time.Since(start))
	if err != nil {
		if errors.Is(err, ErrQuotaExceeded) {
			telemetry.Warnf("commentary: model quota exceeded, using stock phrase")
		} else {
			telemetry.Errorf("commentary: %v", err)
		}
		return r.stock(), nil
	}
	telemetry.Metrics.CommentaryGenerated.Inc()
	return text, nil
}

func (r *Resilient) stock() string {
	telemetry.Metrics.CommentaryFallbacks.Inc()
	return r.fallback.Phrase()
}
