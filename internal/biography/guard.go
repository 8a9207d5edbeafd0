package biography

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/UnknownOlympus/glimpse/internal/lib/logger/sl"
	"github.com/UnknownOlympus/glimpse/internal/metrics"
)

// Guarded collapses concurrent drafting requests for the same employee into a single
// upstream call; duplicate callers receive the shared result.
type Guarded struct {
	log     *slog.Logger
	drafter Drafter
	metrics *metrics.Metrics
	timeout time.Duration
	group   singleflight.Group
}

// NewGuarded wraps drafter. A positive timeout bounds each shared upstream call.
func NewGuarded(log *slog.Logger, drafter Drafter, metrics *metrics.Metrics, timeout time.Duration) *Guarded {
	return &Guarded{
		log: log.With(
			slog.String("division", "biography"),
		),
		drafter: drafter,
		metrics: metrics,
		timeout: timeout,
	}
}

// DraftFor drafts a biography for employeeID. The bool reports whether the result was
// shared with another in-flight request.
//
// The shared call outlives any single caller; each caller stops waiting only when its
// own ctx is done.
func (g *Guarded) DraftFor(ctx context.Context, employeeID int, in Input) (string, bool, error) {
	log := g.log.With(slog.String("op", "Biography.DraftFor"), sl.EmployeeID(employeeID))

	detached := context.WithoutCancel(ctx)

	results := g.group.DoChan(strconv.Itoa(employeeID), func() (any, error) {
		callCtx := detached
		if g.timeout > 0 {
			var cancel context.CancelFunc
			callCtx, cancel = context.WithTimeout(detached, g.timeout)
			defer cancel()
		}

		log.DebugContext(callCtx, "Requesting biography draft")

		return g.drafter.Draft(callCtx, in)
	})

	select {
	case <-ctx.Done():
		log.DebugContext(detached, "Caller stopped waiting for biography draft", sl.Err(ctx.Err()))
		return "", false, ctx.Err()
	case res := <-results:
		if res.Err != nil {
			log.WarnContext(ctx, "Biography draft failed", sl.Err(res.Err))
			g.metrics.BioDrafts.WithLabelValues("failure").Inc()
			return "", res.Shared, res.Err
		}

		g.metrics.BioDrafts.WithLabelValues("success").Inc()

		bio, _ := res.Val.(string)

		return bio, res.Shared, nil
	}
}
