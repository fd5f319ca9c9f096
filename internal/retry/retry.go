// Package retry provides a bounded retry loop with fixed backoff and an
// optional quality gate. It backs both the OCR extraction agent (re-running
// the whole batch call when the extracted text is too short) and the
// quality-gated reply refinement path, so the two loops cannot drift apart.
package retry

import (
	"context"
	"time"
)

// Policy configures a bounded retry loop.
type Policy struct {
	// MaxRetries is the number of extra attempts after the first one.
	// A budget of 2 means at most 3 calls.
	MaxRetries int

	// Backoff is the fixed delay between attempts.
	Backoff time.Duration

	// Sleep is swapped in tests to avoid real delays. When nil, a
	// context-aware timer sleep is used.
	Sleep func(ctx context.Context, d time.Duration)
}

func (p Policy) sleep(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	if p.Sleep != nil {
		p.Sleep(ctx, d)
		return
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}

// Do runs fn until it produces an acceptable value or the attempt budget is
// exhausted.
//
// Semantics:
//   - fn error: retry while attempts remain; once exhausted, return the zero
//     value and the last error.
//   - fn success, accept == nil or accept(v) true: return v immediately.
//   - fn success, accept(v) false: retry while attempts remain; once
//     exhausted, the below-threshold value is accepted as final (no error).
//
// Between attempts, Do sleeps for Policy.Backoff. A cancelled context cuts
// the sleep short but does not abort the loop by itself; fn is expected to
// honour ctx and return an error.
func Do[T any](ctx context.Context, p Policy, fn func(ctx context.Context) (T, error), accept func(T) bool) (T, error) {
	var zero T
	var lastErr error

	attempts := p.MaxRetries + 1
	for i := 0; i < attempts; i++ {
		if i > 0 {
			p.sleep(ctx, p.Backoff)
		}

		v, err := fn(ctx)
		if err != nil {
			lastErr = err
			continue
		}
		if accept == nil || accept(v) {
			return v, nil
		}
		if i == attempts-1 {
			// Quality gate exhausted: accept whatever was produced.
			return v, nil
		}
	}
	return zero, lastErr
}
