// Package refresh collapses concurrent token refreshes into one.
//
// A Coordinator belongs to one API client. Every caller that asks for a
// refresh while one is running waits for that run and receives its result;
// once the run settles the coordinator forgets it, so the next request for a
// refresh starts a new cycle.
package refresh

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/singleflight"
)

const flightKey = "refresh"

// Func performs one refresh and returns the new access token.
type Func func(ctx context.Context) (string, error)

// Coordinator is safe for concurrent use. The zero value refreshes without a
// deadline.
type Coordinator struct {
	group   singleflight.Group
	timeout time.Duration
}

// New returns a Coordinator that bounds every refresh run by timeout.
// A timeout of zero or less means no bound.
func New(timeout time.Duration) *Coordinator {
	return &Coordinator{timeout: timeout}
}

// Do joins the running refresh or starts fn if none is running.
//
// fn runs detached from the starting caller's cancellation, bounded by the
// coordinator timeout, so one impatient caller cannot fail the others.
// Do itself returns early with ctx.Err() when ctx ends first; the run keeps
// going for the remaining waiters.
func (c *Coordinator) Do(ctx context.Context, fn Func) (string, error) {
	ch := c.group.DoChan(flightKey, func() (any, error) {
		rctx := context.WithoutCancel(ctx)
		if c.timeout > 0 {
			var cancel context.CancelFunc
			rctx, cancel = context.WithTimeout(rctx, c.timeout)
			defer cancel()
		}
		return fn(rctx)
	})

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return "", res.Err
		}
		tok, ok := res.Val.(string)
		if !ok {
			return "", fmt.Errorf("refresh: unexpected result %T", res.Val)
		}
		return tok, nil
	}
}
