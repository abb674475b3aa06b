package core

import (
	"context"
	"sync"
	"time"
)

// defaultRefreshPeriod is applied when a subscription does not name one.
const defaultRefreshPeriod = 30 * time.Second

// SubscribeUpdatesFunc starts a polling loop that periodically re-fetches
// either the invitations of the given space or, when spaceID is empty, the
// pending invitations of the current user. It returns a disposer; once
// called, no further fetch is issued. Fetches are not deduplicated against
// in-flight ones, so with latency above the period responses overlap and
// apply in arrival order.
type SubscribeUpdatesFunc func(
	ctx context.Context,
	spaceID string,
	period time.Duration,
) func()

// SubscribeUpdates returns the polling subscription driving the given fetch
// operations. Fetch failures land on the cache like any other operation and
// the loop keeps ticking.
func SubscribeUpdates(
	pending InvitationsPendingFunc,
	space InvitationsSpaceFunc,
) SubscribeUpdatesFunc {
	return func(ctx context.Context, spaceID string, period time.Duration) func() {
		if period <= 0 {
			period = defaultRefreshPeriod
		}

		done := make(chan struct{})

		go func() {
			ticker := time.NewTicker(period)
			defer ticker.Stop()

			for {
				select {
				case <-done:
					return
				case <-ctx.Done():
					return
				case <-ticker.C:
					if spaceID == "" {
						_, _ = pending(ctx)
					} else {
						_, _ = space(ctx, spaceID)
					}
				}
			}
		}()

		var once sync.Once

		return func() {
			once.Do(func() {
				close(done)
			})
		}
	}
}

// RefreshDataFunc forces an immediate re-fetch outside the polling cadence,
// scoped like SubscribeUpdatesFunc.
type RefreshDataFunc func(ctx context.Context, spaceID string) error

// RefreshData returns the one-shot refresh bound to the given fetch
// operations.
func RefreshData(
	pending InvitationsPendingFunc,
	space InvitationsSpaceFunc,
) RefreshDataFunc {
	return func(ctx context.Context, spaceID string) error {
		if spaceID == "" {
			_, err := pending(ctx)

			return err
		}

		_, err := space(ctx, spaceID)

		return err
	}
}
