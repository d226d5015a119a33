package supervisor

import (
	"context"
	"time"
)

// TickerService adapts a plain func(context.Context) into a suture.Service
// that invokes it on every tick of interval until ctx is canceled. Used
// for catalogcore's two periodic jobs: Ctx.SyncLibraryWithAPI and
// analytics.Queue.FlushAll.
type TickerService struct {
	Name     string
	Interval time.Duration
	Fn       func(context.Context)
}

// Serve implements suture.Service.
func (s *TickerService) Serve(ctx context.Context) error {
	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			s.Fn(ctx)
		}
	}
}

// String implements fmt.Stringer so suture's logging identifies which
// ticker failed or restarted.
func (s *TickerService) String() string { return s.Name }
