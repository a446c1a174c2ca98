package service

import (
	"context"
	"time"

	"github.com/Galomer310/ManisR-backend/internal/middleware"
)

// ReservationSweeper periodically reverts reservations whose hold window has
// lapsed, freeing the meal for other takers.
type ReservationSweeper struct {
	listings *ListingService
	interval time.Duration
	done     chan struct{}
}

// NewReservationSweeper returns a sweeper that runs every interval.
func NewReservationSweeper(listings *ListingService, interval time.Duration) *ReservationSweeper {
	if interval <= 0 {
		interval = time.Minute
	}
	return &ReservationSweeper{
		listings: listings,
		interval: interval,
		done:     make(chan struct{}),
	}
}

// Start runs the sweep loop until ctx is cancelled or Stop is called.
func (s *ReservationSweeper) Start(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-s.done:
				return
			case <-ticker.C:
				released, err := s.listings.ExpireReservations(ctx, time.Now())
				if err != nil {
					middleware.Logger.ErrorContext(ctx, "reservation sweep failed", "error", err)
					continue
				}
				if len(released) > 0 {
					middleware.Logger.InfoContext(ctx, "released expired reservations", "count", len(released))
				}
			}
		}
	}()
}

// Stop terminates the sweep loop.
func (s *ReservationSweeper) Stop() {
	select {
	case <-s.done:
	default:
		close(s.done)
	}
}
