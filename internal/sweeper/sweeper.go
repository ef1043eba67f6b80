// Package sweeper runs the periodic release of expired pending
// bookings.  A pending booking blocks its seats only for a bounded
// time: once it ages past the configured threshold the sweep flips it
// to released and the seats become selectable again.  This is the only
// automatic remediation for abandoned checkouts.
package sweeper

import (
    "context"
    "log"
    "time"
)

// Releaser is the single statement the sweep needs.  Implemented by
// repository.BookingRepo.ReleaseExpired.
type Releaser interface {
    ReleaseExpired(ctx context.Context, cutoff time.Time) (int64, error)
}

// Sweeper triggers the release statement on a fixed interval.  It
// holds no state between ticks and takes no lock: the statement only
// moves bookings from pending to released, so interleaving with
// concurrent creates or payment confirmations is safe, and running a
// tick twice changes nothing the second time.
type Sweeper struct {
    store    Releaser
    interval time.Duration
    maxAge   time.Duration
}

// New builds a Sweeper that runs every interval and releases pending
// bookings older than maxAge.
func New(store Releaser, interval, maxAge time.Duration) *Sweeper {
    return &Sweeper{store: store, interval: interval, maxAge: maxAge}
}

// Start blocks, ticking until ctx is cancelled.  Run it in its own
// goroutine alongside the HTTP server.
func (s *Sweeper) Start(ctx context.Context) {
    ticker := time.NewTicker(s.interval)
    defer ticker.Stop()

    log.Printf("sweeper: started (interval=%s, max pending age=%s)", s.interval, s.maxAge)
    for {
        select {
        case <-ctx.Done():
            log.Printf("sweeper: stopped")
            return
        case <-ticker.C:
            s.tick(ctx)
        }
    }
}

func (s *Sweeper) tick(ctx context.Context) {
    cutoff := time.Now().UTC().Add(-s.maxAge)
    released, err := s.store.ReleaseExpired(ctx, cutoff)
    if err != nil {
        log.Printf("sweeper: release expired failed: %v", err)
        return
    }
    if released > 0 {
        log.Printf("sweeper: released %d expired pending booking(s)", released)
    }
}
