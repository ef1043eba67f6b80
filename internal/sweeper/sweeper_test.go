package sweeper

import (
    "context"
    "errors"
    "sync"
    "testing"
    "time"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"
)

// fakeStore records release calls and simulates a set of pending
// bookings with creation timestamps.
type fakeStore struct {
    mu      sync.Mutex
    pending []time.Time
    calls   int
    err     error
}

func (f *fakeStore) ReleaseExpired(_ context.Context, cutoff time.Time) (int64, error) {
    f.mu.Lock()
    defer f.mu.Unlock()
    f.calls++
    if f.err != nil {
        return 0, f.err
    }
    var kept []time.Time
    var released int64
    for _, created := range f.pending {
        if !created.After(cutoff) {
            released++
            continue
        }
        kept = append(kept, created)
    }
    f.pending = kept
    return released, nil
}

func (f *fakeStore) callCount() int {
    f.mu.Lock()
    defer f.mu.Unlock()
    return f.calls
}

func TestSweepReleasesStalePending(t *testing.T) {
    store := &fakeStore{pending: []time.Time{
        time.Now().UTC().Add(-10 * time.Minute), // well past the 5 minute threshold
        time.Now().UTC(),                        // fresh, must survive
    }}
    s := New(store, time.Minute, 5*time.Minute)

    s.tick(context.Background())

    require.Len(t, store.pending, 1)
    assert.True(t, store.pending[0].After(time.Now().UTC().Add(-time.Minute)))
}

func TestSweepIsIdempotent(t *testing.T) {
    store := &fakeStore{pending: []time.Time{
        time.Now().UTC().Add(-10 * time.Minute),
    }}
    s := New(store, time.Minute, 5*time.Minute)

    ctx := context.Background()
    s.tick(ctx)
    require.Empty(t, store.pending)

    // Second immediate run finds nothing left to release.
    n, err := store.ReleaseExpired(ctx, time.Now().UTC())
    require.NoError(t, err)
    assert.Zero(t, n)
}

func TestSweepKeepsTickingAfterError(t *testing.T) {
    store := &fakeStore{err: errors.New("db gone")}
    s := New(store, 20*time.Millisecond, 5*time.Minute)

    ctx, cancel := context.WithTimeout(context.Background(), 90*time.Millisecond)
    defer cancel()
    s.Start(ctx)

    assert.GreaterOrEqual(t, store.callCount(), 2, "errors must not stop the loop")
}

func TestSweeperStopsOnContextCancel(t *testing.T) {
    store := &fakeStore{}
    s := New(store, time.Second, 5*time.Minute)

    ctx, cancel := context.WithCancel(context.Background())
    done := make(chan struct{})
    go func() {
        s.Start(ctx)
        close(done)
    }()

    cancel()

    select {
    case <-done:
    case <-time.After(time.Second):
        t.Fatal("sweeper did not stop on context cancel")
    }
}
