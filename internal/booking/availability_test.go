package booking

import (
    "context"
    "testing"
    "time"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/tsrbooking/theater-booking/internal/config"
    "github.com/tsrbooking/theater-booking/internal/model"
    "github.com/tsrbooking/theater-booking/internal/repository"
)

// memStore is an in-memory stand-in for repository.BookingRepo with
// the same held-seat semantics: seats count as held while their
// booking is pending, paid or validated.
type memStore struct {
    nextID   uint64
    bookings map[uint64]*model.Booking
}

func newMemStore() *memStore {
    return &memStore{bookings: make(map[uint64]*model.Booking)}
}

func (m *memStore) Create(_ context.Context, b *model.Booking) error {
    m.nextID++
    b.ID = m.nextID
    cp := *b
    cp.Seats = append([]string(nil), b.Seats...)
    m.bookings[b.ID] = &cp
    return nil
}

func (m *memStore) GetByID(_ context.Context, id uint64) (*model.Booking, error) {
    b, ok := m.bookings[id]
    if !ok {
        return nil, repository.ErrBookingNotFound
    }
    cp := *b
    return &cp, nil
}

func (m *memStore) GetByToken(_ context.Context, token string) (*model.Booking, error) {
    for _, b := range m.bookings {
        if b.TicketToken == token {
            cp := *b
            return &cp, nil
        }
    }
    return nil, repository.ErrBookingNotFound
}

func (m *memStore) UpdateStatus(_ context.Context, id uint64, status model.BookingStatus) error {
    b, ok := m.bookings[id]
    if !ok {
        return repository.ErrBookingNotFound
    }
    b.Status = status
    return nil
}

func (m *memStore) Delete(_ context.Context, id uint64) error {
    if _, ok := m.bookings[id]; !ok {
        return repository.ErrBookingNotFound
    }
    delete(m.bookings, id)
    return nil
}

func (m *memStore) HeldSeats(_ context.Context, eventID uint64) (map[string]struct{}, error) {
    held := make(map[string]struct{})
    for _, b := range m.bookings {
        if b.EventID != eventID || !b.Status.Held() {
            continue
        }
        for _, s := range b.Seats {
            held[s] = struct{}{}
        }
    }
    return held, nil
}

// ReleaseExpired mirrors the repository sweep statement.
func (m *memStore) ReleaseExpired(_ context.Context, cutoff time.Time) (int64, error) {
    var n int64
    for _, b := range m.bookings {
        if b.Status == model.StatusPending && !b.CreatedAt.After(cutoff) {
            b.Status = model.StatusReleased
            n++
        }
    }
    return n, nil
}

func TestAvailableOnEmptyEvent(t *testing.T) {
    store := newMemStore()
    checker := NewChecker(store, config.DefaultSeatMap())

    ok, err := checker.Available(context.Background(), 1, []string{"A1", "A2", "B7"})
    require.NoError(t, err)
    assert.True(t, ok)
}

func TestAvailableRejectsHeldStatuses(t *testing.T) {
    for _, status := range []model.BookingStatus{
        model.StatusPending, model.StatusPaid, model.StatusValidated,
    } {
        t.Run(status.String(), func(t *testing.T) {
            store := newMemStore()
            svc := NewService(store)
            checker := NewChecker(store, config.DefaultSeatMap())

            _, err := svc.Create(context.Background(), 1, "Anna", "anna@example.com", []string{"A1"}, status)
            require.NoError(t, err)

            ok, err := checker.Available(context.Background(), 1, []string{"A1"})
            require.NoError(t, err)
            assert.False(t, ok)
        })
    }
}

func TestAvailableIgnoresReleased(t *testing.T) {
    store := newMemStore()
    svc := NewService(store)
    checker := NewChecker(store, config.DefaultSeatMap())

    b, err := svc.Create(context.Background(), 1, "Anna", "anna@example.com", []string{"A1"}, model.StatusPending)
    require.NoError(t, err)
    require.NoError(t, store.UpdateStatus(context.Background(), b.ID, model.StatusReleased))

    ok, err := checker.Available(context.Background(), 1, []string{"A1"})
    require.NoError(t, err)
    assert.True(t, ok, "released bookings no longer hold their seats")
}

func TestAvailableIsPerEvent(t *testing.T) {
    store := newMemStore()
    svc := NewService(store)
    checker := NewChecker(store, config.DefaultSeatMap())

    _, err := svc.Create(context.Background(), 1, "Anna", "anna@example.com", []string{"A1"}, model.StatusPaid)
    require.NoError(t, err)

    ok, err := checker.Available(context.Background(), 2, []string{"A1"})
    require.NoError(t, err)
    assert.True(t, ok, "a seat held for one event stays free for another")
}

func TestAvailableRejectsPermanentlyUnavailable(t *testing.T) {
    store := newMemStore()
    seatMap := config.DefaultSeatMap()
    seatMap.Unavailable["N27"] = struct{}{}
    checker := NewChecker(store, seatMap)

    ok, err := checker.Available(context.Background(), 1, []string{"N27"})
    require.NoError(t, err)
    assert.False(t, ok)
}

// Seats A1..A3 start free; a pending booking of A1,A2 makes
// {A2,A3} unavailable; deleting the booking frees A1 and A2 again.
func TestBookThenDeleteScenario(t *testing.T) {
    ctx := context.Background()
    store := newMemStore()
    svc := NewService(store)
    checker := NewChecker(store, config.DefaultSeatMap())

    b1, err := svc.Create(ctx, 1, "Anna", "anna@example.com", []string{"A1", "A2"}, model.StatusPending)
    require.NoError(t, err)

    ok, err := checker.Available(ctx, 1, []string{"A2", "A3"})
    require.NoError(t, err)
    assert.False(t, ok, "A2 is held by b1")

    require.NoError(t, svc.Delete(ctx, b1.ID))

    ok, err = checker.Available(ctx, 1, []string{"A1", "A2"})
    require.NoError(t, err)
    assert.True(t, ok, "deletion frees exactly b1's seats")
}

func TestDeleteFreesOnlyItsOwnSeats(t *testing.T) {
    ctx := context.Background()
    store := newMemStore()
    svc := NewService(store)
    checker := NewChecker(store, config.DefaultSeatMap())

    b1, err := svc.Create(ctx, 1, "Anna", "anna@example.com", []string{"A1"}, model.StatusPending)
    require.NoError(t, err)
    _, err = svc.Create(ctx, 1, "Bruno", "bruno@example.com", []string{"A2"}, model.StatusPaid)
    require.NoError(t, err)

    require.NoError(t, svc.Delete(ctx, b1.ID))

    ok, err := checker.Available(ctx, 1, []string{"A1"})
    require.NoError(t, err)
    assert.True(t, ok)

    ok, err = checker.Available(ctx, 1, []string{"A2"})
    require.NoError(t, err)
    assert.False(t, ok, "the other booking's seat stays held")
}

// Two creates for the same seat with no availability re-check in
// between both succeed.  This documents the accepted check-then-act
// race of the design; nothing in the lifecycle enforces mutual
// exclusion.
func TestConcurrentCreatesBothSucceed(t *testing.T) {
    ctx := context.Background()
    store := newMemStore()
    svc := NewService(store)
    checker := NewChecker(store, config.DefaultSeatMap())

    ok, err := checker.Available(ctx, 1, []string{"C5"})
    require.NoError(t, err)
    require.True(t, ok)

    // Both requests passed the check above; both inserts land.
    b1, err := svc.Create(ctx, 1, "Anna", "anna@example.com", []string{"C5"}, model.StatusPending)
    require.NoError(t, err)
    b2, err := svc.Create(ctx, 1, "Bruno", "bruno@example.com", []string{"C5"}, model.StatusPending)
    require.NoError(t, err)

    assert.NotEqual(t, b1.ID, b2.ID)
    ok, err = checker.Available(ctx, 1, []string{"C5"})
    require.NoError(t, err)
    assert.False(t, ok)
}

func TestCreatePopulatesTokenAndTimestamp(t *testing.T) {
    store := newMemStore()
    svc := NewService(store)

    before := time.Now().UTC()
    b, err := svc.Create(context.Background(), 1, "Anna", "anna@example.com", []string{"A1"}, model.StatusPending)
    require.NoError(t, err)

    assert.NotZero(t, b.ID)
    assert.NotEmpty(t, b.TicketToken)
    assert.False(t, b.CreatedAt.Before(before.Add(-time.Second)))

    got, err := svc.GetByToken(context.Background(), b.TicketToken)
    require.NoError(t, err)
    assert.Equal(t, b.ID, got.ID)
}
