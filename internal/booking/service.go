package booking

import (
    "context"
    "fmt"
    "time"

    "github.com/google/uuid"

    "github.com/tsrbooking/theater-booking/internal/model"
)

// Store is the persistence surface the lifecycle needs.  Implemented
// by repository.BookingRepo.
type Store interface {
    Create(ctx context.Context, b *model.Booking) error
    GetByID(ctx context.Context, id uint64) (*model.Booking, error)
    GetByToken(ctx context.Context, token string) (*model.Booking, error)
    UpdateStatus(ctx context.Context, id uint64, status model.BookingStatus) error
    Delete(ctx context.Context, id uint64) error
}

// Service drives the booking lifecycle: create, status transitions,
// deletion.  It owns none of the availability checking — callers run
// the Checker immediately before Create, and the unprotected window
// between the two is an accepted property of the design, not a bug to
// be papered over here.
type Service struct {
    store Store
}

// NewService returns a Service over the given store.
func NewService(store Store) *Service {
    return &Service{store: store}
}

// Create inserts a new booking in the given initial status (pending
// for self-service, paid or validated for admin cash sales) with a
// fresh ticket token and the current UTC timestamp.  The populated
// booking, including its generated ID, is returned.
func (s *Service) Create(ctx context.Context, eventID uint64, name, email string, seats []string, status model.BookingStatus) (*model.Booking, error) {
    b := &model.Booking{
        EventID:     eventID,
        Name:        name,
        Email:       email,
        Seats:       seats,
        Status:      status,
        TicketToken: uuid.NewString(),
        CreatedAt:   time.Now().UTC(),
    }
    if err := s.store.Create(ctx, b); err != nil {
        return nil, fmt.Errorf("create booking: %w", err)
    }
    return b, nil
}

// Get returns a booking by ID.
func (s *Service) Get(ctx context.Context, id uint64) (*model.Booking, error) {
    return s.store.GetByID(ctx, id)
}

// GetByToken returns a booking by its ticket redemption token.
func (s *Service) GetByToken(ctx context.Context, token string) (*model.Booking, error) {
    return s.store.GetByToken(ctx, token)
}

// MarkPaid transitions a booking to paid.  Used when the checkout
// session completes.
func (s *Service) MarkPaid(ctx context.Context, id uint64) error {
    if err := s.store.UpdateStatus(ctx, id, model.StatusPaid); err != nil {
        return fmt.Errorf("mark paid: %w", err)
    }
    return nil
}

// MarkValidated transitions a booking to validated.  Used at the door
// when a ticket is redeemed.
func (s *Service) MarkValidated(ctx context.Context, id uint64) error {
    if err := s.store.UpdateStatus(ctx, id, model.StatusValidated); err != nil {
        return fmt.Errorf("mark validated: %w", err)
    }
    return nil
}

// Delete removes a booking outright, freeing exactly its seats.
// Payment cancellation and admin removal both delete rather than
// release, which forfeits the audit trail on purpose — the original
// deployment made the same call and the behavior is kept.
func (s *Service) Delete(ctx context.Context, id uint64) error {
    if err := s.store.Delete(ctx, id); err != nil {
        return err
    }
    return nil
}
