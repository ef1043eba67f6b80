package repository

import (
    "context"
    "database/sql"
    "errors"
    "fmt"
    "strings"
    "time"

    "github.com/tsrbooking/theater-booking/internal/model"
)

// BookingRepo provides data access to the bookings and booking_seats
// tables.  A booking row carries the customer and status; its seats
// live in booking_seats, one row per seat, so the held-seat union is
// a plain join instead of string parsing.  All timestamps are UTC.
type BookingRepo struct {
    db *sql.DB
}

// NewBookingRepo returns a new BookingRepo bound to the given database.
func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

// Create inserts a booking and its seat rows in one transaction and
// populates the generated ID on the provided model.  It performs no
// availability check of its own: callers are expected to have checked
// immediately beforehand, and two near-simultaneous creates can still
// both land.
func (r *BookingRepo) Create(ctx context.Context, b *model.Booking) error {
    tx, err := r.db.BeginTx(ctx, nil)
    if err != nil {
        return fmt.Errorf("begin tx: %w", err)
    }
    committed := false
    defer func() {
        if !committed {
            _ = tx.Rollback()
        }
    }()

    result, err := tx.ExecContext(ctx,
        `INSERT INTO bookings (event_id, name, email, status, ticket_token, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
        b.EventID, b.Name, b.Email, b.Status, b.TicketToken,
        b.CreatedAt.UTC().Format("2006-01-02 15:04:05"),
    )
    if err != nil {
        return err
    }
    id, err := result.LastInsertId()
    if err != nil {
        return err
    }
    b.ID = uint64(id)

    if len(b.Seats) > 0 {
        query := `INSERT INTO booking_seats (booking_id, seat_id) VALUES `
        args := make([]interface{}, 0, len(b.Seats)*2)
        for i, seat := range b.Seats {
            if i > 0 {
                query += ","
            }
            query += "(?, ?)"
            args = append(args, b.ID, seat)
        }
        if _, err := tx.ExecContext(ctx, query, args...); err != nil {
            return err
        }
    }

    if err := tx.Commit(); err != nil {
        return err
    }
    committed = true
    return nil
}

// GetByID returns a booking with its seats.  ErrBookingNotFound is
// returned when no row exists.
func (r *BookingRepo) GetByID(ctx context.Context, id uint64) (*model.Booking, error) {
    return r.getBy(ctx, `WHERE id = ?`, id)
}

// GetByToken looks a booking up by its ticket redemption token.
func (r *BookingRepo) GetByToken(ctx context.Context, token string) (*model.Booking, error) {
    return r.getBy(ctx, `WHERE ticket_token = ?`, token)
}

func (r *BookingRepo) getBy(ctx context.Context, where string, arg interface{}) (*model.Booking, error) {
    var b model.Booking
    err := r.db.QueryRowContext(ctx,
        `SELECT id, event_id, name, email, status, ticket_token, created_at FROM bookings `+where, arg,
    ).Scan(&b.ID, &b.EventID, &b.Name, &b.Email, &b.Status, &b.TicketToken, &b.CreatedAt)
    if errors.Is(err, sql.ErrNoRows) {
        return nil, ErrBookingNotFound
    }
    if err != nil {
        return nil, err
    }
    rows, err := r.db.QueryContext(ctx,
        `SELECT seat_id FROM booking_seats WHERE booking_id = ? ORDER BY seat_id`, b.ID)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    for rows.Next() {
        var seat string
        if err := rows.Scan(&seat); err != nil {
            return nil, err
        }
        b.Seats = append(b.Seats, seat)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return &b, nil
}

// HeldSeats returns the union of seats claimed by every booking of
// the event whose status is pending, paid or validated.  This is the
// full recomputation the availability checker relies on; there is no
// cache or incremental index, which is fine at a single theater's
// scale.
func (r *BookingRepo) HeldSeats(ctx context.Context, eventID uint64) (map[string]struct{}, error) {
    const q = `SELECT bs.seat_id
               FROM booking_seats bs
               JOIN bookings b ON b.id = bs.booking_id
               WHERE b.event_id = ? AND b.status IN (?, ?, ?)`
    rows, err := r.db.QueryContext(ctx, q, eventID,
        model.StatusPending, model.StatusPaid, model.StatusValidated)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    held := make(map[string]struct{})
    for rows.Next() {
        var seat string
        if err := rows.Scan(&seat); err != nil {
            return nil, err
        }
        held[seat] = struct{}{}
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return held, nil
}

// ListByEvent returns every booking of an event regardless of status,
// newest first, with seats populated.  Feeds the admin transaction
// list.
func (r *BookingRepo) ListByEvent(ctx context.Context, eventID uint64) ([]model.Booking, error) {
    rows, err := r.db.QueryContext(ctx,
        `SELECT id, event_id, name, email, status, ticket_token, created_at
         FROM bookings WHERE event_id = ? ORDER BY created_at DESC, id DESC`, eventID)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    bookings := make([]model.Booking, 0)
    index := make(map[uint64]int)
    for rows.Next() {
        var b model.Booking
        if err := rows.Scan(&b.ID, &b.EventID, &b.Name, &b.Email, &b.Status, &b.TicketToken, &b.CreatedAt); err != nil {
            return nil, err
        }
        b.Seats = []string{}
        index[b.ID] = len(bookings)
        bookings = append(bookings, b)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    if len(bookings) == 0 {
        return bookings, nil
    }
    // Populate seats for all bookings in a single query.
    ids := make([]interface{}, 0, len(bookings))
    placeholders := make([]string, 0, len(bookings))
    for _, b := range bookings {
        ids = append(ids, b.ID)
        placeholders = append(placeholders, "?")
    }
    seatQuery := `SELECT booking_id, seat_id FROM booking_seats
                  WHERE booking_id IN (` + strings.Join(placeholders, ",") + `)
                  ORDER BY booking_id, seat_id`
    srows, err := r.db.QueryContext(ctx, seatQuery, ids...)
    if err != nil {
        return nil, err
    }
    defer srows.Close()
    for srows.Next() {
        var bid uint64
        var seat string
        if err := srows.Scan(&bid, &seat); err != nil {
            return nil, err
        }
        if idx, ok := index[bid]; ok {
            bookings[idx].Seats = append(bookings[idx].Seats, seat)
        }
    }
    if err := srows.Err(); err != nil {
        return nil, err
    }
    return bookings, nil
}

// UpdateStatus overwrites a booking's status unconditionally.
// ErrBookingNotFound is returned when the booking does not exist.
func (r *BookingRepo) UpdateStatus(ctx context.Context, id uint64, status model.BookingStatus) error {
    result, err := r.db.ExecContext(ctx, `UPDATE bookings SET status = ? WHERE id = ?`, status, id)
    if err != nil {
        return err
    }
    if n, err := result.RowsAffected(); err == nil && n == 0 {
        // A same-status overwrite also reports zero rows; confirm existence.
        var one int
        if err := r.db.QueryRowContext(ctx, `SELECT 1 FROM bookings WHERE id = ?`, id).Scan(&one); errors.Is(err, sql.ErrNoRows) {
            return ErrBookingNotFound
        }
    }
    return nil
}

// Delete removes a booking outright; its seat rows go with it via the
// foreign key cascade, freeing the seats immediately.  Used on payment
// cancellation and admin removal.
func (r *BookingRepo) Delete(ctx context.Context, id uint64) error {
    result, err := r.db.ExecContext(ctx, `DELETE FROM bookings WHERE id = ?`, id)
    if err != nil {
        return err
    }
    if n, _ := result.RowsAffected(); n == 0 {
        return ErrBookingNotFound
    }
    return nil
}

// ReleaseExpired flips every pending booking created at or before the
// cutoff to released, freeing its seats for new selections.  It is the
// expiry sweep's single statement: running it twice in a row changes
// nothing the second time, and it interleaves safely with concurrent
// creates and status updates.
func (r *BookingRepo) ReleaseExpired(ctx context.Context, cutoff time.Time) (int64, error) {
    result, err := r.db.ExecContext(ctx,
        `UPDATE bookings SET status = ? WHERE status = ? AND created_at <= ?`,
        model.StatusReleased, model.StatusPending,
        cutoff.UTC().Format("2006-01-02 15:04:05"),
    )
    if err != nil {
        return 0, err
    }
    return result.RowsAffected()
}
