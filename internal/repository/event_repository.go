package repository

import (
    "context"
    "database/sql"
    "errors"
    "fmt"

    "github.com/tsrbooking/theater-booking/internal/model"
)

// EventRepo provides CRUD operations for events.  Events are only
// ever written by administrators; public traffic reads the visible
// subset.  Rather than deleting past events, administrators normally
// toggle the visible flag so history and bookings stay intact.
type EventRepo struct {
    db *sql.DB
}

// NewEventRepo returns a new EventRepo bound to the given database.
func NewEventRepo(db *sql.DB) *EventRepo { return &EventRepo{db: db} }

// DB exposes the underlying handle so callers can open transactions
// spanning multiple repositories.
func (r *EventRepo) DB() *sql.DB { return r.db }

const eventColumns = `id, title, date, time, price, poster_url, visible, created_at, updated_at`

func scanEvent(row interface {
    Scan(dest ...interface{}) error
}) (*model.Event, error) {
    var ev model.Event
    var poster sql.NullString
    err := row.Scan(&ev.ID, &ev.Title, &ev.Date, &ev.Time, &ev.Price,
        &poster, &ev.Visible, &ev.CreatedAt, &ev.UpdatedAt)
    if err != nil {
        return nil, err
    }
    if poster.Valid {
        p := poster.String
        ev.PosterURL = &p
    }
    return &ev, nil
}

// ListVisible returns all events with the visible flag set, newest
// first.  This feeds the public listing.
func (r *EventRepo) ListVisible(ctx context.Context) ([]model.Event, error) {
    return r.list(ctx, `SELECT `+eventColumns+` FROM events WHERE visible = 1 ORDER BY id DESC`)
}

// ListAll returns every event including hidden ones, newest first.
// Admin dashboard only.
func (r *EventRepo) ListAll(ctx context.Context) ([]model.Event, error) {
    return r.list(ctx, `SELECT `+eventColumns+` FROM events ORDER BY id DESC`)
}

func (r *EventRepo) list(ctx context.Context, query string) ([]model.Event, error) {
    rows, err := r.db.QueryContext(ctx, query)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    events := make([]model.Event, 0)
    for rows.Next() {
        ev, err := scanEvent(rows)
        if err != nil {
            return nil, err
        }
        events = append(events, *ev)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return events, nil
}

// GetByID returns a single event.  ErrEventNotFound is returned when
// no row exists.
func (r *EventRepo) GetByID(ctx context.Context, id uint64) (*model.Event, error) {
    row := r.db.QueryRowContext(ctx, `SELECT `+eventColumns+` FROM events WHERE id = ?`, id)
    ev, err := scanEvent(row)
    if errors.Is(err, sql.ErrNoRows) {
        return nil, ErrEventNotFound
    }
    if err != nil {
        return nil, err
    }
    return ev, nil
}

// Create inserts a new event and populates the generated ID on the
// provided model.  New events are visible by default; the caller sets
// the Visible field explicitly.
func (r *EventRepo) Create(ctx context.Context, ev *model.Event) error {
    result, err := r.db.ExecContext(ctx,
        `INSERT INTO events (title, date, time, price, poster_url, visible) VALUES (?, ?, ?, ?, ?, ?)`,
        ev.Title, ev.Date, ev.Time, ev.Price, ev.PosterURL, ev.Visible,
    )
    if err != nil {
        return err
    }
    id, err := result.LastInsertId()
    if err != nil {
        return err
    }
    ev.ID = uint64(id)
    return nil
}

// Update overwrites the mutable fields of an existing event.
// ErrEventNotFound is returned when the event does not exist.
func (r *EventRepo) Update(ctx context.Context, ev *model.Event) error {
    result, err := r.db.ExecContext(ctx,
        `UPDATE events SET title = ?, date = ?, time = ?, price = ?, poster_url = ?, visible = ? WHERE id = ?`,
        ev.Title, ev.Date, ev.Time, ev.Price, ev.PosterURL, ev.Visible, ev.ID,
    )
    if err != nil {
        return err
    }
    if n, err := result.RowsAffected(); err == nil && n == 0 {
        // RowsAffected is also 0 when nothing changed; confirm existence.
        var one int
        if err := r.db.QueryRowContext(ctx, `SELECT 1 FROM events WHERE id = ?`, ev.ID).Scan(&one); errors.Is(err, sql.ErrNoRows) {
            return ErrEventNotFound
        }
    }
    return nil
}

// SetVisible toggles an event in or out of the public listing.
func (r *EventRepo) SetVisible(ctx context.Context, id uint64, visible bool) error {
    result, err := r.db.ExecContext(ctx, `UPDATE events SET visible = ? WHERE id = ?`, visible, id)
    if err != nil {
        return err
    }
    if n, err := result.RowsAffected(); err == nil && n == 0 {
        var one int
        if err := r.db.QueryRowContext(ctx, `SELECT 1 FROM events WHERE id = ?`, id).Scan(&one); errors.Is(err, sql.ErrNoRows) {
            return ErrEventNotFound
        }
    }
    return nil
}

// Delete removes an event together with its bookings and their seat
// rows.  Reserved for emergencies; routine cleanup hides the event
// instead.  The whole removal runs in one transaction.
func (r *EventRepo) Delete(ctx context.Context, id uint64) error {
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
    if _, err := tx.ExecContext(ctx,
        `DELETE bs FROM booking_seats bs JOIN bookings b ON b.id = bs.booking_id WHERE b.event_id = ?`, id); err != nil {
        return err
    }
    if _, err := tx.ExecContext(ctx, `DELETE FROM bookings WHERE event_id = ?`, id); err != nil {
        return err
    }
    result, err := tx.ExecContext(ctx, `DELETE FROM events WHERE id = ?`, id)
    if err != nil {
        return err
    }
    if n, _ := result.RowsAffected(); n == 0 {
        return ErrEventNotFound
    }
    if err := tx.Commit(); err != nil {
        return err
    }
    committed = true
    return nil
}

// Stats counts how many seats of the event sit in each booking state.
// Feeds the admin dashboard.
func (r *EventRepo) Stats(ctx context.Context, id uint64) (model.EventStats, error) {
    const q = `SELECT b.status, COUNT(bs.id)
               FROM bookings b
               JOIN booking_seats bs ON bs.booking_id = b.id
               WHERE b.event_id = ? AND b.status IN (?, ?, ?)
               GROUP BY b.status`
    rows, err := r.db.QueryContext(ctx, q, id,
        model.StatusPending, model.StatusPaid, model.StatusValidated)
    if err != nil {
        return model.EventStats{}, err
    }
    defer rows.Close()
    var stats model.EventStats
    for rows.Next() {
        var status model.BookingStatus
        var count int
        if err := rows.Scan(&status, &count); err != nil {
            return model.EventStats{}, err
        }
        switch status {
        case model.StatusPending:
            stats.Pending = count
        case model.StatusPaid:
            stats.Sold = count
        case model.StatusValidated:
            stats.Validated = count
        }
    }
    if err := rows.Err(); err != nil {
        return model.EventStats{}, err
    }
    return stats, nil
}
