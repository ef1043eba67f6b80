package config

import (
    "encoding/json"
    "fmt"
    "os"
    "strconv"
)

// SeatMap enumerates every addressable seat of the venue.  A seat
// identifier is a single row letter followed by a 1-based column
// number, e.g. "A12".  A configured subset of seats is permanently
// unavailable (obstructed view, technical booth, etc.) and can never
// be booked regardless of the booking table.
//
// The map is static for the lifetime of the process; it is loaded
// once at startup and shared read-only between handlers and the
// availability checker.
type SeatMap struct {
    Rows        []string            // ordered row letters, front to back
    Cols        int                 // seats per row, numbered 1..Cols
    Unavailable map[string]struct{} // permanently blocked seat ids

    rowSet map[string]struct{}
}

// seatMapFile mirrors the JSON document the venue ships its seating
// plan in (row_letters, cols, unavailable_seats).
type seatMapFile struct {
    RowLetters       []string `json:"row_letters"`
    Cols             int      `json:"cols"`
    UnavailableSeats []string `json:"unavailable_seats"`
}

// DefaultSeatMap returns the built-in seating plan of the theater:
// rows A through N with 27 seats each and no blocked seats.  Used
// when no SEATMAP_PATH is configured.
func DefaultSeatMap() *SeatMap {
    rows := []string{"A", "B", "C", "D", "E", "F", "G", "H", "I", "L", "M", "N"}
    return newSeatMap(rows, 27, nil)
}

// LoadSeatMap reads a seating plan from the JSON file at path.  It
// returns an error when the file cannot be read, parsed, or when the
// plan is structurally empty.
func LoadSeatMap(path string) (*SeatMap, error) {
    raw, err := os.ReadFile(path)
    if err != nil {
        return nil, fmt.Errorf("read seat map: %w", err)
    }
    var f seatMapFile
    if err := json.Unmarshal(raw, &f); err != nil {
        return nil, fmt.Errorf("parse seat map: %w", err)
    }
    if len(f.RowLetters) == 0 || f.Cols <= 0 {
        return nil, fmt.Errorf("seat map %s has no rows or columns", path)
    }
    return newSeatMap(f.RowLetters, f.Cols, f.UnavailableSeats), nil
}

func newSeatMap(rows []string, cols int, unavailable []string) *SeatMap {
    m := &SeatMap{
        Rows:        rows,
        Cols:        cols,
        Unavailable: make(map[string]struct{}, len(unavailable)),
        rowSet:      make(map[string]struct{}, len(rows)),
    }
    for _, r := range rows {
        m.rowSet[r] = struct{}{}
    }
    for _, s := range unavailable {
        m.Unavailable[s] = struct{}{}
    }
    return m
}

// Valid reports whether seat is a well-formed identifier inside this
// plan: a known row letter followed by a column number in 1..Cols.
func (m *SeatMap) Valid(seat string) bool {
    if len(seat) < 2 {
        return false
    }
    row := seat[:1]
    if _, ok := m.rowSet[row]; !ok {
        return false
    }
    n, err := strconv.Atoi(seat[1:])
    if err != nil {
        return false
    }
    return n >= 1 && n <= m.Cols
}

// IsUnavailable reports whether seat is permanently blocked.
func (m *SeatMap) IsUnavailable(seat string) bool {
    _, ok := m.Unavailable[seat]
    return ok
}

// UnavailableList returns the blocked seats as a slice for JSON
// responses.  Order is unspecified.
func (m *SeatMap) UnavailableList() []string {
    out := make([]string, 0, len(m.Unavailable))
    for s := range m.Unavailable {
        out = append(out, s)
    }
    return out
}
