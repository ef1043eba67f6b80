package handler

import (
    "context"
    "encoding/json"
    "errors"
    "net/http"
    "net/http/httptest"
    "strings"
    "testing"
    "time"

    "github.com/labstack/echo/v4"
    "github.com/shopspring/decimal"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/tsrbooking/theater-booking/internal/config"
    "github.com/tsrbooking/theater-booking/internal/model"
    "github.com/tsrbooking/theater-booking/internal/queue"
    "github.com/tsrbooking/theater-booking/internal/repository"
)

type fakeEvents struct {
    events map[uint64]*model.Event
}

func (f *fakeEvents) GetByID(_ context.Context, id uint64) (*model.Event, error) {
    ev, ok := f.events[id]
    if !ok {
        return nil, repository.ErrEventNotFound
    }
    return ev, nil
}

type fakeChecker struct {
    free bool
}

func (f *fakeChecker) Available(context.Context, uint64, []string) (bool, error) {
    return f.free, nil
}

type fakeLifecycle struct {
    nextID   uint64
    bookings map[uint64]*model.Booking
    deleted  []uint64
}

func newFakeLifecycle() *fakeLifecycle {
    return &fakeLifecycle{nextID: 1, bookings: map[uint64]*model.Booking{}}
}

func (f *fakeLifecycle) Create(_ context.Context, eventID uint64, name, email string, seats []string, status model.BookingStatus) (*model.Booking, error) {
    b := &model.Booking{
        ID: f.nextID, EventID: eventID, Name: name, Email: email,
        Seats: seats, Status: status, TicketToken: "tok", CreatedAt: time.Now().UTC(),
    }
    f.bookings[b.ID] = b
    f.nextID++
    return b, nil
}

func (f *fakeLifecycle) Get(_ context.Context, id uint64) (*model.Booking, error) {
    b, ok := f.bookings[id]
    if !ok {
        return nil, repository.ErrBookingNotFound
    }
    return b, nil
}

func (f *fakeLifecycle) MarkPaid(_ context.Context, id uint64) error {
    b, ok := f.bookings[id]
    if !ok {
        return repository.ErrBookingNotFound
    }
    b.Status = model.StatusPaid
    return nil
}

func (f *fakeLifecycle) Delete(_ context.Context, id uint64) error {
    if _, ok := f.bookings[id]; !ok {
        return repository.ErrBookingNotFound
    }
    delete(f.bookings, id)
    f.deleted = append(f.deleted, id)
    return nil
}

type fakeGateway struct {
    url       string
    err       error
    bookingID uint64
}

func (f *fakeGateway) CreateSession(context.Context, *model.Booking, *model.Event) (string, error) {
    return f.url, f.err
}

func (f *fakeGateway) SessionBookingID(context.Context, string) (uint64, error) {
    if f.err != nil {
        return 0, f.err
    }
    return f.bookingID, nil
}

func newBookingHandler(free bool, gw *fakeGateway) (*BookingHandler, *fakeLifecycle, *[]queue.TicketIssuedEvent) {
    events := &fakeEvents{events: map[uint64]*model.Event{
        1: {ID: 1, Title: "Macbeth", Date: "2026-12-01", Time: "21:00", Price: decimal.NewFromInt(20), Visible: true},
        2: {ID: 2, Title: "Hidden", Visible: false},
    }}
    store := newFakeLifecycle()
    published := []queue.TicketIssuedEvent{}
    h := &BookingHandler{
        Events:   events,
        Checker:  &fakeChecker{free: free},
        Bookings: store,
        Gateway:  gw,
        SeatMap:  config.DefaultSeatMap(),
        Publish: func(_ context.Context, ev queue.TicketIssuedEvent) error {
            published = append(published, ev)
            return nil
        },
    }
    return h, store, &published
}

func doJSON(t *testing.T, h echo.HandlerFunc, method, target, body string) *httptest.ResponseRecorder {
    t.Helper()
    e := echo.New()
    req := httptest.NewRequest(method, target, strings.NewReader(body))
    req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
    rec := httptest.NewRecorder()
    require.NoError(t, h(e.NewContext(req, rec)))
    return rec
}

func TestCreateBookingReturnsCheckoutURL(t *testing.T) {
    h, store, _ := newBookingHandler(true, &fakeGateway{url: "https://checkout.example/s_123"})

    rec := doJSON(t, h.CreateBooking, http.MethodPost, "/v1/bookings",
        `{"event_id":1,"name":"Anna","email":"anna@example.com","seats":["A1","A2"]}`)

    require.Equal(t, http.StatusCreated, rec.Code)
    var resp map[string]any
    require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
    assert.Equal(t, "https://checkout.example/s_123", resp["checkout_url"])

    b := store.bookings[1]
    require.NotNil(t, b)
    assert.Equal(t, model.StatusPending, b.Status)
    assert.Equal(t, []string{"A1", "A2"}, b.Seats)
}

func TestCreateBookingRejectsTakenSeats(t *testing.T) {
    h, store, _ := newBookingHandler(false, &fakeGateway{url: "u"})

    rec := doJSON(t, h.CreateBooking, http.MethodPost, "/v1/bookings",
        `{"event_id":1,"name":"Anna","email":"anna@example.com","seats":["A1"]}`)

    assert.Equal(t, http.StatusConflict, rec.Code)
    assert.Empty(t, store.bookings)
}

func TestCreateBookingValidation(t *testing.T) {
    h, _, _ := newBookingHandler(true, &fakeGateway{url: "u"})

    cases := []struct {
        name string
        body string
        code int
    }{
        {"missing name", `{"event_id":1,"email":"a@b.it","seats":["A1"]}`, http.StatusBadRequest},
        {"bad email", `{"event_id":1,"name":"A","email":"nope","seats":["A1"]}`, http.StatusBadRequest},
        {"no seats", `{"event_id":1,"name":"A","email":"a@b.it","seats":[]}`, http.StatusBadRequest},
        {"bad seat id", `{"event_id":1,"name":"A","email":"a@b.it","seats":["Z9"]}`, http.StatusBadRequest},
        {"unknown event", `{"event_id":99,"name":"A","email":"a@b.it","seats":["A1"]}`, http.StatusNotFound},
        {"hidden event", `{"event_id":2,"name":"A","email":"a@b.it","seats":["A1"]}`, http.StatusNotFound},
    }
    for _, tc := range cases {
        t.Run(tc.name, func(t *testing.T) {
            rec := doJSON(t, h.CreateBooking, http.MethodPost, "/v1/bookings", tc.body)
            assert.Equal(t, tc.code, rec.Code)
        })
    }
}

func TestCreateBookingKeepsPendingOnGatewayFailure(t *testing.T) {
    h, store, _ := newBookingHandler(true, &fakeGateway{err: errors.New("stripe down")})

    rec := doJSON(t, h.CreateBooking, http.MethodPost, "/v1/bookings",
        `{"event_id":1,"name":"Anna","email":"anna@example.com","seats":["A1"]}`)

    assert.Equal(t, http.StatusBadGateway, rec.Code)
    // The booking stays pending; the sweeper reclaims it later.
    require.Len(t, store.bookings, 1)
    assert.Equal(t, model.StatusPending, store.bookings[1].Status)
}

func TestPaymentSuccessMarksPaidAndPublishes(t *testing.T) {
    gw := &fakeGateway{url: "u"}
    h, store, published := newBookingHandler(true, gw)
    b, err := store.Create(context.Background(), 1, "Anna", "anna@example.com", []string{"A1"}, model.StatusPending)
    require.NoError(t, err)
    gw.bookingID = b.ID

    rec := doJSON(t, h.PaymentSuccess, http.MethodGet, "/v1/payment/success?session_id=s_1", "")

    require.Equal(t, http.StatusOK, rec.Code)
    assert.Equal(t, model.StatusPaid, store.bookings[b.ID].Status)
    require.Len(t, *published, 1)
    assert.Equal(t, b.ID, (*published)[0].BookingID)
}

func TestPaymentSuccessIsIdempotent(t *testing.T) {
    gw := &fakeGateway{url: "u"}
    h, store, published := newBookingHandler(true, gw)
    b, err := store.Create(context.Background(), 1, "Anna", "anna@example.com", []string{"A1"}, model.StatusPaid)
    require.NoError(t, err)
    gw.bookingID = b.ID

    rec := doJSON(t, h.PaymentSuccess, http.MethodGet, "/v1/payment/success?session_id=s_1", "")

    assert.Equal(t, http.StatusOK, rec.Code)
    assert.Empty(t, *published, "no duplicate ticket on a repeated redirect")
}

func TestPaymentCancelDeletesBooking(t *testing.T) {
    gw := &fakeGateway{url: "u"}
    h, store, _ := newBookingHandler(true, gw)
    b, err := store.Create(context.Background(), 1, "Anna", "anna@example.com", []string{"A1"}, model.StatusPending)
    require.NoError(t, err)
    gw.bookingID = b.ID

    rec := doJSON(t, h.PaymentCancel, http.MethodGet, "/v1/payment/cancel?session_id=s_1", "")

    assert.Equal(t, http.StatusOK, rec.Code)
    assert.Empty(t, store.bookings)
    assert.Equal(t, []uint64{b.ID}, store.deleted)
}

func TestPaymentCancelToleratesAlreadyGone(t *testing.T) {
    gw := &fakeGateway{url: "u", bookingID: 42}
    h, _, _ := newBookingHandler(true, gw)

    rec := doJSON(t, h.PaymentCancel, http.MethodGet, "/v1/payment/cancel?session_id=s_1", "")

    assert.Equal(t, http.StatusOK, rec.Code)
}
