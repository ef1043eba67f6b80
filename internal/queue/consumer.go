package queue

import (
    "context"
    "encoding/json"
    "errors"
    "fmt"
    "log"
    "time"

    amqp "github.com/rabbitmq/amqp091-go"

    "github.com/tsrbooking/theater-booking/internal/model"
    "github.com/tsrbooking/theater-booking/internal/ticket"
)

// bookingSource and eventSource are the read paths the consumer needs.
// Implemented by repository.BookingRepo and repository.EventRepo.
type bookingSource interface {
    GetByID(ctx context.Context, id uint64) (*model.Booking, error)
}

type eventSource interface {
    GetByID(ctx context.Context, id uint64) (*model.Event, error)
}

// Consumer listens to the ticket.issued queue and sends the ticket
// email for each message. Rendering and delivery happen here, off the
// request path, so a slow SMTP server never delays a checkout
// response.
type Consumer struct {
    bookings bookingSource
    events   eventSource
    mailer   ticket.Mailer
}

// NewConsumer wires a consumer to its data sources and mailer.
func NewConsumer(bookings bookingSource, events eventSource, mailer ticket.Mailer) *Consumer {
    return &Consumer{bookings: bookings, events: events, mailer: mailer}
}

// Start connects to RabbitMQ, declares the ticket.issued queue
// (durable), and starts consuming messages. It runs a reconnect loop
// until ctx is cancelled; processing errors are logged and the
// offending message rejected so the server continues operating.
func (c *Consumer) Start(ctx context.Context) {
    url := BrokerURL()

    backoff := time.Second
    for {
        select {
        case <-ctx.Done():
            log.Printf("ticket-consumer: stopped")
            return
        default:
        }

        conn, err := amqp.Dial(url)
        if err != nil {
            log.Printf("ticket-consumer: failed to dial broker: %v; retrying in %s", err, backoff)
            if !sleepCtx(ctx, backoff) {
                log.Printf("ticket-consumer: stopped")
                return
            }
            if backoff < 30*time.Second {
                backoff *= 2
            }
            continue
        }
        backoff = time.Second // reset after successful connect

        if err := c.consumeLoop(ctx, conn); err != nil {
            log.Printf("ticket-consumer: consume loop ended: %v; reconnecting", err)
            if !sleepCtx(ctx, 2*time.Second) {
                _ = conn.Close()
                log.Printf("ticket-consumer: stopped")
                return
            }
        }
        _ = conn.Close()
    }
}

// sleepCtx waits for d unless ctx is cancelled first.  It reports
// whether the full wait elapsed.
func sleepCtx(ctx context.Context, d time.Duration) bool {
    t := time.NewTimer(d)
    defer t.Stop()
    select {
    case <-ctx.Done():
        return false
    case <-t.C:
        return true
    }
}

func (c *Consumer) consumeLoop(ctx context.Context, conn *amqp.Connection) error {
    ch, err := conn.Channel()
    if err != nil {
        return fmt.Errorf("channel open: %w", err)
    }
    defer func() { _ = ch.Close() }()

    if err := ch.Qos(10, 0, false); err != nil {
        log.Printf("ticket-consumer: set QoS failed: %v", err)
    }

    _, err = ch.QueueDeclare(ticketQueueName, true, false, false, false, nil)
    if err != nil {
        return fmt.Errorf("queue declare: %w", err)
    }

    msgs, err := ch.Consume(ticketQueueName, "", false, false, false, false, nil)
    if err != nil {
        return fmt.Errorf("queue consume: %w", err)
    }

    for {
        select {
        case <-ctx.Done():
            return nil
        case d, ok := <-msgs:
            if !ok {
                return errors.New("deliveries channel closed")
            }
            if err := c.handle(ctx, d.Body); err != nil {
                log.Printf("ticket-consumer: handle message failed: %v", err)
                _ = d.Nack(false, false) // reject, do not requeue to avoid tight loops
                continue
            }
            _ = d.Ack(false)
        }
    }
}

// handle processes one delivery. A booking that is no longer paid or
// validated by the time the message arrives (expired, deleted, or
// released) is skipped without error: the entitlement is gone.
func (c *Consumer) handle(ctx context.Context, body []byte) error {
    var ev TicketIssuedEvent
    if err := json.Unmarshal(body, &ev); err != nil {
        return fmt.Errorf("unmarshal: %w", err)
    }

    b, err := c.bookings.GetByID(ctx, ev.BookingID)
    if err != nil {
        return fmt.Errorf("load booking %d: %w", ev.BookingID, err)
    }
    if b.Status != model.StatusPaid && b.Status != model.StatusValidated {
        log.Printf("ticket-consumer: booking %d is %s, skipping send", b.ID, b.Status)
        return nil
    }
    if b.Email == "" {
        log.Printf("ticket-consumer: booking %d has no email, skipping send", b.ID)
        return nil
    }

    event, err := c.events.GetByID(ctx, b.EventID)
    if err != nil {
        return fmt.Errorf("load event %d: %w", b.EventID, err)
    }

    pdf, err := ticket.RenderPDF(b, event)
    if err != nil {
        return err
    }
    if err := c.mailer.SendTicket(b, event, pdf); err != nil {
        return err
    }
    log.Printf("ticket-consumer: sent ticket for booking %d to %s (resend=%t)", b.ID, b.Email, ev.Resend)
    return nil
}
