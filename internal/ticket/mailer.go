package ticket

import (
    "fmt"
    "io"

    gomail "gopkg.in/gomail.v2"

    "github.com/tsrbooking/theater-booking/internal/model"
)

// Mailer delivers a rendered ticket to the booking's email address.
// The queue consumer depends on this interface so tests can capture
// sends instead of hitting an SMTP server.
type Mailer interface {
    SendTicket(b *model.Booking, ev *model.Event, pdf []byte) error
}

// SMTPMailer sends tickets over plain SMTP with gomail.
type SMTPMailer struct {
    host     string
    port     int
    sender   string
    password string
}

// NewSMTPMailer builds a mailer for the given SMTP endpoint.  Sender
// doubles as the authentication username.
func NewSMTPMailer(host string, port int, sender, password string) *SMTPMailer {
    return &SMTPMailer{host: host, port: port, sender: sender, password: password}
}

// SendTicket renders the email body and sends it with the PDF ticket
// attached.
func (m *SMTPMailer) SendTicket(b *model.Booking, ev *model.Event, pdf []byte) error {
    body, err := RenderHTML(b, ev)
    if err != nil {
        return err
    }

    msg := gomail.NewMessage()
    msg.SetHeader("From", m.sender)
    msg.SetHeader("To", b.Email)
    msg.SetHeader("Subject", fmt.Sprintf("Your ticket for %s", ev.Title))
    msg.SetBody("text/html", body)
    msg.Attach(fmt.Sprintf("ticket-%d.pdf", b.ID),
        gomail.SetCopyFunc(func(w io.Writer) error {
            _, err := w.Write(pdf)
            return err
        }),
        gomail.SetHeader(map[string][]string{"Content-Type": {"application/pdf"}}),
    )

    dialer := gomail.NewDialer(m.host, m.port, m.sender, m.password)
    if err := dialer.DialAndSend(msg); err != nil {
        return fmt.Errorf("send ticket email to %s: %w", b.Email, err)
    }
    return nil
}
