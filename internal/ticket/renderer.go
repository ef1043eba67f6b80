// Package ticket produces the artifacts a paid booking earns: an HTML
// email body, a PDF attachment and the QR code that gets scanned at
// the door.  The QR payload is the booking's ticket token, never the
// numeric ID, so a ticket cannot be forged by guessing.
package ticket

import (
    "bytes"
    "fmt"
    "html/template"
    "strings"

    "github.com/jung-kurt/gofpdf"
    qrcode "github.com/skip2/go-qrcode"

    "github.com/tsrbooking/theater-booking/internal/model"
)

const qrSize = 256

var emailTmpl = template.Must(template.New("ticket").Parse(`<html>
<body style="font-family: Arial, sans-serif; color: #222;">
  <h2>Your ticket is confirmed</h2>
  <p>Hi {{.Name}},</p>
  <p>thank you for your booking. Here is your ticket:</p>
  <table cellpadding="4">
    <tr><td><b>Event</b></td><td>{{.Event}}</td></tr>
    <tr><td><b>Date</b></td><td>{{.Date}} at {{.Time}}</td></tr>
    <tr><td><b>Seats</b></td><td>{{.Seats}}</td></tr>
    <tr><td><b>Ticket N.</b></td><td>{{.ID}}</td></tr>
  </table>
  <p>The attached PDF contains a QR code: show it at the entrance.</p>
</body>
</html>`))

// RenderHTML renders the email body for the booking.
func RenderHTML(b *model.Booking, ev *model.Event) (string, error) {
    var buf bytes.Buffer
    err := emailTmpl.Execute(&buf, map[string]any{
        "Name":  b.Name,
        "Event": ev.Title,
        "Date":  ev.Date,
        "Time":  ev.Time,
        "Seats": strings.Join(b.Seats, ", "),
        "ID":    b.ID,
    })
    if err != nil {
        return "", fmt.Errorf("render ticket email: %w", err)
    }
    return buf.String(), nil
}

// RenderPDF builds the printable A4 ticket with the booking details
// and the entry QR code.
func RenderPDF(b *model.Booking, ev *model.Event) ([]byte, error) {
    png, err := qrcode.Encode(b.TicketToken, qrcode.Medium, qrSize)
    if err != nil {
        return nil, fmt.Errorf("encode ticket qr: %w", err)
    }

    pdf := gofpdf.New("P", "mm", "A4", "")
    pdf.AddPage()

    pdf.SetFont("Helvetica", "B", 22)
    pdf.CellFormat(0, 14, ev.Title, "", 1, "C", false, 0, "")

    pdf.SetFont("Helvetica", "", 13)
    pdf.CellFormat(0, 9, fmt.Sprintf("%s at %s", ev.Date, ev.Time), "", 1, "C", false, 0, "")
    pdf.Ln(6)

    pdf.SetFont("Helvetica", "", 12)
    pdf.CellFormat(0, 8, fmt.Sprintf("Name: %s", b.Name), "", 1, "L", false, 0, "")
    pdf.CellFormat(0, 8, fmt.Sprintf("Seats: %s", strings.Join(b.Seats, ", ")), "", 1, "L", false, 0, "")
    pdf.CellFormat(0, 8, fmt.Sprintf("Ticket N. %d", b.ID), "", 1, "L", false, 0, "")
    pdf.Ln(8)

    opts := gofpdf.ImageOptions{ImageType: "PNG"}
    pdf.RegisterImageOptionsReader("ticket-qr", opts, bytes.NewReader(png))
    // Centered 70mm QR on a 210mm wide page.
    pdf.ImageOptions("ticket-qr", 70, pdf.GetY(), 70, 70, false, opts, 0, "")

    pdf.SetY(pdf.GetY() + 78)
    pdf.SetFont("Helvetica", "I", 10)
    pdf.CellFormat(0, 6, "Show this QR code at the entrance.", "", 1, "C", false, 0, "")

    var buf bytes.Buffer
    if err := pdf.Output(&buf); err != nil {
        return nil, fmt.Errorf("write ticket pdf: %w", err)
    }
    return buf.Bytes(), nil
}
