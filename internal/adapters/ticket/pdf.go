// Package ticket renders printable booking tickets.
package ticket

import (
	"bytes"
	"fmt"

	"eventbooking/internal/domain"

	"github.com/jung-kurt/gofpdf"
	"github.com/skip2/go-qrcode"
)

const qrSize = 256

type pdfRenderer struct{}

// NewPDFRenderer returns a TicketRenderer producing a one-page A4 PDF with a QR code of
// the booking id.
func NewPDFRenderer() domain.TicketRenderer {
	return pdfRenderer{}
}

func (pdfRenderer) Render(b *domain.Booking, e *domain.Event) ([]byte, error) {
	qr, err := qrcode.New(b.ID, qrcode.Medium)
	if err != nil {
		return nil, fmt.Errorf("failed to generate QR code: %w", err)
	}
	png, err := qr.PNG(qrSize)
	if err != nil {
		return nil, fmt.Errorf("failed to encode QR to PNG: %w", err)
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 22)
	pdf.MultiCell(0, 10, tr(e.Title), "", "C", false)
	pdf.Ln(4)

	imgOpts := gofpdf.ImageOptions{ImageType: "PNG"}
	imgName := "qr_" + b.ID
	pdf.RegisterImageOptionsReader(imgName, imgOpts, bytes.NewReader(png))
	pdf.ImageOptions(imgName, (210.0-80.0)/2, pdf.GetY(), 80, 80, false, imgOpts, 0, "")
	pdf.Ln(86)

	pdf.SetDrawColor(200, 200, 200)
	pdf.Line(20, pdf.GetY(), 190, pdf.GetY())
	pdf.Ln(6)

	rows := [][2]string{
		{"Date", e.Date.Format("Monday, January 2, 2006 15:04 MST")},
		{"Location", e.Location},
		{"Guest", b.Name},
		{"Email", b.Email},
		{"Seats", fmt.Sprintf("%d", b.Quantity)},
		{"Total", b.TotalAmount.StringFixed(2)},
		{"Status", string(b.Status)},
		{"Booking", b.ID},
	}
	for _, row := range rows {
		pdf.SetX(20)
		pdf.SetFont("Arial", "", 12)
		pdf.CellFormat(40, 8, row[0]+":", "", 0, "L", false, 0, "")
		pdf.SetFont("Arial", "B", 12)
		pdf.CellFormat(130, 8, tr(row[1]), "", 1, "L", false, 0, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render ticket: %w", err)
	}
	return buf.Bytes(), nil
}
