package service

import (
	"fmt"
	"io"
	"strconv"

	"github.com/phpdave11/gofpdf"

	"atlas/internal/booking"
	"atlas/internal/domain"
)

// VoucherService renders booking confirmations for email and print.
type VoucherService struct {
	company string
}

// NewVoucherService creates a new VoucherService.
func NewVoucherService(company string) *VoucherService {
	if company == "" {
		company = "Atlas Excursions"
	}
	return &VoucherService{company: company}
}

type voucherLine struct {
	label string
	value string
}

func (s *VoucherService) details(b *domain.BookingRecord) []voucherLine {
	tour := "Group tour"
	if b.IsPrivate {
		tour = "Private tour"
	}
	return []voucherLine{
		{"Reference", b.BookingReference},
		{"Excursion", b.ExcursionTitle},
		{"Type", b.ExcursionType + " / " + tour},
		{"Date", b.Date.Format("Monday, January 2, 2006")},
		{"Pickup", b.PickupLocation},
		{"Guest", b.Name},
		{"Email", b.Email},
		{"Phone", b.Phone},
	}
}

func (s *VoucherService) fares(b *domain.BookingRecord) []voucherLine {
	lines := []voucherLine{
		{fmt.Sprintf("Adults x%d", b.Adults), formatAmount(float64(b.Adults) * b.AdultPrice)},
	}
	if b.Children > 0 {
		band := booking.ChildAgeBand(b.ChildPolicy)
		lines = append(lines, voucherLine{
			fmt.Sprintf("Children (%s) x%d", band, b.Children),
			formatAmount(float64(b.Children) * b.ChildPrice),
		})
	}
	if b.YoungChildren > 0 {
		lines = append(lines, voucherLine{fmt.Sprintf("Infants x%d", b.YoungChildren), "free"})
	}
	return lines
}

// Format renders the voucher as plain text.
func (s *VoucherService) Format(b *domain.BookingRecord) string {
	out := `
=====================================
        BOOKING CONFIRMATION
=====================================
`
	for _, l := range s.details(b) {
		out += fmt.Sprintf("%-11s %s\n", l.label+":", l.value)
	}

	out += `
FARE BREAKDOWN
-------------------------------------
`
	for _, l := range s.fares(b) {
		out += fmt.Sprintf("%-24s %s\n", l.label, l.value)
	}

	out += `-------------------------------------
TOTAL:                   ` + formatAmount(b.TotalPrice) + `
Status: ` + string(b.Status) + `

=====================================
  Thank you for booking with ` + s.company + `!
=====================================
`
	return out
}

// RenderPDF writes the voucher as a single-page A4 PDF.
func (s *VoucherService) RenderPDF(b *domain.BookingRecord, w io.Writer) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Booking "+b.BookingReference, false)
	pdf.SetAuthor(s.company, false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, s.company+" - Booking Voucher")
	pdf.Ln(14)

	pdf.SetFont("Helvetica", "", 12)
	for _, l := range s.details(b) {
		pdf.SetFont("Helvetica", "B", 12)
		pdf.CellFormat(35, 7, l.label, "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 12)
		pdf.CellFormat(0, 7, l.value, "", 1, "L", false, 0, "")
	}
	pdf.Ln(6)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 7, "Fare breakdown")
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "", 11)
	for _, l := range s.fares(b) {
		pdf.CellFormat(120, 7, l.label, "B", 0, "L", false, 0, "")
		pdf.CellFormat(0, 7, l.value, "B", 1, "R", false, 0, "")
	}
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(120, 9, "Total", "", 0, "L", false, 0, "")
	pdf.CellFormat(0, 9, formatAmount(b.TotalPrice), "", 1, "R", false, 0, "")

	pdf.Ln(8)
	pdf.SetFont("Helvetica", "I", 10)
	pdf.MultiCell(0, 6, "Please show this voucher to your guide at pickup. Our team will contact you to confirm the pickup time.", "", "", false)

	return pdf.Output(w)
}

func formatAmount(v float64) string {
	return strconv.FormatInt(booking.DisplayPrice(v), 10) + " EUR"
}
