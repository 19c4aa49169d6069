package reports

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"

	"github.com/batuwa-travels/travel-api/internal/domain"
)

const (
	FormatCSV   = "csv"
	FormatExcel = "xlsx"
	FormatPDF   = "pdf"
)

// Export is an encoded booking report ready to stream.
type Export struct {
	Data        []byte
	FileName    string
	ContentType string
}

var bookingHeaders = []string{
	"Date", "Booking ID", "Customer Name", "Email", "Phone", "Tour",
	"Travelers", "Travel Date", "Total Amount", "Status", "Payment Status",
}

type BookingExporter struct {
	now func() time.Time
}

func NewBookingExporter() *BookingExporter {
	return &BookingExporter{now: time.Now}
}

func (e *BookingExporter) Export(format string, bookings []domain.Booking) (*Export, error) {
	stamp := e.now().Format("2006-01-02")
	switch format {
	case FormatCSV:
		data, err := e.csv(bookings)
		if err != nil {
			return nil, err
		}
		return &Export{Data: data, FileName: fmt.Sprintf("bookings-%s.csv", stamp), ContentType: "text/csv"}, nil
	case FormatExcel:
		data, err := e.excel(bookings)
		if err != nil {
			return nil, err
		}
		return &Export{
			Data:        data,
			FileName:    fmt.Sprintf("bookings-%s.xlsx", stamp),
			ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		}, nil
	case FormatPDF:
		data, err := e.pdf(bookings)
		if err != nil {
			return nil, err
		}
		return &Export{Data: data, FileName: fmt.Sprintf("bookings-%s.pdf", stamp), ContentType: "application/pdf"}, nil
	default:
		return nil, fmt.Errorf("unsupported export format: %s", format)
	}
}

func bookingRecord(b domain.Booking) []string {
	return []string{
		b.CreatedAt.Format("2006-01-02"),
		b.ID.String(),
		b.CustomerName,
		b.CustomerEmail,
		b.CustomerPhone,
		b.TourTitle,
		strconv.Itoa(b.NumberOfTravelers),
		b.TravelDate.Format("2006-01-02"),
		strconv.FormatFloat(b.TotalAmount, 'f', 2, 64),
		string(b.Status),
		string(b.PaymentStatus),
	}
}

func (e *BookingExporter) csv(bookings []domain.Booking) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write(bookingHeaders); err != nil {
		return nil, err
	}
	for _, b := range bookings {
		if err := writer.Write(bookingRecord(b)); err != nil {
			return nil, err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (e *BookingExporter) excel(bookings []domain.Booking) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := "Bookings"
	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, err
	}
	f.DeleteSheet("Sheet1")
	f.SetActiveSheet(index)

	for i, h := range bookingHeaders {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		f.SetCellValue(sheet, cell, h)
	}

	for rIdx, b := range bookings {
		row := rIdx + 2
		values := []any{
			b.CreatedAt.Format("2006-01-02"),
			b.ID.String(),
			b.CustomerName,
			b.CustomerEmail,
			b.CustomerPhone,
			b.TourTitle,
			b.NumberOfTravelers,
			b.TravelDate.Format("2006-01-02"),
			b.TotalAmount,
			string(b.Status),
			string(b.PaymentStatus),
		}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row)
			if err != nil {
				return nil, err
			}
			f.SetCellValue(sheet, cell, v)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (e *BookingExporter) pdf(bookings []domain.Booking) ([]byte, error) {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(40, 10, "Bookings Report")
	pdf.Ln(10)

	widths := []float64{20, 28, 30, 40, 24, 40, 14, 20, 22, 20, 19}
	pdf.SetFont("Arial", "B", 7)
	for i, h := range bookingHeaders {
		pdf.CellFormat(widths[i], 7, h, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetFont("Arial", "", 7)
	for _, b := range bookings {
		record := bookingRecord(b)
		record[1] = b.ID.String()[:8]
		for i, v := range record {
			align := "L"
			if i == 6 || i == 8 {
				align = "R"
			}
			pdf.CellFormat(widths[i], 6, tr(v), "1", 0, align, false, 0, "")
		}
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
