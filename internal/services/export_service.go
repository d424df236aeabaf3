package services

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/sjperalta/cobuy-api/internal/billing"
	"github.com/sjperalta/cobuy-api/internal/format"
	"github.com/xuri/excelize/v2"
)

// ExportService renders plan schedules and statements
type ExportService struct {
	paymentSvc *PaymentService
}

func NewExportService(paymentSvc *PaymentService) *ExportService {
	return &ExportService{paymentSvc: paymentSvc}
}

var statusLabels = map[billing.Status]string{
	billing.StatusPaid:    "Lunas",
	billing.StatusPending: "Belum dibayar",
	billing.StatusOverdue: "Terlambat",
}

// ScheduleXLSX writes the plan's installments as a spreadsheet
func (s *ExportService) ScheduleXLSX(ctx context.Context, planID string, now time.Time) ([]byte, string, error) {
	summary, err := s.paymentSvc.Summary(ctx, planID, now)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := "Jadwal"
	_ = f.SetSheetName("Sheet1", sheet)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 12},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E0E0E0"}, Pattern: 1},
	})
	moneyStyle, _ := f.NewStyle(&excelize.Style{NumFmt: 3})

	_ = f.SetCellValue(sheet, "A1", "Jadwal Cicilan "+summary.PlanID)
	_ = f.SetCellValue(sheet, "A2", "Per tanggal")
	_ = f.SetCellValue(sheet, "B2", format.FormatDate(summary.AsOf))

	headers := []string{"No", "Periode", "Jatuh tempo", "Jumlah", "Status", "Tanggal bayar", "Hari ke jatuh tempo"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 4)
		_ = f.SetCellValue(sheet, cell, h)
	}
	_ = f.SetCellStyle(sheet, "A4", "G4", headerStyle)

	row := 5
	for i, p := range summary.Payments {
		paidOn := ""
		if p.PaymentDate != nil {
			paidOn = format.FormatDate(*p.PaymentDate)
		}
		values := []any{i + 1, p.PeriodLabel, format.FormatDate(p.DueDate), p.Amount, statusLabels[p.DisplayStatus], paidOn, p.DaysUntilDue}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			_ = f.SetCellValue(sheet, cell, v)
		}
		row++
	}
	if row > 5 {
		_ = f.SetCellStyle(sheet, "D5", fmt.Sprintf("D%d", row-1), moneyStyle)
	}

	row++
	totals := [][2]any{
		{"Total harga", summary.TotalAmount},
		{"Uang muka", summary.DownPayment},
		{"Sudah dibayar", summary.TotalPaid},
		{"Sisa", summary.Remaining},
	}
	for _, t := range totals {
		_ = f.SetCellValue(sheet, fmt.Sprintf("C%d", row), t[0])
		_ = f.SetCellValue(sheet, fmt.Sprintf("D%d", row), t[1])
		_ = f.SetCellStyle(sheet, fmt.Sprintf("D%d", row), fmt.Sprintf("D%d", row), moneyStyle)
		row++
	}
	_ = f.SetColWidth(sheet, "B", "G", 18)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("jadwal_%s_%s.xlsx", summary.PlanID, summary.AsOf.Format("2006-01-02"))
	return buf.Bytes(), filename, nil
}

// StatementPDF writes a one-page payment statement for the plan
func (s *ExportService) StatementPDF(ctx context.Context, planID string, now time.Time) ([]byte, string, error) {
	summary, err := s.paymentSvc.Summary(ctx, planID, now)
	if err != nil {
		return nil, "", err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	// Core fonts are cp1252 encoded
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(40, 10, tr("Laporan Cicilan"))
	pdf.Ln(10)

	pdf.SetFont("Arial", "", 10)
	pdf.Cell(40, 6, tr(fmt.Sprintf("Rencana: %s", summary.PlanID)))
	pdf.Ln(6)
	pdf.Cell(40, 6, tr(fmt.Sprintf("Per tanggal: %s", format.FormatDate(summary.AsOf))))
	pdf.Ln(10)

	lines := [][2]string{
		{"Total harga", summary.Formatted["total_amount"]},
		{"Uang muka", summary.Formatted["down_payment"]},
		{"Sudah dibayar", summary.Formatted["total_paid"]},
		{"Sisa", summary.Formatted["remaining"]},
		{"Progres", fmt.Sprintf("%d%%", summary.PaidPercentage)},
		{"Jatuh tempo berikutnya", format.FormatDate(summary.NextDueDate)},
	}
	for _, l := range lines {
		pdf.Cell(60, 6, tr(l[0]+":"))
		pdf.Cell(60, 6, tr(l[1]))
		pdf.Ln(6)
	}
	pdf.Ln(6)

	pdf.SetFont("Arial", "B", 10)
	widths := []float64{12, 35, 40, 45, 35}
	for i, h := range []string{"No", "Periode", "Jatuh tempo", "Jumlah", "Status"} {
		pdf.CellFormat(widths[i], 7, tr(h), "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 9)
	for i, p := range summary.Payments {
		cells := []string{
			fmt.Sprintf("%d", i+1),
			p.PeriodLabel,
			format.FormatDate(p.DueDate),
			format.FormatCurrency(p.Amount),
			statusLabels[p.DisplayStatus],
		}
		for j, c := range cells {
			align := "L"
			if j == 3 {
				align = "R"
			}
			pdf.CellFormat(widths[j], 6, tr(c), "1", 0, align, false, 0, "")
		}
		pdf.Ln(-1)
	}

	buf := new(bytes.Buffer)
	if err := pdf.Output(buf); err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("laporan_%s_%s.pdf", summary.PlanID, summary.AsOf.Format("2006-01-02"))
	return buf.Bytes(), filename, nil
}
