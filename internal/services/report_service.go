package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"html/template"
	"os"
	"sort"
	"time"

	"github.com/SebastiaanKlippert/go-wkhtmltopdf"
	"github.com/jung-kurt/gofpdf"

	"github.com/edusupply/schola-api/internal/models"
	"github.com/edusupply/schola-api/internal/repository"

	"gorm.io/gorm"
)

type ReportService struct {
	invoiceRepo repository.InvoiceRepository
	schoolRepo  repository.SchoolRepository
	paymentRepo repository.PaymentRepository
	ledgerRepo  repository.LedgerRepository
	companyName string
}

func NewReportService(
	invoiceRepo repository.InvoiceRepository,
	schoolRepo repository.SchoolRepository,
	paymentRepo repository.PaymentRepository,
	ledgerRepo repository.LedgerRepository,
	companyName string,
) *ReportService {
	return &ReportService{
		invoiceRepo: invoiceRepo,
		schoolRepo:  schoolRepo,
		paymentRepo: paymentRepo,
		ledgerRepo:  ledgerRepo,
		companyName: companyName,
	}
}

// GenerateInvoicePDF renders a printable invoice
func (s *ReportService) GenerateInvoicePDF(ctx context.Context, invoiceID uint) (*bytes.Buffer, error) {
	invoice, err := s.invoiceRepo.FindByID(ctx, invoiceID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("invoice %d: %w", invoiceID, ErrNotFound)
		}
		return nil, err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(120, 10, s.companyName)
	pdf.SetFont("Arial", "B", 14)
	pdf.Cell(60, 10, invoice.InvoiceNumber)
	pdf.Ln(12)

	pdf.SetFont("Arial", "", 10)
	pdf.Cell(120, 6, fmt.Sprintf("Billed to: %s", invoice.School.Name))
	pdf.Cell(60, 6, fmt.Sprintf("Invoice date: %s", invoice.InvoiceDate.Format("02/01/2006")))
	pdf.Ln(6)
	if invoice.School.ContactDetails != "" {
		pdf.Cell(120, 6, invoice.School.ContactDetails)
	} else {
		pdf.Cell(120, 6, "")
	}
	pdf.Cell(60, 6, fmt.Sprintf("Delivery date: %s", invoice.DeliveryDate.Format("02/01/2006")))
	pdf.Ln(12)

	// Line items table
	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(80, 8, "Item", "1", 0, "L", false, 0, "")
	pdf.CellFormat(25, 8, "Qty", "1", 0, "R", false, 0, "")
	pdf.CellFormat(40, 8, "Unit Price", "1", 0, "R", false, 0, "")
	pdf.CellFormat(45, 8, "Amount", "1", 0, "R", false, 0, "")
	pdf.Ln(8)

	pdf.SetFont("Arial", "", 10)
	for _, line := range invoice.Items {
		pdf.CellFormat(80, 8, line.ItemName, "1", 0, "L", false, 0, "")
		pdf.CellFormat(25, 8, fmt.Sprintf("%d", line.Quantity), "1", 0, "R", false, 0, "")
		pdf.CellFormat(40, 8, fmt.Sprintf("%.2f", line.SellingPrice), "1", 0, "R", false, 0, "")
		pdf.CellFormat(45, 8, fmt.Sprintf("%.2f", float64(line.Quantity)*line.SellingPrice), "1", 0, "R", false, 0, "")
		pdf.Ln(8)
	}

	if invoice.ExtraCost > 0 {
		pdf.CellFormat(145, 8, "Delivery / handling", "1", 0, "L", false, 0, "")
		pdf.CellFormat(45, 8, fmt.Sprintf("%.2f", invoice.ExtraCost), "1", 0, "R", false, 0, "")
		pdf.Ln(8)
	}

	pdf.Ln(4)
	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(145, 8, "Total", "", 0, "R", false, 0, "")
	pdf.CellFormat(45, 8, fmt.Sprintf("KES %.2f", invoice.TotalRevenue), "1", 0, "R", false, 0, "")
	pdf.Ln(8)
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(145, 8, "Paid", "", 0, "R", false, 0, "")
	pdf.CellFormat(45, 8, fmt.Sprintf("KES %.2f", invoice.AmountPaid), "", 0, "R", false, 0, "")
	pdf.Ln(8)
	pdf.CellFormat(145, 8, "Balance due", "", 0, "R", false, 0, "")
	pdf.CellFormat(45, 8, fmt.Sprintf("KES %.2f", invoice.Outstanding()), "", 0, "R", false, 0, "")

	buf := new(bytes.Buffer)
	if err := pdf.Output(buf); err != nil {
		return nil, err
	}
	return buf, nil
}

// statementLine is one row of a school's statement of account
type statementLine struct {
	Date        string
	Description string
	Invoiced    string
	Paid        string
	Balance     string
}

// GenerateSchoolStatementPDF renders a statement of account for one school:
// every invoice and payment in order, with a running balance
func (s *ReportService) GenerateSchoolStatementPDF(ctx context.Context, schoolID uint) (*bytes.Buffer, error) {
	school, err := s.schoolRepo.FindByID(ctx, schoolID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("school %d: %w", schoolID, ErrNotFound)
		}
		return nil, err
	}

	invoices, err := s.invoiceRepo.FindBySchool(ctx, schoolID)
	if err != nil {
		return nil, err
	}
	payments, err := s.paymentRepo.FindBySchool(ctx, schoolID)
	if err != nil {
		return nil, err
	}

	type movement struct {
		date        time.Time
		description string
		invoiced    float64
		paid        float64
	}
	movements := make([]movement, 0, len(invoices)+len(payments))
	for _, inv := range invoices {
		movements = append(movements, movement{
			date:        inv.InvoiceDate,
			description: fmt.Sprintf("Invoice %s", inv.InvoiceNumber),
			invoiced:    inv.TotalRevenue,
		})
	}
	for _, p := range payments {
		movements = append(movements, movement{
			date:        p.PaymentDate,
			description: fmt.Sprintf("Payment (%s)", p.Method),
			paid:        p.Amount,
		})
	}
	sort.SliceStable(movements, func(i, j int) bool {
		return movements[i].date.Before(movements[j].date)
	})

	var balance float64
	lines := make([]statementLine, 0, len(movements))
	for _, m := range movements {
		balance += m.invoiced - m.paid
		line := statementLine{
			Date:        m.date.Format("02/01/2006"),
			Description: m.description,
			Balance:     fmt.Sprintf("%.2f", balance),
		}
		if m.invoiced > 0 {
			line.Invoiced = fmt.Sprintf("%.2f", m.invoiced)
		}
		if m.paid > 0 {
			line.Paid = fmt.Sprintf("%.2f", m.paid)
		}
		lines = append(lines, line)
	}

	data := struct {
		Company     string
		School      models.SchoolResponse
		Date        string
		Lines       []statementLine
		Outstanding string
	}{
		Company:     s.companyName,
		School:      school.ToResponse(),
		Date:        time.Now().Format("02/01/2006"),
		Lines:       lines,
		Outstanding: fmt.Sprintf("%.2f", school.OutstandingBalance),
	}

	return s.generatePDF("school_statement.html", data)
}

// GenerateLedgerCSV exports the full cash ledger
func (s *ReportService) GenerateLedgerCSV(ctx context.Context) (*bytes.Buffer, error) {
	entries, err := s.ledgerRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	b := &bytes.Buffer{}
	w := csv.NewWriter(b)

	header := []string{"Date", "Type", "Reference", "Debit", "Credit", "Balance"}
	if err := w.Write(header); err != nil {
		return nil, err
	}

	for _, e := range entries {
		record := []string{
			e.EntryDate.Format("2006-01-02"),
			e.EntryType,
			e.Reference,
			fmt.Sprintf("%.2f", e.Debit),
			fmt.Sprintf("%.2f", e.Credit),
			fmt.Sprintf("%.2f", e.Balance),
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}

	w.Flush()
	return b, nil
}

// generatePDF renders an HTML template through wkhtmltopdf
func (s *ReportService) generatePDF(templateName string, data interface{}) (*bytes.Buffer, error) {
	tmplPath := fmt.Sprintf("internal/services/templates/reports/%s", templateName)
	if _, err := os.Stat(tmplPath); os.IsNotExist(err) {
		// Path relative to the package, for tests.
		tmplPath = fmt.Sprintf("templates/reports/%s", templateName)
	}

	tmpl, err := template.ParseFiles(tmplPath)
	if err != nil {
		return nil, fmt.Errorf("failed to parse template %s: %w", templateName, err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("failed to execute template: %w", err)
	}

	pdfg, err := wkhtmltopdf.NewPDFGenerator()
	if err != nil {
		return nil, fmt.Errorf("failed to create pdf generator: %w", err)
	}

	pdfg.Dpi.Set(300)
	pdfg.Orientation.Set(wkhtmltopdf.OrientationPortrait)
	pdfg.Grayscale.Set(false)

	page := wkhtmltopdf.NewPageReader(bytes.NewReader(buf.Bytes()))
	page.EnableLocalFileAccess.Set(true)
	pdfg.AddPage(page)

	if err := pdfg.Create(); err != nil {
		return nil, fmt.Errorf("failed to create pdf: %w", err)
	}

	return pdfg.Buffer(), nil
}
