package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/edusupply/schola-api/internal/models"
	"github.com/edusupply/schola-api/internal/repository"

	"gorm.io/gorm"
)

// CreditService reports on each school's credit standing: exposure against
// the agreed limit and the unsettled invoices behind it
type CreditService struct {
	schoolRepo  repository.SchoolRepository
	invoiceRepo repository.InvoiceRepository
	overdueDays int
}

func NewCreditService(schoolRepo repository.SchoolRepository, invoiceRepo repository.InvoiceRepository, overdueDays int) *CreditService {
	if overdueDays <= 0 {
		overdueDays = 30
	}
	return &CreditService{
		schoolRepo:  schoolRepo,
		invoiceRepo: invoiceRepo,
		overdueDays: overdueDays,
	}
}

// CreditStanding is the per-school credit report
type CreditStanding struct {
	School             models.SchoolResponse    `json:"school"`
	CreditUtilization  float64                  `json:"credit_utilization"` // outstanding / limit, 0 when no limit set
	OverLimit          bool                     `json:"over_limit"`
	OverdueInvoices    []models.InvoiceResponse `json:"overdue_invoices"`
	OverdueAmount      float64                  `json:"overdue_amount"`
	AveragePaymentDays float64                  `json:"average_payment_days"`
}

// Standing builds the credit report for one school
func (s *CreditService) Standing(ctx context.Context, schoolID uint) (*CreditStanding, error) {
	school, err := s.schoolRepo.FindByID(ctx, schoolID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("school %d: %w", schoolID, ErrNotFound)
		}
		return nil, err
	}

	standing := &CreditStanding{
		School:             school.ToResponse(),
		OverLimit:          school.CreditLimit > 0 && school.OutstandingBalance > school.CreditLimit,
		AveragePaymentDays: school.AveragePaymentDays(),
	}
	if school.CreditLimit > 0 {
		standing.CreditUtilization = school.OutstandingBalance / school.CreditLimit
	}

	invoices, err := s.invoiceRepo.FindBySchool(ctx, schoolID)
	if err != nil {
		return nil, err
	}

	cutoff := time.Now().AddDate(0, 0, -s.overdueDays)
	for i := range invoices {
		inv := &invoices[i]
		if inv.IsSettled() || inv.InvoiceDate.After(cutoff) {
			continue
		}
		standing.OverdueInvoices = append(standing.OverdueInvoices, inv.ToResponse())
		standing.OverdueAmount += inv.Outstanding()
	}

	return standing, nil
}

// OverdueBySchool groups all overdue unsettled invoices by school, for the
// reminder job and the collections view
func (s *CreditService) OverdueBySchool(ctx context.Context) (map[uint][]models.Invoice, error) {
	cutoff := time.Now().AddDate(0, 0, -s.overdueDays)
	overdue, err := s.invoiceRepo.FindUnsettled(ctx, cutoff)
	if err != nil {
		return nil, err
	}

	grouped := make(map[uint][]models.Invoice)
	for _, inv := range overdue {
		grouped[inv.SchoolID] = append(grouped[inv.SchoolID], inv)
	}
	return grouped, nil
}
