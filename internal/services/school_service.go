package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/edusupply/schola-api/internal/models"
	"github.com/edusupply/schola-api/internal/repository"

	"gorm.io/gorm"
)

// SchoolService manages the customer register. Balances on the school are
// owned by the posting workflows and are never set through here.
type SchoolService struct {
	repo        repository.SchoolRepository
	invoiceRepo repository.InvoiceRepository
	paymentRepo repository.PaymentRepository
	lpoRepo     repository.LPORepository
	auditSvc    *AuditService
}

func NewSchoolService(
	repo repository.SchoolRepository,
	invoiceRepo repository.InvoiceRepository,
	paymentRepo repository.PaymentRepository,
	lpoRepo repository.LPORepository,
	auditSvc *AuditService,
) *SchoolService {
	return &SchoolService{
		repo:        repo,
		invoiceRepo: invoiceRepo,
		paymentRepo: paymentRepo,
		lpoRepo:     lpoRepo,
		auditSvc:    auditSvc,
	}
}

func (s *SchoolService) FindByID(ctx context.Context, id uint) (*models.School, error) {
	school, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return school, nil
}

func (s *SchoolService) List(ctx context.Context, query *repository.ListQuery) ([]models.School, int64, error) {
	return s.repo.List(ctx, query)
}

func (s *SchoolService) Create(ctx context.Context, school *models.School, actorID uint) error {
	if school.Name == "" {
		return fmt.Errorf("%w: school name is required", ErrInvalidCommand)
	}
	if school.CreditLimit < 0 {
		return fmt.Errorf("%w: credit limit cannot be negative", ErrInvalidCommand)
	}
	if err := s.repo.Create(ctx, school); err != nil {
		return err
	}
	return s.auditSvc.Log(ctx, actorID, models.AuditActionCreate, "school", school.ID,
		fmt.Sprintf("Created school %s", school.Name), "", "")
}

// Update changes contact details and the credit limit. The running balances
// and the payment history are copied from the stored row so a stale client
// payload cannot rewrite them.
func (s *SchoolService) Update(ctx context.Context, school *models.School, actorID uint) error {
	current, err := s.repo.FindByID(ctx, school.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	school.TotalInvoiced = current.TotalInvoiced
	school.TotalPaid = current.TotalPaid
	school.OutstandingBalance = current.OutstandingBalance
	school.PaymentDaysHistory = current.PaymentDaysHistory
	school.CreatedAt = current.CreatedAt

	if err := s.repo.Update(ctx, school); err != nil {
		return err
	}
	return s.auditSvc.Log(ctx, actorID, models.AuditActionUpdate, "school", school.ID,
		fmt.Sprintf("Updated school %s", school.Name), "", "")
}

// SchoolDetail is the school page payload: the register row plus its
// invoices, payments and open orders
type SchoolDetail struct {
	School   models.SchoolResponse    `json:"school"`
	Invoices []models.InvoiceResponse `json:"invoices"`
	Payments []models.PaymentResponse `json:"payments"`
	OpenLPOs []models.LPOResponse     `json:"open_lpos"`
}

func (s *SchoolService) Detail(ctx context.Context, id uint) (*SchoolDetail, error) {
	school, err := s.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	invoices, err := s.invoiceRepo.FindBySchool(ctx, id)
	if err != nil {
		return nil, err
	}
	payments, err := s.paymentRepo.FindBySchool(ctx, id)
	if err != nil {
		return nil, err
	}
	lpos, err := s.lpoRepo.FindOpenBySchool(ctx, id)
	if err != nil {
		return nil, err
	}

	detail := &SchoolDetail{
		School:   school.ToResponse(),
		Invoices: make([]models.InvoiceResponse, 0, len(invoices)),
		Payments: make([]models.PaymentResponse, 0, len(payments)),
		OpenLPOs: make([]models.LPOResponse, 0, len(lpos)),
	}
	for i := range invoices {
		detail.Invoices = append(detail.Invoices, invoices[i].ToResponse())
	}
	for i := range payments {
		detail.Payments = append(detail.Payments, payments[i].ToResponse())
	}
	for i := range lpos {
		detail.OpenLPOs = append(detail.OpenLPOs, lpos[i].ToResponse())
	}
	return detail, nil
}
