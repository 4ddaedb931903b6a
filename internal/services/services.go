package services

import (
	"github.com/edusupply/schola-api/internal/config"
	"github.com/edusupply/schola-api/internal/jobs"
	"github.com/edusupply/schola-api/internal/repository"
	"github.com/edusupply/schola-api/internal/storage"
	"gorm.io/gorm"
)

// Services holds all service instances
type Services struct {
	Auth      *AuthService
	User      *UserService
	School    *SchoolService
	Inventory *InventoryService
	LPO       *LPOService
	Invoice   *InvoiceService
	Payment   *PaymentService
	Expense   *ExpenseService
	Ledger    *LedgerService
	Posting   *PostingService
	Analytics *AnalyticsService
	Credit    *CreditService
	Forecast  *ForecastService
	Report    *ReportService
	Export    *ExportService
	Email     *EmailService
	Audit     *AuditService
	Job       *JobService
}

// NewServices creates all service instances
func NewServices(repos *repository.Repositories, worker *jobs.Worker, store *storage.LocalStorage, cfg *config.Config, db *gorm.DB) *Services {
	emailSvc := NewEmailService(cfg)
	auditSvc := NewAuditService(db)

	analyticsSvc := NewAnalyticsService(
		repos.Analytics, repos.Invoice, repos.School, repos.Inventory,
		repos.Expense, repos.Ledger, cfg.AnalyticsCacheTTL,
	)

	return &Services{
		Auth:      NewAuthService(repos.User, repos.RefreshToken, cfg),
		User:      NewUserService(repos.User, worker, emailSvc, auditSvc),
		School:    NewSchoolService(repos.School, repos.Invoice, repos.Payment, repos.LPO, auditSvc),
		Inventory: NewInventoryService(repos.Inventory),
		LPO:       NewLPOService(repos.LPO, repos.School, auditSvc),
		Invoice:   NewInvoiceService(repos.Invoice),
		Payment:   NewPaymentService(repos.Payment, store, auditSvc),
		Expense:   NewExpenseService(repos.Expense),
		Ledger:    NewLedgerService(repos.Ledger),
		Posting:   NewPostingService(db, repos.Ledger, repos.Analytics, auditSvc, worker),
		Analytics: analyticsSvc,
		Credit:    NewCreditService(repos.School, repos.Invoice, cfg.ReminderAfterDays),
		Forecast:  NewForecastService(cfg.OpenAIAPIKey, cfg.OpenAIModel, repos.Invoice, repos.Inventory, repos.Analytics),
		Report:    NewReportService(repos.Invoice, repos.School, repos.Payment, repos.Ledger, cfg.CompanyName),
		Export:    NewExportService(analyticsSvc),
		Email:     emailSvc,
		Audit:     auditSvc,
		Job:       NewJobService(worker),
	}
}
