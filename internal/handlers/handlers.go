package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/edusupply/schola-api/internal/middleware"
	"github.com/edusupply/schola-api/internal/services"
	"github.com/edusupply/schola-api/pkg/logger"
)

// Handlers holds all handler instances
type Handlers struct {
	Health    *HealthHandler
	Auth      *AuthHandler
	User      *UserHandler
	School    *SchoolHandler
	Inventory *InventoryHandler
	LPO       *LPOHandler
	Invoice   *InvoiceHandler
	Payment   *PaymentHandler
	Expense   *ExpenseHandler
	Ledger    *LedgerHandler
	Analytics *AnalyticsHandler
	Report    *ReportHandler
	Audit     *AuditHandler
	Job       *JobHandler
}

// NewHandlers creates all handler instances
func NewHandlers(svcs *services.Services) *Handlers {
	return &Handlers{
		Health:    NewHealthHandler(),
		Auth:      NewAuthHandler(svcs.Auth),
		User:      NewUserHandler(svcs.User),
		School:    NewSchoolHandler(svcs.School, svcs.Credit),
		Inventory: NewInventoryHandler(svcs.Inventory, svcs.Posting),
		LPO:       NewLPOHandler(svcs.LPO),
		Invoice:   NewInvoiceHandler(svcs.Invoice, svcs.Posting),
		Payment:   NewPaymentHandler(svcs.Payment, svcs.Posting),
		Expense:   NewExpenseHandler(svcs.Expense, svcs.Posting),
		Ledger:    NewLedgerHandler(svcs.Ledger),
		Analytics: NewAnalyticsHandler(svcs.Analytics, svcs.Export, svcs.Forecast),
		Report:    NewReportHandler(svcs.Report),
		Audit:     NewAuditHandler(svcs.Audit),
		Job:       NewJobHandler(svcs.Job),
	}
}

// actorFrom captures who is posting, for the audit trail
func actorFrom(c *gin.Context) services.Actor {
	return services.Actor{
		UserID:    middleware.GetUserID(c),
		IP:        c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
	}
}

// abortWithError maps service errors to HTTP responses
func abortWithError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, services.ErrInvalidCommand):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrCreditLimitExceeded):
		c.JSON(http.StatusConflict, gin.H{
			"error":                 "credit limit exceeded",
			"confirmation_required": true,
		})
	case errors.Is(err, services.ErrDuplicate):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrInvalidPassword), errors.Is(err, services.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
	case errors.Is(err, services.ErrAccountDisabled):
		c.JSON(http.StatusForbidden, gin.H{"error": "account disabled"})
	default:
		logger.Error("request failed", "path", c.FullPath(), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
