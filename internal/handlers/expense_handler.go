package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/edusupply/schola-api/internal/services"
)

type ExpenseHandler struct {
	expenseService *services.ExpenseService
	postingService *services.PostingService
}

func NewExpenseHandler(expenseService *services.ExpenseService, postingService *services.PostingService) *ExpenseHandler {
	return &ExpenseHandler{
		expenseService: expenseService,
		postingService: postingService,
	}
}

// @Summary List Expenses
// @Tags Expenses
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page"
// @Param category query string false "Filter by category"
// @Success 200 {object} map[string]interface{}
// @Router /expenses [get]
func (h *ExpenseHandler) Index(c *gin.Context) {
	query := ParseListQuery(c, "category", "search_term", "start_date", "end_date")

	expenses, total, err := h.expenseService.List(c.Request.Context(), query)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"expenses": expenses,
		"total":    total,
		"page":     query.Page,
	})
}

type RecordExpenseRequest struct {
	Name     string    `json:"name" binding:"required"`
	Category string    `json:"category" binding:"required"`
	Amount   float64   `json:"amount" binding:"required"`
	Date     time.Time `json:"date"`
}

// @Summary Record Expense
// @Description Records an operating expense and debits the cash ledger
// @Tags Expenses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body RecordExpenseRequest true "Expense"
// @Success 201 {object} models.Expense
// @Router /expenses [post]
func (h *ExpenseHandler) Record(c *gin.Context) {
	var req RecordExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	expense, err := h.postingService.RecordExpense(c.Request.Context(), actorFrom(c), services.RecordExpenseCommand{
		Name:     req.Name,
		Category: req.Category,
		Amount:   req.Amount,
		Date:     req.Date,
	})
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, expense)
}
