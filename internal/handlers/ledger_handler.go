package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/edusupply/schola-api/internal/services"
)

type LedgerHandler struct {
	ledgerService *services.LedgerService
}

func NewLedgerHandler(ledgerService *services.LedgerService) *LedgerHandler {
	return &LedgerHandler{ledgerService: ledgerService}
}

// @Summary List Ledger Entries
// @Description Running cash ledger, newest entries first
// @Tags Ledger
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page"
// @Param type query string false "credit or debit"
// @Success 200 {object} map[string]interface{}
// @Router /ledger [get]
func (h *LedgerHandler) Index(c *gin.Context) {
	query := ParseListQuery(c, "type", "start_date", "end_date")

	entries, total, err := h.ledgerService.List(c.Request.Context(), query)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"entries": entries,
		"total":   total,
		"page":    query.Page,
	})
}

// @Summary Ledger Balance
// @Description Current running cash balance
// @Tags Ledger
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Router /ledger/balance [get]
func (h *LedgerHandler) Balance(c *gin.Context) {
	balance, err := h.ledgerService.Balance(c.Request.Context())
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"balance": balance})
}
