package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/edusupply/schola-api/internal/models"
	"github.com/edusupply/schola-api/internal/services"
)

type InvoiceHandler struct {
	invoiceService *services.InvoiceService
	postingService *services.PostingService
}

func NewInvoiceHandler(invoiceService *services.InvoiceService, postingService *services.PostingService) *InvoiceHandler {
	return &InvoiceHandler{
		invoiceService: invoiceService,
		postingService: postingService,
	}
}

// @Summary List Invoices
// @Tags Invoices
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page"
// @Param school_id query int false "Filter by school"
// @Param unsettled query bool false "Only invoices with a balance due"
// @Param search_term query string false "Match invoice number"
// @Success 200 {object} map[string]interface{}
// @Router /invoices [get]
func (h *InvoiceHandler) Index(c *gin.Context) {
	query := ParseListQuery(c, "school_id", "unsettled", "search_term")

	invoices, total, err := h.invoiceService.List(c.Request.Context(), query)
	if err != nil {
		abortWithError(c, err)
		return
	}

	responses := make([]models.InvoiceResponse, 0, len(invoices))
	for i := range invoices {
		responses = append(responses, invoices[i].ToResponse())
	}

	c.JSON(http.StatusOK, gin.H{
		"invoices": responses,
		"total":    total,
		"page":     query.Page,
	})
}

// @Summary Get Invoice
// @Tags Invoices
// @Produce json
// @Security BearerAuth
// @Param invoice_id path int true "Invoice ID"
// @Success 200 {object} models.InvoiceResponse
// @Router /invoices/{invoice_id} [get]
func (h *InvoiceHandler) Show(c *gin.Context) {
	invoice, err := h.invoiceService.FindByID(c.Request.Context(), uintParam(c, "invoice_id"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, invoice.ToResponse())
}

type InvoiceLineRequest struct {
	BatchID      uint    `json:"batch_id" binding:"required"`
	LPOItemID    *uint   `json:"lpo_item_id"`
	Quantity     int     `json:"quantity" binding:"required"`
	SellingPrice float64 `json:"selling_price"`
}

type RecordInvoiceRequest struct {
	SchoolID            uint                 `json:"school_id" binding:"required"`
	LPOID               *uint                `json:"lpo_id"`
	Items               []InvoiceLineRequest `json:"items" binding:"required"`
	ExtraCost           float64              `json:"extra_cost"`
	InvoiceDate         time.Time            `json:"invoice_date"`
	DeliveryDate        time.Time            `json:"delivery_date"`
	ConfirmCreditExcess bool                 `json:"confirm_credit_excess"`
}

// @Summary Record Invoice
// @Description Posts a delivery to a school: depletes stock, fulfils the LPO, updates the school balance and credits the ledger in one transaction. Returns 409 with confirmation_required when the school would exceed its credit limit and confirm_credit_excess is not set.
// @Tags Invoices
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body RecordInvoiceRequest true "Invoice"
// @Success 201 {object} models.InvoiceResponse
// @Failure 409 {object} map[string]interface{}
// @Router /invoices [post]
func (h *InvoiceHandler) Record(c *gin.Context) {
	var req RecordInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	cmd := services.RecordInvoiceCommand{
		SchoolID:            req.SchoolID,
		LPOID:               req.LPOID,
		ExtraCost:           req.ExtraCost,
		InvoiceDate:         req.InvoiceDate,
		DeliveryDate:        req.DeliveryDate,
		ConfirmCreditExcess: req.ConfirmCreditExcess,
	}
	for _, line := range req.Items {
		cmd.Items = append(cmd.Items, services.InvoiceLineCommand{
			BatchID:      line.BatchID,
			LPOItemID:    line.LPOItemID,
			Quantity:     line.Quantity,
			SellingPrice: line.SellingPrice,
		})
	}

	invoice, err := h.postingService.RecordInvoice(c.Request.Context(), actorFrom(c), cmd)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, invoice.ToResponse())
}
