package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/edusupply/schola-api/internal/middleware"
	"github.com/edusupply/schola-api/internal/models"
	"github.com/edusupply/schola-api/internal/services"
	"github.com/edusupply/schola-api/internal/storage"
)

type PaymentHandler struct {
	paymentService *services.PaymentService
	postingService *services.PostingService
}

func NewPaymentHandler(paymentService *services.PaymentService, postingService *services.PostingService) *PaymentHandler {
	return &PaymentHandler{
		paymentService: paymentService,
		postingService: postingService,
	}
}

// @Summary List Payments
// @Tags Payments
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page"
// @Param school_id query int false "Filter by school"
// @Success 200 {object} map[string]interface{}
// @Router /payments [get]
func (h *PaymentHandler) Index(c *gin.Context) {
	query := ParseListQuery(c, "school_id", "method", "search_term")

	payments, total, err := h.paymentService.List(c.Request.Context(), query)
	if err != nil {
		abortWithError(c, err)
		return
	}

	responses := make([]models.PaymentResponse, 0, len(payments))
	for i := range payments {
		responses = append(responses, payments[i].ToResponse())
	}

	c.JSON(http.StatusOK, gin.H{
		"payments": responses,
		"total":    total,
		"page":     query.Page,
	})
}

// @Summary Get Payment
// @Tags Payments
// @Produce json
// @Security BearerAuth
// @Param payment_id path int true "Payment ID"
// @Success 200 {object} models.PaymentResponse
// @Router /payments/{payment_id} [get]
func (h *PaymentHandler) Show(c *gin.Context) {
	payment, err := h.paymentService.FindByID(c.Request.Context(), uintParam(c, "payment_id"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, payment.ToResponse())
}

type RecordPaymentRequest struct {
	SchoolID    uint       `json:"school_id" binding:"required"`
	Amount      float64    `json:"amount" binding:"required"`
	Method      string     `json:"method"`
	Reference   string     `json:"reference"`
	BankName    string     `json:"bank_name"`
	ChequeDate  *time.Time `json:"cheque_date"`
	PaymentDate time.Time  `json:"payment_date"`
}

// @Summary Record Payment
// @Description Posts money received from a school: settles the oldest open invoice, updates the school balance and credits the ledger in one transaction
// @Tags Payments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body RecordPaymentRequest true "Payment"
// @Success 201 {object} models.PaymentResponse
// @Router /payments [post]
func (h *PaymentHandler) Record(c *gin.Context) {
	var req RecordPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	payment, err := h.postingService.RecordPayment(c.Request.Context(), actorFrom(c), services.RecordPaymentCommand{
		SchoolID:    req.SchoolID,
		Amount:      req.Amount,
		Method:      req.Method,
		Reference:   req.Reference,
		BankName:    req.BankName,
		ChequeDate:  req.ChequeDate,
		PaymentDate: req.PaymentDate,
	})
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, payment.ToResponse())
}

// @Summary Upload Receipt
// @Description Attaches a scanned receipt or cheque image to a payment
// @Tags Payments
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param payment_id path int true "Payment ID"
// @Param file formData file true "Receipt file (pdf, jpg or png, max 10MB)"
// @Success 200 {object} models.PaymentResponse
// @Router /payments/{payment_id}/receipt [post]
func (h *PaymentHandler) UploadReceipt(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}
	defer file.Close()

	if header.Size > storage.MaxUploadSize {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file exceeds the 10MB limit"})
		return
	}
	if !storage.IsValidContentType(header.Header.Get("Content-Type")) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "only pdf, jpg and png files are accepted"})
		return
	}

	payment, err := h.paymentService.AttachReceipt(c.Request.Context(), uintParam(c, "payment_id"), file, header, middleware.GetUserID(c))
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, payment.ToResponse())
}

// @Summary Download Receipt
// @Tags Payments
// @Produce octet-stream
// @Security BearerAuth
// @Param payment_id path int true "Payment ID"
// @Success 200 {file} binary
// @Router /payments/{payment_id}/receipt [get]
func (h *PaymentHandler) DownloadReceipt(c *gin.Context) {
	paymentID := uintParam(c, "payment_id")
	path, err := h.paymentService.ReceiptPath(c.Request.Context(), paymentID)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=receipt_%d", paymentID))
	c.File(path)
}
