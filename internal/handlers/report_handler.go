package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/edusupply/schola-api/internal/services"
)

type ReportHandler struct {
	reportService *services.ReportService
}

func NewReportHandler(reportService *services.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// @Summary Invoice PDF
// @Description Downloads a printable PDF of one invoice
// @Tags Reports
// @Produce application/pdf
// @Security BearerAuth
// @Param invoice_id path int true "Invoice ID"
// @Success 200 {file} binary
// @Router /reports/invoices/{invoice_id}/pdf [get]
func (h *ReportHandler) InvoicePDF(c *gin.Context) {
	invoiceID := uintParam(c, "invoice_id")
	buf, err := h.reportService.GenerateInvoicePDF(c.Request.Context(), invoiceID)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=invoice_%d.pdf", invoiceID))
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}

// @Summary School Statement PDF
// @Description Downloads a statement of account for one school: invoices and payments in order with a running balance
// @Tags Reports
// @Produce application/pdf
// @Security BearerAuth
// @Param school_id path int true "School ID"
// @Success 200 {file} binary
// @Router /reports/schools/{school_id}/statement [get]
func (h *ReportHandler) SchoolStatementPDF(c *gin.Context) {
	schoolID := uintParam(c, "school_id")
	buf, err := h.reportService.GenerateSchoolStatementPDF(c.Request.Context(), schoolID)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=statement_school_%d.pdf", schoolID))
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}

// @Summary Ledger CSV
// @Description Downloads the full cash ledger as CSV
// @Tags Reports
// @Produce text/csv
// @Security BearerAuth
// @Success 200 {file} binary
// @Router /reports/ledger/csv [get]
func (h *ReportHandler) LedgerCSV(c *gin.Context) {
	buf, err := h.reportService.GenerateLedgerCSV(c.Request.Context())
	if err != nil {
		abortWithError(c, err)
		return
	}

	filename := fmt.Sprintf("ledger_%s.csv", time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, "text/csv", buf.Bytes())
}
