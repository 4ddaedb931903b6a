package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/edusupply/schola-api/internal/services"
)

type AuditHandler struct {
	auditService *services.AuditService
}

func NewAuditHandler(auditService *services.AuditService) *AuditHandler {
	return &AuditHandler{auditService: auditService}
}

// @Summary List Audit Logs
// @Description Who did what and when, newest first. Admin only.
// @Tags Audit
// @Produce json
// @Security BearerAuth
// @Param action query string false "Filter by action"
// @Param limit query int false "Max entries, default 50"
// @Param offset query int false "Offset"
// @Success 200 {object} map[string]interface{}
// @Router /audit [get]
func (h *AuditHandler) Index(c *gin.Context) {
	action := c.Query("action")
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	logs, total, err := h.auditService.List(c.Request.Context(), action, limit, offset)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"logs":  logs,
		"total": total,
	})
}
