package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/edusupply/schola-api/internal/middleware"
	"github.com/edusupply/schola-api/internal/models"
	"github.com/edusupply/schola-api/internal/services"
)

type LPOHandler struct {
	lpoService *services.LPOService
}

func NewLPOHandler(lpoService *services.LPOService) *LPOHandler {
	return &LPOHandler{lpoService: lpoService}
}

// @Summary List LPOs
// @Tags LPOs
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page"
// @Param status query string false "pending, partial or completed"
// @Param school_id query int false "Filter by school"
// @Success 200 {object} map[string]interface{}
// @Router /lpos [get]
func (h *LPOHandler) Index(c *gin.Context) {
	query := ParseListQuery(c, "status", "school_id", "search_term")

	lpos, total, err := h.lpoService.List(c.Request.Context(), query)
	if err != nil {
		abortWithError(c, err)
		return
	}

	responses := make([]models.LPOResponse, 0, len(lpos))
	for i := range lpos {
		responses = append(responses, lpos[i].ToResponse())
	}

	c.JSON(http.StatusOK, gin.H{
		"lpos":  responses,
		"total": total,
		"page":  query.Page,
	})
}

// @Summary Get LPO
// @Tags LPOs
// @Produce json
// @Security BearerAuth
// @Param lpo_id path int true "LPO ID"
// @Success 200 {object} models.LPOResponse
// @Router /lpos/{lpo_id} [get]
func (h *LPOHandler) Show(c *gin.Context) {
	lpo, err := h.lpoService.FindByID(c.Request.Context(), uintParam(c, "lpo_id"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, lpo.ToResponse())
}

type LPOItemRequest struct {
	ItemName        string `json:"item_name" binding:"required"`
	QuantityOrdered int    `json:"quantity_ordered" binding:"required"`
}

type CreateLPORequest struct {
	SchoolID     uint             `json:"school_id" binding:"required"`
	LPONumber    string           `json:"lpo_number" binding:"required"`
	DateReceived time.Time        `json:"date_received"`
	Items        []LPOItemRequest `json:"items" binding:"required"`
}

// @Summary Register LPO
// @Description Registers a purchase order received from a school
// @Tags LPOs
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateLPORequest true "LPO"
// @Success 201 {object} models.LPOResponse
// @Router /lpos [post]
func (h *LPOHandler) Create(c *gin.Context) {
	var req CreateLPORequest
	if err := BindNestedOrFlat(c, "lpo", &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	lpo := &models.LPO{
		SchoolID:     req.SchoolID,
		LPONumber:    req.LPONumber,
		DateReceived: req.DateReceived,
	}
	for _, item := range req.Items {
		lpo.Items = append(lpo.Items, models.LPOItem{
			ItemName:        item.ItemName,
			QuantityOrdered: item.QuantityOrdered,
		})
	}

	if err := h.lpoService.Create(c.Request.Context(), lpo, middleware.GetUserID(c)); err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, lpo.ToResponse())
}

type UpdateLPOItemsRequest struct {
	Items []LPOItemRequest `json:"items" binding:"required"`
}

// @Summary Replace LPO Items
// @Description Replaces the ordered lines of an order with no deliveries yet
// @Tags LPOs
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param lpo_id path int true "LPO ID"
// @Param request body UpdateLPOItemsRequest true "Items"
// @Success 200 {object} models.LPOResponse
// @Router /lpos/{lpo_id}/items [put]
func (h *LPOHandler) UpdateItems(c *gin.Context) {
	var req UpdateLPOItemsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	items := make([]models.LPOItem, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, models.LPOItem{
			ItemName:        item.ItemName,
			QuantityOrdered: item.QuantityOrdered,
		})
	}

	lpo, err := h.lpoService.UpdateItems(c.Request.Context(), uintParam(c, "lpo_id"), items, middleware.GetUserID(c))
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, lpo.ToResponse())
}
