package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/edusupply/schola-api/internal/services"
)

type InventoryHandler struct {
	inventoryService *services.InventoryService
	postingService   *services.PostingService
}

func NewInventoryHandler(inventoryService *services.InventoryService, postingService *services.PostingService) *InventoryHandler {
	return &InventoryHandler{
		inventoryService: inventoryService,
		postingService:   postingService,
	}
}

// @Summary List Inventory Batches
// @Tags Inventory
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page"
// @Param search_term query string false "Filter by item or supplier"
// @Param in_stock query bool false "Only batches with stock left"
// @Success 200 {object} map[string]interface{}
// @Router /inventory [get]
func (h *InventoryHandler) Index(c *gin.Context) {
	query := ParseListQuery(c, "search_term", "in_stock")

	batches, total, err := h.inventoryService.List(c.Request.Context(), query)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"batches": batches,
		"total":   total,
		"page":    query.Page,
	})
}

// @Summary Available Stock
// @Description Batches with stock left, oldest first
// @Tags Inventory
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.InventoryBatch
// @Router /inventory/available [get]
func (h *InventoryHandler) Available(c *gin.Context) {
	batches, err := h.inventoryService.Available(c.Request.Context())
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, batches)
}

// @Summary Stock Summary
// @Description Remaining stock per item across batches
// @Tags Inventory
// @Produce json
// @Security BearerAuth
// @Success 200 {array} services.StockSummary
// @Router /inventory/summary [get]
func (h *InventoryHandler) Summary(c *gin.Context) {
	summary, err := h.inventoryService.Summary(c.Request.Context())
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

type ProcureRequest struct {
	ItemName      string    `json:"item_name" binding:"required"`
	Size          string    `json:"size"`
	Supplier      string    `json:"supplier"`
	PurchasePrice float64   `json:"purchase_price"`
	Quantity      int       `json:"quantity" binding:"required"`
	Date          time.Time `json:"date"`
}

// @Summary Procure Stock
// @Description Records a new inventory batch and debits the cash ledger
// @Tags Inventory
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body ProcureRequest true "Procurement"
// @Success 201 {object} models.InventoryBatch
// @Router /inventory/procure [post]
func (h *InventoryHandler) Procure(c *gin.Context) {
	var req ProcureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	batch, err := h.postingService.Procure(c.Request.Context(), actorFrom(c), services.ProcureCommand{
		ItemName:      req.ItemName,
		Size:          req.Size,
		Supplier:      req.Supplier,
		PurchasePrice: req.PurchasePrice,
		Quantity:      req.Quantity,
		Date:          req.Date,
	})
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, batch)
}
