package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/edusupply/schola-api/internal/middleware"
	"github.com/edusupply/schola-api/internal/models"
	"github.com/edusupply/schola-api/internal/services"
)

type SchoolHandler struct {
	schoolService *services.SchoolService
	creditService *services.CreditService
}

func NewSchoolHandler(schoolService *services.SchoolService, creditService *services.CreditService) *SchoolHandler {
	return &SchoolHandler{
		schoolService: schoolService,
		creditService: creditService,
	}
}

// @Summary List Schools
// @Tags Schools
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page"
// @Param search query string false "Name search"
// @Success 200 {object} map[string]interface{}
// @Router /schools [get]
func (h *SchoolHandler) Index(c *gin.Context) {
	query := ParseListQuery(c, "search_term")

	schools, total, err := h.schoolService.List(c.Request.Context(), query)
	if err != nil {
		abortWithError(c, err)
		return
	}

	responses := make([]models.SchoolResponse, 0, len(schools))
	for i := range schools {
		responses = append(responses, schools[i].ToResponse())
	}

	c.JSON(http.StatusOK, gin.H{
		"schools": responses,
		"total":   total,
		"page":    query.Page,
	})
}

// @Summary Get School
// @Description Returns the school with its invoices, payments and open orders
// @Tags Schools
// @Produce json
// @Security BearerAuth
// @Param school_id path int true "School ID"
// @Success 200 {object} services.SchoolDetail
// @Router /schools/{school_id} [get]
func (h *SchoolHandler) Show(c *gin.Context) {
	detail, err := h.schoolService.Detail(c.Request.Context(), uintParam(c, "school_id"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

type SchoolRequest struct {
	Name           string  `json:"name" binding:"required"`
	PrincipalName  string  `json:"principal_name"`
	PhoneNumber    string  `json:"phone_number"`
	Email          string  `json:"email"`
	ContactDetails string  `json:"contact_details"`
	CreditLimit    float64 `json:"credit_limit"`
}

// @Summary Create School
// @Tags Schools
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body SchoolRequest true "School"
// @Success 201 {object} models.SchoolResponse
// @Router /schools [post]
func (h *SchoolHandler) Create(c *gin.Context) {
	var req SchoolRequest
	if err := BindNestedOrFlat(c, "school", &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	school := &models.School{
		Name:           req.Name,
		PrincipalName:  req.PrincipalName,
		PhoneNumber:    req.PhoneNumber,
		Email:          req.Email,
		ContactDetails: req.ContactDetails,
		CreditLimit:    req.CreditLimit,
	}
	if err := h.schoolService.Create(c.Request.Context(), school, middleware.GetUserID(c)); err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, school.ToResponse())
}

// @Summary Update School
// @Description Updates contact details and credit limit; balances are immutable here
// @Tags Schools
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param school_id path int true "School ID"
// @Param request body SchoolRequest true "School"
// @Success 200 {object} models.SchoolResponse
// @Router /schools/{school_id} [put]
func (h *SchoolHandler) Update(c *gin.Context) {
	var req SchoolRequest
	if err := BindNestedOrFlat(c, "school", &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	school := &models.School{
		ID:             uintParam(c, "school_id"),
		Name:           req.Name,
		PrincipalName:  req.PrincipalName,
		PhoneNumber:    req.PhoneNumber,
		Email:          req.Email,
		ContactDetails: req.ContactDetails,
		CreditLimit:    req.CreditLimit,
	}
	if err := h.schoolService.Update(c.Request.Context(), school, middleware.GetUserID(c)); err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, school.ToResponse())
}

// @Summary School Credit Standing
// @Description Credit utilization, overdue invoices and payment behaviour
// @Tags Schools
// @Produce json
// @Security BearerAuth
// @Param school_id path int true "School ID"
// @Success 200 {object} services.CreditStanding
// @Router /schools/{school_id}/credit [get]
func (h *SchoolHandler) Credit(c *gin.Context) {
	standing, err := h.creditService.Standing(c.Request.Context(), uintParam(c, "school_id"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, standing)
}
