package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sjperalta/cobuy-api/internal/models"
	"github.com/sjperalta/cobuy-api/internal/services"
)

type PropertyHandler struct {
	propertyService *services.PropertyService
}

func NewPropertyHandler(propertyService *services.PropertyService) *PropertyHandler {
	return &PropertyHandler{propertyService: propertyService}
}

// @Summary List Properties
// @Description Get a paginated list of catalog properties
// @Tags Properties
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param per_page query int false "Items per page" default(20)
// @Param search_term query string false "Search by name or location"
// @Param type query string false "co-building or co-owning"
// @Param location query string false "Filter by location"
// @Success 200 {object} map[string]interface{}
// @Router /properties [get]
func (h *PropertyHandler) Index(c *gin.Context) {
	query := listQuery(c)
	query.Filters["type"] = c.Query("type")
	query.Filters["location"] = c.Query("location")

	properties, total, err := h.propertyService.List(c.Request.Context(), query)
	if err != nil {
		respondError(c, err)
		return
	}

	responses := make([]models.PropertyResponse, 0, len(properties))
	for i := range properties {
		responses = append(responses, properties[i].ToResponse())
	}
	c.JSON(http.StatusOK, gin.H{"properties": responses, "pagination": pagination(query, total)})
}

// @Summary Get Property
// @Tags Properties
// @Produce json
// @Param property_id path string true "Property ID"
// @Success 200 {object} models.PropertyResponse
// @Failure 404 {object} map[string]string
// @Router /properties/{property_id} [get]
func (h *PropertyHandler) Show(c *gin.Context) {
	property, err := h.propertyService.FindByID(c.Request.Context(), c.Param("property_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"property": property.ToResponse()})
}

// @Summary Unit Prices
// @Description Allocate the property price over its fixed units
// @Tags Properties
// @Produce json
// @Param property_id path string true "Property ID"
// @Success 200 {object} map[string]interface{}
// @Failure 422 {object} map[string]string
// @Router /properties/{property_id}/unit_prices [get]
func (h *PropertyHandler) UnitPrices(c *gin.Context) {
	prices, err := h.propertyService.UnitPrices(c.Request.Context(), c.Param("property_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"unit_prices": prices})
}

// @Summary Share Estimate
// @Description Split an area-divided property between investors
// @Tags Properties
// @Produce json
// @Param property_id path string true "Property ID"
// @Param investors query int true "Number of investors"
// @Success 200 {object} pricing.Share
// @Failure 422 {object} map[string]string
// @Router /properties/{property_id}/share_estimate [get]
func (h *PropertyHandler) ShareEstimate(c *gin.Context) {
	investors, err := strconv.Atoi(c.Query("investors"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "investors must be an integer"})
		return
	}
	share, err := h.propertyService.ShareEstimate(c.Request.Context(), c.Param("property_id"), investors)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"share": share})
}
