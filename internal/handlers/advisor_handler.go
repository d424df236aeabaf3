package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sjperalta/cobuy-api/internal/middleware"
	"github.com/sjperalta/cobuy-api/internal/services"
)

type AdvisorHandler struct {
	advisorService *services.AdvisorService
}

func NewAdvisorHandler(advisorService *services.AdvisorService) *AdvisorHandler {
	return &AdvisorHandler{advisorService: advisorService}
}

// @Summary Property Recommendations
// @Description Catalog properties ranked for the current user's profile
// @Tags Advisor
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 503 {object} map[string]string
// @Security BearerAuth
// @Router /advisor/recommendations [get]
func (h *AdvisorHandler) Recommendations(c *gin.Context) {
	recs, err := h.advisorService.Recommend(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"recommendations": recs})
}

// @Summary Co-investor Matches
// @Description Other users ranked as co-investors for the current user
// @Tags Advisor
// @Produce json
// @Success 200 {object} advisor.MatchResult
// @Failure 503 {object} map[string]string
// @Security BearerAuth
// @Router /advisor/matches [get]
func (h *AdvisorHandler) Matches(c *gin.Context) {
	result, err := h.advisorService.Matchmake(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
