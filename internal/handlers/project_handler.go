package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sjperalta/cobuy-api/internal/services"
)

type ProjectHandler struct {
	projectService *services.ProjectService
}

func NewProjectHandler(projectService *services.ProjectService) *ProjectHandler {
	return &ProjectHandler{projectService: projectService}
}

// @Summary List Projects
// @Tags Projects
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param per_page query int false "Items per page" default(20)
// @Param property_id query string false "Filter by property"
// @Success 200 {object} map[string]interface{}
// @Router /projects [get]
func (h *ProjectHandler) Index(c *gin.Context) {
	query := listQuery(c)
	query.Filters["property_id"] = c.Query("property_id")

	projects, total, err := h.projectService.List(c.Request.Context(), query)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"projects": projects, "pagination": pagination(query, total)})
}

// @Summary Get Project
// @Description Project with overall stage progress, payment progress and plan summaries at as_of
// @Tags Projects
// @Produce json
// @Param project_id path string true "Project ID"
// @Param as_of query string false "Evaluation date (YYYY-MM-DD)"
// @Success 200 {object} services.ProjectDetail
// @Failure 404 {object} map[string]string
// @Router /projects/{project_id} [get]
func (h *ProjectHandler) Show(c *gin.Context) {
	now, ok := requestNow(c)
	if !ok {
		return
	}
	detail, err := h.projectService.Detail(c.Request.Context(), c.Param("project_id"), now)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"project": detail})
}

// @Summary Project Payment Progress
// @Description Paid and total amounts across the project's plans, down payments included
// @Tags Projects
// @Produce json
// @Param project_id path string true "Project ID"
// @Success 200 {object} billing.Progress
// @Router /projects/{project_id}/payment_progress [get]
func (h *ProjectHandler) PaymentProgress(c *gin.Context) {
	progress, err := h.projectService.PaymentProgress(c.Request.Context(), c.Param("project_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"payment_progress": progress})
}
