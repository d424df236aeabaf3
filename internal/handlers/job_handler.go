package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sjperalta/cobuy-api/internal/services"
)

type JobHandler struct {
	jobService *services.JobService
}

func NewJobHandler(jobSvc *services.JobService) *JobHandler {
	return &JobHandler{
		jobService: jobSvc,
	}
}

// Status returns the current worker status
// @Summary Get background job status
// @Description Worker counters plus the run history of each named job
// @Tags Jobs
// @Produce json
// @Security BearerAuth
// @Success 200 {object} jobs.WorkerStats
// @Router /jobs/status [get]
func (h *JobHandler) Status(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"jobs": h.jobService.GetStatus()})
}

// RunOverdueReminders triggers the overdue scan now
// @Summary Run overdue reminders
// @Description Notify owners of overdue payments, at most once per payment and period (Admin)
// @Tags Jobs
// @Produce json
// @Param as_of query string false "Evaluation date (YYYY-MM-DD)"
// @Security BearerAuth
// @Success 200 {object} map[string]int
// @Router /jobs/overdue_reminders [post]
func (h *JobHandler) RunOverdueReminders(c *gin.Context) {
	now, ok := requestNow(c)
	if !ok {
		return
	}
	sent, err := h.jobService.RunOverdueReminders(c.Request.Context(), now)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"notifications_sent": sent})
}
