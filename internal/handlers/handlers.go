package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sjperalta/cobuy-api/internal/advisor"
	"github.com/sjperalta/cobuy-api/internal/billing"
	"github.com/sjperalta/cobuy-api/internal/middleware"
	"github.com/sjperalta/cobuy-api/internal/repository"
	"github.com/sjperalta/cobuy-api/internal/services"
	"github.com/sjperalta/cobuy-api/pkg/logger"
)

// Handlers holds all handler instances
type Handlers struct {
	Health       *HealthHandler
	Property     *PropertyHandler
	User         *UserHandler
	Project      *ProjectHandler
	Plan         *PlanHandler
	Notification *NotificationHandler
	Advisor      *AdvisorHandler
	Job          *JobHandler
}

// NewHandlers creates all handler instances
func NewHandlers(svcs *services.Services) *Handlers {
	return &Handlers{
		Health:       NewHealthHandler(),
		Property:     NewPropertyHandler(svcs.Property),
		User:         NewUserHandler(svcs.User, svcs.Payment, svcs.Project),
		Project:      NewProjectHandler(svcs.Project),
		Plan:         NewPlanHandler(svcs.Payment, svcs.Export),
		Notification: NewNotificationHandler(svcs.Notification),
		Advisor:      NewAdvisorHandler(svcs.Advisor),
		Job:          NewJobHandler(svcs.Job),
	}
}

// requestNow is the instant a request is evaluated at: as_of=YYYY-MM-DD when
// given, else the wall clock
func requestNow(c *gin.Context) (time.Time, bool) {
	asOf := c.Query("as_of")
	if asOf == "" {
		return time.Now(), true
	}
	now, err := billing.ParseDate(asOf)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return time.Time{}, false
	}
	return now, true
}

// listQuery reads the common pagination and search parameters
func listQuery(c *gin.Context) *repository.ListQuery {
	query := repository.NewListQuery()
	query.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	query.PerPage, _ = strconv.Atoi(c.DefaultQuery("per_page", "20"))
	if query.Page < 1 {
		query.Page = 1
	}
	if query.PerPage < 1 || query.PerPage > 100 {
		query.PerPage = 20
	}
	query.Search = c.Query("search_term")
	query.SortBy = c.Query("sort_by")
	query.SortDir = c.Query("sort_dir")
	return query
}

func pagination(query *repository.ListQuery, total int64) gin.H {
	return gin.H{
		"page":        query.Page,
		"per_page":    query.PerPage,
		"total":       total,
		"total_pages": (total + int64(query.PerPage) - 1) / int64(query.PerPage),
	}
}

func currentActor(c *gin.Context) services.Actor {
	return services.Actor{UserID: middleware.GetUserID(c), IsAdmin: middleware.IsAdmin(c)}
}

// respondError maps service errors onto HTTP statuses
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, services.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, services.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, services.ErrInvalidState):
		status = http.StatusConflict
	case errors.Is(err, services.ErrInvalidInput):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, billing.ErrInvalidDate):
		status = http.StatusBadRequest
	case errors.Is(err, advisor.ErrAdvisorUnavailable):
		status = http.StatusServiceUnavailable
	case errors.Is(err, advisor.ErrInvalidResponse):
		status = http.StatusBadGateway
	}

	if status == http.StatusInternalServerError {
		logger.Log.ErrorContext(c.Request.Context(), "request failed", "path", c.FullPath(), logger.Err(err))
		_ = c.Error(err)
		c.JSON(status, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
