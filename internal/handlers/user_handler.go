package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sjperalta/cobuy-api/internal/models"
	"github.com/sjperalta/cobuy-api/internal/services"
)

type UserHandler struct {
	userService    *services.UserService
	paymentService *services.PaymentService
	projectService *services.ProjectService
}

func NewUserHandler(userService *services.UserService, paymentService *services.PaymentService, projectService *services.ProjectService) *UserHandler {
	return &UserHandler{
		userService:    userService,
		paymentService: paymentService,
		projectService: projectService,
	}
}

// @Summary List Users
// @Description Get a paginated list of users
// @Tags Users
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param per_page query int false "Items per page" default(20)
// @Param search_term query string false "Search by name or location preference"
// @Param role query string false "Filter by role"
// @Success 200 {object} map[string]interface{}
// @Router /users [get]
func (h *UserHandler) Index(c *gin.Context) {
	query := listQuery(c)
	query.Filters["role"] = c.Query("role")

	users, total, err := h.userService.List(c.Request.Context(), query)
	if err != nil {
		respondError(c, err)
		return
	}

	responses := make([]models.UserResponse, 0, len(users))
	for i := range users {
		responses = append(responses, users[i].ToResponse())
	}
	c.JSON(http.StatusOK, gin.H{"users": responses, "pagination": pagination(query, total)})
}

// @Summary Get User
// @Tags Users
// @Produce json
// @Param user_id path string true "User ID"
// @Success 200 {object} models.UserResponse
// @Failure 404 {object} map[string]string
// @Router /users/{user_id} [get]
func (h *UserHandler) Show(c *gin.Context) {
	user, err := h.userService.FindByID(c.Request.Context(), c.Param("user_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user.ToResponse()})
}

// @Summary Update Profile
// @Description Replace the investment preferences of a user. Accepts {"profile": {...}} or the flat object.
// @Tags Users
// @Accept json
// @Produce json
// @Param user_id path string true "User ID"
// @Param profile body models.UserProfile true "Profile"
// @Success 200 {object} models.UserResponse
// @Security BearerAuth
// @Router /users/{user_id}/profile [put]
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	var profile models.UserProfile
	if err := BindNestedOrFlat(c, "profile", &profile); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	user, err := h.userService.UpdateProfile(c.Request.Context(), c.Param("user_id"), profile)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user.ToResponse()})
}

// @Summary User Plans
// @Description Installment plans of a user evaluated at as_of
// @Tags Users
// @Produce json
// @Param user_id path string true "User ID"
// @Param as_of query string false "Evaluation date (YYYY-MM-DD)"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /users/{user_id}/plans [get]
func (h *UserHandler) Plans(c *gin.Context) {
	now, ok := requestNow(c)
	if !ok {
		return
	}
	summaries, err := h.paymentService.SummariesForUser(c.Request.Context(), c.Param("user_id"), now)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"plans": summaries})
}

// @Summary User Projects
// @Description Projects the user is a member of
// @Tags Users
// @Produce json
// @Param user_id path string true "User ID"
// @Success 200 {object} map[string]interface{}
// @Router /users/{user_id}/projects [get]
func (h *UserHandler) Projects(c *gin.Context) {
	projects, err := h.projectService.FindByMember(c.Request.Context(), c.Param("user_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"projects": projects})
}
