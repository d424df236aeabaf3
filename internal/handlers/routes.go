package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/sjperalta/cobuy-api/internal/middleware"
)

// Register mounts every API route on api. Reads are public; changes and
// per-user data require a bearer token signed with jwtSecret.
func (h *Handlers) Register(api *gin.RouterGroup, jwtSecret string) {
	api.GET("/health", h.Health.Index)

	api.GET("/properties", h.Property.Index)
	api.GET("/properties/:property_id", h.Property.Show)
	api.GET("/properties/:property_id/unit_prices", h.Property.UnitPrices)
	api.GET("/properties/:property_id/share_estimate", h.Property.ShareEstimate)

	api.GET("/users", h.User.Index)
	api.GET("/users/:user_id", h.User.Show)
	api.GET("/users/:user_id/projects", h.User.Projects)

	api.GET("/projects", h.Project.Index)
	api.GET("/projects/:project_id", h.Project.Show)
	api.GET("/projects/:project_id/payment_progress", h.Project.PaymentProgress)

	api.GET("/plans/:plan_id", h.Plan.Show)
	api.GET("/plans/:plan_id/schedule.xlsx", h.Plan.Schedule)
	api.GET("/plans/:plan_id/statement.pdf", h.Plan.Statement)

	auth := api.Group("")
	auth.Use(middleware.Auth(jwtSecret))
	{
		owner := auth.Group("/users/:user_id", middleware.RequireAdminOrOwner())
		owner.PUT("/profile", h.User.UpdateProfile)
		owner.GET("/plans", h.User.Plans)

		auth.POST("/plans/:plan_id/payments/:payment_id/pay", h.Plan.RecordPayment)
		auth.GET("/plans/:plan_id/payments/:payment_id/receipt", h.Plan.DownloadReceipt)
		auth.POST("/plans/:plan_id/payments", middleware.RequireAdmin(), h.Plan.AppendInstallment)
		auth.POST("/plans/:plan_id/cancel", middleware.RequireAdmin(), h.Plan.Cancel)

		auth.GET("/notifications", h.Notification.Index)
		auth.PUT("/notifications/read_all", h.Notification.MarkAllAsRead)
		auth.PUT("/notifications/:notification_id/read", h.Notification.MarkAsRead)

		auth.GET("/advisor/recommendations", h.Advisor.Recommendations)
		auth.GET("/advisor/matches", h.Advisor.Matches)

		auth.GET("/jobs/status", middleware.RequireAdmin(), h.Job.Status)
		auth.POST("/jobs/overdue_reminders", middleware.RequireAdmin(), h.Job.RunOverdueReminders)
	}
}
