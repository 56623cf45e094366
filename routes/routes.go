package routes

import (
	"net/http"
	"time"

	"civicdesk/handlers"
	"civicdesk/middleware"
	"civicdesk/models"
	"civicdesk/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterNotificationRoutes registers notification endpoints.
func RegisterNotificationRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/notifications")
	api.Use(middleware.JWTAuthMiddleware(hb.UserRepo))
	{
		nh := hb.Notifications

		api.GET("/department",
			middleware.RequireRoles(models.RoleCollector, models.RoleHead, models.RoleStaff, models.RoleAdmin),
			nh.GetDepartmentNotificationsHandler)
		api.POST("/dispatch",
			middleware.RequireRoles(models.RoleCollector, models.RoleAdmin),
			nh.DispatchHandler)
		api.GET("/dispatch-log", middleware.RequireRoles(models.RoleAdmin), nh.GetDispatchLogHandler)

		api.GET("/me", nh.GetMyNotificationsHandler)
		api.GET("/me/unread-count", nh.GetUnreadCountHandler)
		api.PATCH("/me/read-all", nh.MarkAllReadHandler)
		api.PATCH("/:id/read", nh.MarkReadHandler)
		api.DELETE("/:id",
			middleware.RequireRoles(models.RoleCollector, models.RoleAdmin),
			nh.DeleteNotificationHandler)
	}
}

// RegisterProblemRoutes registers complaint endpoints.
func RegisterProblemRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/problems")
	api.Use(middleware.JWTAuthMiddleware(hb.UserRepo))
	{
		api.POST("", middleware.RequireRoles(models.RoleCitizen), hb.Problems.SubmitProblemHandler)
		api.GET("/:id", hb.Problems.GetProblemHandler)
		api.PATCH("/:id/status",
			middleware.RequireRoles(models.RoleCollector, models.RoleHead, models.RoleAdmin),
			hb.Problems.UpdateProblemStatusHandler)
	}
}

// RegisterDepartmentRoutes registers the public department listing.
func RegisterDepartmentRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.GET("/api/departments", hb.Departments.ListDepartmentsHandler)

	admin := r.Group("/api/departments")
	admin.Use(middleware.JWTAuthMiddleware(hb.UserRepo), middleware.RequireRoles(models.RoleAdmin))
	admin.PUT("/head", hb.Departments.SetDepartmentHeadHandler)
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "dependencies": utils.GetHealthStatus()})
	})
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	RegisterHealthRoute(r)
	RegisterDepartmentRoutes(r, hb)
	RegisterNotificationRoutes(r, hb)
	RegisterProblemRoutes(r, hb)
}
