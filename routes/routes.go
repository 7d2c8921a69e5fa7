package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"kumo/auth"
	"kumo/handlers"
)

// SetupRoutes configures the API routes
func SetupRoutes(r *gin.Engine, h *handlers.Handler, a *auth.Handler, jwtSecret string) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "kumo"})
	})

	api := r.Group("/api")

	// Public routes
	api.POST("/auth/signup", a.Signup)
	api.POST("/auth/login", a.Login)

	// Protected routes
	protected := api.Group("")
	protected.Use(auth.AuthMiddleware(jwtSecret))

	protected.GET("/auth/me", a.Me)

	// Lab lifecycle
	protected.POST("/labs", h.CreateLab)
	protected.GET("/labs", h.ListLabs)
	protected.GET("/labs/:id", h.GetLab)
	protected.PUT("/labs/:id", h.UpdateLab)
	protected.PATCH("/labs/:id", h.UpdateLab)
	protected.DELETE("/labs/:id", h.ArchiveLab)

	// Membership
	protected.POST("/enrollments", h.Enroll)
	protected.POST("/enrollments/by-code", h.EnrollByCode)
	protected.GET("/enrollments", h.ListEnrollments)
	protected.DELETE("/enrollments", h.DeleteEnrollment)

	// Lab content
	protected.POST("/labs/:id/announcements", h.CreateAnnouncement)
	protected.GET("/labs/:id/announcements", h.ListAnnouncements)
	protected.POST("/labs/:id/works", h.CreateWork)
	protected.GET("/labs/:id/works", h.ListWorks)

	// Code execution proxy
	protected.POST("/execute", h.ExecuteCode)
	protected.GET("/runtimes", h.ListRuntimes)
}
