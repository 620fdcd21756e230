package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	apperrors "kelurahan/complaints-api/internal/errors"
	"kelurahan/complaints-api/internal/health"
	"kelurahan/complaints-api/internal/middleware"
	"kelurahan/complaints-api/internal/services"
)

// RouterDeps carries everything the router wires together.
type RouterDeps struct {
	State            *health.State
	UserService      services.UserServicer
	ComplaintService services.ComplaintServicer
	UploadDir        string
}

// NewRouter assembles the Gin engine: middleware chain, auth gates,
// readiness gate for all /api routes, and static serving of stored
// attachments.
func NewRouter(deps RouterDeps) *gin.Engine {
	router := gin.New()
	router.Use(gin.CustomRecovery(func(c *gin.Context, _ any) {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}))
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())

	// CORS middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	healthHandler := NewHealthHandler(deps.State)
	authHandler := NewAuthHandler(deps.UserService)
	complaintHandler := NewComplaintHandler(deps.ComplaintService)

	// Health and swagger sit outside the readiness gate.
	router.GET("/health", healthHandler.Health)
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Stored attachments are public under a fixed path.
	router.Static("/uploads", deps.UploadDir)

	api := router.Group("/api", middleware.Readiness(deps.State))

	auth := api.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/logout", middleware.Auth(deps.UserService), authHandler.Logout)

	complaints := api.Group("/complaints", middleware.Auth(deps.UserService))
	complaints.POST("", complaintHandler.Create)
	complaints.GET("", complaintHandler.List)
	complaints.GET("/:id", complaintHandler.GetDetail)
	complaints.PUT("/:id/status", middleware.RequireAdmin(), complaintHandler.ChangeStatus)
	complaints.DELETE("/:id", complaintHandler.Delete)

	api.GET("/stats", middleware.Auth(deps.UserService), middleware.RequireAdmin(), complaintHandler.Stats)

	router.NoRoute(func(c *gin.Context) {
		c.JSON(apperrors.ErrNotFound.StatusCode, gin.H{"error": "Route not found"})
	})

	return router
}
