package server

import (
	"net/http"
	"time"

	"github.com/swifttax/swifttax-api/internal/handler"
	"github.com/swifttax/swifttax-api/internal/middleware"
	"github.com/swifttax/swifttax-api/internal/model"
	"github.com/swifttax/swifttax-api/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// NewRouter builds the gin engine with all SwiftTax API routes
func NewRouter(
	authService *service.AuthService,
	userService *service.UserService,
	notificationService *service.NotificationService,
	logger *zap.Logger,
) *gin.Engine {
	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(logger))

	api := router.Group("/api")
	{
		// Health check
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"success":   true,
				"message":   "SwiftTax API is running",
				"timestamp": time.Now().UTC().Format(time.RFC3339),
			})
		})

		// ==================== AUTH ROUTES ====================
		auth := api.Group("/auth")
		{
			authHandler := handler.NewAuthHandler(authService, logger)

			auth.POST("/login", authHandler.Login)
			auth.POST("/refresh", authHandler.Refresh)

			authProtected := auth.Group("")
			authProtected.Use(middleware.AuthMiddleware(authService, logger))
			authProtected.POST("/logout", authHandler.Logout)
			authProtected.GET("/validate", authHandler.Validate)
		}

		// ==================== USER ROUTES ====================
		userHandler := handler.NewUserHandler(userService, logger)
		users := api.Group("/users")
		{
			users.Use(middleware.AuthMiddleware(authService, logger))
			users.GET("/me", userHandler.GetCurrentUser)
		}

		// ==================== NOTIFICATION ROUTES ====================
		notifHandler := handler.NewNotificationHandler(notificationService, logger)
		notifications := api.Group("/notifications")
		{
			notifications.Use(middleware.AuthMiddleware(authService, logger))

			notifications.GET("", notifHandler.List)
			notifications.GET("/count", notifHandler.UnreadCount)
			notifications.PATCH("/:id/read", notifHandler.MarkRead)
			notifications.DELETE("/:id", notifHandler.Delete)
		}

		// ==================== ADMIN ROUTES ====================
		admin := api.Group("/admin")
		{
			admin.Use(middleware.AuthMiddleware(authService, logger))
			admin.Use(middleware.RequireRole(userService, model.RoleAdmin))

			// User management
			admin.GET("/users", userHandler.ListUsers)
			admin.POST("/users", userHandler.CreateUser)
			admin.POST("/users/bulk", userHandler.BulkAction)
			admin.GET("/users/:id", userHandler.GetUserByID)
			admin.PATCH("/users/:id", userHandler.UpdateUser)
			admin.PATCH("/users/:id/status", userHandler.UpdateUserStatus)
			admin.DELETE("/users/:id", userHandler.DeleteUser)

			// Notification management
			admin.POST("/notifications", notifHandler.Create)
		}
	}

	// Unmatched routes get the SwiftTax 404 envelope
	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Route not found"})
	})

	return router
}
