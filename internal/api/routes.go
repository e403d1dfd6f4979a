package api

import (
	"alcyxob/traindoc/internal/service"
	"net/http"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(
	router *gin.Engine,
	jwtSecret string,
	authService service.AuthService,
	documentService service.DocumentService,
	processingService service.ProcessingService,
) {
	authHandler := NewAuthHandler(authService)
	documentHandler := NewDocumentHandler(documentService)
	planHandler := NewPlanHandler(processingService)

	authMiddleware := AuthMiddleware(jwtSecret)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	apiV1 := router.Group("/api/v1")
	{
		authGroup := apiV1.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
		}
	}

	protected := apiV1.Group("")
	protected.Use(authMiddleware)
	{
		protected.GET("/me", func(c *gin.Context) {
			userIDStr, err := getUserIDFromContext(c)
			if err != nil {
				abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
				return
			}
			role, _ := getUserRoleFromContext(c)
			c.JSON(http.StatusOK, gin.H{"userId": userIDStr, "role": role})
		})

		// --- Document Routes ---
		documentGroup := protected.Group("/documents")
		{
			documentGroup.POST("", documentHandler.Upload)
			documentGroup.GET("", documentHandler.List)
			documentGroup.GET("/:id", documentHandler.Get)
			documentGroup.DELETE("/:id", documentHandler.Delete)
			documentGroup.POST("/:id/verify", documentHandler.Verify)
			documentGroup.POST("/:id/repair", documentHandler.Repair)
			documentGroup.POST("/:id/process", planHandler.Process)
			documentGroup.POST("/:id/reprocess", planHandler.Reprocess)
		}

		// --- Training Plan Routes ---
		planGroup := protected.Group("/plans")
		{
			planGroup.GET("", planHandler.List)
			planGroup.GET("/:id", planHandler.Get)
		}
	}
}
