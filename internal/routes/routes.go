package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/portalhomehub/portal-backend/internal/handler"
	"github.com/portalhomehub/portal-backend/internal/middleware"
	"github.com/portalhomehub/portal-backend/pkg/jwt"
)

// Setup configures all API routes
func Setup(
	router *gin.Engine,
	draftHandler *handler.DraftHandler,
	propertyHandler *handler.PropertyHandler,
	jwtManager *jwt.Manager,
) {
	api := router.Group("/api/v1")

	// Draft lifecycle (auth required)
	drafts := api.Group("/drafts", middleware.JWTAuth(jwtManager))
	{
		drafts.POST("", draftHandler.Save)
		drafts.GET("", draftHandler.List)
		drafts.GET("/:id", draftHandler.Load)
		drafts.PUT("/:id", draftHandler.Autosave)
		drafts.DELETE("/:id", draftHandler.Delete)
		drafts.POST("/:id/publish", draftHandler.Publish)
	}

	// Public listing surface; a token widens visibility but is optional
	properties := api.Group("/properties")
	{
		properties.GET("", propertyHandler.List)
		properties.GET("/:id", middleware.OptionalJWTAuth(jwtManager), propertyHandler.Get)

		// Moderation (admin tier, enforced in the service)
		properties.PUT("/:id/status", middleware.JWTAuth(jwtManager), propertyHandler.UpdateStatus)
	}
}
