package router

import (
	"net/http"

	"campusconnect/internal/handlers"
	"campusconnect/internal/middleware"
	"campusconnect/internal/services"

	"github.com/gin-gonic/gin"
)

// Deps are the services the HTTP layer needs.
type Deps struct {
	Moderation *services.ModerationService
	Audit      handlers.FlaggedLister
	Publisher  services.MessagePublisher
}

func RegisterRoutes(r *gin.Engine, deps Deps) {
	authHandler := handlers.NewAuthHandler()
	communityHandler := handlers.NewCommunityHandler()
	postHandler := handlers.NewPostHandler(deps.Moderation)
	messageHandler := handlers.NewMessageHandler(deps.Moderation, deps.Publisher)
	adminHandler := handlers.NewAdminHandler(deps.Audit)

	r.GET("/healthz", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	// Public
	r.GET("/communities", communityHandler.ListCommunities)
	r.GET("/c/:slug", communityHandler.ListPosts)
	r.GET("/p/:pid", postHandler.Detail)

	auth := r.Group("/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
		auth.POST("/logout", authHandler.Logout)
	}

	// Logged in
	authorized := r.Group("/")
	authorized.Use(middleware.AuthRequired())
	{
		authorized.POST("/posts", postHandler.Create)
		authorized.POST("/p/:pid/comments", postHandler.CreateComment)
		authorized.POST("/messages", messageHandler.Send)
	}

	// Admin
	admin := r.Group("/admin")
	admin.Use(middleware.AuthRequired(), middleware.AdminRequired())
	{
		admin.GET("/flagged", adminHandler.ListFlagged)
		admin.POST("/users/:id/status", adminHandler.UpdateUserStatus)
	}
}
