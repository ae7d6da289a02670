package handlers

import (
	"techzeon/internal/middleware"
	"techzeon/internal/models"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes mounts the /api tree on r.
func (h *Handlers) RegisterRoutes(r gin.IRouter, authenticator middleware.Authenticator) {
	authn := middleware.Authenticate(authenticator)
	adminOnly := middleware.RequireRole(models.RoleAdmin)

	api := r.Group("/api")
	{
		api.GET("/test", h.TestConnection)

		events := api.Group("/events")
		{
			events.GET("", h.ListEvents)
			events.GET("/categories", h.ListCategories)
			events.GET("/:id", h.GetEvent)
			events.POST("", authn, adminOnly, h.CreateEvent)
			events.PUT("/:id", authn, adminOnly, h.UpdateEvent)
			events.DELETE("/:id", authn, adminOnly, h.DeleteEvent)
		}

		registrations := api.Group("/registrations")
		{
			registrations.GET("", authn, adminOnly, h.ListRegistrations)
			registrations.GET("/mine", authn, h.ListMyRegistrations)
			registrations.POST("", middleware.OptionalAuthenticate(authenticator), h.CreateRegistration)
			registrations.PATCH("/:id/cancel", authn, h.CancelRegistration)
		}

		auth := api.Group("/auth")
		{
			auth.POST("/login", h.Login)
			auth.POST("/register", h.Register)
			auth.POST("/logout", authn, h.Logout)
			auth.GET("/me", authn, h.Me)
		}
	}
}
