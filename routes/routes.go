package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/vnkhanh/eventcall-server/controllers"
	"github.com/vnkhanh/eventcall-server/middleware"
)

func SetupRoutes(r *gin.Engine) {
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
		})
	})
	r.GET("/health", controllers.HealthCheck)

	api := r.Group("/api")
	api.Use(middleware.CSRFProtect())
	{
		// bootstrap double-submit cho client
		api.GET("/csrf", controllers.GetCSRFToken)

		auth := api.Group("/auth")
		{
			auth.POST("/register", middleware.RateLimitLogin(), controllers.Register)
			auth.POST("/login", middleware.RateLimitLogin(), controllers.Login)
			auth.POST("/google/login", controllers.GoogleLoginHandler)
			auth.POST("/logout", controllers.Logout)
			auth.GET("/me", middleware.AuthSession(), controllers.Me)
		}

		events := api.Group("/events")
		{
			events.GET("/:id", controllers.GetEvent) // public: khách xem sự kiện để RSVP
			events.POST("/:id/rsvps", middleware.RateLimitRSVPSubmit(), middleware.OptionalAuth(), controllers.SubmitRSVP)

			// Các route cần phiên + quyền trên sự kiện
			events.Use(middleware.AuthSession())
			events.POST("", controllers.CreateEvent)
			events.GET("", controllers.ListMyEvents)
			events.PUT("/:id", middleware.CheckEventAccess(), controllers.UpdateEvent)
			events.GET("/:id/settings", middleware.CheckEventAccess(), controllers.GetEventSettings)
			events.PUT("/:id/settings", middleware.CheckEventAccess(), controllers.UpdateEventSettings)
			events.GET("/:id/rsvps", middleware.CheckEventAccess(), controllers.GetEventRSVPs)
			events.POST("/:id/co-managers", middleware.CheckEventAccess(), controllers.AddCoManager)
			events.POST("/:id/invite", middleware.CheckEventAccess(), controllers.CreateInviteLink)
			events.POST("/:id/share", middleware.CheckEventAccess(), controllers.ShareEventCode)
			events.POST("/:id/cover", middleware.CheckEventAccess(), controllers.UploadEventCover)
			events.POST("/:id/export", middleware.CheckEventAccess(), controllers.CreateExport)
		}

		rsvps := api.Group("/rsvps")
		rsvps.Use(middleware.AuthSession())
		{
			rsvps.GET("/my", controllers.GetMyRSVPs)
			rsvps.GET("/:rsvpId", controllers.GetRSVPForEdit)
			rsvps.PUT("/:rsvpId", controllers.UpdateRSVP)
		}

		api.GET("/exports/:job_id", middleware.AuthSession(), controllers.GetExport)
	}
}
