package routes

import (
	"github.com/gin-gonic/gin"

	"rail_announcer/internal/controllers"
)

// AnnouncementRoutes are read-only and stay public.
func AnnouncementRoutes(r *gin.Engine, ac *controllers.AnnouncementController) {
	r.POST("/announcements", ac.Assemble)
	r.GET("/isl-videos", ac.ListVideos)
}
