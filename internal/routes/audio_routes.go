package routes

import (
	"github.com/gin-gonic/gin"

	"rail_announcer/internal/controllers"
)

func AudioRoutes(r *gin.Engine, ac *controllers.AudioController, auth, admin gin.HandlerFunc) {
	r.GET("/routes/:id/audio", ac.GetRouteAudio)
	r.POST("/routes/:id/audio", auth, ac.GenerateAudio)
	r.DELETE("/routes/:id/audio", auth, ac.ClearRouteAudio)

	assets := r.Group("/audio-assets")
	{
		assets.GET("", ac.ListAudio)
		assets.DELETE("", auth, admin, ac.ClearAllAudio)
	}
}
