package routes

import (
	"github.com/gin-gonic/gin"

	"rail_announcer/internal/controllers"
)

func RouteRoutes(r *gin.Engine, rc *controllers.RouteController, auth, admin gin.HandlerFunc) {
	routes := r.Group("/routes")
	{
		routes.GET("", rc.ListRoutes)
		routes.GET("/:id", rc.GetRoute)

		routes.POST("", auth, rc.CreateRoute)
		routes.PUT("", auth, admin, rc.ReplaceRoutes)
		routes.DELETE("", auth, admin, rc.DeleteAllRoutes)
		routes.DELETE("/:id", auth, rc.DeleteRoute) // cascades to translations and audio
	}
}
