package routes

import (
	"github.com/gin-gonic/gin"

	"rail_announcer/internal/controllers"
)

func TemplateRoutes(r *gin.Engine, tc *controllers.TemplateController, auth, admin gin.HandlerFunc) {
	templates := r.Group("/templates")
	{
		templates.GET("", tc.ListTemplates)
		templates.GET("/:category", tc.GetTemplate)

		templates.POST("/import", auth, admin, tc.ImportTemplates)
		templates.PUT("/:category", auth, tc.SaveTemplate)
		templates.POST("/:category/audio", auth, tc.GenerateTemplateAudio)
		templates.DELETE("/:category", auth, tc.DeleteTemplate)
	}
}
