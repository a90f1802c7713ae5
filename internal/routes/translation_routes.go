package routes

import (
	"github.com/gin-gonic/gin"

	"rail_announcer/internal/controllers"
)

func TranslationRoutes(r *gin.Engine, tc *controllers.TranslationController, auth, admin gin.HandlerFunc) {
	r.GET("/routes/:id/translations", tc.GetRouteTranslations)
	r.POST("/routes/:id/translations", auth, tc.RegenerateRoute)

	translations := r.Group("/translations")
	{
		translations.GET("", tc.ListTranslations)
		translations.POST("", auth, admin, tc.RegenerateAll)
		translations.DELETE("", auth, admin, tc.DeleteAllTranslations)
	}
}
