package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"rail_announcer/internal/services"
	"rail_announcer/internal/store"
)

type TranslationController struct {
	Store   *store.Store
	Service *services.TranslationService
}

func (tc *TranslationController) RegenerateRoute(c *gin.Context) {
	id, ok := routeID(c)
	if !ok {
		return
	}
	records, err := tc.Service.RegenerateRoute(c.Request.Context(), id)
	if err != nil {
		respondError(c, "RegenerateRoute", err)
		return
	}
	c.JSON(http.StatusOK, records)
}

func (tc *TranslationController) GetRouteTranslations(c *gin.Context) {
	id, ok := routeID(c)
	if !ok {
		return
	}
	if _, err := tc.Store.GetRoute(c.Request.Context(), id); err != nil {
		respondError(c, "GetRouteTranslations", err)
		return
	}
	rows, err := tc.Store.TranslationsFor(c.Request.Context(), id)
	if err != nil {
		respondError(c, "GetRouteTranslations", err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

func (tc *TranslationController) RegenerateAll(c *gin.Context) {
	sum, err := tc.Service.RegenerateAll(c.Request.Context())
	if err != nil {
		respondError(c, "RegenerateAll", err)
		return
	}
	c.JSON(http.StatusOK, sum)
}

// ListTranslations returns routes with their translations.
func (tc *TranslationController) ListTranslations(c *gin.Context) {
	routes, err := tc.Store.ListTranslations(c.Request.Context())
	if err != nil {
		respondError(c, "ListTranslations", err)
		return
	}
	c.JSON(http.StatusOK, routes)
}

func (tc *TranslationController) DeleteAllTranslations(c *gin.Context) {
	if err := tc.Store.DeleteAllTranslations(c.Request.Context()); err != nil {
		respondError(c, "DeleteAllTranslations", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "All translations have been deleted"})
}
