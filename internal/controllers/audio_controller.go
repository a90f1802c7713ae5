package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"rail_announcer/internal/services"
	"rail_announcer/internal/store"
)

type AudioController struct {
	Store   *store.Store
	Service *services.AudioService
}

// GenerateAudio synthesizes every translated field of a route.
func (ac *AudioController) GenerateAudio(c *gin.Context) {
	id, ok := routeID(c)
	if !ok {
		return
	}
	assets, err := ac.Service.GenerateForRoute(c.Request.Context(), id)
	if err != nil {
		respondError(c, "GenerateAudio", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Audio generated successfully", "audio": assets})
}

func (ac *AudioController) GetRouteAudio(c *gin.Context) {
	id, ok := routeID(c)
	if !ok {
		return
	}
	rows, err := ac.Store.AudioFor(c.Request.Context(), id)
	if err != nil {
		respondError(c, "GetRouteAudio", err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

func (ac *AudioController) ClearRouteAudio(c *gin.Context) {
	id, ok := routeID(c)
	if !ok {
		return
	}
	if err := ac.Store.ClearAudioFor(c.Request.Context(), id); err != nil {
		respondError(c, "ClearRouteAudio", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Audio files and records deleted successfully"})
}

func (ac *AudioController) ListAudio(c *gin.Context) {
	routes, err := ac.Store.ListAudio(c.Request.Context())
	if err != nil {
		respondError(c, "ListAudio", err)
		return
	}
	c.JSON(http.StatusOK, routes)
}

func (ac *AudioController) ClearAllAudio(c *gin.Context) {
	if err := ac.Store.ClearAllAudio(c.Request.Context()); err != nil {
		respondError(c, "ClearAllAudio", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "All audio files and records deleted successfully"})
}
