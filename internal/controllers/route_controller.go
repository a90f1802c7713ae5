package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"rail_announcer/internal/models"
	"rail_announcer/internal/store"
)

// RouteController manages train route records.
type RouteController struct {
	Store *store.Store
}

// routeInput is the writable part of a route.
type routeInput struct {
	TrainNumber  string `json:"train_number" binding:"required"`
	TrainName    string `json:"train_name" binding:"required"`
	StartStation string `json:"start_station" binding:"required"`
	StartCode    string `json:"start_code"`
	EndStation   string `json:"end_station" binding:"required"`
	EndCode      string `json:"end_code"`
}

func (in routeInput) model() models.Route {
	return models.Route{
		TrainNumber:  in.TrainNumber,
		TrainName:    in.TrainName,
		StartStation: in.StartStation,
		StartCode:    in.StartCode,
		EndStation:   in.EndStation,
		EndCode:      in.EndCode,
	}
}

// ListRoutes returns every route, newest first.
func (rc *RouteController) ListRoutes(c *gin.Context) {
	routes, err := rc.Store.ListRoutes(c.Request.Context())
	if err != nil {
		respondError(c, "ListRoutes", err)
		return
	}
	c.JSON(http.StatusOK, routes)
}

func (rc *RouteController) CreateRoute(c *gin.Context) {
	var input routeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		logrus.WithError(err).Warn("CreateRoute: invalid input payload")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	route := input.model()
	if err := rc.Store.CreateRoute(c.Request.Context(), &route); err != nil {
		respondError(c, "CreateRoute", err)
		return
	}
	c.JSON(http.StatusCreated, route)
}

// ReplaceRoutes swaps the whole route table, as after a spreadsheet import.
func (rc *RouteController) ReplaceRoutes(c *gin.Context) {
	var input []routeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		logrus.WithError(err).Warn("ReplaceRoutes: invalid input payload")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}
	routes := make([]models.Route, len(input))
	for i, in := range input {
		if in.TrainNumber == "" || in.TrainName == "" || in.StartStation == "" || in.EndStation == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: route fields are required", "index": i})
			return
		}
		routes[i] = in.model()
	}

	saved, err := rc.Store.ReplaceRoutes(c.Request.Context(), routes)
	if err != nil {
		respondError(c, "ReplaceRoutes", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Routes saved successfully", "count": len(saved), "routes": saved})
}

func (rc *RouteController) DeleteAllRoutes(c *gin.Context) {
	if err := rc.Store.DeleteAllRoutes(c.Request.Context()); err != nil {
		respondError(c, "DeleteAllRoutes", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "All routes have been deleted"})
}

func (rc *RouteController) GetRoute(c *gin.Context) {
	id, ok := routeID(c)
	if !ok {
		return
	}
	route, err := rc.Store.GetRoute(c.Request.Context(), id)
	if err != nil {
		respondError(c, "GetRoute", err)
		return
	}
	c.JSON(http.StatusOK, route)
}

// DeleteRoute removes a route with its translations and audio.
func (rc *RouteController) DeleteRoute(c *gin.Context) {
	id, ok := routeID(c)
	if !ok {
		return
	}
	if err := rc.Store.DeleteRoute(c.Request.Context(), id); err != nil {
		respondError(c, "DeleteRoute", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Route deleted successfully"})
}
