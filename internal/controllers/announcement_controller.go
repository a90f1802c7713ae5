package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"rail_announcer/internal/announcement"
)

type AnnouncementController struct {
	Assembler *announcement.Assembler

	// VideoDir and VideoPrefix locate the sign-language clip dataset.
	VideoDir    string
	VideoPrefix string
}

func (ac *AnnouncementController) Assemble(c *gin.Context) {
	var req announcement.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		logrus.WithError(err).Warn("Assemble: invalid input payload")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}
	out, err := ac.Assembler.Assemble(c.Request.Context(), req)
	if err != nil {
		respondError(c, "Assemble", err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// ListVideos returns the public paths of the sign-language clips on disk.
func (ac *AnnouncementController) ListVideos(c *gin.Context) {
	videos, err := announcement.ListVideos(ac.VideoDir, ac.VideoPrefix)
	if err != nil {
		respondError(c, "ListVideos", err)
		return
	}
	c.JSON(http.StatusOK, videos)
}
