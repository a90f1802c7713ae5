package controllers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"rail_announcer/internal/services"
	"rail_announcer/internal/store"
)

// maxTemplateDocument caps an uploaded template document.
const maxTemplateDocument = 1 << 20

type TemplateController struct {
	Store   *store.Store
	Service *services.TemplateService
}

func (tc *TemplateController) ListTemplates(c *gin.Context) {
	rows, err := tc.Store.ListTemplates(c.Request.Context())
	if err != nil {
		respondError(c, "ListTemplates", err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

// GetTemplate returns every language of one category.
func (tc *TemplateController) GetTemplate(c *gin.Context) {
	rows, err := tc.Store.TemplatesFor(c.Request.Context(), c.Param("category"))
	if err != nil {
		respondError(c, "GetTemplate", err)
		return
	}
	if len(rows) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Template not found"})
		return
	}
	c.JSON(http.StatusOK, rows)
}

type templateInput struct {
	Template string `json:"template" binding:"required"`
}

// SaveTemplate translates the source-language template and replaces the category.
func (tc *TemplateController) SaveTemplate(c *gin.Context) {
	var input templateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		logrus.WithError(err).Warn("SaveTemplate: invalid input payload")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}
	rows, err := tc.Service.Save(c.Request.Context(), c.Param("category"), input.Template)
	if err != nil {
		respondError(c, "SaveTemplate", err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

// ImportTemplates accepts a JSON or YAML object of category -> template.
func (tc *TemplateController) ImportTemplates(c *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxTemplateDocument+1))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Could not read request body"})
		return
	}
	if len(body) > maxTemplateDocument {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "Template document too large"})
		return
	}

	saved, err := tc.Service.Import(c.Request.Context(), body)
	if err != nil {
		respondError(c, "ImportTemplates", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Templates imported successfully", "templates": saved})
}

func (tc *TemplateController) GenerateTemplateAudio(c *gin.Context) {
	parts, err := tc.Service.GenerateAudio(c.Request.Context(), c.Param("category"))
	if err != nil {
		respondError(c, "GenerateTemplateAudio", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Template audio generated successfully", "parts": parts})
}

func (tc *TemplateController) DeleteTemplate(c *gin.Context) {
	if err := tc.Store.DeleteTemplate(c.Request.Context(), c.Param("category")); err != nil {
		respondError(c, "DeleteTemplate", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Template deleted successfully"})
}
