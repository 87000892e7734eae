package controllers

import (
	"net/http"
	"strings"

	"academic-management-api/config"
	"academic-management-api/models"
	"academic-management-api/repository"

	"github.com/gin-gonic/gin"
)

type KeywordRequest struct {
	Name *string `json:"name"`
}

func GetKeywords(c *gin.Context) {
	q := listQuery(c, 20, []string{"name", "created_at"}, "name")
	page, err := repository.New[models.Keyword](config.DB).List(c.Request.Context(), q)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch keywords"})
		return
	}
	respondPage(c, page)
}

func GetKeyword(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	kw, err := repository.New[models.Keyword](config.DB).FindActive(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "Keyword not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": kw})
}

func CreateKeyword(c *gin.Context) {
	var req KeywordRequest
	if !bindJSON(c, &req) {
		return
	}
	if !checkRequired(c, field("name", hasText(req.Name))) {
		return
	}

	kw := models.Keyword{Name: strings.TrimSpace(*req.Name)}
	if err := repository.New[models.Keyword](config.DB).Create(c.Request.Context(), &kw); err != nil {
		if isUniqueViolation(err) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Keyword already exists"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create keyword"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Keyword created successfully", "data": kw})
}

func UpdateKeyword(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	var req KeywordRequest
	if !bindJSON(c, &req) {
		return
	}

	keywords := repository.New[models.Keyword](config.DB)
	kw, err := keywords.FindActive(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "Keyword not found")
		return
	}
	updates := map[string]interface{}{}
	if hasText(req.Name) {
		updates["name"] = strings.TrimSpace(*req.Name)
	}
	if err := keywords.Update(c.Request.Context(), kw, updates); err != nil {
		if isUniqueViolation(err) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Keyword already exists"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update keyword"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Keyword updated successfully", "data": kw})
}

func DeleteKeyword(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	if err := repository.New[models.Keyword](config.DB).SoftDelete(c.Request.Context(), id); err != nil {
		respondError(c, err, "Keyword not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Keyword deleted successfully"})
}
