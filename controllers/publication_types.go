package controllers

import (
	"net/http"
	"strings"

	"academic-management-api/config"
	"academic-management-api/models"
	"academic-management-api/repository"

	"github.com/gin-gonic/gin"
)

type PublicationTypeRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

func GetPublicationTypes(c *gin.Context) {
	q := listQuery(c, 20, []string{"name", "created_at"}, "name")
	page, err := repository.New[models.PublicationType](config.DB).List(c.Request.Context(), q)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch publication types"})
		return
	}
	respondPage(c, page)
}

func GetPublicationType(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	pt, err := repository.New[models.PublicationType](config.DB).FindActive(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "Publication type not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": pt})
}

func CreatePublicationType(c *gin.Context) {
	var req PublicationTypeRequest
	if !bindJSON(c, &req) {
		return
	}
	if !checkRequired(c, field("name", hasText(req.Name))) {
		return
	}

	pt := models.PublicationType{Name: strings.TrimSpace(*req.Name), Description: trimmed(req.Description)}
	if err := repository.New[models.PublicationType](config.DB).Create(c.Request.Context(), &pt); err != nil {
		if isUniqueViolation(err) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Publication type already exists"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create publication type"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Publication type created successfully", "data": pt})
}

func UpdatePublicationType(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	var req PublicationTypeRequest
	if !bindJSON(c, &req) {
		return
	}

	types := repository.New[models.PublicationType](config.DB)
	pt, err := types.FindActive(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "Publication type not found")
		return
	}
	updates := map[string]interface{}{}
	if hasText(req.Name) {
		updates["name"] = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		updates["description"] = trimmed(req.Description)
	}
	if err := types.Update(c.Request.Context(), pt, updates); err != nil {
		if isUniqueViolation(err) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Publication type already exists"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update publication type"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Publication type updated successfully", "data": pt})
}

func DeletePublicationType(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	if err := repository.New[models.PublicationType](config.DB).SoftDelete(c.Request.Context(), id); err != nil {
		respondError(c, err, "Publication type not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Publication type deleted successfully"})
}
