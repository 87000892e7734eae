package controllers

import (
	"net/http"
	"strings"

	"academic-management-api/config"
	"academic-management-api/models"
	"academic-management-api/repository"

	"github.com/gin-gonic/gin"
)

type CountryRequest struct {
	Name *string `json:"name"`
	Code *string `json:"code"`
}

func normalizeCountryCode(c *gin.Context, code string) (string, bool) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if len(code) != 2 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Country code must have 2 letters"})
		return "", false
	}
	return code, true
}

func GetCountries(c *gin.Context) {
	q := listQuery(c, 20, []string{"name", "code", "created_at"}, "name", "code")
	page, err := repository.New[models.Country](config.DB).List(c.Request.Context(), q)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch countries"})
		return
	}
	respondPage(c, page)
}

func GetCountry(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	country, err := repository.New[models.Country](config.DB).FindActive(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "Country not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": country})
}

func CreateCountry(c *gin.Context) {
	var req CountryRequest
	if !bindJSON(c, &req) {
		return
	}
	if !checkRequired(c, field("name", hasText(req.Name)), field("code", hasText(req.Code))) {
		return
	}
	code, ok := normalizeCountryCode(c, *req.Code)
	if !ok {
		return
	}

	country := models.Country{Name: strings.TrimSpace(*req.Name), Code: code}
	if err := repository.New[models.Country](config.DB).Create(c.Request.Context(), &country); err != nil {
		if isUniqueViolation(err) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "A country with that code already exists"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create country"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Country created successfully", "data": country})
}

func UpdateCountry(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	var req CountryRequest
	if !bindJSON(c, &req) {
		return
	}

	countries := repository.New[models.Country](config.DB)
	country, err := countries.FindActive(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "Country not found")
		return
	}

	updates := map[string]interface{}{}
	if hasText(req.Name) {
		updates["name"] = strings.TrimSpace(*req.Name)
	}
	if req.Code != nil {
		code, ok := normalizeCountryCode(c, *req.Code)
		if !ok {
			return
		}
		updates["code"] = code
	}
	if err := countries.Update(c.Request.Context(), country, updates); err != nil {
		if isUniqueViolation(err) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "A country with that code already exists"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update country"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Country updated successfully", "data": country})
}

func DeleteCountry(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	if err := repository.New[models.Country](config.DB).SoftDelete(c.Request.Context(), id); err != nil {
		respondError(c, err, "Country not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Country deleted successfully"})
}
