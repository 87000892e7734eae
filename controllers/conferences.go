package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"academic-management-api/config"
	"academic-management-api/models"
	"academic-management-api/repository"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type ConferenceRequest struct {
	Name        *string `json:"name"`
	Year        *int    `json:"year"`
	Location    *string `json:"location"`
	HIndex      *int    `json:"h_index"`
	Description *string `json:"description"`
	StartDate   *string `json:"start_date"`
	EndDate     *string `json:"end_date"`
	Website     *string `json:"website"`
	CountryID   *string `json:"country_id"`
}

func GetConferences(c *gin.Context) {
	q := listQuery(c, 10, []string{"name", "year", "start_date", "created_at"}, "name", "location")
	if year, err := strconv.Atoi(c.Query("year")); err == nil {
		q.Scopes = append(q.Scopes, func(db *gorm.DB) *gorm.DB { return db.Where("year = ?", year) })
	}
	if countryID := c.Query("country_id"); countryID != "" {
		q.Scopes = append(q.Scopes, func(db *gorm.DB) *gorm.DB { return db.Where("country_id = ?", countryID) })
	}
	page, err := repository.New[models.Conference](config.DB).List(c.Request.Context(), q)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch conferences"})
		return
	}
	respondPage(c, page)
}

func GetConference(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	conference, err := repository.New[models.Conference](config.DB).FindActiveWith(c.Request.Context(), id, "Country")
	if err != nil {
		respondError(c, err, "Conference not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": conference})
}

func CreateConference(c *gin.Context) {
	var req ConferenceRequest
	if !bindJSON(c, &req) {
		return
	}
	if !checkRequired(c, field("name", hasText(req.Name)), field("year", req.Year != nil)) {
		return
	}
	startDate, ok := parseDateField(c, "start_date", req.StartDate)
	if !ok {
		return
	}
	endDate, ok := parseDateField(c, "end_date", req.EndDate)
	if !ok {
		return
	}
	countryID, ok := resolveCountry(c, req.CountryID)
	if !ok {
		return
	}

	conference := models.Conference{
		Name:        strings.TrimSpace(*req.Name),
		Year:        *req.Year,
		Location:    trimmed(req.Location),
		HIndex:      req.HIndex,
		Description: trimmed(req.Description),
		StartDate:   startDate,
		EndDate:     endDate,
		Website:     trimmed(req.Website),
		CountryID:   countryID,
	}
	if err := repository.New[models.Conference](config.DB).Create(c.Request.Context(), &conference); err != nil {
		if isUniqueViolation(err) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "A conference with that name and year already exists"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create conference"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Conference created successfully", "data": conference})
}

func UpdateConference(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	var req ConferenceRequest
	if !bindJSON(c, &req) {
		return
	}

	conferences := repository.New[models.Conference](config.DB)
	conference, err := conferences.FindActive(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "Conference not found")
		return
	}

	updates := map[string]interface{}{}
	if hasText(req.Name) {
		updates["name"] = strings.TrimSpace(*req.Name)
	}
	if req.Year != nil {
		updates["year"] = *req.Year
	}
	if req.Location != nil {
		updates["location"] = trimmed(req.Location)
	}
	if req.HIndex != nil {
		updates["h_index"] = *req.HIndex
	}
	if req.Description != nil {
		updates["description"] = trimmed(req.Description)
	}
	if req.StartDate != nil {
		d, ok := parseDateField(c, "start_date", req.StartDate)
		if !ok {
			return
		}
		updates["start_date"] = d
	}
	if req.EndDate != nil {
		d, ok := parseDateField(c, "end_date", req.EndDate)
		if !ok {
			return
		}
		updates["end_date"] = d
	}
	if req.Website != nil {
		updates["website"] = trimmed(req.Website)
	}
	if req.CountryID != nil {
		countryID, ok := resolveCountry(c, req.CountryID)
		if !ok {
			return
		}
		updates["country_id"] = countryID
	}

	if err := conferences.Update(c.Request.Context(), conference, updates); err != nil {
		if isUniqueViolation(err) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "A conference with that name and year already exists"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update conference"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Conference updated successfully", "data": conference})
}

func DeleteConference(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	if err := repository.New[models.Conference](config.DB).SoftDelete(c.Request.Context(), id); err != nil {
		respondError(c, err, "Conference not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Conference deleted successfully"})
}
