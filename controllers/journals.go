package controllers

import (
	"net/http"
	"strings"

	"academic-management-api/config"
	"academic-management-api/models"
	"academic-management-api/repository"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type JournalRequest struct {
	Name        *string `json:"name"`
	ISSN        *string `json:"issn"`
	HIndex      *int    `json:"h_index"`
	Quartile    *string `json:"quartile"`
	Description *string `json:"description"`
	Publisher   *string `json:"publisher"`
	Website     *string `json:"website"`
	CountryID   *string `json:"country_id"`
}

var validQuartiles = map[string]bool{"Q1": true, "Q2": true, "Q3": true, "Q4": true}

// resolveCountry checks an optional country reference.
func resolveCountry(c *gin.Context, raw *string) (*uuid.UUID, bool) {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return nil, true
	}
	id, ok := parseUUIDField(c, "country_id", raw)
	if !ok {
		return nil, false
	}
	if _, err := repository.New[models.Country](config.DB).FindActive(c.Request.Context(), id); err != nil {
		respondError(c, err, "Country not found")
		return nil, false
	}
	return &id, true
}

func GetJournals(c *gin.Context) {
	q := listQuery(c, 10, []string{"name", "h_index", "quartile", "created_at"}, "name", "issn")
	if quartile := c.Query("quartile"); quartile != "" {
		q.Scopes = append(q.Scopes, func(db *gorm.DB) *gorm.DB { return db.Where("quartile = ?", quartile) })
	}
	page, err := repository.New[models.Journal](config.DB).List(c.Request.Context(), q)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch journals"})
		return
	}
	respondPage(c, page)
}

func GetJournal(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	journal, err := repository.New[models.Journal](config.DB).FindActiveWith(c.Request.Context(), id, "Country")
	if err != nil {
		respondError(c, err, "Journal not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": journal})
}

func CreateJournal(c *gin.Context) {
	var req JournalRequest
	if !bindJSON(c, &req) {
		return
	}
	if !checkRequired(c, field("name", hasText(req.Name))) {
		return
	}
	if req.Quartile != nil && !validQuartiles[strings.ToUpper(*req.Quartile)] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Quartile must be one of Q1, Q2, Q3, Q4"})
		return
	}
	countryID, ok := resolveCountry(c, req.CountryID)
	if !ok {
		return
	}

	journal := models.Journal{
		Name:        strings.TrimSpace(*req.Name),
		ISSN:        trimmed(req.ISSN),
		HIndex:      req.HIndex,
		Description: trimmed(req.Description),
		Publisher:   trimmed(req.Publisher),
		Website:     trimmed(req.Website),
		CountryID:   countryID,
	}
	if req.Quartile != nil {
		q := strings.ToUpper(*req.Quartile)
		journal.Quartile = &q
	}

	if err := repository.New[models.Journal](config.DB).Create(c.Request.Context(), &journal); err != nil {
		if isUniqueViolation(err) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "A journal with that name or ISSN already exists"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create journal"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Journal created successfully", "data": journal})
}

func UpdateJournal(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	var req JournalRequest
	if !bindJSON(c, &req) {
		return
	}

	journals := repository.New[models.Journal](config.DB)
	journal, err := journals.FindActive(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "Journal not found")
		return
	}

	updates := map[string]interface{}{}
	if hasText(req.Name) {
		updates["name"] = strings.TrimSpace(*req.Name)
	}
	if req.ISSN != nil {
		updates["issn"] = trimmed(req.ISSN)
	}
	if req.HIndex != nil {
		updates["h_index"] = *req.HIndex
	}
	if req.Quartile != nil {
		q := strings.ToUpper(*req.Quartile)
		if !validQuartiles[q] {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Quartile must be one of Q1, Q2, Q3, Q4"})
			return
		}
		updates["quartile"] = q
	}
	if req.Description != nil {
		updates["description"] = trimmed(req.Description)
	}
	if req.Publisher != nil {
		updates["publisher"] = trimmed(req.Publisher)
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

	if err := journals.Update(c.Request.Context(), journal, updates); err != nil {
		if isUniqueViolation(err) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "A journal with that name or ISSN already exists"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update journal"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Journal updated successfully", "data": journal})
}

func DeleteJournal(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	if err := repository.New[models.Journal](config.DB).SoftDelete(c.Request.Context(), id); err != nil {
		respondError(c, err, "Journal not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Journal deleted successfully"})
}
