package controllers

import (
	"errors"
	"net/http"
	"strings"

	"academic-management-api/config"
	"academic-management-api/services"

	"github.com/gin-gonic/gin"
)

// newOrcidRegistry is replaced in tests with a client pointed at a fake registry.
var newOrcidRegistry = func() services.Registry { return services.NewRegistryClient() }

func orcidService() *services.OrcidSyncService {
	return services.NewOrcidSyncService(config.DB, newOrcidRegistry())
}

func GetOrcidStatus(c *gin.Context) {
	baseURL := ""
	if config.App != nil {
		baseURL = config.App.Orcid.BaseURL
	}
	c.JSON(http.StatusOK, gin.H{
		"service":  "ORCID integration",
		"status":   "active",
		"base_url": baseURL,
		"endpoints": []string{
			"POST /api/v1/orcid/sync/:orcid_id",
			"GET /api/v1/orcid/researcher/:orcid_id",
			"GET /api/v1/orcid/researcher/:orcid_id/works",
			"GET /api/v1/orcid/sync-runs",
		},
	})
}

// SyncOrcid imports the researcher's works. Item failures are reported in
// the stats; only a failure of the whole run answers 502.
func SyncOrcid(c *gin.Context) {
	orcidID := c.Param("orcid_id")
	result, err := orcidService().Sync(c.Request.Context(), orcidID, "api")
	if err != nil {
		if errors.Is(err, services.ErrInvalidOrcidID) {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid ORCID iD format"})
			return
		}
		message := "Synchronization failed: " + err.Error()
		if result != nil && result.Message != "" {
			message = result.Message
		}
		c.JSON(http.StatusBadGateway, gin.H{"success": false, "message": message})
		return
	}
	c.JSON(http.StatusOK, result)
}

func GetOrcidResearcher(c *gin.Context) {
	profile, err := orcidService().Profile(c.Request.Context(), c.Param("orcid_id"))
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"data": profile})
	case errors.Is(err, services.ErrInvalidOrcidID):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ORCID iD format"})
	case errors.Is(err, services.ErrProfileUnavailable):
		c.JSON(http.StatusNotFound, gin.H{"error": "Researcher not found in ORCID"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

func GetOrcidResearcherWorks(c *gin.Context) {
	works, err := orcidService().Works(c.Request.Context(), c.Param("orcid_id"))
	if err != nil {
		if errors.Is(err, services.ErrInvalidOrcidID) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ORCID iD format"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if len(works) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "No works found for this researcher"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": works, "total": len(works)})
}

// GetOrcidSyncRuns lists sync runs, newest first, optionally for one orcid_id.
func GetOrcidSyncRuns(c *gin.Context) {
	orcidID := strings.ToUpper(strings.TrimSpace(c.Query("orcid_id")))
	page, err := services.NewOrcidSyncRunService(config.DB).List(c.Request.Context(), orcidID,
		parseIntOrDefault(c.Query("page"), 1), parseIntOrDefault(c.Query("per_page"), 20))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch sync runs"})
		return
	}
	respondPage(c, page)
}
