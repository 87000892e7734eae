package controllers

import (
	"errors"
	"net/http"
	"strings"

	"academic-management-api/config"
	"academic-management-api/models"
	"academic-management-api/repository"
	"academic-management-api/services"
	"academic-management-api/utils"

	"github.com/gin-gonic/gin"
)

type AuthorRequest struct {
	FirstName   *string `json:"first_name"`
	LastName    *string `json:"last_name"`
	Email       *string `json:"email"`
	Institution *string `json:"institution"`
	OrcidID     *string `json:"orcid_id"`
}

func GetAuthors(c *gin.Context) {
	q := listQuery(c, 10, []string{"last_name", "first_name", "institution", "created_at"},
		"first_name", "last_name", "email", "institution", "orcid_id")
	page, err := repository.New[models.Author](config.DB).List(c.Request.Context(), q)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch authors"})
		return
	}
	respondPage(c, page)
}

func GetAuthor(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	author, err := repository.New[models.Author](config.DB).FindActive(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "Author not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": author})
}

func validateAuthorIdentity(c *gin.Context, req *AuthorRequest) bool {
	if hasText(req.Email) && !utils.ValidateEmail(strings.TrimSpace(*req.Email)) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid email format"})
		return false
	}
	if hasText(req.OrcidID) && !utils.ValidateOrcidID(*req.OrcidID) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ORCID iD"})
		return false
	}
	return true
}

func CreateAuthor(c *gin.Context) {
	var req AuthorRequest
	if !bindJSON(c, &req) {
		return
	}
	if !checkRequired(c, field("first_name", hasText(req.FirstName)), field("last_name", hasText(req.LastName))) {
		return
	}
	if !validateAuthorIdentity(c, &req) {
		return
	}

	author := models.Author{
		FirstName:   strings.TrimSpace(*req.FirstName),
		LastName:    strings.TrimSpace(*req.LastName),
		Institution: trimmed(req.Institution),
	}
	if hasText(req.Email) {
		author.Email = trimmed(req.Email)
	}
	if hasText(req.OrcidID) {
		id := strings.ToUpper(strings.TrimSpace(*req.OrcidID))
		author.OrcidID = &id
	}

	if err := repository.New[models.Author](config.DB).Create(c.Request.Context(), &author); err != nil {
		if isUniqueViolation(err) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "An author with that email or ORCID iD already exists"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create author"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Author created successfully", "data": author})
}

func UpdateAuthor(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	var req AuthorRequest
	if !bindJSON(c, &req) {
		return
	}
	if !validateAuthorIdentity(c, &req) {
		return
	}

	authors := repository.New[models.Author](config.DB)
	author, err := authors.FindActive(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "Author not found")
		return
	}

	updates := map[string]interface{}{}
	if hasText(req.FirstName) {
		updates["first_name"] = strings.TrimSpace(*req.FirstName)
	}
	if hasText(req.LastName) {
		updates["last_name"] = strings.TrimSpace(*req.LastName)
	}
	if req.Email != nil {
		updates["email"] = emptyToNil(req.Email)
	}
	if req.Institution != nil {
		updates["institution"] = trimmed(req.Institution)
	}
	if req.OrcidID != nil {
		v := emptyToNil(req.OrcidID)
		if v != nil {
			upper := strings.ToUpper(*v)
			v = &upper
		}
		updates["orcid_id"] = v
	}

	if err := authors.Update(c.Request.Context(), author, updates); err != nil {
		if isUniqueViolation(err) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "An author with that email or ORCID iD already exists"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update author"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Author updated successfully", "data": author})
}

func DeleteAuthor(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	if err := repository.New[models.Author](config.DB).SoftDelete(c.Request.Context(), id); err != nil {
		respondError(c, err, "Author not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Author deleted successfully"})
}

// FetchAuthorFromOrcid creates or refreshes an author from the registry and
// previews the researcher's works without importing them.
func FetchAuthorFromOrcid(c *gin.Context) {
	var req struct {
		OrcidID *string `json:"orcid_id"`
	}
	if !bindJSON(c, &req) {
		return
	}
	if !checkRequired(c, field("orcid_id", hasText(req.OrcidID))) {
		return
	}

	author, works, err := orcidService().FetchAuthor(c.Request.Context(), *req.OrcidID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidOrcidID):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ORCID iD"})
		case errors.Is(err, services.ErrProfileUnavailable):
			c.JSON(http.StatusBadGateway, gin.H{"error": "Could not retrieve the researcher from ORCID"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":      "Author data fetched from ORCID",
		"author":       author,
		"publications": works,
	})
}

func emptyToNil(v *string) *string {
	if v == nil || strings.TrimSpace(*v) == "" {
		return nil
	}
	return trimmed(v)
}
