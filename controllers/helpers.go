package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"academic-management-api/models"
	"academic-management-api/repository"
	"academic-management-api/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const dateLayout = "2006-01-02"

type requiredField struct {
	name    string
	present bool
}

func field(name string, present bool) requiredField {
	return requiredField{name: name, present: present}
}

// checkRequired answers 400 naming the first missing field.
func checkRequired(c *gin.Context, fields ...requiredField) bool {
	for _, f := range fields {
		if !f.present {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Field %s is required", f.name)})
			return false
		}
	}
	return true
}

// checkFormat answers 400 when an optional value is present but malformed.
func checkFormat(c *gin.Context, name string, v *string, valid func(string) bool) bool {
	if !hasText(v) || valid(*v) {
		return true
	}
	c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Invalid %s format", name)})
	return false
}

func bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON body: " + err.Error()})
		return false
	}
	return true
}

func hasText(v *string) bool {
	return v != nil && strings.TrimSpace(*v) != ""
}

func trimmed(v *string) *string {
	if v == nil {
		return nil
	}
	s := strings.TrimSpace(*v)
	return &s
}

func parseUUIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Invalid %s", name)})
		return uuid.Nil, false
	}
	return id, true
}

func parseUUIDField(c *gin.Context, name string, v *string) (uuid.UUID, bool) {
	if v == nil {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(strings.TrimSpace(*v))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Invalid %s", name)})
		return uuid.Nil, false
	}
	return id, true
}

// parseDate reads a YYYY-MM-DD value.
func parseDate(name, v string) (datatypes.Date, error) {
	t, err := time.Parse(dateLayout, strings.TrimSpace(v))
	if err != nil {
		return datatypes.Date{}, fmt.Errorf("Invalid %s, expected YYYY-MM-DD", name)
	}
	return datatypes.Date(t), nil
}

func parseDateField(c *gin.Context, name string, v *string) (*datatypes.Date, bool) {
	if v == nil || strings.TrimSpace(*v) == "" {
		return nil, true
	}
	d, err := parseDate(name, *v)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return nil, false
	}
	return &d, true
}

func currentUserID(c *gin.Context) uuid.UUID {
	if v, ok := c.Get("userID"); ok {
		if id, ok := v.(uuid.UUID); ok {
			return id
		}
	}
	return uuid.Nil
}

func currentUser(c *gin.Context) *models.User {
	if v, ok := c.Get("user"); ok {
		if u, ok := v.(*models.User); ok {
			return u
		}
	}
	return &models.User{}
}

func isAdmin(c *gin.Context) bool {
	role, _ := c.Get("role")
	return role == models.RoleAdmin
}

func parseIntOrDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	return def
}

// listQuery reads page, per_page, search, sort_by and sort_dir.
func listQuery(c *gin.Context, defaultPerPage int, allowedSorts []string, searchColumns ...string) repository.ListQuery {
	return repository.ListQuery{
		Page:          parseIntOrDefault(c.Query("page"), 1),
		PerPage:       parseIntOrDefault(c.Query("per_page"), defaultPerPage),
		Search:        c.Query("search"),
		SearchColumns: searchColumns,
		SortBy:        c.Query("sort_by"),
		SortDir:       c.DefaultQuery("sort_dir", "asc"),
		AllowedSorts:  allowedSorts,
	}
}

func respondPage[T any](c *gin.Context, page *repository.Page[T]) {
	c.JSON(http.StatusOK, gin.H{
		"data":         page.Items,
		"total":        page.Total,
		"pages":        page.Pages,
		"current_page": page.CurrentPage,
		"per_page":     page.PerPage,
	})
}

// respondError maps service errors to status codes.
func respondError(c *gin.Context, err error, notFound string) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": notFound})
	case errors.Is(err, services.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "You do not have permission to perform this action"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

// isUniqueViolation recognises duplicate-key errors across the supported drivers.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate") ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "unique failed")
}
