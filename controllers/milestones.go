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

type MilestoneRequest struct {
	ProjectID      *string `json:"project_id"`
	Name           *string `json:"name"`
	Description    *string `json:"description"`
	DueDate        *string `json:"due_date"`
	CompletionDate *string `json:"completion_date"`
	Status         *string `json:"status"`
}

// uuidQuery reads a mandatory uuid query parameter.
func uuidQuery(c *gin.Context, name string) (uuid.UUID, bool) {
	raw := c.Query(name)
	if raw == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Field " + name + " is required"})
		return uuid.Nil, false
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name})
		return uuid.Nil, false
	}
	return id, true
}

func statusFilter(c *gin.Context) func(*gorm.DB) *gorm.DB {
	status := c.Query("status")
	return func(db *gorm.DB) *gorm.DB {
		if status == "" {
			return db
		}
		return db.Where("status = ?", status)
	}
}

func CreateMilestone(c *gin.Context) {
	var req MilestoneRequest
	if !bindJSON(c, &req) {
		return
	}
	if !checkRequired(c,
		field("project_id", hasText(req.ProjectID)),
		field("name", hasText(req.Name)),
		field("due_date", hasText(req.DueDate))) {
		return
	}
	projectID, ok := parseUUIDField(c, "project_id", req.ProjectID)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	if err := projectAccess().RequireManager(ctx, projectID, currentUserID(c)); err != nil {
		respondError(c, err, "Project not found")
		return
	}
	due, err := parseDate("due_date", *req.DueDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	completion, ok := parseDateField(c, "completion_date", req.CompletionDate)
	if !ok {
		return
	}

	milestone := models.Milestone{
		ProjectID:      projectID,
		Name:           strings.TrimSpace(*req.Name),
		Description:    trimmed(req.Description),
		DueDate:        due,
		CompletionDate: completion,
		Status:         "pending",
	}
	if hasText(req.Status) {
		milestone.Status = strings.TrimSpace(*req.Status)
	}
	if err := repository.New[models.Milestone](config.DB).Create(ctx, &milestone); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create milestone"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Milestone created successfully", "data": milestone})
}

// GetMilestones lists the milestones of project_id for its members.
func GetMilestones(c *gin.Context) {
	projectID, ok := uuidQuery(c, "project_id")
	if !ok {
		return
	}
	if err := projectAccess().RequireMember(c.Request.Context(), projectID, currentUserID(c)); err != nil {
		respondError(c, err, "Project not found")
		return
	}

	q := listQuery(c, 20, []string{"due_date", "name", "created_at", "status"}, "name")
	q.Scopes = append(q.Scopes,
		func(db *gorm.DB) *gorm.DB { return db.Where("project_id = ?", projectID) },
		statusFilter(c))
	page, err := repository.New[models.Milestone](config.DB).List(c.Request.Context(), q)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch milestones"})
		return
	}
	respondPage(c, page)
}

// loadMilestone fetches :id and checks the caller against its project.
func loadMilestone(c *gin.Context, manage bool) (*models.Milestone, bool) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return nil, false
	}
	ctx := c.Request.Context()
	milestone, err := repository.New[models.Milestone](config.DB).FindActive(ctx, id)
	if err != nil {
		respondError(c, err, "Milestone not found")
		return nil, false
	}
	check := projectAccess().RequireMember
	if manage {
		check = projectAccess().RequireManager
	}
	if err := check(ctx, milestone.ProjectID, currentUserID(c)); err != nil {
		respondError(c, err, "Project not found")
		return nil, false
	}
	return milestone, true
}

func GetMilestone(c *gin.Context) {
	if milestone, ok := loadMilestone(c, false); ok {
		c.JSON(http.StatusOK, gin.H{"data": milestone})
	}
}

func UpdateMilestone(c *gin.Context) {
	milestone, ok := loadMilestone(c, true)
	if !ok {
		return
	}
	var req MilestoneRequest
	if !bindJSON(c, &req) {
		return
	}

	updates := map[string]interface{}{}
	if hasText(req.Name) {
		updates["name"] = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		updates["description"] = trimmed(req.Description)
	}
	if hasText(req.DueDate) {
		due, err := parseDate("due_date", *req.DueDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		updates["due_date"] = due
	}
	if req.CompletionDate != nil {
		completion, ok := parseDateField(c, "completion_date", req.CompletionDate)
		if !ok {
			return
		}
		updates["completion_date"] = completion
	}
	if hasText(req.Status) {
		updates["status"] = strings.TrimSpace(*req.Status)
	}

	if err := repository.New[models.Milestone](config.DB).Update(c.Request.Context(), milestone, updates); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update milestone"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Milestone updated successfully", "data": milestone})
}

func DeleteMilestone(c *gin.Context) {
	milestone, ok := loadMilestone(c, true)
	if !ok {
		return
	}
	if err := repository.New[models.Milestone](config.DB).SoftDelete(c.Request.Context(), milestone.ID); err != nil {
		respondError(c, err, "Milestone not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Milestone deleted successfully"})
}
