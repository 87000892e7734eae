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

type DeliverableRequest struct {
	MilestoneID *string `json:"milestone_id"`
	Name        *string `json:"name"`
	Description *string `json:"description"`
	DueDate     *string `json:"due_date"`
	FileURL     *string `json:"file_url"`
	Status      *string `json:"status"`
}

// milestoneAccess resolves a milestone and checks the caller against its project.
func milestoneAccess(c *gin.Context, milestoneID uuid.UUID, manage bool) bool {
	ctx := c.Request.Context()
	milestone, err := repository.New[models.Milestone](config.DB).FindActive(ctx, milestoneID)
	if err != nil {
		respondError(c, err, "Milestone not found")
		return false
	}
	check := projectAccess().RequireMember
	if manage {
		check = projectAccess().RequireManager
	}
	if err := check(ctx, milestone.ProjectID, currentUserID(c)); err != nil {
		respondError(c, err, "Project not found")
		return false
	}
	return true
}

func CreateDeliverable(c *gin.Context) {
	var req DeliverableRequest
	if !bindJSON(c, &req) {
		return
	}
	if !checkRequired(c,
		field("milestone_id", hasText(req.MilestoneID)),
		field("name", hasText(req.Name)),
		field("due_date", hasText(req.DueDate))) {
		return
	}
	milestoneID, ok := parseUUIDField(c, "milestone_id", req.MilestoneID)
	if !ok {
		return
	}
	if !milestoneAccess(c, milestoneID, true) {
		return
	}
	due, err := parseDate("due_date", *req.DueDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	deliverable := models.Deliverable{
		MilestoneID: milestoneID,
		Name:        strings.TrimSpace(*req.Name),
		Description: trimmed(req.Description),
		DueDate:     due,
		FileURL:     emptyToNil(req.FileURL),
		Status:      "pending",
	}
	if hasText(req.Status) {
		deliverable.Status = strings.TrimSpace(*req.Status)
	}
	if err := repository.New[models.Deliverable](config.DB).Create(c.Request.Context(), &deliverable); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create deliverable"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Deliverable created successfully", "data": deliverable})
}

func GetDeliverables(c *gin.Context) {
	milestoneID, ok := uuidQuery(c, "milestone_id")
	if !ok {
		return
	}
	if !milestoneAccess(c, milestoneID, false) {
		return
	}

	q := listQuery(c, 20, []string{"created_at", "due_date", "name", "status"}, "name")
	q.SortDir = c.DefaultQuery("sort_dir", "desc")
	q.Scopes = append(q.Scopes,
		func(db *gorm.DB) *gorm.DB { return db.Where("milestone_id = ?", milestoneID) },
		statusFilter(c))
	page, err := repository.New[models.Deliverable](config.DB).List(c.Request.Context(), q)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch deliverables"})
		return
	}
	respondPage(c, page)
}

func loadDeliverable(c *gin.Context, manage bool) (*models.Deliverable, bool) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return nil, false
	}
	deliverable, err := repository.New[models.Deliverable](config.DB).FindActive(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "Deliverable not found")
		return nil, false
	}
	if !milestoneAccess(c, deliverable.MilestoneID, manage) {
		return nil, false
	}
	return deliverable, true
}

func GetDeliverable(c *gin.Context) {
	if deliverable, ok := loadDeliverable(c, false); ok {
		c.JSON(http.StatusOK, gin.H{"data": deliverable})
	}
}

func UpdateDeliverable(c *gin.Context) {
	deliverable, ok := loadDeliverable(c, true)
	if !ok {
		return
	}
	var req DeliverableRequest
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
	if req.FileURL != nil {
		updates["file_url"] = emptyToNil(req.FileURL)
	}
	if hasText(req.Status) {
		updates["status"] = strings.TrimSpace(*req.Status)
	}

	if err := repository.New[models.Deliverable](config.DB).Update(c.Request.Context(), deliverable, updates); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update deliverable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Deliverable updated successfully", "data": deliverable})
}

func DeleteDeliverable(c *gin.Context) {
	deliverable, ok := loadDeliverable(c, true)
	if !ok {
		return
	}
	if err := repository.New[models.Deliverable](config.DB).SoftDelete(c.Request.Context(), deliverable.ID); err != nil {
		respondError(c, err, "Deliverable not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Deliverable deleted successfully"})
}
