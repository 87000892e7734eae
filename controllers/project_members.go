package controllers

import (
	"errors"
	"net/http"

	"academic-management-api/config"
	"academic-management-api/models"
	"academic-management-api/repository"
	"academic-management-api/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ProjectMemberRequest struct {
	ProjectID *string `json:"project_id"`
	UserID    *string `json:"user_id"`
	Role      *string `json:"role"`
}

func respondMemberError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrInvalidProjectRole),
		errors.Is(err, services.ErrAlreadyMember),
		errors.Is(err, services.ErrRemoveLeader):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		respondError(c, err, "Project or user not found")
	}
}

func listMembers(c *gin.Context, projectID uuid.UUID) {
	ctx := c.Request.Context()
	if err := projectAccess().RequireMember(ctx, projectID, currentUserID(c)); err != nil {
		respondError(c, err, "Project not found")
		return
	}
	var members []models.ProjectMember
	err := config.DB.WithContext(ctx).
		Preload("User").
		Where("project_id = ? AND is_active = ?", projectID, true).
		Order("created_at ASC").
		Find(&members).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch project members"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": members, "total": len(members)})
}

// GetProjectMembers serves both /projects/:id/members and /project-members?project_id=.
func GetProjectMembers(c *gin.Context) {
	raw := c.Param("id")
	if raw == "" {
		raw = c.Query("project_id")
	}
	if raw == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Field project_id is required"})
		return
	}
	projectID, err := uuid.Parse(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid project_id"})
		return
	}
	listMembers(c, projectID)
}

// CreateProjectMember adds a member. Only the project leader may do this.
func CreateProjectMember(c *gin.Context) {
	var req ProjectMemberRequest
	if !bindJSON(c, &req) {
		return
	}
	if !checkRequired(c,
		field("project_id", hasText(req.ProjectID)),
		field("user_id", hasText(req.UserID)),
		field("role", hasText(req.Role))) {
		return
	}
	projectID, ok := parseUUIDField(c, "project_id", req.ProjectID)
	if !ok {
		return
	}
	userID, ok := parseUUIDField(c, "user_id", req.UserID)
	if !ok {
		return
	}
	addMember(c, projectID, userID, *req.Role)
}

func addMember(c *gin.Context, projectID, userID uuid.UUID, role string) {
	ctx := c.Request.Context()
	if err := projectAccess().RequireLeader(ctx, projectID, currentUserID(c)); err != nil {
		respondError(c, err, "Project not found")
		return
	}
	member, reactivated, err := services.NewProjectService(config.DB).AddMember(ctx, projectID, userID, role)
	if err != nil {
		respondMemberError(c, err)
		return
	}
	if reactivated {
		c.JSON(http.StatusOK, gin.H{"message": "Member reactivated successfully", "data": member})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Member added to project successfully", "data": member})
}

func GetProjectMember(c *gin.Context) {
	member, ok := loadMemberByID(c)
	if !ok {
		return
	}
	if err := projectAccess().RequireMember(c.Request.Context(), member.ProjectID, currentUserID(c)); err != nil {
		respondError(c, err, "Project not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": member})
}

func loadMemberByID(c *gin.Context) (*models.ProjectMember, bool) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return nil, false
	}
	member, err := repository.New[models.ProjectMember](config.DB).FindActiveWith(c.Request.Context(), id, "User")
	if err != nil {
		respondError(c, err, "Project member not found")
		return nil, false
	}
	return member, true
}

func loadMemberByUser(c *gin.Context) (*models.ProjectMember, bool) {
	projectID, ok := parseUUIDParam(c, "id")
	if !ok {
		return nil, false
	}
	userID, ok := parseUUIDParam(c, "user_id")
	if !ok {
		return nil, false
	}
	member, err := repository.New[models.ProjectMember](config.DB).
		FindActiveWhere(c.Request.Context(), []string{"User"}, "project_id = ? AND user_id = ?", projectID, userID)
	if err != nil {
		respondError(c, err, "The user is not a member of this project")
		return nil, false
	}
	return member, true
}

func changeMemberRole(c *gin.Context, member *models.ProjectMember) {
	var req ProjectMemberRequest
	if !bindJSON(c, &req) {
		return
	}
	if !checkRequired(c, field("role", hasText(req.Role))) {
		return
	}
	ctx := c.Request.Context()
	if err := projectAccess().RequireLeader(ctx, member.ProjectID, currentUserID(c)); err != nil {
		respondError(c, err, "Project not found")
		return
	}
	if err := services.NewProjectService(config.DB).SetRole(ctx, member, *req.Role); err != nil {
		respondMemberError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Member updated successfully", "data": member})
}

func removeMember(c *gin.Context, member *models.ProjectMember) {
	ctx := c.Request.Context()
	if err := projectAccess().RequireLeader(ctx, member.ProjectID, currentUserID(c)); err != nil {
		respondError(c, err, "Project not found")
		return
	}
	if err := services.NewProjectService(config.DB).RemoveMember(ctx, member); err != nil {
		respondMemberError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Member removed from project successfully"})
}

func UpdateProjectMember(c *gin.Context) {
	if member, ok := loadMemberByID(c); ok {
		changeMemberRole(c, member)
	}
}

func DeleteProjectMember(c *gin.Context) {
	if member, ok := loadMemberByID(c); ok {
		removeMember(c, member)
	}
}

// PutProjectMemberByUser sets the role of user_id on the project, adding the
// user when not yet a member.
func PutProjectMemberByUser(c *gin.Context) {
	projectID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	userID, ok := parseUUIDParam(c, "user_id")
	if !ok {
		return
	}
	member, err := repository.New[models.ProjectMember](config.DB).
		FindActiveWhere(c.Request.Context(), nil, "project_id = ? AND user_id = ?", projectID, userID)
	switch {
	case err == nil:
		changeMemberRole(c, member)
	case errors.Is(err, repository.ErrNotFound):
		var req ProjectMemberRequest
		if !bindJSON(c, &req) {
			return
		}
		role := models.ProjectRoleMember
		if hasText(req.Role) {
			role = *req.Role
		}
		addMember(c, projectID, userID, role)
	default:
		respondError(c, err, "Project not found")
	}
}

func DeleteProjectMemberByUser(c *gin.Context) {
	if member, ok := loadMemberByUser(c); ok {
		removeMember(c, member)
	}
}
