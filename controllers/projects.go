package controllers

import (
	"errors"
	"net/http"
	"strings"

	"academic-management-api/config"
	"academic-management-api/models"
	"academic-management-api/repository"
	"academic-management-api/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProjectMemberInput struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
}

type ProjectRequest struct {
	Name        *string              `json:"name"`
	Description *string              `json:"description"`
	StartDate   *string              `json:"start_date"`
	EndDate     *string              `json:"end_date"`
	Budget      *float64             `json:"budget"`
	Status      *string              `json:"status"`
	Members     []ProjectMemberInput `json:"members"`
}

func projectAccess() *services.ProjectAccessService {
	return services.NewProjectAccessService(config.DB)
}

// activeMembers preloads the active members with their user.
func activeMembers(db *gorm.DB) *gorm.DB {
	return db.Preload("Members", "is_active = ?", true).Preload("Members.User")
}

func memberInputs(c *gin.Context, raw []ProjectMemberInput) ([]services.MemberInput, bool) {
	out := make([]services.MemberInput, 0, len(raw))
	for _, m := range raw {
		id, err := uuid.Parse(m.UserID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user_id in members"})
			return nil, false
		}
		out = append(out, services.MemberInput{UserID: id, Role: strings.TrimSpace(m.Role)})
	}
	return out, true
}

func CreateProject(c *gin.Context) {
	var req ProjectRequest
	if !bindJSON(c, &req) {
		return
	}
	if !checkRequired(c, field("name", hasText(req.Name)), field("start_date", hasText(req.StartDate))) {
		return
	}
	start, err := parseDate("start_date", *req.StartDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	end, ok := parseDateField(c, "end_date", req.EndDate)
	if !ok {
		return
	}
	members, ok := memberInputs(c, req.Members)
	if !ok {
		return
	}

	project := models.Project{
		Name:        strings.TrimSpace(*req.Name),
		Description: trimmed(req.Description),
		StartDate:   start,
		EndDate:     end,
		Budget:      req.Budget,
		Status:      "planning",
	}
	if hasText(req.Status) {
		project.Status = strings.TrimSpace(*req.Status)
	}

	if err := services.NewProjectService(config.DB).Create(c.Request.Context(), &project, currentUserID(c), members); err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidProjectRole):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, repository.ErrNotFound):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown user in members"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create project"})
		}
		return
	}

	created, err := repository.New[models.Project](config.DB.Scopes(activeMembers)).FindActive(c.Request.Context(), project.ID)
	if err != nil {
		respondError(c, err, "Project not found")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Project created successfully", "data": created})
}

// GetProjects lists projects. show_mine=true keeps those the caller belongs to.
func GetProjects(c *gin.Context) {
	q := listQuery(c, 10, []string{"created_at", "name", "start_date", "end_date", "status"}, "name")
	q.SortDir = c.DefaultQuery("sort_dir", "desc")
	if strings.EqualFold(c.Query("show_mine"), "true") {
		userID := currentUserID(c)
		q.Scopes = append(q.Scopes, func(db *gorm.DB) *gorm.DB {
			return db.Where("id IN (?)", config.DB.Model(&models.ProjectMember{}).
				Select("project_id").
				Where("user_id = ? AND is_active = ?", userID, true))
		})
	}
	if status := c.Query("status"); status != "" {
		q.Scopes = append(q.Scopes, func(db *gorm.DB) *gorm.DB { return db.Where("status = ?", status) })
	}
	q.FindScopes = append(q.FindScopes, activeMembers)

	page, err := repository.New[models.Project](config.DB).List(c.Request.Context(), q)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch projects"})
		return
	}
	respondPage(c, page)
}

func GetProject(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	project, err := repository.New[models.Project](config.DB.Scopes(activeMembers)).FindActive(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "Project not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": project})
}

// UpdateProject is restricted to the project leader.
func UpdateProject(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	ctx := c.Request.Context()
	if err := projectAccess().RequireLeader(ctx, id, currentUserID(c)); err != nil {
		respondError(c, err, "Project not found")
		return
	}
	var req ProjectRequest
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
	if hasText(req.StartDate) {
		start, err := parseDate("start_date", *req.StartDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		updates["start_date"] = start
	}
	if req.EndDate != nil {
		end, ok := parseDateField(c, "end_date", req.EndDate)
		if !ok {
			return
		}
		updates["end_date"] = end
	}
	if req.Budget != nil {
		updates["budget"] = *req.Budget
	}
	if hasText(req.Status) {
		updates["status"] = strings.TrimSpace(*req.Status)
	}

	projects := repository.New[models.Project](config.DB)
	project, err := projects.FindActive(ctx, id)
	if err == nil {
		err = projects.Update(ctx, project, updates)
	}
	if err != nil {
		respondError(c, err, "Project not found")
		return
	}

	svc := services.NewProjectService(config.DB)
	members, ok := memberInputs(c, req.Members)
	if !ok {
		return
	}
	for _, m := range members {
		role := m.Role
		if role == "" {
			role = models.ProjectRoleMember
		}
		current, err := repository.New[models.ProjectMember](config.DB).
			FindActiveWhere(ctx, nil, "project_id = ? AND user_id = ?", id, m.UserID)
		switch {
		case err == nil:
			err = svc.SetRole(ctx, current, role)
		case errors.Is(err, repository.ErrNotFound):
			_, _, err = svc.AddMember(ctx, id, m.UserID, role)
		}
		if err != nil {
			respondMemberError(c, err)
			return
		}
	}

	GetProject(c)
}

func DeleteProject(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	ctx := c.Request.Context()
	if err := projectAccess().RequireLeader(ctx, id, currentUserID(c)); err != nil {
		respondError(c, err, "Project not found")
		return
	}
	if err := repository.New[models.Project](config.DB).SoftDelete(ctx, id); err != nil {
		respondError(c, err, "Project not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Project deleted successfully"})
}
