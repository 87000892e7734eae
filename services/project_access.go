package services

import (
	"context"
	"errors"

	"academic-management-api/config"
	"academic-management-api/models"
	"academic-management-api/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProjectAccessService answers membership questions for a project.
type ProjectAccessService struct {
	db *gorm.DB
}

func NewProjectAccessService(db *gorm.DB) *ProjectAccessService {
	if db == nil {
		db = config.DB
	}
	return &ProjectAccessService{db: db}
}

// Role returns the caller's role on an active project. ErrNotFound means
// the project does not exist; ErrForbidden that the user is not a member.
func (s *ProjectAccessService) Role(ctx context.Context, projectID, userID uuid.UUID) (string, error) {
	if _, err := repository.New[models.Project](s.db).FindActive(ctx, projectID); err != nil {
		return "", err
	}
	member, err := repository.New[models.ProjectMember](s.db).
		FindActiveWhere(ctx, nil, "project_id = ? AND user_id = ?", projectID, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", ErrForbidden
		}
		return "", err
	}
	return member.Role, nil
}

func (s *ProjectAccessService) require(ctx context.Context, projectID, userID uuid.UUID, roles ...string) error {
	role, err := s.Role(ctx, projectID, userID)
	if err != nil {
		return err
	}
	if len(roles) == 0 {
		return nil
	}
	for _, r := range roles {
		if r == role {
			return nil
		}
	}
	return ErrForbidden
}

// RequireMember allows any active member.
func (s *ProjectAccessService) RequireMember(ctx context.Context, projectID, userID uuid.UUID) error {
	return s.require(ctx, projectID, userID)
}

// RequireManager allows the leader and managers.
func (s *ProjectAccessService) RequireManager(ctx context.Context, projectID, userID uuid.UUID) error {
	return s.require(ctx, projectID, userID, models.ProjectRoleLeader, models.ProjectRoleManager)
}

func (s *ProjectAccessService) RequireLeader(ctx context.Context, projectID, userID uuid.UUID) error {
	return s.require(ctx, projectID, userID, models.ProjectRoleLeader)
}

// MemberProjectIDs lists the projects the user actively belongs to.
func (s *ProjectAccessService) MemberProjectIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := s.db.WithContext(ctx).Model(&models.ProjectMember{}).
		Where("user_id = ? AND is_active = ?", userID, true).
		Pluck("project_id", &ids).Error
	return ids, err
}
