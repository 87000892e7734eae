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

// MemberInput is one membership requested alongside a project write.
type MemberInput struct {
	UserID uuid.UUID
	Role   string
}

// ProjectService owns project creation and membership changes.
type ProjectService struct {
	db       *gorm.DB
	notifier *Notifier
}

func NewProjectService(db *gorm.DB) *ProjectService {
	if db == nil {
		db = config.DB
	}
	return &ProjectService{db: db, notifier: NewNotifier()}
}

// ValidRole reports whether role is a known project role.
func ValidRole(role string) bool {
	switch role {
	case models.ProjectRoleLeader, models.ProjectRoleManager, models.ProjectRoleMember:
		return true
	}
	return false
}

// Create stores the project with creator as leader plus any extra members.
// An extra entry naming the creator is ignored.
func (s *ProjectService) Create(ctx context.Context, project *models.Project, creator uuid.UUID, members []MemberInput) error {
	for _, m := range members {
		if m.Role != "" && !ValidRole(m.Role) {
			return ErrInvalidProjectRole
		}
	}

	var added []models.ProjectMember
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(project).Error; err != nil {
			return err
		}
		leader := models.ProjectMember{ProjectID: project.ID, UserID: creator, Role: models.ProjectRoleLeader}
		if err := tx.Create(&leader).Error; err != nil {
			return err
		}
		seen := map[uuid.UUID]bool{creator: true}
		for _, m := range members {
			if seen[m.UserID] {
				continue
			}
			seen[m.UserID] = true
			if _, err := repository.New[models.User](tx).FindActive(ctx, m.UserID); err != nil {
				return err
			}
			role := m.Role
			if role == "" {
				role = models.ProjectRoleMember
			}
			member := models.ProjectMember{ProjectID: project.ID, UserID: m.UserID, Role: role}
			if err := tx.Create(&member).Error; err != nil {
				return err
			}
			added = append(added, member)
		}
		return nil
	})
	if err != nil {
		return err
	}

	for _, m := range added {
		s.notifyAdded(ctx, *project, m)
	}
	return nil
}

// AddMember adds userID to the project, reactivating a former membership.
// It reports whether the membership was reactivated rather than created.
func (s *ProjectService) AddMember(ctx context.Context, projectID, userID uuid.UUID, role string) (*models.ProjectMember, bool, error) {
	if !ValidRole(role) {
		return nil, false, ErrInvalidProjectRole
	}
	project, err := repository.New[models.Project](s.db).FindActive(ctx, projectID)
	if err != nil {
		return nil, false, err
	}
	if _, err := repository.New[models.User](s.db).FindActive(ctx, userID); err != nil {
		return nil, false, err
	}

	members := repository.New[models.ProjectMember](s.db)
	existing, err := members.FindBy(ctx, "project_id = ? AND user_id = ?", projectID, userID)
	switch {
	case err == nil:
		if existing.IsActive {
			return nil, false, ErrAlreadyMember
		}
		if err := members.Update(ctx, existing, map[string]interface{}{"is_active": true, "role": role}); err != nil {
			return nil, false, err
		}
		s.notifyAdded(ctx, *project, *existing)
		return existing, true, nil
	case !errors.Is(err, repository.ErrNotFound):
		return nil, false, err
	}

	member := &models.ProjectMember{ProjectID: projectID, UserID: userID, Role: role}
	if err := members.Create(ctx, member); err != nil {
		return nil, false, err
	}
	s.notifyAdded(ctx, *project, *member)
	return member, false, nil
}

// SetRole changes the role of an active member.
func (s *ProjectService) SetRole(ctx context.Context, member *models.ProjectMember, role string) error {
	if !ValidRole(role) {
		return ErrInvalidProjectRole
	}
	return repository.New[models.ProjectMember](s.db).Update(ctx, member, map[string]interface{}{"role": role})
}

// RemoveMember retires a membership. The leader cannot be removed.
func (s *ProjectService) RemoveMember(ctx context.Context, member *models.ProjectMember) error {
	if member.Role == models.ProjectRoleLeader {
		return ErrRemoveLeader
	}
	return repository.New[models.ProjectMember](s.db).SoftDelete(ctx, member.ID)
}

func (s *ProjectService) notifyAdded(ctx context.Context, project models.Project, member models.ProjectMember) {
	user, err := repository.New[models.User](s.db).FindActive(ctx, member.UserID)
	if err != nil {
		return
	}
	s.notifier.ProjectMemberAdded(project, *user, member.Role)
}
