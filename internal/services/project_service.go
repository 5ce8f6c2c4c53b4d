package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/mkobari/gantt-project-api/internal/models"
	"github.com/mkobari/gantt-project-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrProjectNotFound      = errors.New("project not found")
	ErrProjectAccessDenied  = errors.New("not authorized to access this project")
	ErrNotProjectOwner      = errors.New("only the project owner can perform this action")
	ErrAlreadyProjectMember = errors.New("user is already a member of this project")
)

// ProjectService provides business logic for project operations. The
// caller identity is always an explicit argument; the service never reads
// ambient credential state.
type ProjectService struct {
	projectRepo repository.ProjectRepository
	userRepo    repository.UserRepository
}

// NewProjectService creates a new ProjectService.
func NewProjectService(projectRepo repository.ProjectRepository, userRepo repository.UserRepository) *ProjectService {
	return &ProjectService{
		projectRepo: projectRepo,
		userRepo:    userRepo,
	}
}

// CreateProjectInput represents parameters to create a new project.
type CreateProjectInput struct {
	Name        string
	Description string
	StartDate   time.Time
	EndDate     time.Time
	OwnerID     uint64
}

// CreateProject creates a new project owned by the caller. End dates
// before start dates are accepted, matching the data layer contract.
func (s *ProjectService) CreateProject(input CreateProjectInput) (*models.Project, error) {
	name, err := validateEntityName(input.Name, "project")
	if err != nil {
		return nil, err
	}
	if err := validateDescription(input.Description, true); err != nil {
		return nil, err
	}

	project := &models.Project{
		Name:        name,
		Description: input.Description,
		StartDate:   input.StartDate,
		EndDate:     input.EndDate,
		OwnerID:     input.OwnerID,
	}

	if err := s.projectRepo.Create(project); err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	return project, nil
}

// ListProjects returns the projects the caller owns or is a member of.
func (s *ProjectService) ListProjects(callerID uint64, offset, limit int) ([]models.Project, error) {
	projects, err := s.projectRepo.ListForUser(callerID, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	return projects, nil
}

// GetProject returns a project with owner, members and tasks populated.
func (s *ProjectService) GetProject(projectID, callerID uint64) (*models.Project, error) {
	project, err := s.findProject(projectID, "Owner", "Members", "Members.User", "Tasks")
	if err != nil {
		return nil, err
	}

	if !project.CanView(callerID) {
		return nil, ErrProjectAccessDenied
	}

	return project, nil
}

// UpdateProjectInput enumerates the mutable project fields. Nil means
// "leave unchanged"; the owner reference is immutable.
type UpdateProjectInput struct {
	Name        *string
	Description *string
	StartDate   *time.Time
	EndDate     *time.Time
}

// UpdateProject updates a project. Owner only.
func (s *ProjectService) UpdateProject(projectID, callerID uint64, input UpdateProjectInput) (*models.Project, error) {
	project, err := s.findProject(projectID)
	if err != nil {
		return nil, err
	}

	if !project.CanModify(callerID) {
		return nil, ErrNotProjectOwner
	}

	if input.Name != nil {
		name, err := validateEntityName(*input.Name, "project")
		if err != nil {
			return nil, err
		}
		project.Name = name
	}
	if input.Description != nil {
		if err := validateDescription(*input.Description, true); err != nil {
			return nil, err
		}
		project.Description = *input.Description
	}
	if input.StartDate != nil {
		project.StartDate = *input.StartDate
	}
	if input.EndDate != nil {
		project.EndDate = *input.EndDate
	}

	if err := s.projectRepo.Update(project); err != nil {
		return nil, fmt.Errorf("failed to update project: %w", err)
	}

	return project, nil
}

// DeleteProject removes a project and everything under it. Owner only.
func (s *ProjectService) DeleteProject(projectID, callerID uint64) error {
	project, err := s.findProject(projectID)
	if err != nil {
		return err
	}

	if !project.CanModify(callerID) {
		return ErrNotProjectOwner
	}

	if err := s.projectRepo.Delete(projectID); err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}

	return nil
}

// AddMember adds a user to the project's member list by email. Owner
// only. Adding someone already on the list (the owner included) fails;
// the check races with concurrent adds, which the storage layer does not
// serialize.
func (s *ProjectService) AddMember(projectID, callerID uint64, email string) (*models.Project, error) {
	project, err := s.findProject(projectID, "Members")
	if err != nil {
		return nil, err
	}

	if !project.CanModify(callerID) {
		return nil, ErrNotProjectOwner
	}

	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if project.IsOwner(user.ID) || project.HasMember(user.ID) {
		return nil, ErrAlreadyProjectMember
	}

	member := &models.ProjectMember{
		ProjectID: project.ID,
		UserID:    user.ID,
		AddedAt:   time.Now(),
	}

	if err := s.projectRepo.AddMember(member); err != nil {
		return nil, fmt.Errorf("failed to add member: %w", err)
	}

	return s.findProject(projectID, "Owner", "Members", "Members.User")
}

// RemoveMember removes a user from the member list. Owner only. Removing
// a user who is not a member succeeds as a no-op.
func (s *ProjectService) RemoveMember(projectID, callerID, targetID uint64) (*models.Project, error) {
	project, err := s.findProject(projectID)
	if err != nil {
		return nil, err
	}

	if !project.CanModify(callerID) {
		return nil, ErrNotProjectOwner
	}

	if err := s.projectRepo.RemoveMember(projectID, targetID); err != nil {
		return nil, fmt.Errorf("failed to remove member: %w", err)
	}

	return s.findProject(projectID, "Owner", "Members", "Members.User")
}

func (s *ProjectService) findProject(projectID uint64, preload ...string) (*models.Project, error) {
	project, err := s.projectRepo.FindByID(projectID, preload...)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}
	return project, nil
}
