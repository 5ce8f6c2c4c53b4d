package repository

import (
	"github.com/mkobari/gantt-project-api/internal/models"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(user *models.User) error

	// FindByID finds a user by ID
	FindByID(id uint64) (*models.User, error)

	// FindByEmail finds a user by their (lowercased) email address
	FindByEmail(email string) (*models.User, error)
}

// ProjectRepository defines the interface for project data access
type ProjectRepository interface {
	// Create creates a new project
	Create(project *models.Project) error

	// FindByID finds a project by ID with optional preloading
	FindByID(id uint64, preload ...string) (*models.Project, error)

	// ListForUser lists projects the user owns or is a member of.
	// A non-positive limit returns the full result set.
	ListForUser(userID uint64, offset, limit int) ([]models.Project, error)

	// Update updates a project
	Update(project *models.Project) error

	// Delete removes a project together with its tasks and memberships
	Delete(id uint64) error

	// AddMember adds a member to a project
	AddMember(member *models.ProjectMember) error

	// RemoveMember removes a member from a project. Removing an absent
	// member is a no-op.
	RemoveMember(projectID, userID uint64) error
}

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// Create creates a new task
	Create(task *models.Task) error

	// FindByID finds a task by ID with optional preloading
	FindByID(id uint64, preload ...string) (*models.Task, error)

	// ListByProject lists the tasks of a project with relations loaded.
	// A non-positive limit returns the full result set.
	ListByProject(projectID uint64, offset, limit int) ([]models.Task, error)

	// Update updates a task
	Update(task *models.Task) error

	// UpdateProgress updates only the progress column of a task
	UpdateProgress(id uint64, progress int) error

	// Delete removes a task together with its assignments and dependencies
	Delete(id uint64) error

	// Assign assigns a user to a task
	Assign(taskID, userID uint64) error

	// Unassign removes a user's assignment. Unassigning an absent user is
	// a no-op.
	Unassign(taskID, userID uint64) error

	// ReplaceDependencies replaces the task's dependency set
	ReplaceDependencies(taskID uint64, dependsOnIDs []uint64) error
}
