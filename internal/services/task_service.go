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
	ErrTaskNotFound      = errors.New("task not found")
	ErrTaskAccessDenied  = errors.New("not authorized to access this task")
	ErrAssigneeNotMember = errors.New("user must be a member of the project to be assigned to a task")
	ErrAlreadyAssigned   = errors.New("user is already assigned to this task")
)

// TaskService handles task business logic. Authorization always goes
// through the parent project: owner or member may read and edit, only the
// owner may delete or manage assignments.
type TaskService struct {
	taskRepo    repository.TaskRepository
	projectRepo repository.ProjectRepository
	userRepo    repository.UserRepository
}

// NewTaskService creates a new TaskService.
func NewTaskService(taskRepo repository.TaskRepository, projectRepo repository.ProjectRepository, userRepo repository.UserRepository) *TaskService {
	return &TaskService{
		taskRepo:    taskRepo,
		projectRepo: projectRepo,
		userRepo:    userRepo,
	}
}

// ListTasksByProject returns the tasks of a project with assignees and
// dependencies populated.
func (s *TaskService) ListTasksByProject(projectID, callerID uint64, offset, limit int) ([]models.Task, error) {
	project, err := s.findParentProject(projectID)
	if err != nil {
		return nil, err
	}

	if !project.CanView(callerID) {
		return nil, ErrProjectAccessDenied
	}

	tasks, err := s.taskRepo.ListByProject(projectID, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	return tasks, nil
}

// GetTask returns a task with related data.
func (s *TaskService) GetTask(taskID, callerID uint64) (*models.Task, error) {
	task, err := s.findTaskDetail(taskID)
	if err != nil {
		return nil, err
	}

	project, err := s.findParentProject(task.ProjectID)
	if err != nil {
		return nil, err
	}

	if !project.CanView(callerID) {
		return nil, ErrTaskAccessDenied
	}

	return task, nil
}

// CreateTaskInput represents input for creating a task.
type CreateTaskInput struct {
	Name         string
	Description  string
	StartDate    time.Time
	EndDate      time.Time
	Progress     *int
	ProjectID    uint64
	Type         models.TaskType
	IsDisabled   bool
	Dependencies []uint64
	CreatorID    uint64
}

// CreateTask creates a task under a project the caller owns or belongs
// to. Dependency references are stored as-is: no cycle detection, no
// cross-project check.
func (s *TaskService) CreateTask(input CreateTaskInput) (*models.Task, error) {
	project, err := s.findParentProject(input.ProjectID)
	if err != nil {
		return nil, err
	}

	if !project.CanView(input.CreatorID) {
		return nil, ErrProjectAccessDenied
	}

	name, err := validateEntityName(input.Name, "task")
	if err != nil {
		return nil, err
	}
	if err := validateDescription(input.Description, false); err != nil {
		return nil, err
	}

	progress := 0
	if input.Progress != nil {
		if err := validateProgress(*input.Progress); err != nil {
			return nil, err
		}
		progress = *input.Progress
	}

	taskType := input.Type
	if taskType == "" {
		taskType = models.TaskTypeTask
	}
	if err := validateTaskType(taskType); err != nil {
		return nil, err
	}

	task := &models.Task{
		Name:        name,
		Description: input.Description,
		StartDate:   input.StartDate,
		EndDate:     input.EndDate,
		Progress:    progress,
		ProjectID:   input.ProjectID,
		Type:        taskType,
		IsDisabled:  input.IsDisabled,
	}

	if err := s.taskRepo.Create(task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	if len(input.Dependencies) > 0 {
		if err := s.taskRepo.ReplaceDependencies(task.ID, uniqueUint64(input.Dependencies)); err != nil {
			return nil, fmt.Errorf("failed to set dependencies: %w", err)
		}
	}

	return s.findTaskDetail(task.ID)
}

// UpdateTaskInput enumerates the mutable task fields. Nil means "leave
// unchanged"; the project reference is immutable.
type UpdateTaskInput struct {
	Name         *string
	Description  *string
	StartDate    *time.Time
	EndDate      *time.Time
	Progress     *int
	Type         *models.TaskType
	IsDisabled   *bool
	Dependencies *[]uint64
}

// UpdateTask updates an existing task. Owner or member of the parent
// project.
func (s *TaskService) UpdateTask(taskID, callerID uint64, input UpdateTaskInput) (*models.Task, error) {
	task, err := s.findTask(taskID)
	if err != nil {
		return nil, err
	}

	project, err := s.findParentProject(task.ProjectID)
	if err != nil {
		return nil, err
	}

	if !project.CanView(callerID) {
		return nil, ErrTaskAccessDenied
	}

	if input.Name != nil {
		name, err := validateEntityName(*input.Name, "task")
		if err != nil {
			return nil, err
		}
		task.Name = name
	}
	if input.Description != nil {
		if err := validateDescription(*input.Description, false); err != nil {
			return nil, err
		}
		task.Description = *input.Description
	}
	if input.StartDate != nil {
		task.StartDate = *input.StartDate
	}
	if input.EndDate != nil {
		task.EndDate = *input.EndDate
	}
	if input.Progress != nil {
		if err := validateProgress(*input.Progress); err != nil {
			return nil, err
		}
		task.Progress = *input.Progress
	}
	if input.Type != nil {
		if err := validateTaskType(*input.Type); err != nil {
			return nil, err
		}
		task.Type = *input.Type
	}
	if input.IsDisabled != nil {
		task.IsDisabled = *input.IsDisabled
	}

	if err := s.taskRepo.Update(task); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	if input.Dependencies != nil {
		if err := s.taskRepo.ReplaceDependencies(task.ID, uniqueUint64(*input.Dependencies)); err != nil {
			return nil, fmt.Errorf("failed to set dependencies: %w", err)
		}
	}

	return s.findTaskDetail(task.ID)
}

// UpdateProgress updates only the progress value. The range check runs
// before any storage access.
func (s *TaskService) UpdateProgress(taskID, callerID uint64, progress int) (*models.Task, error) {
	if err := validateProgress(progress); err != nil {
		return nil, err
	}

	task, err := s.findTask(taskID)
	if err != nil {
		return nil, err
	}

	project, err := s.findParentProject(task.ProjectID)
	if err != nil {
		return nil, err
	}

	if !project.CanView(callerID) {
		return nil, ErrTaskAccessDenied
	}

	if err := s.taskRepo.UpdateProgress(taskID, progress); err != nil {
		return nil, fmt.Errorf("failed to update progress: %w", err)
	}

	return s.findTaskDetail(taskID)
}

// DeleteTask deletes a task. Project owner only.
func (s *TaskService) DeleteTask(taskID, callerID uint64) error {
	task, err := s.findTask(taskID)
	if err != nil {
		return err
	}

	project, err := s.findParentProject(task.ProjectID)
	if err != nil {
		return err
	}

	if !project.CanModify(callerID) {
		return ErrNotProjectOwner
	}

	if err := s.taskRepo.Delete(taskID); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}

	return nil
}

// AssignUser assigns a user to a task. Project owner only; the candidate
// must be the owner or a member of the project at assignment time.
func (s *TaskService) AssignUser(taskID, callerID, userID uint64) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(taskID, "Assignees")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	if _, err := s.userRepo.FindByID(userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	project, err := s.findParentProject(task.ProjectID)
	if err != nil {
		return nil, err
	}

	if !project.CanModify(callerID) {
		return nil, ErrNotProjectOwner
	}

	if !project.CanView(userID) {
		return nil, ErrAssigneeNotMember
	}

	if task.IsAssigned(userID) {
		return nil, ErrAlreadyAssigned
	}

	if err := s.taskRepo.Assign(taskID, userID); err != nil {
		return nil, fmt.Errorf("failed to assign user: %w", err)
	}

	return s.findTaskDetail(taskID)
}

// UnassignUser removes a user's assignment. Project owner only;
// unassigning a user who is not assigned succeeds as a no-op.
func (s *TaskService) UnassignUser(taskID, callerID, userID uint64) (*models.Task, error) {
	task, err := s.findTask(taskID)
	if err != nil {
		return nil, err
	}

	project, err := s.findParentProject(task.ProjectID)
	if err != nil {
		return nil, err
	}

	if !project.CanModify(callerID) {
		return nil, ErrNotProjectOwner
	}

	if err := s.taskRepo.Unassign(taskID, userID); err != nil {
		return nil, fmt.Errorf("failed to unassign user: %w", err)
	}

	return s.findTaskDetail(taskID)
}

func (s *TaskService) findTask(taskID uint64) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	return task, nil
}

func (s *TaskService) findTaskDetail(taskID uint64) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(taskID,
		"Assignees", "Assignees.User", "Dependencies", "Dependencies.DependsOn")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	return task, nil
}

// findParentProject loads a task's project with its member list for
// authorization checks.
func (s *TaskService) findParentProject(projectID uint64) (*models.Project, error) {
	project, err := s.projectRepo.FindByID(projectID, "Members")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}
	return project, nil
}

// uniqueUint64 removes duplicate values from a slice of uint64
func uniqueUint64(values []uint64) []uint64 {
	seen := make(map[uint64]struct{}, len(values))
	result := make([]uint64, 0, len(values))

	for _, v := range values {
		if _, exists := seen[v]; exists {
			continue
		}
		seen[v] = struct{}{}
		result = append(result, v)
	}

	return result
}
