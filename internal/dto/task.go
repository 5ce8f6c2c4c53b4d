package dto

import (
	"time"

	"github.com/mkobari/gantt-project-api/internal/models"
)

// TaskRefDTO is the shape of a dependency reference: just enough for a
// Gantt renderer to draw the arrow.
type TaskRefDTO struct {
	ID        uint64    `json:"id"`
	Name      string    `json:"name"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
}

// TaskDTO represents a task in API responses
type TaskDTO struct {
	ID           uint64          `json:"id"`
	Name         string          `json:"name"`
	Description  string          `json:"description"`
	StartDate    time.Time       `json:"start_date"`
	EndDate      time.Time       `json:"end_date"`
	Progress     int             `json:"progress"`
	ProjectID    uint64          `json:"project_id"`
	Type         models.TaskType `json:"type"`
	IsDisabled   bool            `json:"is_disabled"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
	AssignedTo   []UserDTO       `json:"assigned_to"`
	Dependencies []TaskRefDTO    `json:"dependencies"`
}

// ToTaskDTO converts a Task model to TaskDTO
func ToTaskDTO(task models.Task) TaskDTO {
	dto := TaskDTO{
		ID:           task.ID,
		Name:         task.Name,
		Description:  task.Description,
		StartDate:    task.StartDate,
		EndDate:      task.EndDate,
		Progress:     task.Progress,
		ProjectID:    task.ProjectID,
		Type:         task.Type,
		IsDisabled:   task.IsDisabled,
		CreatedAt:    task.CreatedAt,
		UpdatedAt:    task.UpdatedAt,
		AssignedTo:   make([]UserDTO, 0, len(task.Assignees)),
		Dependencies: make([]TaskRefDTO, 0, len(task.Dependencies)),
	}

	for _, a := range task.Assignees {
		dto.AssignedTo = append(dto.AssignedTo, ToUserDTO(a.User))
	}

	for _, d := range task.Dependencies {
		dto.Dependencies = append(dto.Dependencies, TaskRefDTO{
			ID:        d.DependsOnID,
			Name:      d.DependsOn.Name,
			StartDate: d.DependsOn.StartDate,
			EndDate:   d.DependsOn.EndDate,
		})
	}

	return dto
}

// ToTaskDTOs converts a slice of tasks
func ToTaskDTOs(tasks []models.Task) []TaskDTO {
	dtos := make([]TaskDTO, len(tasks))
	for i, t := range tasks {
		dtos[i] = ToTaskDTO(t)
	}
	return dtos
}
