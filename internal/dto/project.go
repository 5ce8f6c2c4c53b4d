package dto

import (
	"time"

	"github.com/mkobari/gantt-project-api/internal/models"
)

// ProjectDTO represents a project in API responses
type ProjectDTO struct {
	ID          uint64    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	StartDate   time.Time `json:"start_date"`
	EndDate     time.Time `json:"end_date"`
	OwnerID     uint64    `json:"owner_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Owner       *UserDTO  `json:"owner,omitempty"`
}

// ProjectDetailDTO represents a project with members, tasks and the
// aggregated completion ratio of its task set.
type ProjectDetailDTO struct {
	ProjectDTO
	Members  []UserDTO `json:"members"`
	Tasks    []TaskDTO `json:"tasks"`
	Progress float64   `json:"progress"`
}

// ToProjectDTO converts a Project model to ProjectDTO
func ToProjectDTO(project models.Project) ProjectDTO {
	dto := ProjectDTO{
		ID:          project.ID,
		Name:        project.Name,
		Description: project.Description,
		StartDate:   project.StartDate,
		EndDate:     project.EndDate,
		OwnerID:     project.OwnerID,
		CreatedAt:   project.CreatedAt,
		UpdatedAt:   project.UpdatedAt,
	}

	// Include owner if preloaded
	if project.Owner.ID != 0 {
		owner := ToUserDTO(project.Owner)
		dto.Owner = &owner
	}

	return dto
}

// ProjectWithMembersDTO represents a project with its member list, used
// by the membership mutation responses.
type ProjectWithMembersDTO struct {
	ProjectDTO
	Members []UserDTO `json:"members"`
}

// ToProjectWithMembersDTO converts a project with preloaded members
func ToProjectWithMembersDTO(project models.Project) ProjectWithMembersDTO {
	members := make([]UserDTO, 0, len(project.Members))
	for _, m := range project.Members {
		members = append(members, ToUserDTO(m.User))
	}

	return ProjectWithMembersDTO{
		ProjectDTO: ToProjectDTO(project),
		Members:    members,
	}
}

// ToProjectDetailDTO converts a project with preloaded members and tasks
// to a detailed DTO.
func ToProjectDetailDTO(project models.Project) ProjectDetailDTO {
	members := make([]UserDTO, 0, len(project.Members))
	for _, m := range project.Members {
		members = append(members, ToUserDTO(m.User))
	}

	tasks := make([]TaskDTO, 0, len(project.Tasks))
	for _, t := range project.Tasks {
		tasks = append(tasks, ToTaskDTO(t))
	}

	return ProjectDetailDTO{
		ProjectDTO: ToProjectDTO(project),
		Members:    members,
		Tasks:      tasks,
		Progress:   models.AggregateProgress(project.Tasks),
	}
}

// ToProjectDTOs converts a slice of projects
func ToProjectDTOs(projects []models.Project) []ProjectDTO {
	dtos := make([]ProjectDTO, len(projects))
	for i, p := range projects {
		dtos[i] = ToProjectDTO(p)
	}
	return dtos
}
