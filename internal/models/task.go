package models

import (
	"time"

	"gorm.io/gorm"
)

type TaskType string

const (
	TaskTypeTask      TaskType = "task"
	TaskTypeMilestone TaskType = "milestone"
	TaskTypeProject   TaskType = "project"
)

type Task struct {
	ID          uint64         `gorm:"primarykey" json:"id"`
	Name        string         `gorm:"type:varchar(100);not null" json:"name"`
	Description string         `gorm:"type:varchar(500)" json:"description"`
	StartDate   time.Time      `gorm:"not null" json:"start_date"`
	EndDate     time.Time      `gorm:"not null" json:"end_date"`
	Progress    int            `gorm:"not null;default:0" json:"progress"`
	ProjectID   uint64         `gorm:"not null" json:"project_id"`
	Type        TaskType       `gorm:"type:varchar(20);not null;default:'task'" json:"type"`
	IsDisabled  bool           `gorm:"not null;default:false" json:"is_disabled"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Project      Project          `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
	Assignees    []TaskAssignment `gorm:"foreignKey:TaskID" json:"assignees,omitempty"`
	Dependencies []TaskDependency `gorm:"foreignKey:TaskID" json:"dependencies,omitempty"`
}

// IsAssigned reports whether the user is currently assigned to the task.
func (t *Task) IsAssigned(userID uint64) bool {
	for _, a := range t.Assignees {
		if a.UserID == userID {
			return true
		}
	}
	return false
}

// ValidTaskType reports whether the value is one of the enumerated task types.
func ValidTaskType(t TaskType) bool {
	switch t {
	case TaskTypeTask, TaskTypeMilestone, TaskTypeProject:
		return true
	}
	return false
}

// AggregateProgress derives a project-level completion ratio in [0,1] from
// the tasks' individual progress values. It is an unweighted mean: every
// task counts equally regardless of duration or type, and disabled tasks
// and milestones stay in the denominator.
func AggregateProgress(tasks []Task) float64 {
	if len(tasks) == 0 {
		return 0
	}

	sum := 0
	for _, t := range tasks {
		sum += t.Progress
	}

	return float64(sum) / float64(len(tasks)*100)
}
