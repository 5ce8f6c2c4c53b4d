package models

import "time"

// TaskDependency records that a task depends on another task. References
// are identifiers only: no cycle detection, no cross-project check.
type TaskDependency struct {
	TaskID      uint64    `gorm:"primarykey" json:"task_id"`
	DependsOnID uint64    `gorm:"primarykey" json:"depends_on_id"`
	CreatedAt   time.Time `json:"created_at"`

	// Relations
	Task      Task `gorm:"foreignKey:TaskID" json:"-"`
	DependsOn Task `gorm:"foreignKey:DependsOnID" json:"depends_on,omitempty"`
}
