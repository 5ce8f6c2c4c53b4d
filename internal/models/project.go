package models

import (
	"time"

	"gorm.io/gorm"
)

type Project struct {
	ID          uint64         `gorm:"primarykey" json:"id"`
	Name        string         `gorm:"type:varchar(100);not null" json:"name"`
	Description string         `gorm:"type:varchar(500);not null" json:"description"`
	StartDate   time.Time      `gorm:"not null" json:"start_date"`
	EndDate     time.Time      `gorm:"not null" json:"end_date"`
	OwnerID     uint64         `gorm:"not null" json:"owner_id"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Owner   User            `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`
	Members []ProjectMember `gorm:"foreignKey:ProjectID" json:"members,omitempty"`
	Tasks   []Task          `gorm:"foreignKey:ProjectID" json:"tasks,omitempty"`
}

// IsOwner reports whether the user created the project.
func (p *Project) IsOwner(userID uint64) bool {
	return p.OwnerID == userID
}

// HasMember reports whether the user appears in the member list. The owner
// is stored separately and is never part of it.
func (p *Project) HasMember(userID uint64) bool {
	for _, m := range p.Members {
		if m.UserID == userID {
			return true
		}
	}
	return false
}

// CanView reports whether the user may read the project and its tasks.
// Owner status dominates, even if the owner is erroneously listed as a member.
func (p *Project) CanView(userID uint64) bool {
	return p.IsOwner(userID) || p.HasMember(userID)
}

// CanModify reports whether the user may update or delete the project,
// mutate its member list, or delete/assign its tasks. Owner only.
func (p *Project) CanModify(userID uint64) bool {
	return p.IsOwner(userID)
}
