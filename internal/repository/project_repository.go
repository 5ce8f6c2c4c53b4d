package repository

import (
	"github.com/mkobari/gantt-project-api/internal/database"
	"github.com/mkobari/gantt-project-api/internal/models"
	"gorm.io/gorm"
)

// GormProjectRepository is a GORM implementation of ProjectRepository
type GormProjectRepository struct {
	db *gorm.DB
}

// NewProjectRepository creates a new ProjectRepository
func NewProjectRepository(db *gorm.DB) ProjectRepository {
	return &GormProjectRepository{db: db}
}

// Create creates a new project
func (r *GormProjectRepository) Create(project *models.Project) error {
	return r.db.Create(project).Error
}

// FindByID finds a project by ID with optional preloading
func (r *GormProjectRepository) FindByID(id uint64, preload ...string) (*models.Project, error) {
	var project models.Project
	query := r.db

	for _, p := range preload {
		query = query.Preload(p)
	}

	if err := query.First(&project, id).Error; err != nil {
		return nil, err
	}

	return &project, nil
}

// ListForUser lists projects the user owns or is a member of
func (r *GormProjectRepository) ListForUser(userID uint64, offset, limit int) ([]models.Project, error) {
	memberSubQuery := r.db.Model(&models.ProjectMember{}).
		Select("project_id").
		Where("user_id = ?", userID)

	var projects []models.Project
	err := r.db.Model(&models.Project{}).
		Preload("Owner").
		Where("owner_id = ? OR id IN (?)", userID, memberSubQuery).
		Order("created_at DESC").
		Scopes(database.Paginate(offset, limit)).
		Find(&projects).Error
	if err != nil {
		return nil, err
	}

	return projects, nil
}

// Update updates a project
func (r *GormProjectRepository) Update(project *models.Project) error {
	return r.db.Save(project).Error
}

// Delete removes a project and all related data in a transaction
func (r *GormProjectRepository) Delete(id uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		taskSubQuery := tx.Model(&models.Task{}).
			Select("id").
			Where("project_id = ?", id)

		if err := tx.Where("task_id IN (?)", taskSubQuery).
			Delete(&models.TaskAssignment{}).Error; err != nil {
			return err
		}

		if err := tx.Where("task_id IN (?)", taskSubQuery).
			Delete(&models.TaskDependency{}).Error; err != nil {
			return err
		}

		if err := tx.Where("project_id = ?", id).Delete(&models.Task{}).Error; err != nil {
			return err
		}

		if err := tx.Where("project_id = ?", id).Delete(&models.ProjectMember{}).Error; err != nil {
			return err
		}

		return tx.Delete(&models.Project{}, id).Error
	})
}

// AddMember adds a member to a project
func (r *GormProjectRepository) AddMember(member *models.ProjectMember) error {
	return r.db.Create(member).Error
}

// RemoveMember removes a member from a project
func (r *GormProjectRepository) RemoveMember(projectID, userID uint64) error {
	return r.db.Where("project_id = ? AND user_id = ?", projectID, userID).
		Delete(&models.ProjectMember{}).Error
}
