package repository

import (
	"github.com/mkobari/gantt-project-api/internal/database"
	"github.com/mkobari/gantt-project-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormTaskRepository is a GORM implementation of TaskRepository
type GormTaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &GormTaskRepository{db: db}
}

// Create creates a new task
func (r *GormTaskRepository) Create(task *models.Task) error {
	return r.db.Create(task).Error
}

// FindByID finds a task by ID with optional preloading
func (r *GormTaskRepository) FindByID(id uint64, preload ...string) (*models.Task, error) {
	var task models.Task
	query := r.db

	for _, p := range preload {
		query = query.Preload(p)
	}

	if err := query.First(&task, id).Error; err != nil {
		return nil, err
	}

	return &task, nil
}

// ListByProject lists the tasks of a project with assignees and
// dependencies loaded for the Gantt view
func (r *GormTaskRepository) ListByProject(projectID uint64, offset, limit int) ([]models.Task, error) {
	var tasks []models.Task
	err := r.db.Model(&models.Task{}).
		Preload("Assignees").
		Preload("Assignees.User").
		Preload("Dependencies").
		Preload("Dependencies.DependsOn").
		Where("project_id = ?", projectID).
		Order("start_date ASC, id ASC").
		Scopes(database.Paginate(offset, limit)).
		Find(&tasks).Error
	if err != nil {
		return nil, err
	}

	return tasks, nil
}

// Update updates a task
func (r *GormTaskRepository) Update(task *models.Task) error {
	return r.db.Save(task).Error
}

// UpdateProgress updates only the progress column
func (r *GormTaskRepository) UpdateProgress(id uint64, progress int) error {
	return r.db.Model(&models.Task{}).
		Where("id = ?", id).
		Update("progress", progress).Error
}

// Delete removes a task together with its assignments and dependency links
func (r *GormTaskRepository) Delete(id uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("task_id = ?", id).Delete(&models.TaskAssignment{}).Error; err != nil {
			return err
		}

		if err := tx.Where("task_id = ? OR depends_on_id = ?", id, id).
			Delete(&models.TaskDependency{}).Error; err != nil {
			return err
		}

		return tx.Delete(&models.Task{}, id).Error
	})
}

// Assign assigns a user to a task, reviving a previously soft-deleted row
func (r *GormTaskRepository) Assign(taskID, userID uint64) error {
	assignment := models.TaskAssignment{
		TaskID: taskID,
		UserID: userID,
	}

	return r.db.
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "task_id"}, {Name: "user_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{"deleted_at": gorm.Expr("NULL")}),
		}).
		Create(&assignment).Error
}

// Unassign removes a user's assignment from a task
func (r *GormTaskRepository) Unassign(taskID, userID uint64) error {
	return r.db.Where("task_id = ? AND user_id = ?", taskID, userID).
		Delete(&models.TaskAssignment{}).Error
}

// ReplaceDependencies replaces the task's dependency set in a transaction
func (r *GormTaskRepository) ReplaceDependencies(taskID uint64, dependsOnIDs []uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("task_id = ?", taskID).
			Delete(&models.TaskDependency{}).Error; err != nil {
			return err
		}

		if len(dependsOnIDs) == 0 {
			return nil
		}

		deps := make([]models.TaskDependency, len(dependsOnIDs))
		for i, dependsOnID := range dependsOnIDs {
			deps[i] = models.TaskDependency{
				TaskID:      taskID,
				DependsOnID: dependsOnID,
			}
		}

		return tx.Create(&deps).Error
	})
}
