package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mkobari/gantt-project-api/internal/dto"
	apierrors "github.com/mkobari/gantt-project-api/internal/errors"
	"github.com/mkobari/gantt-project-api/internal/middleware"
	"github.com/mkobari/gantt-project-api/internal/models"
	"github.com/mkobari/gantt-project-api/internal/services"
	"github.com/mkobari/gantt-project-api/internal/utils"
)

// TaskHandler coordinates task-related HTTP handlers.
type TaskHandler struct {
	taskService *services.TaskService
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(taskService *services.TaskService) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
	}
}

// ListTasksByProject returns a project's tasks with assignees and
// dependencies populated for the Gantt view.
func (h *TaskHandler) ListTasksByProject(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	projectID, err := strconv.ParseUint(c.Param("project_id"), 10, 64)
	if err != nil {
		apierrors.NotFound(c, "Project not found")
		return
	}

	offset, limit := 0, 0
	if params := utils.OptionalPagination(c); params != nil {
		offset, limit = params.Offset, params.Limit
	}

	tasks, err := h.taskService.ListTasksByProject(projectID, userID, offset, limit)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	respondList(c, http.StatusOK, len(tasks), dto.ToTaskDTOs(tasks))
}

// GetTask returns a single task.
func (h *TaskHandler) GetTask(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	taskID, ok := parseTaskID(c)
	if !ok {
		return
	}

	task, err := h.taskService.GetTask(taskID, userID)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	respondData(c, http.StatusOK, dto.ToTaskDTO(*task))
}

// CreateTask creates a task under a project the caller can view.
func (h *TaskHandler) CreateTask(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	type createTaskRequest struct {
		Name         string     `json:"name"`
		Description  string     `json:"description"`
		StartDate    *time.Time `json:"start_date" binding:"required"`
		EndDate      *time.Time `json:"end_date" binding:"required"`
		Progress     *int       `json:"progress"`
		ProjectID    uint64     `json:"project_id" binding:"required"`
		Type         string     `json:"type"`
		IsDisabled   bool       `json:"is_disabled"`
		Dependencies []uint64   `json:"dependencies"`
	}

	var req createTaskRequest
	if err := utils.BindStrictJSON(c, &req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	task, err := h.taskService.CreateTask(services.CreateTaskInput{
		Name:         req.Name,
		Description:  req.Description,
		StartDate:    *req.StartDate,
		EndDate:      *req.EndDate,
		Progress:     req.Progress,
		ProjectID:    req.ProjectID,
		Type:         models.TaskType(req.Type),
		IsDisabled:   req.IsDisabled,
		Dependencies: req.Dependencies,
		CreatorID:    userID,
	})
	if err != nil {
		respondTaskError(c, err)
		return
	}

	respondData(c, http.StatusCreated, dto.ToTaskDTO(*task))
}

// UpdateTask updates a task's mutable fields. Owner or member.
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	taskID, ok := parseTaskID(c)
	if !ok {
		return
	}

	type updateTaskRequest struct {
		Name         *string    `json:"name"`
		Description  *string    `json:"description"`
		StartDate    *time.Time `json:"start_date"`
		EndDate      *time.Time `json:"end_date"`
		Progress     *int       `json:"progress"`
		Type         *string    `json:"type"`
		IsDisabled   *bool      `json:"is_disabled"`
		Dependencies *[]uint64  `json:"dependencies"`
	}

	var req updateTaskRequest
	if err := utils.BindStrictJSON(c, &req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	input := services.UpdateTaskInput{
		Name:         req.Name,
		Description:  req.Description,
		StartDate:    req.StartDate,
		EndDate:      req.EndDate,
		Progress:     req.Progress,
		IsDisabled:   req.IsDisabled,
		Dependencies: req.Dependencies,
	}
	if req.Type != nil {
		taskType := models.TaskType(*req.Type)
		input.Type = &taskType
	}

	task, err := h.taskService.UpdateTask(taskID, userID, input)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	respondData(c, http.StatusOK, dto.ToTaskDTO(*task))
}

// DeleteTask deletes a task. Project owner only.
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	taskID, ok := parseTaskID(c)
	if !ok {
		return
	}

	if err := h.taskService.DeleteTask(taskID, userID); err != nil {
		respondTaskError(c, err)
		return
	}

	respondData(c, http.StatusOK, gin.H{})
}

// UpdateProgress updates only the progress value of a task.
func (h *TaskHandler) UpdateProgress(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	taskID, ok := parseTaskID(c)
	if !ok {
		return
	}

	type progressRequest struct {
		Progress *int `json:"progress"`
	}

	var req progressRequest
	if err := utils.BindStrictJSON(c, &req); err != nil || req.Progress == nil {
		apierrors.BadRequest(c, "Progress must be a number between 0 and 100")
		return
	}

	task, err := h.taskService.UpdateProgress(taskID, userID, *req.Progress)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	respondData(c, http.StatusOK, dto.ToTaskDTO(*task))
}

// AssignUser assigns a project member to a task. Project owner only.
func (h *TaskHandler) AssignUser(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	taskID, ok := parseTaskID(c)
	if !ok {
		return
	}

	type assignRequest struct {
		UserID uint64 `json:"user_id"`
	}

	var req assignRequest
	if err := utils.BindStrictJSON(c, &req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	if req.UserID == 0 {
		apierrors.BadRequest(c, "Please provide a user ID")
		return
	}

	task, err := h.taskService.AssignUser(taskID, userID, req.UserID)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	respondData(c, http.StatusOK, dto.ToTaskDTO(*task))
}

// UnassignUser removes a user's assignment from a task. Project owner
// only; unassigning a non-assignee is an idempotent no-op.
func (h *TaskHandler) UnassignUser(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	taskID, ok := parseTaskID(c)
	if !ok {
		return
	}

	targetID, err := strconv.ParseUint(c.Param("user_id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid user ID")
		return
	}

	task, err := h.taskService.UnassignUser(taskID, userID, targetID)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	respondData(c, http.StatusOK, dto.ToTaskDTO(*task))
}

func parseTaskID(c *gin.Context) (uint64, bool) {
	taskID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.NotFound(c, "Task not found")
		return 0, false
	}
	return taskID, true
}

func respondTaskError(c *gin.Context, err error) {
	var validationErr *services.ValidationError

	switch {
	case errors.As(err, &validationErr):
		apierrors.BadRequest(c, validationErr.Error())
	case errors.Is(err, services.ErrTaskNotFound):
		apierrors.NotFound(c, "Task not found")
	case errors.Is(err, services.ErrProjectNotFound):
		apierrors.NotFound(c, "Project not found")
	case errors.Is(err, services.ErrUserNotFound):
		apierrors.NotFound(c, "User not found")
	case errors.Is(err, services.ErrProjectAccessDenied):
		apierrors.Forbidden(c, "Not authorized to access this project")
	case errors.Is(err, services.ErrTaskAccessDenied):
		apierrors.Forbidden(c, "Not authorized to access this task")
	case errors.Is(err, services.ErrNotProjectOwner):
		apierrors.Forbidden(c, "Only the project owner can perform this action")
	case errors.Is(err, services.ErrAssigneeNotMember):
		apierrors.BadRequest(c, "User must be a member of the project to be assigned to a task")
	case errors.Is(err, services.ErrAlreadyAssigned):
		apierrors.BadRequest(c, "User is already assigned to this task")
	default:
		apierrors.InternalError(c, "")
	}
}
