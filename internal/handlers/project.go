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
	"github.com/mkobari/gantt-project-api/internal/services"
	"github.com/mkobari/gantt-project-api/internal/utils"
)

// ProjectHandler coordinates project-related HTTP handlers.
type ProjectHandler struct {
	projectService *services.ProjectService
}

// NewProjectHandler creates a new ProjectHandler.
func NewProjectHandler(projectService *services.ProjectService) *ProjectHandler {
	return &ProjectHandler{
		projectService: projectService,
	}
}

// ListProjects returns the projects the caller owns or is a member of.
func (h *ProjectHandler) ListProjects(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	offset, limit := 0, 0
	if params := utils.OptionalPagination(c); params != nil {
		offset, limit = params.Offset, params.Limit
	}

	projects, err := h.projectService.ListProjects(userID, offset, limit)
	if err != nil {
		respondProjectError(c, err)
		return
	}

	respondList(c, http.StatusOK, len(projects), dto.ToProjectDTOs(projects))
}

// GetProject returns a project with owner, members, tasks and the
// aggregated progress ratio.
func (h *ProjectHandler) GetProject(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	projectID, ok := parseProjectID(c)
	if !ok {
		return
	}

	project, err := h.projectService.GetProject(projectID, userID)
	if err != nil {
		respondProjectError(c, err)
		return
	}

	respondData(c, http.StatusOK, dto.ToProjectDetailDTO(*project))
}

// CreateProject creates a new project owned by the caller.
func (h *ProjectHandler) CreateProject(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	type createProjectRequest struct {
		Name        string     `json:"name"`
		Description string     `json:"description"`
		StartDate   *time.Time `json:"start_date" binding:"required"`
		EndDate     *time.Time `json:"end_date" binding:"required"`
	}

	var req createProjectRequest
	if err := utils.BindStrictJSON(c, &req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	project, err := h.projectService.CreateProject(services.CreateProjectInput{
		Name:        req.Name,
		Description: req.Description,
		StartDate:   *req.StartDate,
		EndDate:     *req.EndDate,
		OwnerID:     userID,
	})
	if err != nil {
		respondProjectError(c, err)
		return
	}

	respondData(c, http.StatusCreated, dto.ToProjectDTO(*project))
}

// UpdateProject updates a project's mutable fields. Owner only.
func (h *ProjectHandler) UpdateProject(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	projectID, ok := parseProjectID(c)
	if !ok {
		return
	}

	type updateProjectRequest struct {
		Name        *string    `json:"name"`
		Description *string    `json:"description"`
		StartDate   *time.Time `json:"start_date"`
		EndDate     *time.Time `json:"end_date"`
	}

	var req updateProjectRequest
	if err := utils.BindStrictJSON(c, &req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	project, err := h.projectService.UpdateProject(projectID, userID, services.UpdateProjectInput{
		Name:        req.Name,
		Description: req.Description,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
	})
	if err != nil {
		respondProjectError(c, err)
		return
	}

	respondData(c, http.StatusOK, dto.ToProjectDTO(*project))
}

// DeleteProject deletes a project and everything under it. Owner only.
func (h *ProjectHandler) DeleteProject(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	projectID, ok := parseProjectID(c)
	if !ok {
		return
	}

	if err := h.projectService.DeleteProject(projectID, userID); err != nil {
		respondProjectError(c, err)
		return
	}

	respondData(c, http.StatusOK, gin.H{})
}

// AddMember adds a user to the project's member list by email. Owner only.
func (h *ProjectHandler) AddMember(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	projectID, ok := parseProjectID(c)
	if !ok {
		return
	}

	type addMemberRequest struct {
		Email string `json:"email"`
	}

	var req addMemberRequest
	if err := utils.BindStrictJSON(c, &req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	if req.Email == "" {
		apierrors.BadRequest(c, "Please provide an email")
		return
	}

	project, err := h.projectService.AddMember(projectID, userID, req.Email)
	if err != nil {
		respondProjectError(c, err)
		return
	}

	respondData(c, http.StatusOK, dto.ToProjectWithMembersDTO(*project))
}

// RemoveMember removes a user from the member list. Owner only; removing
// a non-member is an idempotent no-op.
func (h *ProjectHandler) RemoveMember(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	projectID, ok := parseProjectID(c)
	if !ok {
		return
	}

	targetID, err := strconv.ParseUint(c.Param("user_id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid user ID")
		return
	}

	project, err := h.projectService.RemoveMember(projectID, userID, targetID)
	if err != nil {
		respondProjectError(c, err)
		return
	}

	respondData(c, http.StatusOK, dto.ToProjectWithMembersDTO(*project))
}

func parseProjectID(c *gin.Context) (uint64, bool) {
	projectID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		// An id that cannot name any project is indistinguishable from an
		// absent one.
		apierrors.NotFound(c, "Project not found")
		return 0, false
	}
	return projectID, true
}

func respondProjectError(c *gin.Context, err error) {
	var validationErr *services.ValidationError

	switch {
	case errors.As(err, &validationErr):
		apierrors.BadRequest(c, validationErr.Error())
	case errors.Is(err, services.ErrProjectNotFound):
		apierrors.NotFound(c, "Project not found")
	case errors.Is(err, services.ErrUserNotFound):
		apierrors.NotFound(c, "User not found")
	case errors.Is(err, services.ErrProjectAccessDenied):
		apierrors.Forbidden(c, "Not authorized to access this project")
	case errors.Is(err, services.ErrNotProjectOwner):
		apierrors.Forbidden(c, "Only the project owner can perform this action")
	case errors.Is(err, services.ErrAlreadyProjectMember):
		apierrors.BadRequest(c, "User is already a member of this project")
	default:
		apierrors.InternalError(c, "")
	}
}
