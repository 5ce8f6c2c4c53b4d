package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mkobari/gantt-project-api/internal/constants"
	"github.com/mkobari/gantt-project-api/internal/database"
	"github.com/mkobari/gantt-project-api/internal/models"
	"github.com/mkobari/gantt-project-api/internal/repository"
	"github.com/mkobari/gantt-project-api/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// TaskHandlerTestSuite defines the test suite for TaskHandler
type TaskHandlerTestSuite struct {
	suite.Suite
	db          *gorm.DB
	router      *gin.Engine
	currentUser uint64

	owner   *models.User
	member  *models.User
	project *models.Project
}

// SetupTest runs before each test
func (suite *TaskHandlerTestSuite) SetupTest() {
	var err error

	suite.db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	suite.Require().NoError(err)

	err = suite.db.AutoMigrate(
		&models.User{},
		&models.Project{},
		&models.ProjectMember{},
		&models.Task{},
		&models.TaskAssignment{},
		&models.TaskDependency{},
	)
	suite.Require().NoError(err)

	database.SetDB(suite.db)

	userRepo := repository.NewUserRepository(suite.db)
	projectRepo := repository.NewProjectRepository(suite.db)
	taskRepo := repository.NewTaskRepository(suite.db)
	handler := NewTaskHandler(services.NewTaskService(taskRepo, projectRepo, userRepo))

	gin.SetMode(gin.TestMode)

	suite.router = gin.New()
	suite.router.Use(func(c *gin.Context) {
		c.Set(constants.ContextKeyUserID, suite.currentUser)
	})

	tasks := suite.router.Group("/api/tasks")
	{
		tasks.POST("", handler.CreateTask)
		tasks.GET("/project/:project_id", handler.ListTasksByProject)
		tasks.GET("/:id", handler.GetTask)
		tasks.PUT("/:id", handler.UpdateTask)
		tasks.DELETE("/:id", handler.DeleteTask)
		tasks.PATCH("/:id/progress", handler.UpdateProgress)
		tasks.POST("/:id/assign", handler.AssignUser)
		tasks.DELETE("/:id/assign/:user_id", handler.UnassignUser)
	}

	// Every test starts from one shared project with one member.
	suite.owner = suite.createTestUser("owner@example.com")
	suite.member = suite.createTestUser("member@example.com")
	suite.project = &models.Project{
		Name:        "Gantt Project",
		Description: "Test Description",
		StartDate:   time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:     time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC),
		OwnerID:     suite.owner.ID,
	}
	suite.db.Create(suite.project)
	suite.db.Create(&models.ProjectMember{
		ProjectID: suite.project.ID,
		UserID:    suite.member.ID,
		AddedAt:   time.Now(),
	})
}

// TearDownTest runs after each test
func (suite *TaskHandlerTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

func (suite *TaskHandlerTestSuite) createTestUser(email string) *models.User {
	user := &models.User{
		Name:         "Test User",
		Email:        email,
		PasswordHash: "hashedpassword",
		Role:         models.RoleUser,
	}
	suite.db.Create(user)
	return user
}

func (suite *TaskHandlerTestSuite) createTestTask(name string) *models.Task {
	task := &models.Task{
		Name:      name,
		StartDate: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		ProjectID: suite.project.ID,
		Type:      models.TaskTypeTask,
	}
	suite.db.Create(task)
	return task
}

func (suite *TaskHandlerTestSuite) request(method, url string, payload interface{}) *httptest.ResponseRecorder {
	var body *bytes.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		suite.Require().NoError(err)
		body = bytes.NewReader(raw)
	} else {
		body = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, url, body)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

type taskResponse struct {
	Success bool `json:"success"`
	Data    struct {
		ID         uint64 `json:"id"`
		Name       string `json:"name"`
		Progress   int    `json:"progress"`
		Type       string `json:"type"`
		AssignedTo []struct {
			ID uint64 `json:"id"`
		} `json:"assigned_to"`
		Dependencies []struct {
			ID uint64 `json:"id"`
		} `json:"dependencies"`
	} `json:"data"`
}

func (suite *TaskHandlerTestSuite) decodeTask(w *httptest.ResponseRecorder) taskResponse {
	var response taskResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	return response
}

// Tests

func (suite *TaskHandlerTestSuite) TestCreateTask_DefaultsByMember() {
	suite.currentUser = suite.member.ID

	w := suite.request("POST", "/api/tasks", map[string]interface{}{
		"name":       "Design review",
		"start_date": "2024-02-01T00:00:00Z",
		"end_date":   "2024-02-15T00:00:00Z",
		"project_id": suite.project.ID,
	})

	assert.Equal(suite.T(), http.StatusCreated, w.Code)

	response := suite.decodeTask(w)
	assert.True(suite.T(), response.Success)
	assert.Equal(suite.T(), 0, response.Data.Progress)
	assert.Equal(suite.T(), string(models.TaskTypeTask), response.Data.Type)
	assert.NotNil(suite.T(), response.Data.AssignedTo)
	assert.Empty(suite.T(), response.Data.AssignedTo)
}

func (suite *TaskHandlerTestSuite) TestCreateTask_WithDependencies() {
	first := suite.createTestTask("First")
	suite.currentUser = suite.owner.ID

	w := suite.request("POST", "/api/tasks", map[string]interface{}{
		"name":         "Second",
		"start_date":   "2024-03-01T00:00:00Z",
		"end_date":     "2024-03-15T00:00:00Z",
		"project_id":   suite.project.ID,
		"dependencies": []uint64{first.ID, first.ID},
	})

	assert.Equal(suite.T(), http.StatusCreated, w.Code)

	response := suite.decodeTask(w)
	suite.Require().Len(response.Data.Dependencies, 1, "duplicate references collapse")
	assert.Equal(suite.T(), first.ID, response.Data.Dependencies[0].ID)
}

func (suite *TaskHandlerTestSuite) TestCreateTask_ProjectNotFound() {
	suite.currentUser = suite.owner.ID

	w := suite.request("POST", "/api/tasks", map[string]interface{}{
		"name":       "Orphan",
		"start_date": "2024-02-01T00:00:00Z",
		"end_date":   "2024-02-15T00:00:00Z",
		"project_id": 9999,
	})

	assert.Equal(suite.T(), http.StatusNotFound, w.Code)
}

func (suite *TaskHandlerTestSuite) TestCreateTask_StrangerForbidden() {
	stranger := suite.createTestUser("stranger@example.com")
	suite.currentUser = stranger.ID

	w := suite.request("POST", "/api/tasks", map[string]interface{}{
		"name":       "Intrusion",
		"start_date": "2024-02-01T00:00:00Z",
		"end_date":   "2024-02-15T00:00:00Z",
		"project_id": suite.project.ID,
	})

	assert.Equal(suite.T(), http.StatusForbidden, w.Code)
}

func (suite *TaskHandlerTestSuite) TestCreateTask_InvalidProgress() {
	suite.currentUser = suite.owner.ID

	w := suite.request("POST", "/api/tasks", map[string]interface{}{
		"name":       "Overdone",
		"start_date": "2024-02-01T00:00:00Z",
		"end_date":   "2024-02-15T00:00:00Z",
		"project_id": suite.project.ID,
		"progress":   150,
	})

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

func (suite *TaskHandlerTestSuite) TestCreateTask_InvalidType() {
	suite.currentUser = suite.owner.ID

	w := suite.request("POST", "/api/tasks", map[string]interface{}{
		"name":       "Whatever",
		"start_date": "2024-02-01T00:00:00Z",
		"end_date":   "2024-02-15T00:00:00Z",
		"project_id": suite.project.ID,
		"type":       "epic",
	})

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

func (suite *TaskHandlerTestSuite) TestListTasksByProject() {
	first := suite.createTestTask("First")
	second := suite.createTestTask("Second")
	suite.db.Create(&models.TaskDependency{TaskID: second.ID, DependsOnID: first.ID})

	suite.currentUser = suite.member.ID
	w := suite.request("GET", fmt.Sprintf("/api/tasks/project/%d", suite.project.ID), nil)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var response struct {
		Count int `json:"count"`
		Data  []struct {
			ID           uint64 `json:"id"`
			Dependencies []struct {
				ID uint64 `json:"id"`
			} `json:"dependencies"`
		} `json:"data"`
	}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	suite.Require().Equal(2, response.Count)
	assert.Equal(suite.T(), first.ID, response.Data[0].ID, "ordered by start date then id")
	suite.Require().Len(response.Data[1].Dependencies, 1)
	assert.Equal(suite.T(), first.ID, response.Data[1].Dependencies[0].ID)
}

func (suite *TaskHandlerTestSuite) TestListTasksByProject_StrangerForbidden() {
	stranger := suite.createTestUser("stranger@example.com")
	suite.createTestTask("Hidden")

	suite.currentUser = stranger.ID
	w := suite.request("GET", fmt.Sprintf("/api/tasks/project/%d", suite.project.ID), nil)

	assert.Equal(suite.T(), http.StatusForbidden, w.Code)
}

func (suite *TaskHandlerTestSuite) TestGetTask_StrangerForbidden() {
	stranger := suite.createTestUser("stranger@example.com")
	task := suite.createTestTask("Hidden")

	suite.currentUser = stranger.ID
	w := suite.request("GET", fmt.Sprintf("/api/tasks/%d", task.ID), nil)

	assert.Equal(suite.T(), http.StatusForbidden, w.Code)
}

func (suite *TaskHandlerTestSuite) TestGetTask_NotFound() {
	suite.currentUser = suite.owner.ID

	w := suite.request("GET", "/api/tasks/9999", nil)
	assert.Equal(suite.T(), http.StatusNotFound, w.Code)

	w = suite.request("GET", "/api/tasks/not-a-number", nil)
	assert.Equal(suite.T(), http.StatusNotFound, w.Code)
}

func (suite *TaskHandlerTestSuite) TestUpdateTask_MemberCanEdit() {
	task := suite.createTestTask("Draft")

	suite.currentUser = suite.member.ID
	w := suite.request("PUT", fmt.Sprintf("/api/tasks/%d", task.ID), map[string]interface{}{
		"name":     "Final",
		"progress": 40,
	})

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	response := suite.decodeTask(w)
	assert.Equal(suite.T(), "Final", response.Data.Name)
	assert.Equal(suite.T(), 40, response.Data.Progress)
}

func (suite *TaskHandlerTestSuite) TestUpdateTask_ReplacesDependencies() {
	first := suite.createTestTask("First")
	second := suite.createTestTask("Second")
	task := suite.createTestTask("Dependent")
	suite.db.Create(&models.TaskDependency{TaskID: task.ID, DependsOnID: first.ID})

	suite.currentUser = suite.owner.ID
	w := suite.request("PUT", fmt.Sprintf("/api/tasks/%d", task.ID), map[string]interface{}{
		"dependencies": []uint64{second.ID},
	})

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	response := suite.decodeTask(w)
	suite.Require().Len(response.Data.Dependencies, 1)
	assert.Equal(suite.T(), second.ID, response.Data.Dependencies[0].ID)
}

func (suite *TaskHandlerTestSuite) TestUpdateProgress_Boundaries() {
	task := suite.createTestTask("Metered")
	suite.currentUser = suite.member.ID
	url := fmt.Sprintf("/api/tasks/%d/progress", task.ID)

	for _, progress := range []int{-1, 101} {
		w := suite.request("PATCH", url, map[string]int{"progress": progress})
		assert.Equal(suite.T(), http.StatusBadRequest, w.Code, "progress %d", progress)
	}

	for _, progress := range []int{0, 100} {
		w := suite.request("PATCH", url, map[string]int{"progress": progress})
		assert.Equal(suite.T(), http.StatusOK, w.Code, "progress %d", progress)

		response := suite.decodeTask(w)
		assert.Equal(suite.T(), progress, response.Data.Progress)
	}
}

func (suite *TaskHandlerTestSuite) TestUpdateProgress_Missing() {
	task := suite.createTestTask("Metered")
	suite.currentUser = suite.member.ID

	w := suite.request("PATCH", fmt.Sprintf("/api/tasks/%d/progress", task.ID), map[string]string{})

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

func (suite *TaskHandlerTestSuite) TestUpdateProgress_OutOfRangeBeforeLookup() {
	suite.currentUser = suite.member.ID

	// Range failures win over missing tasks.
	w := suite.request("PATCH", "/api/tasks/9999/progress", map[string]int{"progress": 400})

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

func (suite *TaskHandlerTestSuite) TestDeleteTask_MemberForbidden() {
	task := suite.createTestTask("Protected")

	suite.currentUser = suite.member.ID
	w := suite.request("DELETE", fmt.Sprintf("/api/tasks/%d", task.ID), nil)

	assert.Equal(suite.T(), http.StatusForbidden, w.Code)

	var count int64
	suite.db.Model(&models.Task{}).Count(&count)
	assert.Equal(suite.T(), int64(1), count)
}

func (suite *TaskHandlerTestSuite) TestDeleteTask_OwnerSuccess() {
	task := suite.createTestTask("Doomed")
	suite.db.Create(&models.TaskAssignment{TaskID: task.ID, UserID: suite.member.ID})

	suite.currentUser = suite.owner.ID
	w := suite.request("DELETE", fmt.Sprintf("/api/tasks/%d", task.ID), nil)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var taskCount, assignmentCount int64
	suite.db.Model(&models.Task{}).Count(&taskCount)
	suite.db.Model(&models.TaskAssignment{}).Count(&assignmentCount)
	assert.Zero(suite.T(), taskCount)
	assert.Zero(suite.T(), assignmentCount)
}

func (suite *TaskHandlerTestSuite) TestAssignUser_OwnerAssignsMember() {
	task := suite.createTestTask("Shared work")

	suite.currentUser = suite.owner.ID
	w := suite.request("POST", fmt.Sprintf("/api/tasks/%d/assign", task.ID), map[string]uint64{
		"user_id": suite.member.ID,
	})

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	response := suite.decodeTask(w)
	suite.Require().Len(response.Data.AssignedTo, 1)
	assert.Equal(suite.T(), suite.member.ID, response.Data.AssignedTo[0].ID)
}

func (suite *TaskHandlerTestSuite) TestAssignUser_NonMemberRejected() {
	stranger := suite.createTestUser("stranger@example.com")
	task := suite.createTestTask("Members only")

	suite.currentUser = suite.owner.ID
	w := suite.request("POST", fmt.Sprintf("/api/tasks/%d/assign", task.ID), map[string]uint64{
		"user_id": stranger.ID,
	})

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

func (suite *TaskHandlerTestSuite) TestAssignUser_Duplicate() {
	task := suite.createTestTask("Once only")
	payload := map[string]uint64{"user_id": suite.member.ID}

	suite.currentUser = suite.owner.ID
	url := fmt.Sprintf("/api/tasks/%d/assign", task.ID)

	w := suite.request("POST", url, payload)
	assert.Equal(suite.T(), http.StatusOK, w.Code)

	w = suite.request("POST", url, payload)
	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

func (suite *TaskHandlerTestSuite) TestAssignUser_MissingUserID() {
	task := suite.createTestTask("Unaddressed")

	suite.currentUser = suite.owner.ID
	w := suite.request("POST", fmt.Sprintf("/api/tasks/%d/assign", task.ID), map[string]string{})

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

func (suite *TaskHandlerTestSuite) TestAssignUser_MemberForbidden() {
	task := suite.createTestTask("Owner gated")

	suite.currentUser = suite.member.ID
	w := suite.request("POST", fmt.Sprintf("/api/tasks/%d/assign", task.ID), map[string]uint64{
		"user_id": suite.member.ID,
	})

	assert.Equal(suite.T(), http.StatusForbidden, w.Code)
}

func (suite *TaskHandlerTestSuite) TestUnassignUser_Idempotent() {
	task := suite.createTestTask("Releasable")
	suite.db.Create(&models.TaskAssignment{TaskID: task.ID, UserID: suite.member.ID})

	suite.currentUser = suite.owner.ID
	url := fmt.Sprintf("/api/tasks/%d/assign/%d", task.ID, suite.member.ID)

	w := suite.request("DELETE", url, nil)
	assert.Equal(suite.T(), http.StatusOK, w.Code)
	assert.Empty(suite.T(), suite.decodeTask(w).Data.AssignedTo)

	w = suite.request("DELETE", url, nil)
	assert.Equal(suite.T(), http.StatusOK, w.Code)
	assert.Empty(suite.T(), suite.decodeTask(w).Data.AssignedTo)
}

func (suite *TaskHandlerTestSuite) TestReassignAfterUnassign() {
	task := suite.createTestTask("Revolving door")
	payload := map[string]uint64{"user_id": suite.member.ID}

	suite.currentUser = suite.owner.ID

	w := suite.request("POST", fmt.Sprintf("/api/tasks/%d/assign", task.ID), payload)
	suite.Require().Equal(http.StatusOK, w.Code)

	w = suite.request("DELETE", fmt.Sprintf("/api/tasks/%d/assign/%d", task.ID, suite.member.ID), nil)
	suite.Require().Equal(http.StatusOK, w.Code)

	w = suite.request("POST", fmt.Sprintf("/api/tasks/%d/assign", task.ID), payload)
	assert.Equal(suite.T(), http.StatusOK, w.Code)

	response := suite.decodeTask(w)
	suite.Require().Len(response.Data.AssignedTo, 1)
	assert.Equal(suite.T(), suite.member.ID, response.Data.AssignedTo[0].ID)
}

func TestTaskHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(TaskHandlerTestSuite))
}
