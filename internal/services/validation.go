package services

import (
	"fmt"
	"strings"

	"github.com/mkobari/gantt-project-api/internal/constants"
	"github.com/mkobari/gantt-project-api/internal/models"
)

// ValidationError marks a malformed or out-of-range payload. Handlers map
// it to a 400 response carrying the message.
type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string {
	return e.msg
}

// NewValidationError creates a ValidationError with the given message
func NewValidationError(msg string) error {
	return &ValidationError{msg: msg}
}

func validateEntityName(name, entity string) (string, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return "", NewValidationError(fmt.Sprintf("Please add a %s name", entity))
	}
	if len(trimmed) > constants.MaxNameLength {
		return "", NewValidationError(fmt.Sprintf("Name cannot be more than %d characters", constants.MaxNameLength))
	}
	return trimmed, nil
}

func validateDescription(description string, required bool) error {
	if required && description == "" {
		return NewValidationError("Please add a description")
	}
	if len(description) > constants.MaxDescriptionLength {
		return NewValidationError(fmt.Sprintf("Description cannot be more than %d characters", constants.MaxDescriptionLength))
	}
	return nil
}

func validateProgress(progress int) error {
	if progress < constants.MinProgress || progress > constants.MaxProgress {
		return NewValidationError("Progress must be a number between 0 and 100")
	}
	return nil
}

func validateTaskType(t models.TaskType) error {
	if !models.ValidTaskType(t) {
		return NewValidationError("Type must be one of: task, milestone, project")
	}
	return nil
}
