package utils

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/mkobari/gantt-project-api/internal/constants"
)

// PaginationParams holds the pagination parameters
type PaginationParams struct {
	Page   int
	Limit  int
	Offset int
}

// OptionalPagination extracts pagination parameters from the request.
// Lists without page/limit query parameters return the full result set,
// so absence of both yields nil.
func OptionalPagination(c *gin.Context) *PaginationParams {
	pageStr := c.Query("page")
	limitStr := c.Query("limit")
	if pageStr == "" && limitStr == "" {
		return nil
	}

	page, _ := strconv.Atoi(pageStr)
	limit, _ := strconv.Atoi(limitStr)

	if page < constants.MinPageSize {
		page = constants.MinPageSize
	}
	if limit < constants.MinPageSize || limit > constants.MaxPageSize {
		limit = constants.DefaultPageSize
	}

	return &PaginationParams{
		Page:   page,
		Limit:  limit,
		Offset: (page - 1) * limit,
	}
}
