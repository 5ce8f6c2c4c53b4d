package constants

// Context keys
const (
	ContextKeyUserID = "user_id"
)

// Validation limits
const (
	MinPasswordLength        = 6
	MaxUserNameLength        = 50
	MaxNameLength            = 100
	MaxDescriptionLength     = 500
	MinProgress              = 0
	MaxProgress              = 100
)

// Pagination
const (
	MinPageSize     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)
