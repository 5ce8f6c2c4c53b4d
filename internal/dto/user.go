package dto

import "github.com/mkobari/gantt-project-api/internal/models"

// UserDTO represents a user in API responses
type UserDTO struct {
	ID    uint64          `json:"id"`
	Name  string          `json:"name"`
	Email string          `json:"email"`
	Role  models.UserRole `json:"role"`
}

// AuthUserDTO is a user payload carrying a freshly signed bearer token
type AuthUserDTO struct {
	UserDTO
	Token string `json:"token"`
}

// ToUserDTO converts a User model to UserDTO
func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:    user.ID,
		Name:  user.Name,
		Email: user.Email,
		Role:  user.Role,
	}
}

// ToAuthUserDTO converts a User model and token to AuthUserDTO
func ToAuthUserDTO(user models.User, token string) AuthUserDTO {
	return AuthUserDTO{
		UserDTO: ToUserDTO(user),
		Token:   token,
	}
}
