package profile

import "github.com/nutrilog/server/internal/module/auth"

// RegisterRequest is the registration payload.
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Name     string `json:"name" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginRequest is the login payload.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RefreshRequest exchanges a refresh token for a new token pair.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// UpdateProfileRequest carries the editable body metrics.
type UpdateProfileRequest struct {
	HeightCm      float64       `json:"height_cm" binding:"required,gt=0"`
	WeightKg      float64       `json:"weight_kg" binding:"required,gt=0"`
	Age           int           `json:"age" binding:"required,gt=0"`
	Sex           Sex           `json:"sex" binding:"required"`
	ActivityLevel ActivityLevel `json:"activity_level" binding:"required"`
	Goal          Goal          `json:"goal" binding:"required"`
}

// UserResponse is the public view of a user.
type UserResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// ToResponse converts a user to its public view.
func (u *User) ToResponse() UserResponse {
	return UserResponse{
		ID:    u.ID.String(),
		Email: u.Email,
		Name:  u.Name,
	}
}

// AuthResponse is returned on register, login and refresh.
type AuthResponse struct {
	User   UserResponse   `json:"user"`
	Tokens auth.TokenPair `json:"tokens"`
}
