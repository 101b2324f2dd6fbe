package v1

import (
	"github.com/expenseflow/backend/internal/auth"
)

type LoginRequest struct {
	Email    string `json:"email" binding:"required" example:"jane@example.com"` // Email or login name of the employee
	Password string `json:"password" binding:"required" example:"secret"`        // Password of the employee
}

type RefreshRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"` // A refresh token from a previous login
}

type PasswordChangeRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"` // The current password
	NewPassword     string `json:"newPassword" binding:"required"`     // The new password
}

type TokenResponse struct {
	Data  *auth.TokenPair `json:"data"`  // The issued token pair
	Error *string         `json:"error"` // The error, if any occurred
}
