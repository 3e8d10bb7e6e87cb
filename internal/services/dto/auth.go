package dto

import (
	"edulearn_backend/internal/models"
)

// RegisterRequest - запрос регистрации.
// niveauScolaire и section проверяются в сервисе в зависимости от роли.
type RegisterRequest struct {
	FirstName   string          `json:"prenom" validate:"required,not-blank,max=100"`
	LastName    string          `json:"nom" validate:"required,not-blank,max=100"`
	Email       string          `json:"email" validate:"required,email,max=191"`
	Phone       string          `json:"telephone" validate:"required,not-blank,max=30"`
	Role        models.UserRole `json:"role" validate:"required,is-public-role"`
	SchoolLevel string          `json:"niveauScolaire" validate:"max=20"`
	Section     string          `json:"section" validate:"max=50"`
	Password    string          `json:"motDePasse" validate:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"motDePasse" validate:"required"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required"`
}

type VerifyCodeRequest struct {
	Email string `json:"email" validate:"required"`
	Code  string `json:"code" validate:"required"`
}

// ResetPasswordRequest - длина нового пароля проверяется в сервисе
type ResetPasswordRequest struct {
	Email       string `json:"email" validate:"required"`
	Code        string `json:"code" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required"`
}

// UserResponse - профиль пользователя без хеша пароля
type UserResponse struct {
	ID          uint            `json:"id"`
	FirstName   string          `json:"prenom"`
	LastName    string          `json:"nom"`
	Email       string          `json:"email"`
	Phone       string          `json:"telephone,omitempty"`
	Role        models.UserRole `json:"role"`
	SchoolLevel *string         `json:"niveauScolaire"`
	Section     *string         `json:"section"`
}

func NewUserResponse(u *models.User) UserResponse {
	return UserResponse{
		ID:          u.ID,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		Email:       u.Email,
		Phone:       u.Phone,
		Role:        u.Role,
		SchoolLevel: nullable(u.SchoolLevel),
		Section:     nullable(u.Section),
	}
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

type RegisterResponse struct {
	Message string       `json:"message"`
	User    UserResponse `json:"user"`
}

type LoginResponse struct {
	Message string       `json:"message"`
	Token   string       `json:"token"`
	User    UserResponse `json:"user"`
}

type VerifyCodeResponse struct {
	Message  string `json:"message"`
	Verified bool   `json:"verified"`
}

type MessageResponse struct {
	Message string `json:"message"`
}
