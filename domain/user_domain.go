package domain

import (
	"errors"
)

var (
	MessageSuccessRegister = "user registered successfully"
	MessageSuccessLogin    = "login success"
	MessageSuccessMe       = "user retrieved successfully"

	MessageFailedRegister = "failed to register user"
	MessageFailedLogin    = "failed to login"
	MessageFailedMe       = "failed to retrieve user"

	ErrEmailAlreadyRegistered = errors.New("email already registered")
	ErrCredentialsInvalid     = errors.New("incorrect email or password")
	ErrUserNotFound           = errors.New("user not found")
	ErrHashPassword           = errors.New("failed to hash password")
)

type (
	RegisterRequest struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required,min=8"`
	}

	RegisterResponse struct {
		ID    string `json:"id"`
		Email string `json:"email"`
	}

	LoginRequest struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required"`
	}

	LoginResponse struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
	}

	MeResponse struct {
		ID       string `json:"id"`
		Email    string `json:"email"`
		IsActive bool   `json:"is_active"`
	}
)
