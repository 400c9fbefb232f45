package domain

import (
	"errors"
	"os"
)

const (
	StatusProcessing = "processing"
	StatusProcessed  = "processed"
)

var (
	MessageFailedProcessRequest = "failed to process request"
	MessageFailedBodyRequest    = "failed to parse request body"
	MessageFailedGetToken       = "failed to get token"
	MessageFailedTokenInvalid   = "failed to token invalid"
	MessageFailedAuthorize      = "failed to authorize request"

	JwtSecret = os.Getenv("JWT_SECRET")

	ErrParseUUID     = errors.New("failed to parse UUID")
	ErrTokenNotFound = errors.New("failed to token not found")
	ErrTokenExpired  = errors.New("token expired")
	ErrTokenInvalid  = errors.New("token invalid")
)
