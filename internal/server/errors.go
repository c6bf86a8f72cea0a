// Package server provides the HTTP REST API for the hiring assistant.
package server

import (
	"net/http"

	"github.com/talentscout/hiring-assistant/internal/interview"
	"github.com/talentscout/hiring-assistant/internal/llm"
	"github.com/talentscout/hiring-assistant/internal/types"
)

// ErrInvalidCredentials indicates invalid login credentials
type ErrInvalidCredentials struct{}

func (e *ErrInvalidCredentials) Error() string {
	return "invalid email or password"
}

// ErrEmailAlreadyExists indicates email is already registered
type ErrEmailAlreadyExists struct {
	Email string
}

func (e *ErrEmailAlreadyExists) Error() string {
	return "email already registered: " + e.Email
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	switch err.(type) {
	case *interview.NotFoundError:
		return http.StatusNotFound
	case *types.ValidationError:
		return http.StatusBadRequest
	case *llm.GenerationError:
		return http.StatusBadGateway
	case *interview.PersistenceError:
		return http.StatusServiceUnavailable
	case *ErrInvalidCredentials:
		return http.StatusUnauthorized
	case *ErrEmailAlreadyExists:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
