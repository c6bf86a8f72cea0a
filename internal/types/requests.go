package types

import (
	"github.com/go-playground/validator/v10"
)

// MessageRequest is the body of the single conversation entry point.
type MessageRequest struct {
	Text string `json:"text" validate:"required,min=1"`
}

// ConfirmRequest confirms the extracted profile or requests a correction.
// Text carries the candidate's free-form reply ("yes", or e.g. "update my
// location to Mumbai").
type ConfirmRequest struct {
	Text string `json:"text" validate:"required,min=1"`
}

// LoginRequest is a manager login request.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// ManagerActionRequest records a review decision for a candidate.
type ManagerActionRequest struct {
	Action string `json:"action" validate:"required,oneof=shortlist reject hold note"`
	Notes  string `json:"notes,omitempty"`
}

// Validate validates the MessageRequest using the validator.
func (r *MessageRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// Validate validates the ConfirmRequest using the validator.
func (r *ConfirmRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// Validate validates the LoginRequest using the validator.
func (r *LoginRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// Validate validates the ManagerActionRequest using the validator.
func (r *ManagerActionRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}
