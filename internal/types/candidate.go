// Package types provides type definitions for structured data used throughout the hiring-assistant system.
package types

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// CandidateProfile represents the identity and metadata for one interview subject.
// Created once at intake from the extracted resume; immutable after the candidate
// confirms it, except for explicit corrections while the conversation is still in
// the intro phase.
type CandidateProfile struct {
	ID              uuid.UUID `json:"id"`
	Email           string    `json:"email" validate:"required,email"`
	FullName        string    `json:"full_name" validate:"required,min=1"`
	Phone           string    `json:"phone,omitempty"`
	YearsExperience int       `json:"years_experience" validate:"gte=0"`
	DesiredPosition string    `json:"desired_position,omitempty"`
	Location        string    `json:"location,omitempty"`
	TechStack       []string  `json:"tech_stack,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

// Validate validates the profile using the validator.
func (p *CandidateProfile) Validate() error {
	validate := validator.New()
	return validate.Struct(p)
}

// PrimaryTechnology returns the first tech stack entry, or a generic default
// when the stack is empty. Used to fill fallback question templates.
func (p *CandidateProfile) PrimaryTechnology() string {
	if len(p.TechStack) > 0 {
		return p.TechStack[0]
	}
	return "programming"
}

// updatableFields maps candidate-facing field names to setters.
// Only these fields accept corrections during the confirmation loop.
var updatableFields = map[string]func(*CandidateProfile, string){
	"full_name":        func(p *CandidateProfile, v string) { p.FullName = v },
	"phone":            func(p *CandidateProfile, v string) { p.Phone = v },
	"desired_position": func(p *CandidateProfile, v string) { p.DesiredPosition = v },
	"location":         func(p *CandidateProfile, v string) { p.Location = v },
}

// ApplyCorrection applies a candidate-initiated correction to a named field.
// Returns false if the field is not correctable.
func (p *CandidateProfile) ApplyCorrection(field, value string) bool {
	set, ok := updatableFields[strings.ToLower(strings.TrimSpace(field))]
	if !ok {
		return false
	}
	set(p, strings.TrimSpace(value))
	return true
}

// ParseTechStack decodes a tech stack stored as a JSON array.
// Malformed input is a recoverable condition: the caller receives an empty
// stack and a ValidationError describing the problem.
func ParseTechStack(raw string) ([]string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return []string{}, nil
	}

	var stack []string
	if err := json.Unmarshal([]byte(raw), &stack); err != nil {
		return []string{}, &ValidationError{Field: "tech_stack", Message: "not a valid JSON string array"}
	}

	cleaned := make([]string, 0, len(stack))
	for _, s := range stack {
		if s = strings.TrimSpace(s); s != "" {
			cleaned = append(cleaned, s)
		}
	}
	return cleaned, nil
}
