package generate

import (
	"fmt"

	"github.com/xeipuuv/gojsonschema"
)

// JSON Schemas for structured model output. Responses are validated before
// decoding so a malformed generation surfaces as a GenerationError instead
// of a half-populated struct.
const (
	questionSetSchema = `{
		"type": "array",
		"items": {"type": "string", "minLength": 1},
		"minItems": 1
	}`

	answerFeedbackSchema = `{
		"type": "object",
		"required": ["score", "feedback"],
		"properties": {
			"score": {"type": "number", "minimum": 0, "maximum": 10},
			"feedback": {"type": "string", "minLength": 1},
			"key_strength": {"type": "string"},
			"improvement_area": {"type": "string"}
		}
	}`

	analysisSchema = `{
		"type": "object",
		"required": ["technical_score", "communication_score", "problem_solving_score", "summary"],
		"properties": {
			"technical_score": {"type": "number", "minimum": 0, "maximum": 10},
			"communication_score": {"type": "number", "minimum": 0, "maximum": 10},
			"problem_solving_score": {"type": "number", "minimum": 0, "maximum": 10},
			"key_strengths": {"type": "array", "items": {"type": "string"}},
			"growth_areas": {"type": "array", "items": {"type": "string"}},
			"recommendations": {"type": "array", "items": {"type": "string"}},
			"summary": {"type": "string", "minLength": 1}
		}
	}`

	profileSchema = `{
		"type": "object",
		"required": ["full_name", "email"],
		"properties": {
			"full_name": {"type": "string", "minLength": 1},
			"email": {"type": "string", "minLength": 3},
			"phone": {"type": "string"},
			"years_experience": {"type": "integer", "minimum": 0},
			"desired_position": {"type": "string"},
			"location": {"type": "string"},
			"tech_stack": {"type": "array", "items": {"type": "string"}}
		}
	}`

	profileUpdateSchema = `{
		"type": "object",
		"required": ["action"],
		"properties": {
			"action": {"type": "string", "enum": ["confirm", "update", "unclear"]},
			"field": {"type": "string"},
			"value": {"type": "string"}
		}
	}`
)

// validateAgainst checks a raw JSON document against a schema and returns a
// descriptive error listing every violation.
func validateAgainst(schema, document string) error {
	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(schema),
		gojsonschema.NewStringLoader(document),
	)
	if err != nil {
		return fmt.Errorf("schema validation: %w", err)
	}
	if result.Valid() {
		return nil
	}
	msg := "response does not match schema:"
	for _, desc := range result.Errors() {
		msg += fmt.Sprintf(" %s;", desc)
	}
	return fmt.Errorf("%s", msg)
}
