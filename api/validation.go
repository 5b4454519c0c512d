// Package api provides the HTTP surface of the dictionary engine.
package api

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/cmorgan-dev/go-dict-engine/model"
)

// ValidationError represents a validation error with field context
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationResult holds the result of validation operations
type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

// AddError adds a validation error to the result
func (vr *ValidationResult) AddError(field, message string) {
	vr.Valid = false
	vr.Errors = append(vr.Errors, ValidationError{
		Field:   field,
		Message: message,
	})
}

// HasErrors returns true if there are validation errors
func (vr *ValidationResult) HasErrors() bool {
	return len(vr.Errors) > 0
}

// ValidateQuery validates a search query string
func ValidateQuery(query string) *ValidationResult {
	result := &ValidationResult{Valid: true}

	if strings.TrimSpace(query) == "" {
		result.AddError("query", "Query is required")
	}
	return result
}

// profileIDParam parses a profile id path parameter. The second return is
// false when the parameter is not a valid id; a response has already been
// written in that case.
func profileIDParam(c *gin.Context, name string) (model.ProfileID, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseInt(raw, 10, 32)
	if err != nil {
		result := &ValidationResult{Valid: true}
		result.AddError(name, "must be an integer profile id")
		SendStructuredValidationError(c, result)
		return 0, false
	}
	return model.ProfileID(id), true
}

// intPathParam parses an integer path parameter.
func intPathParam(c *gin.Context, name string) (int, bool) {
	v, err := strconv.Atoi(c.Param(name))
	if err != nil {
		result := &ValidationResult{Valid: true}
		result.AddError(name, "must be an integer")
		SendStructuredValidationError(c, result)
		return 0, false
	}
	return v, true
}

// intQuery parses an integer query parameter with a default.
func intQuery(c *gin.Context, name string, def int) (int, bool) {
	raw := c.Query(name)
	if raw == "" {
		return def, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		result := &ValidationResult{Valid: true}
		result.AddError(name, "must be an integer")
		SendStructuredValidationError(c, result)
		return 0, false
	}
	return v, true
}
