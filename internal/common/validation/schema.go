package validation

import (
	"fmt"
	"regexp"
	"strings"
)

// FormSchema defines the declarative validation rules for a screen form.
type FormSchema struct {
	Fields   map[string]Field `json:"fields"`
	Required []string         `json:"required,omitempty"`
}

type Field struct {
	Type      string   `json:"type"` // string, number, array, object, boolean
	Label     string   `json:"label,omitempty"`
	MinLength *int     `json:"minLength,omitempty"`
	MaxLength *int     `json:"maxLength,omitempty"`
	Minimum   *float64 `json:"minimum,omitempty"`
	Maximum   *float64 `json:"maximum,omitempty"`
	Pattern   *string  `json:"pattern,omitempty"`
	Enum      []string `json:"enum,omitempty"`
	MinItems  *int     `json:"minItems,omitempty"`
}

type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// FieldErrors returns the per-field error map used for inline rendering.
// The first error per field wins.
func (r *ValidationResult) FieldErrors() map[string]string {
	out := map[string]string{}
	for _, e := range r.Errors {
		if _, exists := out[e.Field]; !exists {
			out[e.Field] = e.Message
		}
	}
	return out
}

// GetErrorMessages returns all error messages in "field: message" form.
func (r *ValidationResult) GetErrorMessages() []string {
	msgs := make([]string, 0, len(r.Errors))
	for _, e := range r.Errors {
		msgs = append(msgs, fmt.Sprintf("%s: %s", e.Field, e.Message))
	}
	return msgs
}

// ValidateForm validates flat form values against a schema with detailed
// per-field errors. Required checks treat empty strings and empty arrays the
// same as absent values, matching how the screens treat untouched inputs.
func ValidateForm(values map[string]interface{}, schema FormSchema) *ValidationResult {
	errors := []ValidationError{}

	for _, requiredField := range schema.Required {
		value, exists := values[requiredField]
		if !exists || isEmpty(value) {
			errors = append(errors, ValidationError{
				Field:   requiredField,
				Message: fmt.Sprintf("%s is required", labelFor(schema, requiredField)),
				Code:    "REQUIRED_FIELD_MISSING",
			})
		}
	}

	for fieldName, value := range values {
		field, exists := schema.Fields[fieldName]
		if !exists || isEmpty(value) {
			continue
		}

		if fieldErrors := validateField(schema, fieldName, value, field); len(fieldErrors) > 0 {
			errors = append(errors, fieldErrors...)
		}
	}

	return &ValidationResult{
		Valid:  len(errors) == 0,
		Errors: errors,
	}
}

func labelFor(schema FormSchema, fieldName string) string {
	if field, ok := schema.Fields[fieldName]; ok && field.Label != "" {
		return field.Label
	}
	return fieldName
}

func isEmpty(value interface{}) bool {
	switch v := value.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(v) == ""
	case []string:
		return len(v) == 0
	case []interface{}:
		return len(v) == 0
	case []int64:
		return len(v) == 0
	default:
		return false
	}
}

func validateField(schema FormSchema, fieldName string, value interface{}, field Field) []ValidationError {
	errors := []ValidationError{}
	label := labelFor(schema, fieldName)

	if typeErr := validateType(value, field.Type); typeErr != nil {
		errors = append(errors, ValidationError{
			Field:   fieldName,
			Message: typeErr.Error(),
			Code:    "INVALID_TYPE",
		})
		return errors
	}

	if strVal, ok := value.(string); ok {
		if field.MinLength != nil && len(strVal) < *field.MinLength {
			errors = append(errors, ValidationError{
				Field:   fieldName,
				Message: fmt.Sprintf("%s must be at least %d characters", label, *field.MinLength),
				Code:    "MIN_LENGTH_VIOLATION",
			})
		}
		if field.MaxLength != nil && len(strVal) > *field.MaxLength {
			errors = append(errors, ValidationError{
				Field:   fieldName,
				Message: fmt.Sprintf("%s must be at most %d characters", label, *field.MaxLength),
				Code:    "MAX_LENGTH_VIOLATION",
			})
		}

		if field.Pattern != nil {
			matched, err := regexp.MatchString(*field.Pattern, strVal)
			if err != nil || !matched {
				errors = append(errors, ValidationError{
					Field:   fieldName,
					Message: fmt.Sprintf("%s has an invalid format", label),
					Code:    "PATTERN_MISMATCH",
				})
			}
		}

		if len(field.Enum) > 0 {
			found := false
			for _, enumVal := range field.Enum {
				if strVal == enumVal {
					found = true
					break
				}
			}
			if !found {
				errors = append(errors, ValidationError{
					Field:   fieldName,
					Message: fmt.Sprintf("%s must be one of %v", label, field.Enum),
					Code:    "ENUM_VIOLATION",
				})
			}
		}
	}

	if numVal, ok := toFloat(value); ok {
		if field.Minimum != nil && numVal < *field.Minimum {
			errors = append(errors, ValidationError{
				Field:   fieldName,
				Message: fmt.Sprintf("%s must be at least %v", label, *field.Minimum),
				Code:    "MINIMUM_VIOLATION",
			})
		}
		if field.Maximum != nil && numVal > *field.Maximum {
			errors = append(errors, ValidationError{
				Field:   fieldName,
				Message: fmt.Sprintf("%s must be at most %v", label, *field.Maximum),
				Code:    "MAXIMUM_VIOLATION",
			})
		}
	}

	if field.MinItems != nil {
		if n, ok := itemCount(value); ok && n < *field.MinItems {
			errors = append(errors, ValidationError{
				Field:   fieldName,
				Message: fmt.Sprintf("%s must have at least %d items", label, *field.MinItems),
				Code:    "MIN_ITEMS_VIOLATION",
			})
		}
	}

	return errors
}

func validateType(value interface{}, expected string) error {
	if expected == "" {
		return nil
	}
	switch expected {
	case "string":
		if _, ok := value.(string); !ok {
			return fmt.Errorf("value must be a string")
		}
	case "number":
		if _, ok := toFloat(value); !ok {
			return fmt.Errorf("value must be a number")
		}
	case "boolean":
		if _, ok := value.(bool); !ok {
			return fmt.Errorf("value must be a boolean")
		}
	case "array":
		if _, ok := itemCount(value); !ok {
			return fmt.Errorf("value must be an array")
		}
	case "object":
		if _, ok := value.(map[string]interface{}); !ok {
			return fmt.Errorf("value must be an object")
		}
	}
	return nil
}

func toFloat(value interface{}) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	default:
		return 0, false
	}
}

func itemCount(value interface{}) (int, bool) {
	switch v := value.(type) {
	case []interface{}:
		return len(v), true
	case []string:
		return len(v), true
	case []int64:
		return len(v), true
	default:
		return 0, false
	}
}

func IntPtr(v int) *int { return &v }

func FloatPtr(v float64) *float64 { return &v }

func StrPtr(v string) *string { return &v }
