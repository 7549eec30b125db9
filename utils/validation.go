package utils

import (
	"fmt"
	"html"
	"regexp"
	"strings"
)

// FieldValidationError represents a validation error for a specific field
type FieldValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// FieldValidationErrors represents multiple field validation errors
type FieldValidationErrors []FieldValidationError

// Error implements the error interface
func (e FieldValidationErrors) Error() string {
	var messages []string
	for _, err := range e {
		messages = append(messages, fmt.Sprintf("%s: %s", err.Field, err.Message))
	}
	return strings.Join(messages, "; ")
}

var (
	emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	phoneRegex = regexp.MustCompile(`^\+?[1-9]\d{1,14}$`)
)

// SanitizeString removes potentially dangerous characters and HTML tags
func SanitizeString(input string) string {
	sanitized := html.EscapeString(input)

	htmlTagRegex := regexp.MustCompile(`<[^>]*>`)
	sanitized = htmlTagRegex.ReplaceAllString(sanitized, "")

	return strings.TrimSpace(sanitized)
}

// ValidateEmail checks that an email address is well formed
func ValidateEmail(email string) bool {
	return emailRegex.MatchString(email)
}

// ValidatePhone checks a phone number in loose E.164 form; empty is allowed
func ValidatePhone(phone string) bool {
	if phone == "" {
		return true
	}
	return phoneRegex.MatchString(phone)
}

// ValidateJoinInput validates the signup fields and returns per-field errors
func ValidateJoinInput(email, name string, phone string) FieldValidationErrors {
	var errs FieldValidationErrors
	if !ValidateEmail(email) {
		errs = append(errs, FieldValidationError{Field: "email", Message: "Invalid email format"})
	}
	if len(strings.TrimSpace(name)) < MinNameLength {
		errs = append(errs, FieldValidationError{Field: "name", Message: fmt.Sprintf("Name must be at least %d characters", MinNameLength)})
	}
	if !ValidatePhone(phone) {
		errs = append(errs, FieldValidationError{Field: "phone", Message: "Invalid phone number format"})
	}
	return errs
}
