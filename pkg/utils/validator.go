package utils

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/turtacn/fedicore/pkg/constants"
	"github.com/turtacn/fedicore/pkg/errors"
)

var (
	usernamePattern = regexp.MustCompile(fmt.Sprintf(`^[a-zA-Z0-9_.-]{1,%d}$`, constants.MaxUsernameLength))
	noteIDPattern   = regexp.MustCompile(fmt.Sprintf(`^[a-zA-Z0-9_-]{1,%d}$`, constants.MaxNoteIDLength))
)

// defaultValidator holds the singleton instance of the validator.
var defaultValidator *validator.Validate

func init() {
	defaultValidator = validator.New()
	_ = defaultValidator.RegisterValidation("username", validateUsername)
	_ = defaultValidator.RegisterValidation("noteid", validateNoteID)
	_ = defaultValidator.RegisterValidation("httpurl", validateHTTPURL)
}

// ValidateStruct validates a struct using the default validator.
// The first failing field is reported as an invalid_request error.
func ValidateStruct(s interface{}) error {
	err := defaultValidator.Struct(s)
	if err == nil {
		return nil
	}
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok || len(validationErrors) == 0 {
		return errors.ErrInvalidParameter("body", err.Error())
	}
	fe := validationErrors[0]
	return errors.ErrInvalidParameter(toSnakeCase(fe.Field()), formatValidationError(fe))
}

// ValidateUsername checks a local account name.
func ValidateUsername(username string) error {
	if defaultValidator.Var(username, "required,username") != nil {
		return errors.ErrInvalidParameter("username", "must be 1-64 letters, digits, '.', '_' or '-' and not only dots")
	}
	return nil
}

// ValidateNoteID checks a caller-supplied note id.
func ValidateNoteID(noteID string) error {
	if defaultValidator.Var(noteID, "required,noteid") != nil {
		return errors.ErrInvalidParameter("note_id", "must be 1-128 letters, digits, '_' or '-'")
	}
	return nil
}

// validateUsername rejects "." and ".." style names, which would rewrite the actor path.
func validateUsername(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	return usernamePattern.MatchString(s) && strings.Trim(s, ".") != ""
}

func validateNoteID(fl validator.FieldLevel) bool {
	return noteIDPattern.MatchString(fl.Field().String())
}

func validateHTTPURL(fl validator.FieldLevel) bool {
	return IsAbsoluteHTTPURL(fl.Field().String())
}

// IsAbsoluteHTTPURL reports whether s is an absolute http(s) URL with a host.
func IsAbsoluteHTTPURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// formatValidationError creates a user-friendly error message for a validation error.
func formatValidationError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "httpurl":
		return "must be an absolute http(s) URL"
	case "username":
		return "must be a valid username"
	case "noteid":
		return "must be a valid note id"
	case "max":
		return fmt.Sprintf("must be at most %s", fe.Param())
	default:
		return fmt.Sprintf("failed on the '%s' tag", fe.Tag())
	}
}

// toSnakeCase converts a string from CamelCase to snake_case.
func toSnakeCase(str string) string {
	matchFirstCap := regexp.MustCompile("(.)([A-Z][a-z]+)")
	matchAllCap := regexp.MustCompile("([a-z0-9])([A-Z])")
	snake := matchFirstCap.ReplaceAllString(str, "${1}_${2}")
	snake = matchAllCap.ReplaceAllString(snake, "${1}_${2}")
	return strings.ToLower(snake)
}
