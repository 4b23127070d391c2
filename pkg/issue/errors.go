package issue

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorType represents the type of error that occurred
type ErrorType int

const (
	// ErrorTypeConfiguration indicates the batch input could not be loaded
	ErrorTypeConfiguration ErrorType = iota
	// ErrorTypePermission indicates a permission/authorization error
	ErrorTypePermission
	// ErrorTypeNetwork indicates a network connectivity error or timeout
	ErrorTypeNetwork
	// ErrorTypeNotFound indicates a resource was not found
	ErrorTypeNotFound
	// ErrorTypeAPI indicates a general API error
	ErrorTypeAPI
)

// IssueError represents a structured error with type and suggestion
type IssueError struct {
	Type       ErrorType
	Message    string
	Cause      error
	Suggestion string

	// Populated for API errors when a response was received
	StatusCode int
	Details    map[string]interface{}
	Response   string
}

// Error implements the error interface
func (e *IssueError) Error() string {
	var parts []string

	if e.Message != "" {
		parts = append(parts, e.Message)
	}

	if e.Cause != nil {
		parts = append(parts, fmt.Sprintf("caused by: %v", e.Cause))
	}

	return strings.Join(parts, ": ")
}

// Unwrap returns the underlying error
func (e *IssueError) Unwrap() error {
	return e.Cause
}

// Is checks if the error is of a specific type
func (e *IssueError) Is(target error) bool {
	t, ok := target.(*IssueError)
	if !ok {
		return false
	}
	return e.Type == t.Type
}

// Raw returns the text of the underlying failure
func (e *IssueError) Raw() string {
	if e.Cause != nil {
		return e.Cause.Error()
	}
	return e.Message
}

// IsConfiguration reports whether err is a configuration error
func IsConfiguration(err error) bool {
	var issueErr *IssueError
	return errors.As(err, &issueErr) && issueErr.Type == ErrorTypeConfiguration
}

// NewConfigurationError creates a new configuration error
func NewConfigurationError(message string, cause error) *IssueError {
	return &IssueError{
		Type:       ErrorTypeConfiguration,
		Message:    message,
		Cause:      cause,
		Suggestion: "Check that the batch file exists and has repository, assignee and issues keys",
	}
}

// NewPermissionError creates a new permission error
func NewPermissionError(message string, cause error) *IssueError {
	return &IssueError{
		Type:       ErrorTypePermission,
		Message:    message,
		Cause:      cause,
		Suggestion: "Check that the token has the repo scope and write access to the repository",
	}
}

// NewNetworkError creates a new network error
func NewNetworkError(message string, cause error) *IssueError {
	return &IssueError{
		Type:       ErrorTypeNetwork,
		Message:    message,
		Cause:      cause,
		Suggestion: "Check your internet connection and try again",
	}
}

// NewNotFoundError creates a new not found error
func NewNotFoundError(resource string, cause error) *IssueError {
	return &IssueError{
		Type:       ErrorTypeNotFound,
		Message:    fmt.Sprintf("%s not found", resource),
		Cause:      cause,
		Suggestion: fmt.Sprintf("Check that the %s exists and you have access to it", resource),
	}
}

// NewAPIError creates a new general API error
func NewAPIError(message string, cause error) *IssueError {
	return &IssueError{
		Type:       ErrorTypeAPI,
		Message:    message,
		Cause:      cause,
		Suggestion: "Check GitHub status at https://www.githubstatus.com/ and try again",
	}
}
