package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrType represents different types of errors
type ErrType string

const (
	// ErrTypeUsage represents command line misuse (missing region, bad tokens)
	ErrTypeUsage ErrType = "usage"
	// ErrTypeCompile represents filter compilation errors
	ErrTypeCompile ErrType = "compile"
	// ErrTypeProvider represents failures from the cloud provider
	ErrTypeProvider ErrType = "provider"
	// ErrTypeConfig represents configuration errors
	ErrTypeConfig ErrType = "config"
	// ErrTypeValidation represents validation errors
	ErrTypeValidation ErrType = "validation"
)

// ReaperError represents a custom error with context
type ReaperError struct {
	Type       ErrType
	Message    string
	Underlying error
	Context    map[string]interface{}
}

// Error implements the error interface
func (e *ReaperError) Error() string {
	if e.Underlying != nil {
		return fmt.Sprintf("%s error: %s (caused by: %v)", e.Type, e.Message, e.Underlying)
	}
	return fmt.Sprintf("%s error: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error
func (e *ReaperError) Unwrap() error {
	return e.Underlying
}

// New creates a new ReaperError
func New(errType ErrType, message string) *ReaperError {
	return &ReaperError{
		Type:    errType,
		Message: message,
		Context: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error with a ReaperError
func Wrap(errType ErrType, message string, err error) *ReaperError {
	return &ReaperError{
		Type:       errType,
		Message:    message,
		Underlying: err,
		Context:    make(map[string]interface{}),
	}
}

// WithContext adds context to the error
func (e *ReaperError) WithContext(key string, value interface{}) *ReaperError {
	e.Context[key] = value
	return e
}

// Is reports whether any error in err's chain is a ReaperError of the given type.
func Is(err error, errType ErrType) bool {
	var re *ReaperError
	if !stderrors.As(err, &re) {
		return false
	}
	return re.Type == errType
}

// Common error constructors
func NewUsageError(message string) *ReaperError {
	return New(ErrTypeUsage, message)
}

func NewCompileError(message string, err error) *ReaperError {
	if err != nil {
		return Wrap(ErrTypeCompile, message, err)
	}
	return New(ErrTypeCompile, message)
}

func NewProviderError(message string, err error) *ReaperError {
	if err != nil {
		return Wrap(ErrTypeProvider, message, err)
	}
	return New(ErrTypeProvider, message)
}

func NewConfigError(message string, err error) *ReaperError {
	if err != nil {
		return Wrap(ErrTypeConfig, message, err)
	}
	return New(ErrTypeConfig, message)
}

func NewValidationError(message string) *ReaperError {
	return New(ErrTypeValidation, message)
}
