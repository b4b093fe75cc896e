package app

import "fmt"

// AppErrorType represents the pipeline stage that failed.
type AppErrorType int

const (
	// ValidationFailed indicates invalid options or configuration.
	ValidationFailed AppErrorType = iota
	// CatalogFailed indicates the catalog could not be listed.
	CatalogFailed
	// SelectionFailed indicates no template was chosen.
	SelectionFailed
	// FetchFailed indicates the chosen template could not be retrieved.
	FetchFailed
	// SubstitutionFailed indicates project name substitution failed.
	SubstitutionFailed
	// MaterializeFailed indicates writing the template failed.
	MaterializeFailed
	// PostProcessFailed indicates git init or README clearing failed.
	PostProcessFailed
)

// String returns the string representation of the error type.
func (t AppErrorType) String() string {
	switch t {
	case ValidationFailed:
		return "validation"
	case CatalogFailed:
		return "catalog"
	case SelectionFailed:
		return "selection"
	case FetchFailed:
		return "fetch"
	case SubstitutionFailed:
		return "substitution"
	case MaterializeFailed:
		return "materialize"
	case PostProcessFailed:
		return "post-process"
	default:
		return "unknown"
	}
}

// AppError represents an application-layer error.
type AppError struct {
	// Type is the error type.
	Type AppErrorType
	// Message is the error message.
	Message string
	// Cause is the underlying error.
	Cause error
}

// Error returns the error message.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *AppError) Unwrap() error {
	return e.Cause
}

// NewAppError creates a new AppError.
func NewAppError(errType AppErrorType, message string, cause error) *AppError {
	return &AppError{
		Type:    errType,
		Message: message,
		Cause:   cause,
	}
}

// NewValidationError creates a validation error.
func NewValidationError(message string, cause error) *AppError {
	return NewAppError(ValidationFailed, message, cause)
}

// NewCatalogError creates a catalog error.
func NewCatalogError(message string, cause error) *AppError {
	return NewAppError(CatalogFailed, message, cause)
}

// NewSelectionError creates a selection error.
func NewSelectionError(message string, cause error) *AppError {
	return NewAppError(SelectionFailed, message, cause)
}

// NewFetchError creates a template fetch error.
func NewFetchError(message string, cause error) *AppError {
	return NewAppError(FetchFailed, message, cause)
}

// NewSubstitutionError creates a substitution error.
func NewSubstitutionError(message string, cause error) *AppError {
	return NewAppError(SubstitutionFailed, message, cause)
}

// NewMaterializeError creates a materialization error.
func NewMaterializeError(message string, cause error) *AppError {
	return NewAppError(MaterializeFailed, message, cause)
}

// NewPostProcessError creates a post-processing error.
func NewPostProcessError(message string, cause error) *AppError {
	return NewAppError(PostProcessFailed, message, cause)
}
