package provider

import (
	"errors"
	"fmt"
)

// ProviderErrorType represents the type of provider error.
type ProviderErrorType int

const (
	// ProviderFetchFailed indicates the source could not be read for a non-transport reason.
	ProviderFetchFailed ProviderErrorType = iota
	// ProviderNotFound indicates the repository, ref, or template path does not exist.
	ProviderNotFound
	// ProviderAuthFailed indicates authentication failed (e.g., private repo).
	ProviderAuthFailed
	// ProviderTimeout indicates the operation timed out.
	ProviderTimeout
	// ProviderNetwork indicates the remote was unreachable or failed transiently.
	ProviderNetwork
	// ProviderInvalidURL indicates the catalog location format is invalid.
	ProviderInvalidURL
)

// String returns the string representation of the error type.
func (t ProviderErrorType) String() string {
	switch t {
	case ProviderFetchFailed:
		return "FetchFailed"
	case ProviderNotFound:
		return "NotFound"
	case ProviderAuthFailed:
		return "AuthFailed"
	case ProviderTimeout:
		return "Timeout"
	case ProviderNetwork:
		return "Network"
	case ProviderInvalidURL:
		return "InvalidURL"
	default:
		return "Unknown"
	}
}

// ProviderError represents a provider-specific error.
type ProviderError struct {
	// Type is the error type classification.
	Type ProviderErrorType
	// Message is the human-readable error message.
	Message string
	// Provider is the provider name (e.g., "github", "git", "local").
	Provider string
	// URL is the location that caused the error.
	URL string
	// Cause is the underlying error, if any.
	Cause error
}

// Error implements the error interface.
func (e *ProviderError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s provider error [%s] for '%s': %s (caused by: %v)",
			e.Provider, e.Type.String(), e.URL, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s provider error [%s] for '%s': %s",
		e.Provider, e.Type.String(), e.URL, e.Message)
}

// Unwrap returns the underlying cause for error wrapping.
func (e *ProviderError) Unwrap() error {
	return e.Cause
}

// IsNetwork reports whether the error is a transport failure (unreachable, timeout, auth).
func (e *ProviderError) IsNetwork() bool {
	switch e.Type {
	case ProviderNetwork, ProviderTimeout, ProviderAuthFailed:
		return true
	}
	return false
}

// NewProviderError creates a new ProviderError.
func NewProviderError(typ ProviderErrorType, provider, url, message string, cause error) *ProviderError {
	return &ProviderError{
		Type:     typ,
		Message:  message,
		Provider: provider,
		URL:      url,
		Cause:    cause,
	}
}

// NewFetchError creates a fetch failed error.
func NewFetchError(provider, url string, cause error) *ProviderError {
	return NewProviderError(ProviderFetchFailed, provider, url, "failed to fetch", cause)
}

// NewNotFoundError creates a not found error.
func NewNotFoundError(provider, url, message string) *ProviderError {
	if message == "" {
		message = "not found"
	}
	return NewProviderError(ProviderNotFound, provider, url, message, nil)
}

// NewAuthError creates an authentication failed error.
func NewAuthError(provider, url string) *ProviderError {
	return NewProviderError(ProviderAuthFailed, provider, url, "authentication failed (private repository?)", nil)
}

// NewTimeoutError creates a timeout error.
func NewTimeoutError(provider, url string, cause error) *ProviderError {
	return NewProviderError(ProviderTimeout, provider, url, "operation timed out", cause)
}

// NewNetworkError creates a network error.
func NewNetworkError(provider, url string, cause error) *ProviderError {
	return NewProviderError(ProviderNetwork, provider, url, "remote unreachable", cause)
}

// NewInvalidURLError creates an invalid URL error.
func NewInvalidURLError(provider, url string, cause error) *ProviderError {
	return NewProviderError(ProviderInvalidURL, provider, url, "invalid catalog location", cause)
}

// IsNotFound reports whether err wraps a ProviderNotFound error.
func IsNotFound(err error) bool {
	var pe *ProviderError
	return errors.As(err, &pe) && pe.Type == ProviderNotFound
}

// IsNetwork reports whether err wraps a transport failure.
func IsNetwork(err error) bool {
	var pe *ProviderError
	return errors.As(err, &pe) && pe.IsNetwork()
}
