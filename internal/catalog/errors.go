package catalog

import "fmt"

// FormatErrorType represents the type of catalog format error.
type FormatErrorType int

const (
	// FormatSyntax indicates the index could not be decoded.
	FormatSyntax FormatErrorType = iota
	// FormatStructure indicates the index decoded but has the wrong shape.
	FormatStructure
	// FormatEntry indicates a single entry is invalid (empty id, duplicate id, missing path).
	FormatEntry
	// FormatUnsupported indicates the catalog requires a newer tool version.
	FormatUnsupported
)

// String returns the string representation of the error type.
func (t FormatErrorType) String() string {
	switch t {
	case FormatSyntax:
		return "Syntax"
	case FormatStructure:
		return "Structure"
	case FormatEntry:
		return "Entry"
	case FormatUnsupported:
		return "Unsupported"
	default:
		return "Unknown"
	}
}

// FormatError reports a malformed catalog index.
type FormatError struct {
	// Type is the error type.
	Type FormatErrorType
	// Message is the error message.
	Message string
	// Location is the catalog location the index was read from.
	Location string
	// EntryID names the offending entry, if any.
	EntryID string
	// Index is the position of the offending entry in source order, or -1.
	Index int
	// Cause is the underlying error if any.
	Cause error
}

// Error implements the error interface.
func (e *FormatError) Error() string {
	msg := fmt.Sprintf("invalid catalog %s", e.Location)
	if e.EntryID != "" {
		msg += fmt.Sprintf(" [entry: %s]", e.EntryID)
	} else if e.Index >= 0 {
		msg += fmt.Sprintf(" [entry #%d]", e.Index+1)
	}
	msg += ": " + e.Message
	if e.Cause != nil {
		msg += fmt.Sprintf(": %v", e.Cause)
	}
	return msg
}

// Unwrap returns the underlying cause error.
func (e *FormatError) Unwrap() error {
	return e.Cause
}

// NewFormatError creates a catalog-level FormatError.
func NewFormatError(typ FormatErrorType, message string, cause error) *FormatError {
	return &FormatError{
		Type:    typ,
		Message: message,
		Index:   -1,
		Cause:   cause,
	}
}

// NewEntryError creates a FormatError naming a single entry.
func NewEntryError(index int, id, message string) *FormatError {
	return &FormatError{
		Type:    FormatEntry,
		Message: message,
		EntryID: id,
		Index:   index,
	}
}
