package model

import "fmt"

// PathError reports a template path rejected during normalization.
type PathError struct {
	// Path is the offending path as received from the remote.
	Path string
	// Reason explains why the path was rejected.
	Reason string
}

// Error implements the error interface.
func (e *PathError) Error() string {
	return fmt.Sprintf("unsafe template path %q: %s", e.Path, e.Reason)
}

// LimitKind identifies which bound was exceeded.
type LimitKind string

const (
	// LimitBytes is the aggregate content size bound.
	LimitBytes LimitKind = "bytes"
	// LimitFiles is the file count bound.
	LimitFiles LimitKind = "files"
)

// SizeLimitError reports a template exceeding the configured size bounds.
type SizeLimitError struct {
	// Kind is the bound that was exceeded.
	Kind LimitKind
	// Limit is the configured maximum.
	Limit int64
	// Path is the file being added when the bound was crossed.
	Path string
}

// Error implements the error interface.
func (e *SizeLimitError) Error() string {
	switch e.Kind {
	case LimitFiles:
		return fmt.Sprintf("template exceeds the maximum of %d files (at %s)", e.Limit, e.Path)
	default:
		return fmt.Sprintf("template exceeds the maximum size of %d bytes (at %s)", e.Limit, e.Path)
	}
}
