package materializer

import "fmt"

// FilesystemErrorType categorizes materialization failures.
type FilesystemErrorType int

const (
	// FilesystemWriteFailed indicates a file or directory could not be written.
	FilesystemWriteFailed FilesystemErrorType = iota
	// FilesystemConflict indicates an existing file under the "fail" policy.
	FilesystemConflict
	// FilesystemInvalidDestination indicates the destination is unusable.
	FilesystemInvalidDestination
	// FilesystemCancelled indicates the context was cancelled mid-apply.
	FilesystemCancelled
)

// String returns the string representation of the error type.
func (t FilesystemErrorType) String() string {
	switch t {
	case FilesystemWriteFailed:
		return "WriteFailed"
	case FilesystemConflict:
		return "Conflict"
	case FilesystemInvalidDestination:
		return "InvalidDestination"
	case FilesystemCancelled:
		return "Cancelled"
	default:
		return "Unknown"
	}
}

// FilesystemError reports a failure while planning or applying writes.
// Report holds the work done before the failure; nothing is rolled back.
type FilesystemError struct {
	// Type categorizes the error.
	Type FilesystemErrorType
	// Message is the error message.
	Message string
	// Path is the template path related to the error (if applicable).
	Path string
	// Destination is the destination directory.
	Destination string
	// Report is the partial report at the time of failure (nil during planning).
	Report *Report
	// Cause is the underlying error (if any).
	Cause error
}

// Error implements the error interface.
func (e *FilesystemError) Error() string {
	msg := e.Message
	if e.Path != "" {
		msg = fmt.Sprintf("%s (file: %s)", msg, e.Path)
	}
	if e.Destination != "" {
		msg = fmt.Sprintf("%s in %s", msg, e.Destination)
	}
	if e.Cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

// Unwrap returns the underlying cause error for error unwrapping.
func (e *FilesystemError) Unwrap() error {
	return e.Cause
}

func newFilesystemError(typ FilesystemErrorType, message, path string, cause error) *FilesystemError {
	return &FilesystemError{
		Type:    typ,
		Message: message,
		Path:    path,
		Cause:   cause,
	}
}
