package materializer

import (
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/tacogips/tpick/internal/debug"
)

// Writer writes files to the filesystem.
type Writer interface {
	// WriteFile atomically replaces path with content, creating parents as needed.
	WriteFile(path string, content []byte, executable bool) error
}

// FileWriter implements Writer for filesystem operations.
type FileWriter struct{}

// NewFileWriter creates a new FileWriter.
func NewFileWriter() Writer {
	return &FileWriter{}
}

// WriteFile writes content to a file.
// Creates parent directories if they don't exist.
// Writes atomically using a uniquely named temporary sibling and rename.
func (w *FileWriter) WriteFile(path string, content []byte, executable bool) error {
	debug.Debug("[materializer] Writing file: %s (size: %d bytes, executable: %v)", path, len(content), executable)

	// Create parent directories if needed
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return newFilesystemError(FilesystemWriteFailed, "failed to create parent directory", path, err)
	}

	var mode os.FileMode = 0644
	if executable {
		mode = 0755
	}

	tempFile := filepath.Join(dir, "."+filepath.Base(path)+"."+uuid.NewString()+".tmp")
	f, err := os.OpenFile(tempFile, os.O_WRONLY|os.O_CREATE|os.O_EXCL, mode)
	if err != nil {
		return newFilesystemError(FilesystemWriteFailed, "failed to create temporary file", path, err)
	}

	_, err = f.Write(content)
	closeErr := f.Close()

	if err != nil {
		_ = os.Remove(tempFile)
		return newFilesystemError(FilesystemWriteFailed, "failed to write file content", path, err)
	}
	if closeErr != nil {
		_ = os.Remove(tempFile)
		return newFilesystemError(FilesystemWriteFailed, "failed to close file", path, closeErr)
	}

	if err := os.Rename(tempFile, path); err != nil {
		_ = os.Remove(tempFile)
		return newFilesystemError(FilesystemWriteFailed, "failed to rename temporary file", path, err)
	}

	return nil
}
