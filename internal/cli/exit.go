package cli

import (
	"errors"

	"github.com/tacogips/tpick/internal/app"
	"github.com/tacogips/tpick/internal/catalog"
	"github.com/tacogips/tpick/internal/prompt"
	"github.com/tacogips/tpick/internal/template/materializer"
	"github.com/tacogips/tpick/internal/template/model"
	"github.com/tacogips/tpick/internal/template/provider"
)

// Process exit codes.
const (
	ExitOK         = 0
	ExitFailure    = 1
	ExitFormat     = 2
	ExitNetwork    = 3
	ExitNotFound   = 4
	ExitLimit      = 5
	ExitFilesystem = 6
)

// exitCode maps an error chain to the process exit status.
// A user abort is not a failure.
func exitCode(err error) int {
	if err == nil || errors.Is(err, prompt.ErrNoSelection) {
		return ExitOK
	}

	var (
		formatErr *catalog.FormatError
		sizeErr   *model.SizeLimitError
		fsErr     *materializer.FilesystemError
		pathErr   *model.PathError
		provErr   *provider.ProviderError
		appErr    *app.AppError
	)
	switch {
	case errors.As(err, &formatErr):
		return ExitFormat
	case errors.As(err, &sizeErr):
		return ExitLimit
	case errors.As(err, &fsErr):
		// Destination checks wrap a PathError, so this precedes it.
		return ExitFilesystem
	case errors.As(err, &pathErr):
		return ExitLimit
	case errors.As(err, &provErr):
		switch {
		case provErr.Type == provider.ProviderNotFound:
			return ExitNotFound
		case provErr.Type == provider.ProviderInvalidURL:
			return ExitFailure
		default:
			return ExitNetwork
		}
	case errors.As(err, &appErr) && appErr.Type == app.SelectionFailed:
		return ExitNotFound
	}
	return ExitFailure
}
