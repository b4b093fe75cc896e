package app

import (
	"errors"
	"path/filepath"

	"github.com/go-git/go-git/v5"

	"github.com/tacogips/tpick/internal/debug"
	"github.com/tacogips/tpick/internal/template/materializer"
	"github.com/tacogips/tpick/internal/template/model"
)

// clearReadme replaces README.md under dest with a single title line.
func clearReadme(dest, name string) error {
	path := filepath.Join(dest, model.ReadmeFile)
	debug.Debug("[app] Clearing %s", path)
	return materializer.NewFileWriter().WriteFile(path, []byte("# "+name+"\n"), false)
}

// initGit creates a repository in dest unless dest already is one.
// It reports whether a repository was created.
func initGit(dest string) (bool, error) {
	_, err := git.PlainOpen(dest)
	switch {
	case err == nil:
		debug.Debug("[app] %s is already a git repository", dest)
		return false, nil
	case !errors.Is(err, git.ErrRepositoryNotExists):
		return false, err
	}

	if _, err := git.PlainInit(dest, false); err != nil {
		return false, err
	}
	debug.Debug("[app] Initialized git repository in %s", dest)
	return true, nil
}
