// Package placeholder substitutes the project name into fetched templates.
package placeholder

import (
	"bytes"
	"fmt"
	"path"
	"strings"
	"unicode"

	"github.com/gabriel-vasile/mimetype"

	"github.com/tacogips/tpick/internal/debug"
	"github.com/tacogips/tpick/internal/template/model"
)

// binaryExtensions are never rewritten regardless of detected content.
var binaryExtensions = map[string]bool{
	// Images
	".png": true, ".jpg": true, ".jpeg": true, ".gif": true, ".bmp": true, ".ico": true,
	// Archives
	".zip": true, ".tar": true, ".gz": true, ".bz2": true, ".xz": true, ".7z": true,
	// Executables
	".exe": true, ".dll": true, ".so": true, ".dylib": true, ".bin": true,
	// Fonts
	".ttf": true, ".otf": true, ".woff": true, ".woff2": true,
	".pdf": true,
}

// ValidateProjectName checks that name can be used as a single path segment.
func ValidateProjectName(name string) error {
	switch {
	case name == "":
		return fmt.Errorf("project name cannot be empty")
	case name == "." || name == "..":
		return fmt.Errorf("invalid project name %q", name)
	case strings.ContainsAny(name, `/\:`):
		return fmt.Errorf("project name %q must not contain path separators", name)
	case strings.IndexFunc(name, unicode.IsControl) >= 0:
		return fmt.Errorf("project name %q contains control characters", name)
	case strings.TrimSpace(name) != name:
		return fmt.Errorf("project name %q has leading or trailing whitespace", name)
	}
	return nil
}

// IsBinary reports whether a file must be copied byte for byte.
func IsBinary(filePath string, content []byte) bool {
	if binaryExtensions[strings.ToLower(path.Ext(filePath))] {
		return true
	}
	for m := mimetype.Detect(content); m != nil; m = m.Parent() {
		if m.Is("text/plain") {
			return false
		}
	}
	return true
}

// Uses reports whether any path or text file of tree contains the placeholder.
func Uses(tree *model.Tree) bool {
	token := []byte(model.ProjectNamePlaceholder)
	for _, f := range tree.Files {
		if strings.Contains(f.Path, model.ProjectNamePlaceholder) {
			return true
		}
		if bytes.Contains(f.Content, token) && !IsBinary(f.Path, f.Content) {
			return true
		}
	}
	return false
}

// Apply returns a copy of tree with every model.ProjectNamePlaceholder token
// replaced by name, in path segments and in text file contents.
// The renamed tree is revalidated, so collisions and limit overruns are errors.
func Apply(tree *model.Tree, name string, limits model.Limits) (*model.Tree, error) {
	if err := ValidateProjectName(name); err != nil {
		return nil, err
	}

	token := []byte(model.ProjectNamePlaceholder)
	replacement := []byte(name)
	substituted := &model.Tree{Files: make([]model.File, 0, tree.Len())}

	for _, f := range tree.Files {
		content := f.Content
		if bytes.Contains(content, token) && !IsBinary(f.Path, content) {
			content = bytes.ReplaceAll(content, token, replacement)
			debug.Debug("[placeholder] Substituted content in %s", f.Path)
		}
		substituted.Files = append(substituted.Files, model.File{
			Path:       f.Path,
			Content:    content,
			Executable: f.Executable,
		})
	}

	return model.Rebuild(substituted, func(p string) string {
		renamed := strings.ReplaceAll(p, model.ProjectNamePlaceholder, name)
		if renamed != p {
			debug.Debug("[placeholder] Renamed %s -> %s", p, renamed)
		}
		return renamed
	}, limits)
}
