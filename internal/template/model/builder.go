package model

import (
	"bytes"
	"fmt"
	"io"
	"path"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/tacogips/tpick/internal/debug"
)

// Default bounds for a single template.
const (
	DefaultMaxBytes int64 = 50 << 20
	DefaultMaxFiles       = 5000
)

// Limits bounds the size of a fetched template. Zero fields use the defaults.
type Limits struct {
	// MaxBytes is the maximum aggregate content size.
	MaxBytes int64
	// MaxFiles is the maximum number of files.
	MaxFiles int
}

// WithDefaults fills zero fields with the package defaults.
func (l Limits) WithDefaults() Limits {
	if l.MaxBytes <= 0 {
		l.MaxBytes = DefaultMaxBytes
	}
	if l.MaxFiles <= 0 {
		l.MaxFiles = DefaultMaxFiles
	}
	return l
}

// TreeBuilder accumulates untrusted remote paths into a Tree.
// Every path is normalized relative to Root; anything that would escape it,
// collide with an earlier entry, or push the tree past its limits is rejected.
type TreeBuilder struct {
	root   []string
	limits Limits
	files  []File
	seen   map[string]bool
	dirs   map[string]bool
	total  int64
}

// NewTreeBuilder creates a builder for the subtree rooted at root
// (slash-separated, relative; "" means the source root).
func NewTreeBuilder(root string, limits Limits) (*TreeBuilder, error) {
	segs, err := splitSafe(root)
	if err != nil {
		return nil, &PathError{Path: root, Reason: err.Error()}
	}
	return &TreeBuilder{
		root:   segs,
		limits: limits.WithDefaults(),
		seen:   make(map[string]bool),
		dirs:   make(map[string]bool),
	}, nil
}

// Root returns the normalized subtree root.
func (b *TreeBuilder) Root() string {
	return strings.Join(b.root, "/")
}

// Contains reports whether raw lies strictly inside the subtree root.
// It performs no safety checks; callers use it to filter candidates before Add.
func (b *TreeBuilder) Contains(raw string) bool {
	segs, err := splitSafe(raw)
	if err != nil {
		// Let Add report it if the caller insists.
		return hasPrefixSegs(strings.Split(raw, "/"), b.root)
	}
	return len(segs) > len(b.root) && hasPrefixSegs(segs, b.root)
}

// Add validates raw and appends a file with the given content.
func (b *TreeBuilder) Add(raw string, content []byte, executable bool) error {
	return b.AddReader(raw, bytes.NewReader(content), executable)
}

// AddReader validates raw and reads its content from r without ever holding
// more than the remaining byte budget in memory.
func (b *TreeBuilder) AddReader(raw string, r io.Reader, executable bool) error {
	rel, err := b.Normalize(raw)
	if err != nil {
		return err
	}
	if err := b.claim(raw, rel); err != nil {
		return err
	}
	if len(b.files) >= b.limits.MaxFiles {
		return &SizeLimitError{Kind: LimitFiles, Limit: int64(b.limits.MaxFiles), Path: rel}
	}

	remaining := b.limits.MaxBytes - b.total
	content, err := io.ReadAll(io.LimitReader(r, remaining+1))
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", rel, err)
	}
	if int64(len(content)) > remaining {
		return &SizeLimitError{Kind: LimitBytes, Limit: b.limits.MaxBytes, Path: rel}
	}

	b.total += int64(len(content))
	b.files = append(b.files, File{Path: rel, Content: content, Executable: executable})
	debug.Debug("[tree] Added %s (%d bytes, executable=%v)", rel, len(content), executable)
	return nil
}

// Normalize converts an untrusted path into a path relative to the root.
func (b *TreeBuilder) Normalize(raw string) (string, error) {
	segs, err := splitSafe(raw)
	if err != nil {
		return "", &PathError{Path: raw, Reason: err.Error()}
	}
	if !hasPrefixSegs(segs, b.root) {
		return "", &PathError{Path: raw, Reason: fmt.Sprintf("outside template root %q", b.Root())}
	}
	rel := segs[len(b.root):]
	if len(rel) == 0 {
		return "", &PathError{Path: raw, Reason: "empty path"}
	}
	return strings.Join(rel, "/"), nil
}

// claim records rel and its parent directories, rejecting collisions.
func (b *TreeBuilder) claim(raw, rel string) error {
	key := strings.ToLower(rel)
	if b.seen[key] || b.dirs[key] {
		return &PathError{Path: raw, Reason: "collides with an earlier entry"}
	}
	for dir := path.Dir(rel); dir != "."; dir = path.Dir(dir) {
		dkey := strings.ToLower(dir)
		if b.seen[dkey] {
			return &PathError{Path: raw, Reason: fmt.Sprintf("parent %q is a file", dir)}
		}
		b.dirs[dkey] = true
	}
	b.seen[key] = true
	return nil
}

// Build returns the accumulated tree. The builder must not be reused.
func (b *TreeBuilder) Build() *Tree {
	return &Tree{Files: b.files, TotalBytes: b.total}
}

// Rebuild runs every file of t through a fresh builder rooted at "".
// It is used after path rewriting to re-establish the Tree invariants.
func Rebuild(t *Tree, rename func(string) string, limits Limits) (*Tree, error) {
	b, err := NewTreeBuilder("", limits)
	if err != nil {
		return nil, err
	}
	for _, f := range t.Files {
		if err := b.Add(rename(f.Path), f.Content, f.Executable); err != nil {
			return nil, err
		}
	}
	return b.Build(), nil
}

// ValidateRelPath checks a relative path (such as a catalog source path)
// without building a tree. It returns the normalized form.
func ValidateRelPath(raw string) (string, error) {
	segs, err := splitSafe(raw)
	if err != nil {
		return "", &PathError{Path: raw, Reason: err.Error()}
	}
	return strings.Join(segs, "/"), nil
}

// splitSafe splits a slash-separated path into clean segments.
// Empty and "." segments are dropped; ".." segments, absolute paths,
// backslashes, and control characters are errors.
func splitSafe(raw string) ([]string, error) {
	if strings.HasPrefix(raw, "/") || filepath.IsAbs(raw) || filepath.VolumeName(raw) != "" {
		return nil, fmt.Errorf("absolute path")
	}
	if strings.Contains(raw, `\`) {
		return nil, fmt.Errorf("backslash in path")
	}
	if strings.IndexFunc(raw, unicode.IsControl) >= 0 {
		return nil, fmt.Errorf("control character in path")
	}
	parts := strings.Split(raw, "/")
	segs := make([]string, 0, len(parts))
	for _, p := range parts {
		switch p {
		case "", ".":
			continue
		case "..":
			return nil, fmt.Errorf("parent directory segment")
		}
		if len(p) == 2 && p[1] == ':' {
			return nil, fmt.Errorf("drive letter segment")
		}
		segs = append(segs, p)
	}
	return segs, nil
}

func hasPrefixSegs(segs, prefix []string) bool {
	if len(segs) < len(prefix) {
		return false
	}
	for i := range prefix {
		if segs[i] != prefix[i] {
			return false
		}
	}
	return true
}
