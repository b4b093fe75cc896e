package model

// Tree is an ordered, validated template file tree.
// Trees are only produced by TreeBuilder, so every path is relative,
// slash-separated, free of ".." segments, and unique.
type Tree struct {
	// Files in the order they were retrieved.
	Files []File
	// TotalBytes is the sum of all file sizes.
	TotalBytes int64
}

// Len returns the number of files in the tree.
func (t *Tree) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Files)
}

// Paths returns the file paths in tree order.
func (t *Tree) Paths() []string {
	paths := make([]string, 0, t.Len())
	if t == nil {
		return paths
	}
	for _, f := range t.Files {
		paths = append(paths, f.Path)
	}
	return paths
}

// Lookup returns the file at path, if present.
func (t *Tree) Lookup(path string) (File, bool) {
	if t == nil {
		return File{}, false
	}
	for _, f := range t.Files {
		if f.Path == path {
			return f, true
		}
	}
	return File{}, false
}
