package model

// Special file names used by tpick.
const (
	// ProjectNamePlaceholder is replaced with the project name in paths and text content.
	ProjectNamePlaceholder = "project_name"
	// ReadmeFile is the file rewritten by --clear-readme.
	ReadmeFile = "README.md"
)

// TemplateRef represents a reference to a template catalog source.
type TemplateRef struct {
	// Provider is the provider name ("github", "git", or "local").
	Provider string
	// Owner is the repository owner (github only).
	Owner string
	// Repo is the repository name (github only).
	Repo string
	// URL is the clone URL (git) or directory (local).
	URL string
	// Path is the subdirectory path within the repository (optional).
	Path string
	// Ref is the branch, tag, or commit SHA.
	Ref string
}

// String formats the reference for error messages.
func (r TemplateRef) String() string {
	var s string
	switch r.Provider {
	case "github":
		s = "github.com/" + r.Owner + "/" + r.Repo
	default:
		s = r.URL
	}
	if r.Path != "" {
		s += "/" + r.Path
	}
	if r.Ref != "" {
		s += "@" + r.Ref
	}
	return s
}

// WithPath returns a copy of r whose Path is joined with sub.
func (r TemplateRef) WithPath(sub string) TemplateRef {
	switch {
	case sub == "" || sub == ".":
	case r.Path == "":
		r.Path = sub
	default:
		r.Path = r.Path + "/" + sub
	}
	return r
}

// File represents a single file in a fetched template.
type File struct {
	// Path is the normalized, slash-separated path relative to the template root.
	Path string
	// Content is the raw file content.
	Content []byte
	// Executable marks files that should be written with the executable bit.
	Executable bool
}

// Size returns the content length in bytes.
func (f File) Size() int64 {
	return int64(len(f.Content))
}
