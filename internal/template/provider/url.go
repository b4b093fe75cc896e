package provider

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/tacogips/tpick/internal/template/model"
)

// DefaultRef is used when a GitHub location carries no ref.
const DefaultRef = "main"

// ParseLocation parses a catalog location into a TemplateRef.
// Supported formats:
//   - github:owner/repo[/path][@ref]
//   - https://github.com/owner/repo[/tree/ref/path]
//   - git@github.com:owner/repo.git
//   - github.com/owner/repo[/path][@ref]
//   - owner/repo[/path][@ref]
//   - git+https://host/repo.git[@ref], git+ssh://..., https://host/repo.git[@ref]
//   - ./dir, ../dir, /abs/dir, file:///abs/dir
func ParseLocation(location string) (*model.TemplateRef, error) {
	location = strings.TrimSpace(location)
	if location == "" {
		return nil, fmt.Errorf("catalog location cannot be empty")
	}

	if IsLocalPath(location) {
		dir := location
		if strings.HasPrefix(dir, "file://") {
			dir = strings.TrimPrefix(dir, "file://")
			if dir == "" {
				return nil, fmt.Errorf("file:// location has no path")
			}
		}
		return &model.TemplateRef{
			Provider: "local",
			URL:      filepath.Clean(dir),
		}, nil
	}

	if isGitURL(location) {
		url, ref := splitRef(strings.TrimPrefix(location, "git+"))
		return &model.TemplateRef{
			Provider: "git",
			URL:      url,
			Ref:      ref,
		}, nil
	}

	return ParseGitHubURL(location)
}

// ParseGitHubURL parses a GitHub URL into a TemplateRef.
func ParseGitHubURL(url string) (*model.TemplateRef, error) {
	if url == "" {
		return nil, fmt.Errorf("URL cannot be empty")
	}

	// Normalize URL
	url = strings.TrimSpace(url)

	// Nix-style flake reference: github:owner/repo
	if strings.HasPrefix(url, "github:") {
		return parseOwnerRepoPath(strings.TrimPrefix(url, "github:"))
	}

	// Handle git@github.com:owner/repo.git format
	if strings.HasPrefix(url, "git@github.com:") {
		url = strings.TrimPrefix(url, "git@github.com:")
		url = strings.TrimSuffix(url, ".git")
		return parseOwnerRepoPath(url)
	}

	// Handle https:// URLs
	if strings.HasPrefix(url, "https://github.com/") {
		url = strings.TrimPrefix(url, "https://github.com/")
		// owner/repo/tree/branch/path -> owner/repo, branch, path
		if idx := strings.Index(url, "/tree/"); idx != -1 {
			ownerRepo := url[:idx]
			branchPath := url[idx+len("/tree/"):]
			ref, err := parseOwnerRepoPath(ownerRepo)
			if err != nil {
				return nil, err
			}
			if slashIdx := strings.Index(branchPath, "/"); slashIdx != -1 {
				ref.Ref = branchPath[:slashIdx]
				ref.Path = strings.Trim(branchPath[slashIdx+1:], "/")
			} else if branchPath != "" {
				ref.Ref = branchPath
			}
			return ref, nil
		}
		return parseOwnerRepoPath(strings.TrimSuffix(url, ".git"))
	}

	// Handle http:// URLs (treated as https://)
	if strings.HasPrefix(url, "http://github.com/") {
		return parseOwnerRepoPath(strings.TrimPrefix(url, "http://github.com/"))
	}

	// Handle github.com/ prefix
	if strings.HasPrefix(url, "github.com/") {
		return parseOwnerRepoPath(strings.TrimPrefix(url, "github.com/"))
	}

	// Handle owner/repo format
	return parseOwnerRepoPath(url)
}

// parseOwnerRepoPath parses "owner/repo[/path][@ref]".
func parseOwnerRepoPath(s string) (*model.TemplateRef, error) {
	s, refName := splitRef(s)

	parts := strings.Split(strings.Trim(s, "/"), "/")
	if len(parts) < 2 {
		return nil, fmt.Errorf("invalid GitHub location format, expected owner/repo: %s", s)
	}

	owner := parts[0]
	repo := parts[1]

	if owner == "" || repo == "" {
		return nil, fmt.Errorf("owner and repo cannot be empty: %s", s)
	}

	if refName == "" {
		refName = DefaultRef
	}

	ref := &model.TemplateRef{
		Provider: "github",
		Owner:    owner,
		Repo:     repo,
		Ref:      refName,
	}

	// Extract subdirectory path if present
	if len(parts) > 2 {
		sub, err := model.ValidateRelPath(strings.Join(parts[2:], "/"))
		if err != nil {
			return nil, err
		}
		ref.Path = sub
	}

	return ref, nil
}

// splitRef splits a trailing "@ref" that follows the last path separator.
func splitRef(s string) (string, string) {
	at := strings.LastIndex(s, "@")
	if at <= strings.LastIndex(s, "/") || at <= strings.LastIndex(s, ":") {
		return s, ""
	}
	return s[:at], s[at+1:]
}

// isGitURL reports whether s should be cloned with git rather than read via the GitHub archive API.
func isGitURL(s string) bool {
	if strings.HasPrefix(s, "git+") {
		return true
	}
	if strings.HasPrefix(s, "git@github.com:") {
		return false
	}
	if strings.HasPrefix(s, "git@") || strings.HasPrefix(s, "ssh://") {
		return true
	}
	if strings.HasPrefix(s, "https://") || strings.HasPrefix(s, "http://") {
		base, _ := splitRef(s)
		return !strings.Contains(base, "://github.com/")
	}
	return false
}

// IsLocalPath checks if a location refers to a local directory.
// Returns true for "./", "../", absolute paths, and file:// URLs.
func IsLocalPath(path string) bool {
	if path == "" {
		return false
	}
	if strings.HasPrefix(path, "file://") {
		return true
	}
	if filepath.IsAbs(path) {
		return true
	}
	return path == "." || path == ".." ||
		strings.HasPrefix(path, "./") || strings.HasPrefix(path, "../")
}
