package provider

import (
	"archive/tar"
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/tacogips/tpick/internal/debug"
	"github.com/tacogips/tpick/internal/template/model"
)

// Default GitHub endpoints.
const (
	DefaultArchiveBaseURL = "https://github.com"
	DefaultRawBaseURL     = "https://raw.githubusercontent.com"
)

// GitHubProvider implements Provider for GitHub repositories.
// Templates are read from the repository tarball, streamed without touching disk.
type GitHubProvider struct {
	// ArchiveBaseURL serves {owner}/{repo}/archive/{ref}.tar.gz.
	ArchiveBaseURL string
	// RawBaseURL serves {owner}/{repo}/{ref}/{path}.
	RawBaseURL string
	// HTTPClient is the HTTP client for requests.
	HTTPClient *http.Client
	// Token is the optional GitHub personal access token for private repos.
	Token string

	retry retryPolicy
}

// NewGitHubProvider creates a new GitHub provider.
func NewGitHubProvider(opts Options) *GitHubProvider {
	opts = opts.withDefaults()
	return &GitHubProvider{
		ArchiveBaseURL: DefaultArchiveBaseURL,
		RawBaseURL:     DefaultRawBaseURL,
		HTTPClient: &http.Client{
			Timeout: opts.Timeout,
		},
		Token: opts.Token,
		retry: retryPolicy{retries: opts.Retries, interval: opts.RetryInterval},
	}
}

// Name returns the provider name.
func (p *GitHubProvider) Name() string {
	return "github"
}

// ReadFile downloads a single file through the raw content endpoint.
func (p *GitHubProvider) ReadFile(ctx context.Context, ref model.TemplateRef, name string, maxBytes int64) ([]byte, error) {
	rel := path.Join(ref.Path, name)
	rawURL := fmt.Sprintf("%s/%s/%s/%s/%s",
		strings.TrimSuffix(p.RawBaseURL, "/"), ref.Owner, ref.Repo, ref.Ref, rel)
	display := ref.WithPath(name).String()

	debug.Debug("[github] Reading %s", rawURL)
	resp, err := p.get(ctx, rawURL, display)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBytes+1))
	if err != nil {
		return nil, classifyTransportError(p.Name(), display, err)
	}
	if int64(len(data)) > maxBytes {
		return nil, &model.SizeLimitError{Kind: model.LimitBytes, Limit: maxBytes, Path: name}
	}
	debug.Debug("[github] Read %d bytes from %s", len(data), display)
	return data, nil
}

// Fetch streams the repository archive and adds every regular file under b.Root().
// Symlinks and other special entries are dropped.
func (p *GitHubProvider) Fetch(ctx context.Context, ref model.TemplateRef, b *model.TreeBuilder) error {
	defer debug.Elapsed("[github] fetch", time.Now())

	// GitHub archive URL: https://github.com/owner/repo/archive/main.tar.gz
	archiveURL := fmt.Sprintf("%s/%s/%s/archive/%s.tar.gz",
		strings.TrimSuffix(p.ArchiveBaseURL, "/"), ref.Owner, ref.Repo, ref.Ref)
	display := ref.String()

	debug.Debug("[github] Downloading archive %s (subtree %q)", archiveURL, b.Root())
	resp, err := p.get(ctx, archiveURL, display)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	gzr, err := gzip.NewReader(resp.Body)
	if err != nil {
		return NewFetchError(p.Name(), display, fmt.Errorf("failed to read archive: %w", err))
	}
	defer gzr.Close()

	tr := tar.NewReader(gzr)
	root := b.Root()
	found := root == ""
	added := 0

	for {
		header, err := tr.Next()
		if err == io.EOF {
			break
		}
		if errors.Is(err, tar.ErrInsecurePath) {
			return &model.PathError{Path: header.Name, Reason: "insecure archive path"}
		}
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			return NewNetworkError(p.Name(), display, fmt.Errorf("failed to read archive entry: %w", err))
		}

		// GitHub archives have a root directory like "repo-ref/"
		// We need to strip this prefix
		parts := strings.SplitN(header.Name, "/", 2)
		if len(parts) < 2 || parts[1] == "" {
			continue
		}
		rel := parts[1]

		if root != "" && strings.TrimSuffix(rel, "/") == root {
			if header.Typeflag != tar.TypeDir {
				return NewNotFoundError(p.Name(), display, fmt.Sprintf("template path %q is not a directory", root))
			}
			found = true
			continue
		}
		if !b.Contains(rel) {
			continue
		}
		found = true

		switch header.Typeflag {
		case tar.TypeReg:
			if err := b.AddReader(rel, tr, header.Mode&0111 != 0); err != nil {
				return err
			}
			added++
		case tar.TypeDir:
		default:
			debug.Debug("[github] Skipping non-regular entry %s (type %c)", rel, header.Typeflag)
		}
	}

	if !found {
		return NewNotFoundError(p.Name(), display, fmt.Sprintf("template path %q not found", root))
	}
	debug.Debug("[github] Collected %d files from %s", added, display)
	return nil
}

// get performs a GET with retries and returns a response with status 200.
// The caller closes the body.
func (p *GitHubProvider) get(ctx context.Context, url, display string) (*http.Response, error) {
	var resp *http.Response
	err := p.retry.do(ctx, display, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return NewFetchError(p.Name(), display, err)
		}

		// Add authentication if token is provided
		if p.Token != "" {
			req.Header.Set("Authorization", "token "+p.Token)
		}

		r, err := p.HTTPClient.Do(req)
		if err != nil {
			return classifyTransportError(p.Name(), display, err)
		}
		if err := p.checkStatus(r, display); err != nil {
			r.Body.Close()
			return err
		}
		resp = r
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

func (p *GitHubProvider) checkStatus(resp *http.Response, display string) error {
	switch {
	case resp.StatusCode == http.StatusOK:
		return nil
	case resp.StatusCode == http.StatusNotFound:
		return NewNotFoundError(p.Name(), display, "")
	case resp.StatusCode == http.StatusUnauthorized, resp.StatusCode == http.StatusForbidden:
		return NewAuthError(p.Name(), display)
	case resp.StatusCode == http.StatusTooManyRequests, resp.StatusCode >= 500:
		return NewNetworkError(p.Name(), display,
			fmt.Errorf("unexpected status code: %d", resp.StatusCode))
	default:
		return NewFetchError(p.Name(), display,
			fmt.Errorf("unexpected status code: %d", resp.StatusCode))
	}
}
