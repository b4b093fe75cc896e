package provider

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"sync"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/filemode"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/transport"
	githttp "github.com/go-git/go-git/v5/plumbing/transport/http"
	"github.com/go-git/go-git/v5/storage/memory"

	"github.com/tacogips/tpick/internal/debug"
	"github.com/tacogips/tpick/internal/template/model"
)

// GitProvider implements Provider for arbitrary git remotes.
// The repository is cloned once per run, depth 1, into memory.
type GitProvider struct {
	// Token is sent as HTTP basic auth password when set.
	Token string
	// Timeout bounds a single clone.
	Timeout time.Duration

	retry retryPolicy

	mu      sync.Mutex
	commits map[string]*object.Commit
	open    func(ctx context.Context, ref model.TemplateRef) (*object.Commit, error)
}

// NewGitProvider creates a new git provider.
func NewGitProvider(opts Options) *GitProvider {
	opts = opts.withDefaults()
	p := &GitProvider{
		Token:   opts.Token,
		Timeout: opts.Timeout,
		retry:   retryPolicy{retries: opts.Retries, interval: opts.RetryInterval},
		commits: make(map[string]*object.Commit),
	}
	p.open = p.clone
	return p
}

// Name returns the provider name.
func (p *GitProvider) Name() string {
	return "git"
}

// ReadFile reads a single file from the cloned HEAD commit.
func (p *GitProvider) ReadFile(ctx context.Context, ref model.TemplateRef, name string, maxBytes int64) ([]byte, error) {
	commit, err := p.commit(ctx, ref)
	if err != nil {
		return nil, err
	}

	rel := path.Join(ref.Path, name)
	f, err := commit.File(rel)
	if err != nil {
		if errors.Is(err, object.ErrFileNotFound) {
			return nil, NewNotFoundError(p.Name(), ref.WithPath(name).String(), fmt.Sprintf("file %q not found", rel))
		}
		return nil, NewFetchError(p.Name(), ref.WithPath(name).String(), err)
	}
	if f.Size > maxBytes {
		return nil, &model.SizeLimitError{Kind: model.LimitBytes, Limit: maxBytes, Path: name}
	}

	r, err := f.Reader()
	if err != nil {
		return nil, NewFetchError(p.Name(), ref.WithPath(name).String(), err)
	}
	defer r.Close()
	return io.ReadAll(r)
}

// Fetch walks the subtree b.Root() of the cloned commit.
func (p *GitProvider) Fetch(ctx context.Context, ref model.TemplateRef, b *model.TreeBuilder) error {
	defer debug.Elapsed("[git] fetch", time.Now())

	commit, err := p.commit(ctx, ref)
	if err != nil {
		return err
	}
	return collectCommit(ctx, p.Name(), ref, commit, b)
}

// collectCommit adds the regular files of commit under b.Root() to b.
func collectCommit(ctx context.Context, provider string, ref model.TemplateRef, commit *object.Commit, b *model.TreeBuilder) error {
	tree, err := commit.Tree()
	if err != nil {
		return NewFetchError(provider, ref.String(), err)
	}

	root := b.Root()
	if root != "" {
		tree, err = tree.Tree(root)
		if err != nil {
			debug.Debug("[git] Subtree %s: %v", root, err)
			return NewNotFoundError(provider, ref.String(), fmt.Sprintf("template path %q not found", root))
		}
	}

	return tree.Files().ForEach(func(f *object.File) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if f.Mode == filemode.Symlink || f.Mode == filemode.Submodule {
			debug.Debug("[git] Skipping non-regular entry %s (%s)", f.Name, f.Mode)
			return nil
		}

		r, err := f.Reader()
		if err != nil {
			return NewFetchError(provider, ref.String(), fmt.Errorf("failed to read %s: %w", f.Name, err))
		}
		defer r.Close()

		return b.AddReader(path.Join(root, f.Name), r, f.Mode == filemode.Executable)
	})
}

// commit returns the memoized HEAD commit for ref, cloning on first use.
func (p *GitProvider) commit(ctx context.Context, ref model.TemplateRef) (*object.Commit, error) {
	key := ref.URL + "@" + ref.Ref

	p.mu.Lock()
	defer p.mu.Unlock()

	if c, ok := p.commits[key]; ok {
		return c, nil
	}

	var c *object.Commit
	err := p.retry.do(ctx, ref.URL, func() error {
		var err error
		c, err = p.open(ctx, ref)
		return err
	})
	if err != nil {
		return nil, err
	}
	p.commits[key] = c
	return c, nil
}

// clone performs a shallow, single-branch, in-memory clone.
// A ref that is not a branch is retried as a tag.
func (p *GitProvider) clone(ctx context.Context, ref model.TemplateRef) (*object.Commit, error) {
	if p.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.Timeout)
		defer cancel()
	}

	opts := &git.CloneOptions{
		URL:          ref.URL,
		Depth:        1,
		SingleBranch: true,
		Tags:         git.NoTags,
	}
	if p.Token != "" {
		opts.Auth = &githttp.BasicAuth{Username: "token", Password: p.Token}
	}
	if ref.Ref != "" {
		opts.ReferenceName = plumbing.NewBranchReferenceName(ref.Ref)
	}

	debug.Debug("[git] Cloning %s (ref %q)", ref.URL, ref.Ref)
	repo, err := git.CloneContext(ctx, memory.NewStorage(), nil, opts)
	if err != nil && ref.Ref != "" && isMissingRef(err) {
		debug.Debug("[git] Branch %s not found, trying tag", ref.Ref)
		opts.ReferenceName = plumbing.NewTagReferenceName(ref.Ref)
		repo, err = git.CloneContext(ctx, memory.NewStorage(), nil, opts)
	}
	if err != nil {
		return nil, p.classifyCloneError(ref, err)
	}

	head, err := repo.Head()
	if err != nil {
		return nil, NewFetchError(p.Name(), ref.String(), err)
	}
	commit, err := repo.CommitObject(head.Hash())
	if err != nil {
		return nil, NewFetchError(p.Name(), ref.String(), err)
	}
	debug.Debug("[git] Cloned %s at %s", ref.URL, head.Hash())
	return commit, nil
}

func isMissingRef(err error) bool {
	var noMatch git.NoMatchingRefSpecError
	return errors.Is(err, plumbing.ErrReferenceNotFound) || errors.As(err, &noMatch)
}

func (p *GitProvider) classifyCloneError(ref model.TemplateRef, err error) error {
	display := ref.String()
	switch {
	case errors.Is(err, transport.ErrRepositoryNotFound), isMissingRef(err):
		return NewNotFoundError(p.Name(), display, err.Error())
	case errors.Is(err, transport.ErrAuthenticationRequired), errors.Is(err, transport.ErrAuthorizationFailed):
		return NewAuthError(p.Name(), display)
	case errors.Is(err, transport.ErrEmptyRemoteRepository):
		return NewNotFoundError(p.Name(), display, "remote repository is empty")
	default:
		return classifyTransportError(p.Name(), display, err)
	}
}
