package provider

import (
	"fmt"
	"os"
	"time"

	"github.com/tacogips/tpick/internal/template/model"
)

// DefaultTimeout bounds each HTTP request and each clone.
const DefaultTimeout = 30 * time.Second

// Options configures remote providers.
type Options struct {
	// Token is the optional access token for private repositories.
	Token string
	// Timeout bounds a single request or clone. Zero uses DefaultTimeout.
	Timeout time.Duration
	// Retries is the number of retries of transient failures. Negative disables retries.
	Retries int
	// RetryInterval is the initial backoff interval.
	RetryInterval time.Duration
}

func (o Options) withDefaults() Options {
	if o.Timeout <= 0 {
		o.Timeout = DefaultTimeout
	}
	if o.RetryInterval <= 0 {
		o.RetryInterval = defaultRetryInterval
	}
	return o
}

// NewProvider creates the appropriate provider for a parsed location.
func NewProvider(ref model.TemplateRef, opts Options) (Provider, error) {
	switch ref.Provider {
	case "local":
		return NewLocalProvider(), nil
	case "git":
		return NewGitProvider(opts), nil
	case "github":
		return NewGitHubProvider(opts), nil
	default:
		return nil, NewInvalidURLError(ref.Provider, ref.String(),
			fmt.Errorf("unknown provider %q", ref.Provider))
	}
}

// GetGitHubTokenFromEnv retrieves the GitHub token from environment variables.
// Checks GITHUB_TOKEN first, then falls back to GH_TOKEN.
func GetGitHubTokenFromEnv() string {
	// Try GITHUB_TOKEN first (common in CI/CD)
	if token := os.Getenv("GITHUB_TOKEN"); token != "" {
		return token
	}

	// Fall back to GH_TOKEN (used by GitHub CLI)
	if token := os.Getenv("GH_TOKEN"); token != "" {
		return token
	}

	return ""
}
