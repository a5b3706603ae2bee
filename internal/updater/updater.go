package updater

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/ljytool/ljytool/internal/branding"
	"github.com/ljytool/ljytool/internal/logging"
)

const defaultAPIBase = "https://api.github.com"

// Release is the subset of a GitHub release the check needs.
type Release struct {
	Version string `json:"tag_name"`
	URL     string `json:"html_url"`
}

// Checker looks up the latest published release.
type Checker struct {
	current string
	apiBase string
	client  *http.Client
}

// Option configures a Checker.
type Option func(*Checker)

// WithHTTPClient sets the HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(ch *Checker) { ch.client = c }
}

// WithAPIBase points the checker at another GitHub-compatible API.
func WithAPIBase(base string) Option {
	return func(ch *Checker) { ch.apiBase = base }
}

// New creates a Checker for the running version.
func New(current string, opts ...Option) *Checker {
	ch := &Checker{
		current: current,
		apiBase: defaultAPIBase,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(ch)
	}
	return ch
}

// Latest fetches the latest release of the configured repository.
func (c *Checker) Latest(ctx context.Context) (*Release, error) {
	url := fmt.Sprintf("%s/repos/%s/releases/latest", c.apiBase, branding.GitHubRepo())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("User-Agent", branding.CLIName()+"-updater")
	if token := os.Getenv("GITHUB_TOKEN"); token != "" {
		req.Header.Set("Authorization", "token "+token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching release: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("release lookup returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}
	var rel Release
	if err := json.Unmarshal(body, &rel); err != nil {
		return nil, fmt.Errorf("parsing release JSON: %w", err)
	}
	return &rel, nil
}

// Refresh fetches the latest release and stores it in dir.
func (c *Checker) Refresh(ctx context.Context, dir string) (*Record, error) {
	rel, err := c.Latest(ctx)
	if err != nil {
		return nil, err
	}
	rec := &Record{Latest: rel.Version, URL: rel.URL, CheckedAt: time.Now()}
	if err := WriteRecord(dir, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// Notify prints a one-line notice to w when the cached record names a newer
// release, and starts a background refresh when the record is stale.
// Development builds never check.
func (c *Checker) Notify(w io.Writer, dir string) {
	if !IsRelease(c.current) {
		return
	}
	rec, err := ReadRecord(dir)
	if err != nil {
		logging.Debug().Err(err).Msg("ignoring unreadable release check")
	}

	if rec != nil {
		if newer, err := IsNewer(c.current, rec.Latest); err == nil && newer {
			fmt.Fprintf(w, "A new %s release is available: %s -> %s\n", branding.DisplayName(), c.current, rec.Latest)
			if rec.URL != "" {
				fmt.Fprintf(w, "    %s\n", rec.URL)
			}
		}
	}

	if rec.Stale(RecheckAfter, time.Now()) {
		go func() {
			if _, err := c.Refresh(context.Background(), dir); err != nil {
				logging.Debug().Err(err).Msg("release check failed")
			}
		}()
	}
}
