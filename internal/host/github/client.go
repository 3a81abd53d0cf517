package github

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	gh "github.com/google/go-github/github"
	"golang.org/x/oauth2"

	"github.com/okcodes/tauri-updater/internal/domain/release"
	"github.com/okcodes/tauri-updater/internal/logger"
)

const (
	// assetsPerPage is the largest page size accepted by the release assets endpoint.
	assetsPerPage = 100

	// defaultTimeout bounds each request when no timeout option is given.
	defaultTimeout = 30 * time.Second

	// octetStream asks the API for the asset bytes instead of its metadata.
	octetStream = "application/octet-stream"
)

var (
	// ErrAssetExists is returned when the manifest name is taken and overwriting is disabled.
	ErrAssetExists = errors.New("release asset already exists")
	// errTokenRequired is returned when the client is created without a token.
	errTokenRequired = errors.New("github token must be provided")
)

// Client wraps the GitHub REST API with the operations used by the assembler.
type Client struct {
	// api is the token-authenticated go-github client.
	api *gh.Client
	// download fetches asset contents, setting credentials per request.
	download *http.Client
	// userAgent is sent with every request.
	userAgent string
	// timeout bounds every request.
	timeout time.Duration
}

// Option configures client behaviour.
type Option func(*Client) error

// WithTimeout sets the per-request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) error {
		if timeout > 0 {
			c.timeout = timeout
		}

		return nil
	}
}

// WithBaseURL points the API client at a GitHub Enterprise or test server.
func WithBaseURL(rawURL string) Option {
	return func(c *Client) error {
		if rawURL == "" {
			return nil
		}

		parsed, err := parseEndpoint(rawURL)
		if err != nil {
			return fmt.Errorf("parse api url: %w", err)
		}

		c.api.BaseURL = parsed

		return nil
	}
}

// WithUploadURL points release asset uploads at a GitHub Enterprise or test server.
func WithUploadURL(rawURL string) Option {
	return func(c *Client) error {
		if rawURL == "" {
			return nil
		}

		parsed, err := parseEndpoint(rawURL)
		if err != nil {
			return fmt.Errorf("parse upload url: %w", err)
		}

		c.api.UploadURL = parsed

		return nil
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(userAgent string) Option {
	return func(c *Client) error {
		if userAgent != "" {
			c.userAgent = userAgent
			c.api.UserAgent = userAgent
		}

		return nil
	}
}

// NewClient creates a client authenticated with token.
func NewClient(ctx context.Context, token string, opts ...Option) (*Client, error) {
	if token == "" {
		return nil, errTokenRequired
	}

	httpClient := oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token}))

	c := &Client{
		api:      gh.NewClient(httpClient),
		download: new(http.Client),
		timeout:  defaultTimeout,
	}

	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}

	httpClient.Timeout = c.timeout
	c.download.Timeout = c.timeout

	return c, nil
}

// ListReleaseAssets returns every asset of a release, following pagination.
// Names are unique in the result; a repeated name keeps its last occurrence.
func (c *Client) ListReleaseAssets(ctx context.Context, owner, repo string, releaseID int64) ([]release.Asset, error) {
	raw, err := c.listReleaseAssets(ctx, owner, repo, releaseID)
	if err != nil {
		return nil, err
	}

	assets := make([]release.Asset, 0, len(raw))
	positions := make(map[string]int, len(raw))

	for _, item := range raw {
		asset := release.Asset{URL: item.GetURL(), Name: item.GetName()}

		if i, seen := positions[asset.Name]; seen {
			assets[i] = asset
			continue
		}

		positions[asset.Name] = len(assets)
		assets = append(assets, asset)
	}

	return assets, nil
}

// listReleaseAssets pages through the release assets endpoint.
func (c *Client) listReleaseAssets(
	ctx context.Context,
	owner, repo string,
	releaseID int64,
) ([]*gh.ReleaseAsset, error) {
	logger.InfoKV(ctx, "Listing release assets", "owner", owner, "repo", repo, "release_id", releaseID)

	var (
		all  []*gh.ReleaseAsset
		opts = &gh.ListOptions{PerPage: assetsPerPage, Page: 1}
	)

	for {
		page, response, err := c.api.Repositories.ListReleaseAssets(ctx, owner, repo, releaseID, opts)
		if err != nil {
			return nil, fmt.Errorf("list release assets (page %d): %w", opts.Page, err)
		}

		all = append(all, page...)

		logger.Debugf(ctx, "Read page %d of release assets with %d entries", opts.Page, len(page))

		if response == nil || response.NextPage == 0 {
			break
		}

		opts.Page = response.NextPage
	}

	logger.InfoKV(ctx, "Listed release assets", "count", len(all), "pages", opts.Page)

	return all, nil
}

// FetchText downloads the asset at rawURL as text, authenticated with token.
func (c *Client) FetchText(ctx context.Context, rawURL, token string) (string, error) {
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, http.NoBody)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}

	request.Header.Set("Accept", octetStream)

	if c.userAgent != "" {
		request.Header.Set("User-Agent", c.userAgent)
	}

	if token != "" {
		request.Header.Set("Authorization", "token "+token)
	}

	response, err := c.download.Do(request)
	if err != nil {
		return "", err
	}

	defer func() {
		_ = response.Body.Close()
	}()

	if err = gh.CheckResponse(response); err != nil {
		return "", err
	}

	body, err := io.ReadAll(response.Body)
	if err != nil {
		return "", fmt.Errorf("read body: %w", err)
	}

	return string(body), nil
}

// UploadText attaches text to a release as an asset called name.
// An existing asset with the same name is deleted first when overwrite is set,
// otherwise ErrAssetExists is returned.
func (c *Client) UploadText(
	ctx context.Context,
	owner, repo string,
	releaseID int64,
	name string,
	text []byte,
	overwrite bool,
) (*release.Asset, error) {
	if err := c.clearExisting(ctx, owner, repo, releaseID, name, overwrite); err != nil {
		return nil, err
	}

	file, err := os.CreateTemp("", "tauri-updater-*.json")
	if err != nil {
		return nil, fmt.Errorf("create temporary file: %w", err)
	}

	defer func() {
		_ = file.Close()
		_ = os.Remove(file.Name())
	}()

	if _, err = file.Write(text); err != nil {
		return nil, fmt.Errorf("write temporary file: %w", err)
	}

	if _, err = file.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("rewind temporary file: %w", err)
	}

	uploaded, _, err := c.api.Repositories.UploadReleaseAsset(ctx, owner, repo, releaseID,
		&gh.UploadOptions{Name: name}, file)
	if err != nil {
		return nil, fmt.Errorf("upload release asset %s: %w", name, err)
	}

	logger.InfoKV(ctx, "Uploaded release asset", "name", name, "size", len(text))

	return &release.Asset{URL: uploaded.GetURL(), Name: uploaded.GetName()}, nil
}

// clearExisting removes a previous asset called name, or fails when overwrite is off.
func (c *Client) clearExisting(
	ctx context.Context,
	owner, repo string,
	releaseID int64,
	name string,
	overwrite bool,
) error {
	existing, err := c.listReleaseAssets(ctx, owner, repo, releaseID)
	if err != nil {
		return err
	}

	for _, item := range existing {
		if item.GetName() != name {
			continue
		}

		if !overwrite {
			return fmt.Errorf("%s: %w", name, ErrAssetExists)
		}

		logger.InfoKV(ctx, "Deleting previous release asset", "name", name, "asset_id", item.GetID())

		if _, err = c.api.Repositories.DeleteReleaseAsset(ctx, owner, repo, item.GetID()); err != nil {
			return fmt.Errorf("delete release asset %s: %w", name, err)
		}
	}

	return nil
}

// parseEndpoint parses a GitHub endpoint and ensures the trailing slash go-github requires.
func parseEndpoint(rawURL string) (*url.URL, error) {
	if !strings.HasSuffix(rawURL, "/") {
		rawURL += "/"
	}

	return url.Parse(rawURL)
}
