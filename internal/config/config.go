package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/sethvargo/go-envconfig"
	"gopkg.in/yaml.v3"
)

// Config holds every input of a single manifest assembly run.
//
//nolint:tagliatelle // Tag names mirror GitHub Actions inputs.
type Config struct {
	// Token authenticates GitHub API calls and signature downloads. Never persisted to YAML.
	Token string `yaml:"-" json:"token" env:"GITHUB_TOKEN,overwrite"`
	// Repository is the "owner/repo" slug hosting the release.
	Repository string `yaml:"repository" json:"repository" env:"GITHUB_REPOSITORY,overwrite"`
	// APIBaseURL is the GitHub REST endpoint (GitHub Enterprise installs override it).
	APIBaseURL string `yaml:"api_url" json:"apiUrl" env:"GITHUB_API_URL,overwrite"`
	// UploadURL is the GitHub endpoint used to upload release assets.
	UploadURL string `yaml:"upload_url" json:"uploadUrl" env:"GITHUB_UPLOAD_URL,overwrite"`
	// ReleaseID is the numeric identifier of the release to read and publish to.
	ReleaseID int64 `yaml:"release_id" json:"releaseId" env:"INPUT_RELEASEID,overwrite"`
	// AppVersion is written as the manifest version.
	AppVersion string `yaml:"app_version" json:"appVersion" env:"INPUT_APPVERSION,overwrite"`
	// PubDate is the RFC 3339 publish timestamp. Defaults to the current time.
	PubDate string `yaml:"pub_date" json:"pubDate" env:"INPUT_PUBDATE,overwrite"`
	// Notes are the release notes. Defaults to a generic sentence naming AppVersion.
	Notes string `yaml:"notes" json:"notes" env:"INPUT_NOTES,overwrite"`
	// PreferUniversal selects universal macOS bundles over architecture-specific ones.
	PreferUniversal bool `yaml:"prefer_universal" json:"preferUniversal" env:"INPUT_PREFERUNIVERSAL,overwrite"`
	// PreferNsis selects NSIS Windows installers over MSI ones.
	PreferNsis bool `yaml:"prefer_nsis" json:"preferNsis" env:"INPUT_PREFERNSIS,overwrite"`
	// UpdaterName is the file name of the uploaded manifest, must end in ".json".
	UpdaterName string `yaml:"updater_name" json:"updaterName" env:"INPUT_UPDATERNAME,overwrite"`
	// UpdaterURLTemplate optionally rewrites payload URLs, must contain {ASSET_NAME}.
	UpdaterURLTemplate string `yaml:"updater_url_template" json:"updaterUrlTemplate" env:"INPUT_UPDATERURLTEMPLATE,overwrite"`
	// StrictSignatures rejects signature files that are not base64 encoded minisign signatures.
	StrictSignatures bool `yaml:"strict_signatures" json:"strictSignatures" env:"INPUT_STRICTSIGNATURES,overwrite"`
	// Overwrite replaces an existing release asset named UpdaterName.
	Overwrite bool `yaml:"overwrite" json:"overwrite" env:"INPUT_OVERWRITE,overwrite"`
	// Output is an optional local path the manifest is also written to.
	Output string `yaml:"output" json:"output" env:"INPUT_OUTPUT,overwrite"`
	// DryRun skips the upload to the release.
	DryRun bool `yaml:"dry_run" json:"dryRun" env:"INPUT_DRYRUN,overwrite"`
	// Timeout bounds every GitHub request.
	Timeout time.Duration `yaml:"timeout" json:"timeout" env:"TAURI_UPDATER_TIMEOUT,overwrite"`
	// Concurrency is the number of signature downloads issued in parallel.
	Concurrency int `yaml:"concurrency" json:"concurrency" env:"TAURI_UPDATER_CONCURRENCY,overwrite"`
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level" json:"logLevel" env:"TAURI_UPDATER_LOG_LEVEL,overwrite"`
	// LogFormat is console or json.
	LogFormat string `yaml:"log_format" json:"logFormat" env:"TAURI_UPDATER_LOG_FORMAT,overwrite"`
}

const (
	// DefaultUpdaterName is the manifest file name used when none is given.
	DefaultUpdaterName = "latest.json"

	// DefaultAPIBaseURL is the public GitHub REST endpoint.
	DefaultAPIBaseURL = "https://api.github.com/"

	// DefaultUploadURL is the public GitHub upload endpoint.
	DefaultUploadURL = "https://uploads.github.com/"

	// DefaultTimeout is the default duration for a single GitHub request.
	DefaultTimeout = 30 * time.Second

	// DefaultConcurrency is the default number of parallel signature downloads.
	DefaultConcurrency = 4

	// ManifestExtension is the required extension of UpdaterName.
	ManifestExtension = ".json"
)

// ErrInvalidInput wraps every configuration error so callers can tell them apart from runtime failures.
var ErrInvalidInput = errors.New("invalid input")

// Load reads the optional YAML file at path and overlays values found through lookuper.
// A nil lookuper reads the process environment. Empty variables count as unset,
// matching how GitHub Actions exports inputs that were not provided.
func Load(ctx context.Context, path string, lookuper envconfig.Lookuper) (*Config, error) {
	cfg := new(Config)

	if path != "" {
		contents, err := os.ReadFile(filepath.Clean(path))
		if err != nil {
			return nil, fmt.Errorf("read settings: %w", err)
		}

		if err = yaml.Unmarshal(contents, cfg); err != nil {
			return nil, fmt.Errorf("%w: unmarshal settings: %w", ErrInvalidInput, err)
		}
	}

	if lookuper == nil {
		lookuper = envconfig.OsLookuper()
	}

	if err := envconfig.ProcessWith(ctx, cfg, nonEmptyLookuper{lookuper}); err != nil {
		return nil, fmt.Errorf("%w: read environment: %w", ErrInvalidInput, err)
	}

	return cfg, nil
}

// ApplyDefaults trims inputs and fills unset values. now is used for the default PubDate.
func (c *Config) ApplyDefaults(now time.Time) {
	c.Token = strings.TrimSpace(c.Token)
	c.Repository = strings.TrimSpace(c.Repository)
	c.AppVersion = strings.TrimSpace(c.AppVersion)
	c.PubDate = strings.TrimSpace(c.PubDate)
	c.UpdaterURLTemplate = strings.TrimSpace(c.UpdaterURLTemplate)

	if name := strings.TrimSpace(c.UpdaterName); name != "" {
		c.UpdaterName = path.Base(name)
	} else {
		c.UpdaterName = DefaultUpdaterName
	}

	if c.PubDate == "" {
		c.PubDate = now.UTC().Format(time.RFC3339)
	} else if _, err := time.Parse(time.RFC3339, c.PubDate); err != nil {
		if parsed, ok := ParsePubDate(c.PubDate); ok {
			c.PubDate = parsed.Format(time.RFC3339)
		}
	}

	if c.Notes == "" && c.AppVersion != "" {
		c.Notes = DefaultNotes(c.AppVersion)
	}

	if c.APIBaseURL == "" {
		c.APIBaseURL = DefaultAPIBaseURL
	}

	if c.UploadURL == "" {
		c.UploadURL = DefaultUploadURL
	}

	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}

	if c.Concurrency <= 0 {
		c.Concurrency = DefaultConcurrency
	}
}

// pubDateLayouts are the ISO 8601 forms accepted for PubDate besides RFC 3339.
var pubDateLayouts = []string{
	"2006-01-02T15:04:05.999999999Z0700",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02T15:04Z07:00",
}

// ParsePubDate parses an RFC 3339 or common ISO 8601 timestamp carrying a zone.
func ParsePubDate(value string) (time.Time, bool) {
	if parsed, err := time.Parse(time.RFC3339, value); err == nil {
		return parsed, true
	}

	for _, layout := range pubDateLayouts {
		if parsed, err := time.Parse(layout, value); err == nil {
			return parsed, true
		}
	}

	return time.Time{}, false
}

// OwnerRepo splits Repository into its owner and repository names.
func (c *Config) OwnerRepo() (string, string) {
	owner, repo, _ := strings.Cut(c.Repository, "/")

	return owner, repo
}

// DefaultNotes returns the release notes used when none are configured.
func DefaultNotes(appVersion string) string {
	return fmt.Sprintf(
		"Version %s brings enhancements and bug fixes for improved performance and stability.",
		appVersion,
	)
}

// nonEmptyLookuper hides variables that are set to an empty string.
type nonEmptyLookuper struct {
	// next is the wrapped lookuper.
	next envconfig.Lookuper
}

// Lookup reports a variable as found only when it has a non-empty value.
func (l nonEmptyLookuper) Lookup(key string) (string, bool) {
	value, found := l.next.Lookup(key)
	if !found || value == "" {
		return "", false
	}

	return value, true
}
