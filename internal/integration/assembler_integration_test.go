package integration

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/okcodes/tauri-updater/internal/config"
	"github.com/okcodes/tauri-updater/internal/host/github"
	"github.com/okcodes/tauri-updater/internal/repository/manifest"
	"github.com/okcodes/tauri-updater/internal/service/assembler"
)

const (
	darwinPayload   = "aarch64-apple-darwin.xxx_0.0.18_aarch64.updater.app.tar.gz"
	darwinSignature = "dW50cnVzdGVkIGNvbW1lbnQ6IHNpZ25hdHVyZSBmcm9tIHRhdXJp"
)

// newConfig returns a configuration targeting the fake server.
func newConfig(f *fakeGitHub) *config.Config {
	cfg := &config.Config{
		Token:       testToken,
		Repository:  testOwner + "/" + testRepo,
		APIBaseURL:  f.server.URL,
		UploadURL:   f.server.URL,
		ReleaseID:   testRelease,
		AppVersion:  "0.0.0",
		PubDate:     "2020-06-22T19:25:57Z",
		Concurrency: 2,
		Timeout:     5 * time.Second,
	}
	cfg.ApplyDefaults(time.Now())

	return cfg
}

// addDarwinQuartet uploads one signed macOS bundle next to unsigned artifacts.
func addDarwinQuartet(f *fakeGitHub) string {
	f.add("aarch64-apple-darwin.xxx_0.0.18_aarch64.app.tar.gz", "bundle")
	f.add("aarch64-apple-darwin.xxx_0.0.18_aarch64.dmg", "image")
	payload := f.add(darwinPayload, "payload")
	f.add(darwinPayload+".sig", darwinSignature)

	return payload.URL
}

// TestAssembler_PublishesDarwinManifest runs the whole pipeline against the fake GitHub API.
func TestAssembler_PublishesDarwinManifest(t *testing.T) {
	t.Parallel()

	f := newFakeGitHub(t)
	payloadURL := addDarwinQuartet(f)

	cfg := newConfig(f)
	cfg.Output = filepath.Join(t.TempDir(), "latest.json")

	require.NoError(t, assembler.Run(context.Background(), &assembler.Options{Config: cfg}))

	uploaded, ok := f.content("latest.json")
	require.True(t, ok)
	require.JSONEq(t, `{
		"version": "0.0.0",
		"notes": "Version 0.0.0 brings enhancements and bug fixes for improved performance and stability.",
		"pub_date": "2020-06-22T19:25:57Z",
		"platforms": {
			"darwin-aarch64": {"url": "`+payloadURL+`", "signature": "`+darwinSignature+`"}
		}
	}`, uploaded)

	local, err := manifest.NewFileRepository(nil, cfg.Output, false).Load(context.Background())
	require.NoError(t, err)
	require.Equal(t, payloadURL, local.Platforms["darwin-aarch64"].URL)
}

// TestAssembler_RejectsTemplateBeforeNetwork checks that no request is sent for invalid inputs.
func TestAssembler_RejectsTemplateBeforeNetwork(t *testing.T) {
	t.Parallel()

	f := newFakeGitHub(t)
	addDarwinQuartet(f)

	cfg := newConfig(f)
	cfg.UpdaterURLTemplate = "https://cdn.example.com/latest/"

	err := assembler.Run(context.Background(), &assembler.Options{Config: cfg})
	require.ErrorIs(t, err, config.ErrInvalidInput)
	require.Zero(t, f.requests.Load())
}

// TestAssembler_ExistingManifest checks the overwrite switch.
func TestAssembler_ExistingManifest(t *testing.T) {
	t.Parallel()

	f := newFakeGitHub(t)
	addDarwinQuartet(f)
	f.add("latest.json", `{"version":"old"}`)

	cfg := newConfig(f)

	err := assembler.Run(context.Background(), &assembler.Options{Config: cfg})
	require.ErrorIs(t, err, github.ErrAssetExists)

	cfg.Overwrite = true
	cfg.UpdaterURLTemplate = "https://cdn.example.com/0.0.0/{ASSET_NAME}"

	require.NoError(t, assembler.Run(context.Background(), &assembler.Options{Config: cfg}))
	require.Equal(t, []string{"latest.json"}, f.deleted)

	uploaded, ok := f.content("latest.json")
	require.True(t, ok)

	m, err := manifest.Decode([]byte(uploaded))
	require.NoError(t, err)
	require.Equal(t, "0.0.0", m.Version)
	require.Equal(t, "https://cdn.example.com/0.0.0/"+darwinPayload, m.Platforms["darwin-aarch64"].URL)
}

// TestAssembler_DryRunDoesNotUpload checks that a dry run leaves the release untouched.
func TestAssembler_DryRunDoesNotUpload(t *testing.T) {
	t.Parallel()

	f := newFakeGitHub(t)
	addDarwinQuartet(f)

	cfg := newConfig(f)
	cfg.DryRun = true

	require.NoError(t, assembler.Run(context.Background(), &assembler.Options{Config: cfg}))

	_, ok := f.content("latest.json")
	require.False(t, ok)
}

// TestAssembler_BadCredentials checks that authorization failures abort the run.
func TestAssembler_BadCredentials(t *testing.T) {
	t.Parallel()

	f := newFakeGitHub(t)
	addDarwinQuartet(f)

	cfg := newConfig(f)
	cfg.Token = "ghs_wrong"

	err := assembler.Run(context.Background(), &assembler.Options{Config: cfg})
	require.ErrorContains(t, err, "Bad credentials")
}
