package cmd

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"

	"github.com/okcodes/tauri-updater/internal/config"
)

var fixedNow = time.Date(2024, 5, 1, 10, 30, 0, 0, time.UTC)

// TestResolveConfig_Precedence checks that flags override the environment, which overrides the YAML file.
//
//nolint:paralleltest // Uses t.Setenv and package level flag storage.
func TestResolveConfig_Precedence(t *testing.T) {
	settings := filepath.Join(t.TempDir(), "settings.yaml")
	require.NoError(t, os.WriteFile(settings, []byte(
		"repository: yaml/repo\n"+
			"app_version: 0.1.0\n"+
			"notes: from yaml\n"+
			"release_id: 1\n"), 0o600))

	t.Setenv("GITHUB_TOKEN", "ghs_env")
	t.Setenv("GITHUB_REPOSITORY", "env/repo")
	t.Setenv("INPUT_RELEASEID", "7")
	t.Setenv("INPUT_PREFERNSIS", "")

	command := newRootCommand()
	require.NoError(t, command.Flags().Parse([]string{
		"--config", settings,
		"--release-id", "9",
		"--dry-run",
		"--updater-name", "dist/beta.json",
	}))

	cfg, err := resolveConfig(context.Background(), command.Flags(), fixedNow)
	require.NoError(t, err)

	require.Equal(t, "ghs_env", cfg.Token)
	require.Equal(t, "env/repo", cfg.Repository)
	require.Equal(t, int64(9), cfg.ReleaseID)
	require.Equal(t, "0.1.0", cfg.AppVersion)
	require.Equal(t, "from yaml", cfg.Notes)
	require.True(t, cfg.DryRun)
	require.False(t, cfg.PreferNsis)
	require.Equal(t, "beta.json", cfg.UpdaterName)
	require.Equal(t, "2024-05-01T10:30:00Z", cfg.PubDate)
	require.Equal(t, config.DefaultAPIBaseURL, cfg.APIBaseURL)
	require.Equal(t, config.DefaultConcurrency, cfg.Concurrency)
	require.NoError(t, config.Validate(cfg))
}

// TestResolveConfig_UnsetFlagsKeepEnvironment checks that flag defaults never mask environment values.
//
//nolint:paralleltest // Uses t.Setenv and package level flag storage.
func TestResolveConfig_UnsetFlagsKeepEnvironment(t *testing.T) {
	t.Setenv("INPUT_PREFERUNIVERSAL", "true")
	t.Setenv("TAURI_UPDATER_CONCURRENCY", "8")

	command := newRootCommand()
	require.NoError(t, command.Flags().Parse(nil))

	cfg, err := resolveConfig(context.Background(), command.Flags(), fixedNow)
	require.NoError(t, err)
	require.True(t, cfg.PreferUniversal)
	require.Equal(t, 8, cfg.Concurrency)
	require.Equal(t, config.DefaultUpdaterName, cfg.UpdaterName)
}

// TestRootCommand_RejectsInvalidInput checks that validation errors surface from the command.
//
//nolint:paralleltest // Uses t.Setenv and package level flag storage.
func TestRootCommand_RejectsInvalidInput(t *testing.T) {
	t.Setenv("GITHUB_TOKEN", "ghs_env")
	t.Setenv("GITHUB_REPOSITORY", "env/repo")

	command := newRootCommand()
	command.SetArgs([]string{
		"--release-id", "3",
		"--app-version", "1.0.0",
		"--updater-url-template", "https://cdn.example.com/",
	})

	err := command.ExecuteContext(context.Background())
	require.ErrorIs(t, err, config.ErrInvalidInput)
}

// TestFlagOverrides_CoverEveryFlag checks that every configuration flag has an override.
//
//nolint:paralleltest // Registers flags on package level storage.
func TestFlagOverrides_CoverEveryFlag(t *testing.T) {
	command := newRootCommand()
	command.Flags().VisitAll(func(flag *pflag.Flag) {
		if flag.Name == "config" {
			return
		}

		_, ok := flagOverrides[flag.Name]
		require.True(t, ok, flag.Name)
	})
}
