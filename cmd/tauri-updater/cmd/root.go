package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/okcodes/tauri-updater/internal/config"
	"github.com/okcodes/tauri-updater/internal/domain/release"
	"github.com/okcodes/tauri-updater/internal/logger"
	"github.com/okcodes/tauri-updater/internal/service/assembler"
	"github.com/okcodes/tauri-updater/internal/version"
)

var (
	// configPath to the optional configuration YAML file.
	configPath string

	// flagValues receives flag input; only flags set on the command line override other sources.
	flagValues config.Config

	// rootCmd represents the base command for publishing an updater manifest.
	rootCmd = newRootCommand()
)

// newRootCommand builds the tauri-updater command with its flags.
func newRootCommand() *cobra.Command {
	command := &cobra.Command{
		Use:   "tauri-updater",
		Short: "Publish a Tauri updater manifest for a GitHub release",
		Long: "Lists the assets of a GitHub release, selects one signed update payload per platform,\n" +
			"downloads the signature contents and uploads the resulting manifest to the same release.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			// Setup graceful shutdown handling.
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			cfg, err := resolveConfig(ctx, cmd.Flags(), time.Now())
			if err != nil {
				return err
			}

			if err = logger.Setup(cfg.LogLevel, cfg.LogFormat); err != nil {
				return err
			}

			defer logger.Sync()

			return assembler.Run(ctx, &assembler.Options{Config: cfg})
		},
	}

	registerFlags(command.Flags())

	return command
}

// registerFlags declares every configuration flag.
func registerFlags(flags *pflag.FlagSet) {
	flags.StringVarP(&configPath, "config", "c", "", "path to an optional YAML configuration file")
	flags.StringVar(&flagValues.Token, "token", "", "GitHub token (prefer the GITHUB_TOKEN environment variable)")
	flags.StringVarP(&flagValues.Repository, "repository", "r", "", "repository as owner/repo")
	flags.StringVar(&flagValues.APIBaseURL, "api-url", "", "GitHub REST endpoint (default "+config.DefaultAPIBaseURL+")")
	flags.StringVar(&flagValues.UploadURL, "upload-url", "", "GitHub upload endpoint (default "+config.DefaultUploadURL+")")
	flags.Int64Var(&flagValues.ReleaseID, "release-id", 0, "numeric identifier of the GitHub release")
	flags.StringVar(&flagValues.AppVersion, "app-version", "", "application version written to the manifest")
	flags.StringVar(&flagValues.PubDate, "pub-date", "", "RFC 3339 publish date (default now)")
	flags.StringVar(&flagValues.Notes, "notes", "", "release notes (default a generic sentence naming the version)")
	flags.BoolVar(&flagValues.PreferUniversal, "prefer-universal", false, "prefer universal macOS bundles")
	flags.BoolVar(&flagValues.PreferNsis, "prefer-nsis", false, "prefer NSIS Windows installers over MSI")
	flags.StringVar(&flagValues.UpdaterName, "updater-name", "", "manifest file name (default "+config.DefaultUpdaterName+")")
	flags.StringVar(&flagValues.UpdaterURLTemplate, "updater-url-template", "",
		"template for payload URLs, must contain "+release.AssetNamePlaceholder)
	flags.BoolVar(&flagValues.StrictSignatures, "strict-signatures", false,
		"reject signatures that are not base64 encoded minisign signatures")
	flags.BoolVar(&flagValues.Overwrite, "overwrite", false, "replace an existing manifest asset")
	flags.StringVarP(&flagValues.Output, "output", "o", "", "also write the manifest to this local file")
	flags.BoolVar(&flagValues.DryRun, "dry-run", false, "do not upload the manifest to the release")
	flags.DurationVar(&flagValues.Timeout, "timeout", 0, "timeout of a single GitHub request (default 30s)")
	flags.IntVar(&flagValues.Concurrency, "concurrency", 0, "parallel signature downloads (default 4)")
	flags.StringVar(&flagValues.LogLevel, "log-level", "", "log level: debug, info, warn, error")
	flags.StringVar(&flagValues.LogFormat, "log-format", "", "log format: console or json")
}

// flagOverrides copies the value of a changed flag into the configuration.
var flagOverrides = map[string]func(dst *config.Config){
	"token":                func(dst *config.Config) { dst.Token = flagValues.Token },
	"repository":           func(dst *config.Config) { dst.Repository = flagValues.Repository },
	"api-url":              func(dst *config.Config) { dst.APIBaseURL = flagValues.APIBaseURL },
	"upload-url":           func(dst *config.Config) { dst.UploadURL = flagValues.UploadURL },
	"release-id":           func(dst *config.Config) { dst.ReleaseID = flagValues.ReleaseID },
	"app-version":          func(dst *config.Config) { dst.AppVersion = flagValues.AppVersion },
	"pub-date":             func(dst *config.Config) { dst.PubDate = flagValues.PubDate },
	"notes":                func(dst *config.Config) { dst.Notes = flagValues.Notes },
	"prefer-universal":     func(dst *config.Config) { dst.PreferUniversal = flagValues.PreferUniversal },
	"prefer-nsis":          func(dst *config.Config) { dst.PreferNsis = flagValues.PreferNsis },
	"updater-name":         func(dst *config.Config) { dst.UpdaterName = flagValues.UpdaterName },
	"updater-url-template": func(dst *config.Config) { dst.UpdaterURLTemplate = flagValues.UpdaterURLTemplate },
	"strict-signatures":    func(dst *config.Config) { dst.StrictSignatures = flagValues.StrictSignatures },
	"overwrite":            func(dst *config.Config) { dst.Overwrite = flagValues.Overwrite },
	"output":               func(dst *config.Config) { dst.Output = flagValues.Output },
	"dry-run":              func(dst *config.Config) { dst.DryRun = flagValues.DryRun },
	"timeout":              func(dst *config.Config) { dst.Timeout = flagValues.Timeout },
	"concurrency":          func(dst *config.Config) { dst.Concurrency = flagValues.Concurrency },
	"log-level":            func(dst *config.Config) { dst.LogLevel = flagValues.LogLevel },
	"log-format":           func(dst *config.Config) { dst.LogFormat = flagValues.LogFormat },
}

// resolveConfig merges the YAML file, the environment and changed flags, then applies defaults.
func resolveConfig(ctx context.Context, flags *pflag.FlagSet, now time.Time) (*config.Config, error) {
	cfg, err := config.Load(ctx, configPath, nil)
	if err != nil {
		return nil, err
	}

	flags.Visit(func(flag *pflag.Flag) {
		if override, ok := flagOverrides[flag.Name]; ok {
			override(cfg)
		}
	})

	cfg.ApplyDefaults(now)

	return cfg, nil
}

// Execute runs the tauri-updater CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		logger.ErrorKV(context.Background(), "tauri-updater failed", "error", err)
		logger.Sync()
		os.Exit(1)
	}
}
