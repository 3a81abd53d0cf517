package assembler

import (
	"context"
	"errors"
	"fmt"

	"github.com/okcodes/tauri-updater/internal/config"
	"github.com/okcodes/tauri-updater/internal/domain/release"
	"github.com/okcodes/tauri-updater/internal/host/github"
	"github.com/okcodes/tauri-updater/internal/logger"
	"github.com/okcodes/tauri-updater/internal/repository/manifest"
	"github.com/okcodes/tauri-updater/internal/service/classifier"
	"github.com/okcodes/tauri-updater/internal/service/finalizer"
	"github.com/okcodes/tauri-updater/internal/version"
)

// AssetSource lists the assets of the release being published.
type AssetSource interface {
	Assets(ctx context.Context) ([]release.Asset, error)
}

// Publisher stores an encoded manifest under name.
type Publisher interface {
	Publish(ctx context.Context, name string, data []byte) error
}

// Options contains inputs for the assembler entry point.
type Options struct {
	// Config holds the validated or raw invocation inputs. Defaults must already be applied.
	Config *config.Config
	// Assets overrides the GitHub release asset source.
	Assets AssetSource
	// Signatures overrides the GitHub signature downloader.
	Signatures finalizer.SignatureSource
	// Publishers overrides the manifest destinations derived from Config.
	Publishers []Publisher
}

// assembler executes one pipeline run.
// It is unexported, callers should use Run, which encapsulates setup and validation.
type assembler struct {
	// cfg holds the invocation inputs.
	cfg *config.Config
	// assets lists release assets.
	assets AssetSource
	// signatures downloads signature contents.
	signatures finalizer.SignatureSource
	// publishers receive the encoded manifest in order.
	publishers []Publisher
}

// errNoConfig is returned when Run is called without configuration.
var errNoConfig = errors.New("configuration is not set")

// Run validates the configuration and publishes the manifest of the configured release.
func Run(ctx context.Context, opts *Options) error {
	if opts == nil || opts.Config == nil {
		return errNoConfig
	}

	ctx = logger.WithName(ctx, "assembler")

	if err := config.Validate(opts.Config); err != nil {
		return err
	}

	a, err := newAssembler(ctx, opts)
	if err != nil {
		return fmt.Errorf("initialize assembler: %w", err)
	}

	ctx = logger.WithKV(ctx, "repository", opts.Config.Repository, "release_id", opts.Config.ReleaseID)

	if err = a.Run(ctx); err != nil {
		return fmt.Errorf("assemble manifest: %w", err)
	}

	logger.Info(ctx, "Manifest published successfully")

	return nil
}

// newAssembler fills missing collaborators with their GitHub and file implementations.
func newAssembler(ctx context.Context, opts *Options) (*assembler, error) {
	cfg := opts.Config

	a := &assembler{
		cfg:        cfg,
		assets:     opts.Assets,
		signatures: opts.Signatures,
		publishers: opts.Publishers,
	}

	needsGitHub := a.assets == nil || a.signatures == nil || (a.publishers == nil && !cfg.DryRun)
	if !needsGitHub {
		if a.publishers == nil {
			a.publishers = filePublishers(cfg)
		}

		return a, nil
	}

	client, err := github.NewClient(ctx, cfg.Token,
		github.WithBaseURL(cfg.APIBaseURL),
		github.WithUploadURL(cfg.UploadURL),
		github.WithTimeout(cfg.Timeout),
		github.WithUserAgent(version.UserAgent()),
	)
	if err != nil {
		return nil, err
	}

	owner, repo := cfg.OwnerRepo()

	if a.assets == nil {
		a.assets = &github.Source{Client: client, Owner: owner, Repo: repo, ReleaseID: cfg.ReleaseID}
	}

	if a.signatures == nil {
		a.signatures = client
	}

	if a.publishers == nil {
		a.publishers = filePublishers(cfg)

		if !cfg.DryRun {
			a.publishers = append(a.publishers, &github.ReleasePublisher{
				Client:    client,
				Owner:     owner,
				Repo:      repo,
				ReleaseID: cfg.ReleaseID,
				Overwrite: cfg.Overwrite,
			})
		}
	}

	return a, nil
}

// filePublishers returns the local file destination when an output path is configured.
func filePublishers(cfg *config.Config) []Publisher {
	if cfg.Output == "" {
		return []Publisher{}
	}

	return []Publisher{manifest.NewFileRepository(nil, cfg.Output, cfg.Overwrite)}
}

// Run executes list, classify, finalize, encode, validate and publish in order.
func (a *assembler) Run(ctx context.Context) error {
	assets, err := a.assets.Assets(ctx)
	if err != nil {
		return fmt.Errorf("list release assets: %w", err)
	}

	semi := classifier.Assemble(ctx, &classifier.Params{
		Assets:          assets,
		AppVersion:      a.cfg.AppVersion,
		PubDate:         a.cfg.PubDate,
		Notes:           a.cfg.Notes,
		PreferUniversal: a.cfg.PreferUniversal,
		PreferNsis:      a.cfg.PreferNsis,
	})

	if len(semi.Platforms) == 0 {
		logger.Warn(ctx, "No signed updater payloads found in the release, the manifest has no platforms")
	}

	final, err := finalizer.Assemble(ctx, a.signatures, &finalizer.Params{
		SemiManifest:       semi,
		Token:              a.cfg.Token,
		UpdaterURLTemplate: a.cfg.UpdaterURLTemplate,
		Concurrency:        a.cfg.Concurrency,
		StrictSignatures:   a.cfg.StrictSignatures,
	})
	if err != nil {
		return err
	}

	data, err := manifest.Encode(final)
	if err != nil {
		return err
	}

	if err = manifest.Validate(data); err != nil {
		return err
	}

	if len(a.publishers) == 0 {
		logger.Infof(ctx, "No destination configured, manifest %s:\n%s", a.cfg.UpdaterName, data)

		return nil
	}

	for _, publisher := range a.publishers {
		if err = publisher.Publish(ctx, a.cfg.UpdaterName, data); err != nil {
			return fmt.Errorf("publish %s: %w", a.cfg.UpdaterName, err)
		}
	}

	logger.InfoKV(ctx, "Published manifest",
		"name", a.cfg.UpdaterName, "platforms", len(final.Platforms), "destinations", len(a.publishers))

	return nil
}
