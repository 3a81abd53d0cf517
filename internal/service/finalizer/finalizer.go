package finalizer

import (
	"context"
	"errors"
	"fmt"

	"github.com/hashicorp/go-multierror"
	"golang.org/x/sync/errgroup"

	"github.com/okcodes/tauri-updater/internal/domain/release"
	"github.com/okcodes/tauri-updater/internal/logger"
)

// SignatureSource retrieves the text stored at a signature asset URL.
type SignatureSource interface {
	FetchText(ctx context.Context, url, token string) (string, error)
}

// Params are the inputs of Assemble.
type Params struct {
	// SemiManifest is the classifier output.
	SemiManifest *release.SemiManifest
	// Token authenticates signature downloads.
	Token string
	// UpdaterURLTemplate rewrites payload URLs when not empty. It is validated by the caller.
	UpdaterURLTemplate string
	// Concurrency bounds parallel downloads. Values below one mean sequential.
	Concurrency int
	// StrictSignatures rejects signatures that are not base64 encoded minisign signatures.
	StrictSignatures bool
}

// FetchError reports a failed signature download for one platform.
type FetchError struct {
	// Platform whose signature could not be retrieved.
	Platform release.Platform
	// URL of the signature asset.
	URL string
	// Err is the transport or authorization error.
	Err error
}

// Error implements the error interface.
func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch signature for %s from %s: %v", e.Platform, e.URL, e.Err)
}

// Unwrap returns the underlying transport error.
func (e *FetchError) Unwrap() error {
	return e.Err
}

// errNoSemiManifest is returned when Params carries no semi-manifest.
var errNoSemiManifest = errors.New("semi-manifest is not set")

// Assemble builds the final manifest. It returns no manifest at all when any
// signature download fails.
func Assemble(ctx context.Context, source SignatureSource, params *Params) (*release.FinalManifest, error) {
	if params == nil || params.SemiManifest == nil {
		return nil, errNoSemiManifest
	}

	ctx = logger.WithName(ctx, "finalizer")

	semi := params.SemiManifest
	ids := semi.PlatformIDs()

	contents, err := fetchSignatures(ctx, source, params, ids)
	if err != nil {
		return nil, err
	}

	manifest := release.NewFinalManifest(semi)

	for i, id := range ids {
		if contents[i] == "" {
			logger.WarnKV(ctx, "Signature is empty, skipping platform", "platform", id)
			continue
		}

		if params.StrictSignatures {
			if err = CheckSignatureFormat(contents[i]); err != nil {
				return nil, fmt.Errorf("signature of %s: %w", id, err)
			}
		}

		candidate := semi.Platforms[id]
		manifest.Platforms[id] = release.PlatformEntry{
			URL:       release.RewriteURL(params.UpdaterURLTemplate, candidate.Updater),
			Signature: contents[i],
		}
	}

	logger.InfoKV(ctx, "Final manifest assembled",
		"version", manifest.Version, "platforms", len(manifest.Platforms), "skipped", len(ids)-len(manifest.Platforms))

	return manifest, nil
}

// fetchSignatures downloads the signature of every platform in ids and returns
// the contents in the same order. All downloads are awaited before returning.
func fetchSignatures(
	ctx context.Context,
	source SignatureSource,
	params *Params,
	ids []release.Platform,
) ([]string, error) {
	var (
		contents = make([]string, len(ids))
		errs     = make([]error, len(ids))
		group    errgroup.Group
	)

	limit := params.Concurrency
	if limit < 1 {
		limit = 1
	}

	group.SetLimit(limit)

	for i, id := range ids {
		url := params.SemiManifest.Platforms[id].Signature.URL

		group.Go(func() error {
			logger.DebugKV(ctx, "Fetching signature", "platform", id, "url", url)

			content, err := source.FetchText(ctx, url, params.Token)
			if err != nil {
				errs[i] = &FetchError{Platform: id, URL: url, Err: err}
				return nil
			}

			contents[i] = content

			return nil
		})
	}

	// Goroutines only record their failure, see errs.
	_ = group.Wait()

	var result *multierror.Error

	for _, err := range errs {
		if err != nil {
			result = multierror.Append(result, err)
		}
	}

	if err := result.ErrorOrNil(); err != nil {
		return nil, fmt.Errorf("fetch signatures: %w", err)
	}

	return contents, nil
}
