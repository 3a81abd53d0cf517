package github

import (
	"context"

	"github.com/okcodes/tauri-updater/internal/domain/release"
)

// ReleasePublisher uploads manifests to one release.
type ReleasePublisher struct {
	// Client performs the API calls.
	Client *Client
	// Owner of the repository.
	Owner string
	// Repo is the repository name.
	Repo string
	// ReleaseID identifies the target release.
	ReleaseID int64
	// Overwrite replaces an existing asset with the same name.
	Overwrite bool
}

// Publish uploads data as the release asset called name.
func (p *ReleasePublisher) Publish(ctx context.Context, name string, data []byte) error {
	_, err := p.Client.UploadText(ctx, p.Owner, p.Repo, p.ReleaseID, name, data, p.Overwrite)

	return err
}

// Source lists the assets of one release.
type Source struct {
	// Client performs the API calls.
	Client *Client
	// Owner of the repository.
	Owner string
	// Repo is the repository name.
	Repo string
	// ReleaseID identifies the release to read.
	ReleaseID int64
}

// Assets returns the complete asset list of the release.
func (s *Source) Assets(ctx context.Context) ([]release.Asset, error) {
	return s.Client.ListReleaseAssets(ctx, s.Owner, s.Repo, s.ReleaseID)
}
