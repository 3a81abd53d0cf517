package classifier

import (
	"context"
	"sort"
	"strings"

	"github.com/okcodes/tauri-updater/internal/domain/release"
	"github.com/okcodes/tauri-updater/internal/logger"
)

// Params are the inputs of Assemble.
type Params struct {
	// Assets is the complete, unordered asset list of the release.
	Assets []release.Asset
	// AppVersion becomes the manifest version.
	AppVersion string
	// PubDate becomes the manifest publish date.
	PubDate string
	// Notes are passed through unchanged.
	Notes string
	// PreferUniversal prefers universal macOS bundles.
	PreferUniversal bool
	// PreferNsis prefers NSIS Windows installers.
	PreferNsis bool
}

// Assemble classifies params.Assets into a semi-manifest holding at most one
// candidate per platform. A payload without its signature companion is skipped,
// an empty asset list yields an empty manifest. The context only carries the logger.
func Assemble(ctx context.Context, params *Params) *release.SemiManifest {
	ctx = logger.WithName(ctx, "classifier")

	semi := &release.SemiManifest{
		Version:   params.AppVersion,
		Notes:     params.Notes,
		PubDate:   params.PubDate,
		Platforms: make(map[release.Platform]release.Candidate),
	}

	prefs := Preferences{
		Universal: params.PreferUniversal,
		Nsis:      params.PreferNsis,
	}

	for platform, matches := range collectMatches(ctx, params.Assets) {
		candidate, variant, ok := reduce(prefs, matches)
		if !ok {
			continue
		}

		semi.Platforms[platform] = candidate

		logger.DebugKV(ctx, "Selected platform payload",
			"platform", platform, "variant", variant, "asset", candidate.Updater.Name)
	}

	logger.InfoKV(ctx, "Classified release assets",
		"assets", len(params.Assets), "platforms", semi.PlatformIDs())

	return semi
}

// collectMatches pairs each payload with its signature and runs it through the rule table.
func collectMatches(ctx context.Context, assets []release.Asset) map[release.Platform][]match {
	byName := indexByName(assets)

	names := make([]string, 0, len(byName))
	for name := range byName {
		names = append(names, name)
	}

	sort.Strings(names)

	matches := make(map[release.Platform][]match)

	for _, name := range names {
		if strings.HasSuffix(name, SignatureSuffix) {
			continue
		}

		for i := range rules {
			rule := &rules[i]
			if !rule.Match(name) {
				continue
			}

			signature, ok := byName[name+SignatureSuffix]
			if !ok {
				logger.DebugKV(ctx, "Skipping payload without signature",
					"platform", rule.Platform, "asset", name)

				continue
			}

			matches[rule.Platform] = append(matches[rule.Platform], match{
				rule: rule,
				candidate: release.Candidate{
					Updater:   byName[name],
					Signature: signature,
				},
			})
		}
	}

	return matches
}

// indexByName maps asset names to assets. Duplicate names keep the last occurrence.
func indexByName(assets []release.Asset) map[string]release.Asset {
	byName := make(map[string]release.Asset, len(assets))
	for _, asset := range assets {
		byName[asset.Name] = asset
	}

	return byName
}
