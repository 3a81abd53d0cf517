package release

import "regexp"

// AssetNamePlaceholder is replaced with the payload file name in updater URL templates.
const AssetNamePlaceholder = "{ASSET_NAME}"

// placeholderPattern matches AssetNamePlaceholder regardless of case.
var placeholderPattern = regexp.MustCompile(`(?i)\{ASSET_NAME\}`)

// HasPlaceholder reports whether template contains AssetNamePlaceholder in any letter case.
func HasPlaceholder(template string) bool {
	return placeholderPattern.MatchString(template)
}

// RewriteURL computes the download URL of asset.
// An empty template keeps the original URL; otherwise every placeholder
// occurrence is replaced with the asset name and the rest is kept verbatim.
func RewriteURL(template string, asset Asset) string {
	if template == "" {
		return asset.URL
	}

	return placeholderPattern.ReplaceAllLiteralString(template, asset.Name)
}
