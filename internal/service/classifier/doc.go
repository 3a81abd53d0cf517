// Package classifier turns the flat asset list of a release into a semi-manifest.
//
// Matching is driven by a single rule table (platform, family, variant, name
// tokens, file suffixes). Every asset whose "<name>.sig" companion exists is
// matched against the table; the resulting candidates are then reduced per
// platform by a preference policy (universal vs. architecture-specific macOS
// bundles, NSIS vs. MSI Windows installers). The package performs no I/O.
package classifier
