// Package manifest implements encoding, schema validation and persistence of
// the final updater manifest.
//
// Encode produces the exact JSON shape consumed by Tauri updater clients,
// Validate checks a document against the embedded JSON schema and the
// FileRepository writes or reads manifests through an afero filesystem.
package manifest
