// Package version exposes the build metadata injected with
// -ldflags "-X github.com/okcodes/tauri-updater/internal/version.Version=...".
package version
