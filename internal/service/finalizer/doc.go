// Package finalizer turns a semi-manifest into the publishable manifest.
//
// For every platform it downloads the signature file contents through a
// SignatureSource, drops platforms whose signature is empty and computes the
// payload URL from the optional {ASSET_NAME} template. Downloads run with
// bounded concurrency; any failed download aborts the whole run and every
// failure is reported.
package finalizer
