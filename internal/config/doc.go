// Package config defines the invocation inputs of the manifest assembler and
// provides helpers to load them from a YAML file and the environment, fill
// defaults and validate them before any network call is made.
//
// Environment names follow GitHub Actions conventions: GITHUB_TOKEN,
// GITHUB_REPOSITORY and GITHUB_API_URL for the workflow context, and
// INPUT_<NAME> for action inputs.
package config
