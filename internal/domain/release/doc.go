// Package release contains the core domain types for an updater release.
//
// It defines Asset (a file attached to a release), Platform (the updater
// target key), the intermediate SemiManifest produced by the classifier and
// the publishable FinalManifest, plus the download URL template helpers.
package release
