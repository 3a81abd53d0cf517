package release

// Asset is a named, URL-addressable file attached to a release.
type Asset struct {
	// URL is where the asset is hosted (the API URL for GitHub releases).
	URL string `json:"url"`
	// Name is the file name, unique within a release.
	Name string `json:"name"`
}

// Platform identifies an OS/architecture pair understood by updater clients.
type Platform string

// Platforms supported by the updater manifest.
const (
	DarwinAarch64  Platform = "darwin-aarch64"
	DarwinX8664    Platform = "darwin-x86_64"
	WindowsX8664   Platform = "windows-x86_64"
	WindowsI686    Platform = "windows-i686"
	WindowsAarch64 Platform = "windows-aarch64"
	LinuxX8664     Platform = "linux-x86_64"
	LinuxI686      Platform = "linux-i686"
	LinuxAarch64   Platform = "linux-aarch64"
)

// KnownPlatforms returns every supported platform in manifest order.
func KnownPlatforms() []Platform {
	return []Platform{
		DarwinAarch64,
		DarwinX8664,
		WindowsX8664,
		WindowsI686,
		WindowsAarch64,
		LinuxX8664,
		LinuxI686,
		LinuxAarch64,
	}
}

// rank returns the position of p in KnownPlatforms, or len(KnownPlatforms) for unknown values.
func (p Platform) rank() int {
	known := KnownPlatforms()
	for i, candidate := range known {
		if candidate == p {
			return i
		}
	}

	return len(known)
}
