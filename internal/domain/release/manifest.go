package release

import "sort"

// Candidate is the update payload and its detached signature resolved for one platform.
type Candidate struct {
	// Updater is the signed update payload.
	Updater Asset `json:"updater"`
	// Signature is the detached signature of Updater.
	Signature Asset `json:"signature"`
}

// SemiManifest maps platforms to release assets that still point at their original hosting URLs.
type SemiManifest struct {
	// Version is the application version being released.
	Version string `json:"version"`
	// Notes are the release notes shown by updater clients.
	Notes string `json:"notes"`
	// PubDate is the RFC 3339 publish timestamp.
	PubDate string `json:"pub_date"`
	// Platforms holds exactly one candidate per detected platform.
	Platforms map[Platform]Candidate `json:"platformsPlaceholder"`
}

// PlatformIDs returns the platforms present in the semi-manifest in KnownPlatforms order.
// Unknown platforms, if any, follow in lexical order.
func (s *SemiManifest) PlatformIDs() []Platform {
	ids := make([]Platform, 0, len(s.Platforms))
	for id := range s.Platforms {
		ids = append(ids, id)
	}

	sort.Slice(ids, func(i, j int) bool {
		ri, rj := ids[i].rank(), ids[j].rank()
		if ri != rj {
			return ri < rj
		}

		return ids[i] < ids[j]
	})

	return ids
}

// PlatformEntry is the per-platform record of a published manifest.
type PlatformEntry struct {
	// URL is where clients download the update payload.
	URL string `json:"url"`
	// Signature is the content of the .sig file, not its location.
	Signature string `json:"signature"`
}

// FinalManifest is the publishable updater descriptor.
type FinalManifest struct {
	Version   string                     `json:"version"`
	Notes     string                     `json:"notes"`
	PubDate   string                     `json:"pub_date"`
	Platforms map[Platform]PlatformEntry `json:"platforms"`
}

// NewFinalManifest copies the release metadata of semi into an empty FinalManifest.
func NewFinalManifest(semi *SemiManifest) *FinalManifest {
	return &FinalManifest{
		Version:   semi.Version,
		Notes:     semi.Notes,
		PubDate:   semi.PubDate,
		Platforms: make(map[Platform]PlatformEntry, len(semi.Platforms)),
	}
}
