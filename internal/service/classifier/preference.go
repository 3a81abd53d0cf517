package classifier

import (
	"sort"

	"github.com/okcodes/tauri-updater/internal/domain/release"
)

// Preferences are the tie-break flags between competing payload variants.
type Preferences struct {
	// Universal prefers universal macOS bundles over architecture-specific ones.
	Universal bool
	// Nsis prefers NSIS Windows installers over MSI ones.
	Nsis bool
}

// familyPolicies return the variants of a family, most preferred first.
// A variant missing from the list is never selected.
//
//nolint:gochecknoglobals // Read-only lookup table.
var familyPolicies = map[Family]func(Preferences) []Variant{
	FamilyDarwin: func(p Preferences) []Variant {
		if p.Universal {
			return []Variant{VariantUniversal, VariantArch}
		}

		return []Variant{VariantArch, VariantUniversal}
	},
	FamilyWindows: func(p Preferences) []Variant {
		if p.Nsis {
			return []Variant{VariantNSIS, VariantMSI}
		}

		return []Variant{VariantMSI, VariantNSIS}
	},
	FamilyLinux: func(Preferences) []Variant {
		return []Variant{VariantAppImage}
	},
}

// match is a payload/signature pair recognized by a rule.
type match struct {
	// rule is the table entry that recognized the payload.
	rule *Rule
	// candidate holds the payload and its signature.
	candidate release.Candidate
}

// reduce picks the candidate of one platform according to prefs.
// The first variant in policy order that has matches wins; within a variant
// the lexically smallest payload name wins so that the result does not depend
// on asset order.
func reduce(prefs Preferences, matches []match) (release.Candidate, Variant, bool) {
	if len(matches) == 0 {
		return release.Candidate{}, "", false
	}

	policy, ok := familyPolicies[matches[0].rule.Family]
	if !ok {
		return release.Candidate{}, "", false
	}

	byVariant := make(map[Variant][]release.Candidate, len(matches))
	for _, m := range matches {
		byVariant[m.rule.Variant] = append(byVariant[m.rule.Variant], m.candidate)
	}

	for _, variant := range policy(prefs) {
		candidates := byVariant[variant]
		if len(candidates) == 0 {
			continue
		}

		sort.Slice(candidates, func(i, j int) bool {
			return candidates[i].Updater.Name < candidates[j].Updater.Name
		})

		return candidates[0], variant, true
	}

	return release.Candidate{}, "", false
}
