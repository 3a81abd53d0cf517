package classifier

import (
	"strings"

	"github.com/okcodes/tauri-updater/internal/domain/release"
)

// SignatureSuffix is appended to a payload name to obtain its detached signature.
const SignatureSuffix = ".sig"

// Family groups platforms whose payloads compete under the same preference axis.
type Family string

// Supported platform families.
const (
	FamilyDarwin  Family = "darwin"
	FamilyWindows Family = "windows"
	FamilyLinux   Family = "linux"
)

// Variant is one payload shape within a family.
type Variant string

// Payload shapes produced by the Tauri bundler.
const (
	VariantArch      Variant = "arch"
	VariantUniversal Variant = "universal"
	VariantMSI       Variant = "msi"
	VariantNSIS      Variant = "nsis"
	VariantAppImage  Variant = "appimage"
)

// Rule recognizes the update payload of one platform variant by name.
type Rule struct {
	// Platform is the manifest key the payload is published under.
	Platform release.Platform
	// Family selects the preference policy applied to competing variants.
	Family Family
	// Variant identifies the payload shape within Family.
	Variant Variant
	// Tokens are the architecture aliases, at least one must appear in the name.
	Tokens []string
	// Suffixes are the accepted file endings, compared case-insensitively.
	Suffixes []string
}

// Architecture aliases used in Tauri bundle names. x86_64 is folded into x64 by tokenize.
//
//nolint:gochecknoglobals // Read-only lookup tables.
var (
	tokensX64       = []string{"x64", "amd64"}
	tokensAarch64   = []string{"aarch64", "arm64"}
	tokensI686      = []string{"x86", "i686", "i386"}
	tokensUniversal = []string{"universal"}

	suffixesMacOS    = []string{".app.tar.gz"}
	suffixesMSI      = []string{".msi.zip", ".msi"}
	suffixesNSIS     = []string{".nsis.zip", ".exe"}
	suffixesAppImage = []string{".appimage.tar.gz", ".appimage"}
)

// rules is the single source of truth for supported platforms and payload variants.
//
//nolint:gochecknoglobals // Read-only lookup table.
var rules = []Rule{
	{release.DarwinAarch64, FamilyDarwin, VariantArch, tokensAarch64, suffixesMacOS},
	{release.DarwinAarch64, FamilyDarwin, VariantUniversal, tokensUniversal, suffixesMacOS},
	{release.DarwinX8664, FamilyDarwin, VariantArch, tokensX64, suffixesMacOS},
	{release.DarwinX8664, FamilyDarwin, VariantUniversal, tokensUniversal, suffixesMacOS},

	{release.WindowsX8664, FamilyWindows, VariantMSI, tokensX64, suffixesMSI},
	{release.WindowsX8664, FamilyWindows, VariantNSIS, tokensX64, suffixesNSIS},
	{release.WindowsI686, FamilyWindows, VariantMSI, tokensI686, suffixesMSI},
	{release.WindowsI686, FamilyWindows, VariantNSIS, tokensI686, suffixesNSIS},
	{release.WindowsAarch64, FamilyWindows, VariantMSI, tokensAarch64, suffixesMSI},
	{release.WindowsAarch64, FamilyWindows, VariantNSIS, tokensAarch64, suffixesNSIS},

	{release.LinuxX8664, FamilyLinux, VariantAppImage, tokensX64, suffixesAppImage},
	{release.LinuxI686, FamilyLinux, VariantAppImage, tokensI686, suffixesAppImage},
	{release.LinuxAarch64, FamilyLinux, VariantAppImage, tokensAarch64, suffixesAppImage},
}

// Match reports whether name is a payload for this rule.
func (r *Rule) Match(name string) bool {
	lower := strings.ToLower(name)

	hasSuffix := false

	for _, suffix := range r.Suffixes {
		if strings.HasSuffix(lower, suffix) {
			hasSuffix = true
			break
		}
	}

	if !hasSuffix {
		return false
	}

	tokens := tokenize(lower)
	for _, token := range r.Tokens {
		if _, ok := tokens[token]; ok {
			return true
		}
	}

	return false
}

// tokenize splits a lower-cased file name on separators.
// The x86_64 and x86-64 spellings are folded into x64 first so that "x86"
// only matches 32-bit names.
func tokenize(lower string) map[string]struct{} {
	lower = strings.NewReplacer("x86_64", "x64", "x86-64", "x64").Replace(lower)

	fields := strings.FieldsFunc(lower, func(r rune) bool {
		switch r {
		case '.', '_', '-', ' ', '+':
			return true
		default:
			return false
		}
	})

	tokens := make(map[string]struct{}, len(fields))
	for _, field := range fields {
		tokens[field] = struct{}{}
	}

	return tokens
}
