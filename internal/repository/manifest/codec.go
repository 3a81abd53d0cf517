package manifest

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/okcodes/tauri-updater/internal/domain/release"
)

// errNilManifest is returned when there is nothing to encode.
var errNilManifest = errors.New("manifest is nil")

// Encode serializes m as compact JSON without HTML escaping, so URLs keep
// their literal '&' characters.
func Encode(m *release.FinalManifest) ([]byte, error) {
	if m == nil {
		return nil, errNilManifest
	}

	var buf bytes.Buffer

	encoder := json.NewEncoder(&buf)
	encoder.SetEscapeHTML(false)

	if err := encoder.Encode(m); err != nil {
		return nil, fmt.Errorf("encode manifest: %w", err)
	}

	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// Decode parses a manifest produced by Encode.
func Decode(data []byte) (*release.FinalManifest, error) {
	var m release.FinalManifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("decode manifest: %w", err)
	}

	return &m, nil
}
