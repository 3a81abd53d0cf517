package finalizer

import (
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/jedisct1/go-minisign"
)

// CheckSignatureFormat verifies that content is the base64 encoding of a minisign
// signature file, as written by the Tauri bundler. It does not verify the signature.
func CheckSignatureFormat(content string) error {
	decoded, err := base64.StdEncoding.DecodeString(strings.TrimSpace(content))
	if err != nil {
		return fmt.Errorf("decode base64: %w", err)
	}

	text := strings.TrimSpace(strings.ReplaceAll(string(decoded), "\r\n", "\n"))
	if _, err = minisign.DecodeSignature(text); err != nil {
		return fmt.Errorf("parse minisign signature: %w", err)
	}

	return nil
}
