// Package assembler runs the full publishing pipeline for one release: list the
// release assets, classify them into a semi-manifest, resolve signatures into
// the final manifest, validate it and hand it to every configured publisher.
package assembler
