// Package logger provides a small wrapper around zap to offer:
//   - a global sugared logger writing to stderr in console or JSON format,
//   - context helpers (ToContext/FromContext/WithName/WithKV),
//   - level and format parsing utilities,
//   - convenience functions (Infof, ErrorKV, etc.).
//
// The pipeline stages accept a context and extract the logger from it, so a
// single run carries its release identifiers on every line it writes.
package logger
