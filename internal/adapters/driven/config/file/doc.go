// Package file provides a TOML-backed settings store with optional live
// reload via filesystem notifications.
package file
