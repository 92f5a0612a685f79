// Package config loads, validates, and watches the YAML configuration.
// Environment variables with the SCRIBE_ prefix override file values.
package config
