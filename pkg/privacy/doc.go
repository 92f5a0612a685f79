// Package privacy is the secret-scanning and redaction gate applied to all
// textual inputs before any outbound provider call. It detects cloud access
// keys, bearer tokens, private-key headers, credentialed connection strings,
// password/API-key assignments, and vendor key prefixes, and exposes the
// content truncation cap enforced by the provider manager.
//
// Findings never contain the full matched secret, only a masked preview, so
// they are safe to log and to serialize into a privacy-block error.
package privacy
