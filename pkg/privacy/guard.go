package privacy

import (
	"fmt"
	"regexp"
)

// Finding is one secret detection. MatchPreview is always masked; the full
// matched text is never stored so findings are safe to log or serialize.
type Finding struct {
	// Type is the detector name (e.g., "AWS_ACCESS_KEY").
	Type string `json:"type"`

	// MatchPreview is the masked match: first 6 and last 4 characters.
	MatchPreview string `json:"match"`

	// Index is the byte offset of the match in the scanned text.
	Index int `json:"index"`
}

// detector is one secret pattern. Detectors run in a fixed order so results
// are deterministic.
type detector struct {
	name  string
	regex *regexp.Regexp
}

// Detector type names.
const (
	TypeAWSAccessKey     = "AWS_ACCESS_KEY"
	TypeBearerToken      = "BEARER_TOKEN"
	TypePrivateKey       = "PRIVATE_KEY"
	TypeConnectionString = "CONNECTION_STRING"
	TypePasswordAssign   = "PASSWORD_ASSIGNMENT"
	TypeAPIKeyAssign     = "API_KEY_ASSIGNMENT"
	TypeVendorKey        = "VENDOR_API_KEY"
)

// detectors is the fixed ordered detector list. More specific patterns run
// before the generic assignment patterns so a vendor key is not reported
// twice under a weaker type at the same offset.
var detectors = []detector{
	{TypeAWSAccessKey, regexp.MustCompile(`\b(?:AKIA|ASIA)[0-9A-Z]{16}\b`)},
	{TypePrivateKey, regexp.MustCompile(`-----BEGIN (?:RSA |EC |OPENSSH |PGP )?PRIVATE KEY-----`)},
	{TypeBearerToken, regexp.MustCompile(`(?i)bearer\s+[A-Za-z0-9\-._~+/]{16,}=*`)},
	{TypeVendorKey, regexp.MustCompile(`\b(?:sk-ant-[A-Za-z0-9\-_]{20,}|sk-[A-Za-z0-9\-_]{20,}|gsk_[A-Za-z0-9]{20,}|AIza[0-9A-Za-z\-_]{35})\b`)},
	{TypeConnectionString, regexp.MustCompile(`\b[a-z][a-z0-9+.-]*://[^\s:@/]+:[^\s@/]+@[^\s]+`)},
	{TypePasswordAssign, regexp.MustCompile(`(?i)\b(?:password|passwd|pwd)\s*[:=]\s*[^\s"']{4,}`)},
	{TypeAPIKeyAssign, regexp.MustCompile(`(?i)\b(?:api[-_]?key|secret[-_]?key|access[-_]?token)\s*[:=]\s*[^\s"']{8,}`)},
}

// localProviders never transmit content off-device. Calls to them are never
// privacy-blocked, though they may still be scanned for UX purposes.
var localProviders = map[string]bool{
	"ollama": true,
}

// ScanForSecrets runs the fixed detector list over text and returns masked
// findings. Duplicate (type, index) pairs are suppressed.
func ScanForSecrets(text string) []Finding {
	if text == "" {
		return nil
	}

	var findings []Finding
	seen := make(map[string]struct{})

	for _, d := range detectors {
		for _, loc := range d.regex.FindAllStringIndex(text, -1) {
			key := fmt.Sprintf("%s:%d", d.name, loc[0])
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			findings = append(findings, Finding{
				Type:         d.name,
				MatchPreview: maskMatch(text[loc[0]:loc[1]]),
				Index:        loc[0],
			})
		}
	}

	return findings
}

// RedactSecrets replaces every match in-place with a [REDACTED-<TYPE>]
// marker and returns the redacted text plus the findings.
func RedactSecrets(text string) (string, []Finding) {
	findings := ScanForSecrets(text)

	redacted := text
	for _, d := range detectors {
		replacement := "[REDACTED-" + d.name + "]"
		redacted = d.regex.ReplaceAllString(redacted, replacement)
	}

	return redacted, findings
}

// TruncateContent hard-cuts text at maxChars and appends a marker noting
// how many characters were dropped. No-op when maxChars <= 0 or the text
// already fits.
func TruncateContent(text string, maxChars int) string {
	if maxChars <= 0 || len(text) <= maxChars {
		return text
	}
	dropped := len(text) - maxChars
	return text[:maxChars] + fmt.Sprintf("\n[content truncated: %d characters dropped]", dropped)
}

// IsLocalProvider reports whether the provider never sends data off-device.
func IsLocalProvider(id string) bool {
	return localProviders[id]
}

// maskMatch keeps the first 6 and last 4 characters of a match. Short
// matches are fully masked.
func maskMatch(match string) string {
	if len(match) <= 10 {
		return "******"
	}
	return match[:6] + "..." + match[len(match)-4:]
}
