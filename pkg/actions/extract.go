package actions

import (
	"regexp"
	"strings"
)

var fencedBlock = regexp.MustCompile("(?s)```[a-zA-Z0-9_-]*\\s*\\n(.*?)```")

// ExtractContent salvages a structured payload from a model response that
// may wrap it in prose or a fenced code block. It tries, in order: the first
// fenced block, a balanced trim for the requested format, and finally the
// trimmed text unchanged.
func ExtractContent(text, format string) string {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return ""
	}

	if m := fencedBlock.FindStringSubmatch(trimmed); m != nil {
		return strings.TrimSpace(m[1])
	}

	switch strings.ToLower(format) {
	case "json":
		if out := trimBalanced(trimmed, "{", "}"); out != "" {
			return out
		}
		if out := trimBalanced(trimmed, "[", "]"); out != "" {
			return out
		}
	case "xml", "html":
		start := strings.Index(trimmed, "<")
		end := strings.LastIndex(trimmed, ">")
		if start >= 0 && end > start {
			return trimmed[start : end+1]
		}
	}

	return trimmed
}

// trimBalanced cuts text to the outermost open..close span when both
// delimiters are present in order.
func trimBalanced(text, open, shut string) string {
	start := strings.Index(text, open)
	end := strings.LastIndex(text, shut)
	if start < 0 || end <= start {
		return ""
	}
	return text[start : end+1]
}
