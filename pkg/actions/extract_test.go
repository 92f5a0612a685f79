package actions

import "testing"

func TestExtractContent(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		format string
		want   string
	}{
		{
			name:   "fenced block with language tag",
			text:   "Here you go:\n```json\n{\"a\": 1}\n```\nDone.",
			format: "json",
			want:   `{"a": 1}`,
		},
		{
			name:   "fenced block without language tag",
			text:   "```\nSELECT 1;\n```",
			format: "sql",
			want:   "SELECT 1;",
		},
		{
			name:   "first fenced block wins",
			text:   "```\nfirst\n```\nand also\n```\nsecond\n```",
			format: "text",
			want:   "first",
		},
		{
			name:   "json object in prose",
			text:   `The schema is {"type": "object"} as requested.`,
			format: "json",
			want:   `{"type": "object"}`,
		},
		{
			name:   "json array in prose",
			text:   `Result: [1, 2, 3] there.`,
			format: "json",
			want:   "[1, 2, 3]",
		},
		{
			name:   "xml in prose",
			text:   `Sure: <root><a/></root> hope that helps`,
			format: "xml",
			want:   "<root><a/></root>",
		},
		{
			name:   "html",
			text:   "here <p>hi</p>",
			format: "html",
			want:   "<p>hi</p>",
		},
		{
			name:   "no structure falls back to trimmed text",
			text:   "  plain prose answer  ",
			format: "json",
			want:   "plain prose answer",
		},
		{
			name:   "unknown format trims only",
			text:   "  something  ",
			format: "yaml",
			want:   "something",
		},
		{
			name:   "empty input",
			text:   "   ",
			format: "json",
			want:   "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractContent(tt.text, tt.format); got != tt.want {
				t.Errorf("ExtractContent(%q, %q) = %q, want %q", tt.text, tt.format, got, tt.want)
			}
		})
	}
}

func TestTrimBalanced(t *testing.T) {
	if got := trimBalanced("pre {x} post", "{", "}"); got != "{x}" {
		t.Errorf("got %q", got)
	}
	if got := trimBalanced("no braces here", "{", "}"); got != "" {
		t.Errorf("got %q, want empty on missing delimiters", got)
	}
	if got := trimBalanced("} reversed {", "{", "}"); got != "" {
		t.Errorf("got %q, want empty when close precedes open", got)
	}
}
