package providers

import "testing"

func TestApplyDefaults(t *testing.T) {
	tests := []struct {
		name     string
		params   CompletionParams
		wantMax  int
		wantTemp float64
	}{
		{"zero values", CompletionParams{}, DefaultMaxTokens, DefaultTemperature},
		{"explicit values kept", CompletionParams{MaxTokens: 512, Temperature: 0.5}, 512, 0.5},
		{"temperature clamped", CompletionParams{Temperature: 1.5}, DefaultMaxTokens, 0.7},
		{"negative max tokens replaced", CompletionParams{MaxTokens: -1}, DefaultMaxTokens, DefaultTemperature},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.params.ApplyDefaults()
			if tt.params.MaxTokens != tt.wantMax {
				t.Errorf("MaxTokens = %d, want %d", tt.params.MaxTokens, tt.wantMax)
			}
			if tt.params.Temperature != tt.wantTemp {
				t.Errorf("Temperature = %v, want %v", tt.params.Temperature, tt.wantTemp)
			}
		})
	}
}

func TestSplitSystem(t *testing.T) {
	system, rest := SplitSystem([]Message{
		{Role: RoleSystem, Content: "be brief"},
		{Role: RoleUser, Content: "hi"},
	})
	if system != "be brief" {
		t.Errorf("system = %q, want %q", system, "be brief")
	}
	if len(rest) != 1 || rest[0].Role != RoleUser {
		t.Errorf("rest = %+v, want single user message", rest)
	}

	system, rest = SplitSystem([]Message{{Role: RoleUser, Content: "hi"}})
	if system != "" {
		t.Errorf("system = %q, want empty", system)
	}
	if len(rest) != 1 {
		t.Errorf("rest length = %d, want 1", len(rest))
	}

	// A system message that is not first stays inline.
	system, rest = SplitSystem([]Message{
		{Role: RoleUser, Content: "hi"},
		{Role: RoleSystem, Content: "late"},
	})
	if system != "" || len(rest) != 2 {
		t.Errorf("late system message must not be extracted, got system=%q rest=%d", system, len(rest))
	}
}

func TestDescriptorDefaultModel(t *testing.T) {
	marked := Descriptor{Models: []ModelInfo{
		{ID: "a"},
		{ID: "b", IsDefault: true},
	}}
	if got := marked.DefaultModel().ID; got != "b" {
		t.Errorf("DefaultModel = %q, want %q", got, "b")
	}

	// No model marked: the first is the default.
	unmarked := Descriptor{Models: []ModelInfo{{ID: "a"}, {ID: "b"}}}
	if got := unmarked.DefaultModel().ID; got != "a" {
		t.Errorf("DefaultModel = %q, want %q", got, "a")
	}
}

func TestDescriptorModelByID(t *testing.T) {
	d := Descriptor{Models: []ModelInfo{{ID: "a", ContextWindow: 1000}}}
	m, ok := d.ModelByID("a")
	if !ok || m.ContextWindow != 1000 {
		t.Errorf("ModelByID(a) = %+v, %v", m, ok)
	}
	if _, ok := d.ModelByID("missing"); ok {
		t.Error("ModelByID(missing) should not be found")
	}
}

func TestCapabilitySet(t *testing.T) {
	set := NewCapabilitySet(CapChat, CapStream)
	if !set.Has(CapChat) || !set.Has(CapStream) {
		t.Error("set must contain its members")
	}
	if set.Has(CapVision) {
		t.Error("set must not contain absent capabilities")
	}
	if len(set.List()) != 2 {
		t.Errorf("List length = %d, want 2", len(set.List()))
	}
}

func TestConfidenceFromFinishReason(t *testing.T) {
	tests := []struct {
		reason string
		want   float64
	}{
		{FinishStop, 0.9},
		{FinishLength, 0.6},
		{FinishContentFilter, 0.3},
		{"", 0.5},
		{"tool_calls", 0.5},
	}
	for _, tt := range tests {
		if got := ConfidenceFromFinishReason(tt.reason); got != tt.want {
			t.Errorf("ConfidenceFromFinishReason(%q) = %v, want %v", tt.reason, got, tt.want)
		}
	}
}

func TestBuildSystemPrompt(t *testing.T) {
	withLang := BuildSystemPrompt(TaskExplain, "Go")
	if withLang == "" {
		t.Fatal("expected non-empty instruction")
	}
	if BuildSystemPrompt(TaskExplain, "") == withLang {
		t.Error("language hint must change the instruction")
	}

	// Unknown tasks fall back to the generic instruction.
	if BuildSystemPrompt("nonsense", "") == "" {
		t.Error("unknown task must still produce an instruction")
	}
}

func TestSystemPromptFor(t *testing.T) {
	opts := &CallOptions{SystemPrompt: "custom"}
	if got := SystemPromptFor(opts, TaskExplain, ""); got != "custom" {
		t.Errorf("explicit option must win, got %q", got)
	}
	if got := SystemPromptFor(nil, TaskExplain, ""); got != BuildSystemPrompt(TaskExplain, "") {
		t.Errorf("nil opts must fall back to the task default, got %q", got)
	}
}
