package providers

import (
	"errors"
	"testing"
)

func testDescriptor() Descriptor {
	return Descriptor{
		ID:          "testprov",
		DisplayName: "Test Provider",
		BaseURL:     "https://api.test.example",
		Models: []ModelInfo{
			{ID: "small", ContextWindow: 8192},
			{ID: "large", ContextWindow: 128000, IsDefault: true},
		},
		Capabilities:   NewCapabilitySet(CapCompletion, CapChat),
		RequiresAPIKey: true,
		APIKeyPrefix:   "tp-",
	}
}

func TestBaseInitialize(t *testing.T) {
	t.Run("missing required key", func(t *testing.T) {
		b := NewBase(testDescriptor(), HTTPClientConfig{})
		defer b.Close()

		err := b.Initialize(RuntimeConfig{})
		var cfgErr *ConfigError
		if !errors.As(err, &cfgErr) {
			t.Fatalf("expected ConfigError, got %T: %v", err, err)
		}
		if cfgErr.Field != "api_key" {
			t.Errorf("Field = %q, want api_key", cfgErr.Field)
		}
		if b.IsReady() {
			t.Error("adapter must not be ready after failed initialize")
		}
	})

	t.Run("unknown model rejected", func(t *testing.T) {
		b := NewBase(testDescriptor(), HTTPClientConfig{})
		defer b.Close()

		err := b.Initialize(RuntimeConfig{APIKey: "tp-abc", Model: "nonexistent"})
		var cfgErr *ConfigError
		if !errors.As(err, &cfgErr) {
			t.Fatalf("expected ConfigError, got %T: %v", err, err)
		}
	})

	t.Run("base URL override", func(t *testing.T) {
		b := NewBase(testDescriptor(), HTTPClientConfig{})
		defer b.Close()

		if err := b.Initialize(RuntimeConfig{APIKey: "tp-abc", BaseURL: "http://localhost:9999"}); err != nil {
			t.Fatalf("Initialize failed: %v", err)
		}
		if b.BaseURL() != "http://localhost:9999" {
			t.Errorf("BaseURL = %q", b.BaseURL())
		}
		if !b.IsReady() {
			t.Error("adapter should be ready")
		}
	})
}

func TestBaseCurrentModelID(t *testing.T) {
	b := NewBase(testDescriptor(), HTTPClientConfig{})
	defer b.Close()

	// Unselected: descriptor default.
	if got := b.CurrentModelID(); got != "large" {
		t.Errorf("CurrentModelID = %q, want large", got)
	}

	if err := b.Initialize(RuntimeConfig{APIKey: "tp-abc", Model: "small"}); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}
	if got := b.CurrentModelID(); got != "small" {
		t.Errorf("CurrentModelID = %q, want small", got)
	}
}

func TestBaseSetModel(t *testing.T) {
	b := NewBase(testDescriptor(), HTTPClientConfig{})
	defer b.Close()

	if err := b.SetModel("small"); err != nil {
		t.Fatalf("SetModel(small) failed: %v", err)
	}
	if got := b.CurrentModelID(); got != "small" {
		t.Errorf("CurrentModelID = %q, want small", got)
	}

	err := b.SetModel("bogus")
	var valErr *ValidationError
	if !errors.As(err, &valErr) {
		t.Fatalf("expected ValidationError, got %T: %v", err, err)
	}
	if got := b.CurrentModelID(); got != "small" {
		t.Errorf("failed SetModel must not change selection, got %q", got)
	}
}

func TestBaseResolveModel(t *testing.T) {
	b := NewBase(testDescriptor(), HTTPClientConfig{})
	defer b.Close()

	if got := b.ResolveModel("explicit"); got != "explicit" {
		t.Errorf("ResolveModel(explicit) = %q", got)
	}
	if got := b.ResolveModel(""); got != "large" {
		t.Errorf("ResolveModel(empty) = %q, want large", got)
	}
}
