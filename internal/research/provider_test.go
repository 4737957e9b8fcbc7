package research

import (
	"strings"
	"testing"
	"time"

	"github.com/atomustam/prospector/internal/model"
)

func TestNewProvider_Disabled(t *testing.T) {
	provider, err := NewProvider(model.ResearchConfig{Provider: ""})
	if err != nil {
		t.Fatalf("NewProvider: %v", err)
	}
	if provider != nil {
		t.Error("empty provider name should disable research")
	}
}

func TestNewProvider_OpenAI(t *testing.T) {
	provider, err := NewProvider(model.ResearchConfig{
		Provider: "OpenAI",
		APIKey:   "test-key",
		Timeout:  10 * time.Second,
	})
	if err != nil {
		t.Fatalf("NewProvider: %v", err)
	}
	if provider == nil || provider.Name() != "openai" {
		t.Errorf("expected openai provider, got %v", provider)
	}
}

func TestNewProvider_RequiresAPIKey(t *testing.T) {
	if _, err := NewProvider(model.ResearchConfig{Provider: "openai"}); err == nil {
		t.Fatal("expected error for missing API key")
	}
}

func TestNewProvider_Unknown(t *testing.T) {
	_, err := NewProvider(model.ResearchConfig{Provider: "gemini"})
	if err == nil {
		t.Fatal("expected error for unknown provider")
	}
	if !strings.Contains(err.Error(), "gemini") {
		t.Errorf("error %q does not name the provider", err)
	}
}

func TestBuildPrompt(t *testing.T) {
	prompt := BuildPrompt(Request{
		Company:  "Firestorm Labs",
		Website:  "https://firestorm.example",
		Industry: "Aerospace",
	})

	for _, want := range []string{
		"Firestorm Labs",
		"https://firestorm.example",
		"Aerospace",
		"CMMC",
		"Do NOT speculate",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestBuildPrompt_OmitsUnknownFields(t *testing.T) {
	prompt := BuildPrompt(Request{Company: "Zenith"})

	if strings.Contains(prompt, "Website:") {
		t.Error("prompt includes a website line with no website")
	}
	if strings.Contains(prompt, "Industry:") {
		t.Error("prompt includes an industry line with no industry")
	}
}
