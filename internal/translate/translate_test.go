package translate

import (
	"context"
	"os"
	"testing"
)

func TestFactoryReturnsProviderTranslators(t *testing.T) {
	tests := []struct {
		provider Provider
		check    func(Translator) bool
	}{
		{ProviderGemini, func(tr Translator) bool { _, ok := tr.(*GeminiTranslator); return ok }},
		{ProviderOpenAI, func(tr Translator) bool { _, ok := tr.(*OpenAITranslator); return ok }},
		{ProviderAnthropic, func(tr Translator) bool { _, ok := tr.(*AnthropicTranslator); return ok }},
	}

	for _, tt := range tests {
		t.Run(string(tt.provider), func(t *testing.T) {
			ctx := context.Background()
			opts := Options{TargetLanguage: "Japanese"}
			translator, err := Factory(ctx, tt.provider, "fake-key", opts)
			if err != nil {
				t.Fatalf("Factory(%s) returned error: %v", tt.provider, err)
			}
			if !tt.check(translator) {
				t.Errorf("unexpected translator type %T", translator)
			}
			if _, ok := translator.(ConcurrentTranslator); !ok {
				t.Errorf("%T should implement ConcurrentTranslator", translator)
			}
		})
	}
}

func TestFactoryRequiresTargetLanguage(t *testing.T) {
	ctx := context.Background()
	_, err := Factory(ctx, ProviderGemini, "fake-key", Options{})
	if err == nil {
		t.Error("expected error for missing target language")
	}
}

func TestFactoryRequiresAPIKey(t *testing.T) {
	ctx := context.Background()
	_, err := Factory(ctx, ProviderOpenAI, "", Options{TargetLanguage: "German"})
	if err == nil {
		t.Error("expected error for missing API key")
	}
}

func TestFactoryRejectsUnknownProvider(t *testing.T) {
	ctx := context.Background()
	opts := Options{TargetLanguage: "French"}
	_, err := Factory(ctx, Provider("unknown"), "fake-key", opts)
	if err == nil {
		t.Error("expected error for unknown provider")
	}
}

func TestProviderAPIKeyEnv(t *testing.T) {
	tests := map[Provider]string{
		ProviderGemini:    "GEMINI_API_KEY",
		ProviderOpenAI:    "OPENAI_API_KEY",
		ProviderAnthropic: "ANTHROPIC_API_KEY",
		Provider("other"): "API_KEY",
	}
	for provider, want := range tests {
		if got := provider.APIKeyEnv(); got != want {
			t.Errorf("%s: got %s, want %s", provider, got, want)
		}
	}
}

// Integration test: only runs if OPENAI_API_KEY is set
func TestOpenAITranslatorIntegration(t *testing.T) {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		t.Skip("OPENAI_API_KEY not set; skipping integration test")
	}

	ctx := context.Background()
	opts := Options{TargetLanguage: "Spanish"}
	translator, err := NewOpenAITranslator(ctx, apiKey, opts)
	if err != nil {
		t.Fatalf("NewOpenAITranslator error: %v", err)
	}

	items := []TranslationItem{
		{Index: 0, Text: "Hello"},
		{Index: 1, Text: "Goodbye"},
	}

	results, err := translator.Translate(ctx, items)
	if err != nil {
		t.Fatalf("Translate error: %v", err)
	}
	if len(results) != 2 {
		t.Errorf("expected 2 results, got %d", len(results))
	}
	for _, r := range results {
		if r.Text == "" {
			t.Errorf("result index %d has empty text", r.Index)
		}
	}
}
