package config

import (
	"testing"
)

func TestValidatorRequireNonEmpty(t *testing.T) {
	tests := []struct {
		name      string
		value     string
		wantError bool
	}{
		{name: "non-empty value", value: "valid", wantError: false},
		{name: "empty value", value: "", wantError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := NewValidator()
			v.RequireNonEmpty("test_field", tt.value)
			if v.HasErrors() != tt.wantError {
				t.Errorf("HasErrors() = %v, want %v", v.HasErrors(), tt.wantError)
			}
		})
	}
}

func TestValidatorValidatePort(t *testing.T) {
	tests := []struct {
		name      string
		port      int
		wantError bool
	}{
		{name: "valid port", port: 8080, wantError: false},
		{name: "minimum valid port", port: 1, wantError: false},
		{name: "maximum valid port", port: 65535, wantError: false},
		{name: "port too low", port: 0, wantError: true},
		{name: "port too high", port: 65536, wantError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := NewValidator()
			v.ValidatePort("port", tt.port)
			if v.HasErrors() != tt.wantError {
				t.Errorf("HasErrors() = %v, want %v", v.HasErrors(), tt.wantError)
			}
		})
	}
}

func TestValidatorValidateOneOf(t *testing.T) {
	tests := []struct {
		name      string
		value     string
		allowed   []string
		wantError bool
	}{
		{name: "value is allowed", value: "groq", allowed: []string{"groq", "openai", "claude", "gemini"}, wantError: false},
		{name: "value not allowed", value: "mistral", allowed: []string{"groq", "openai", "claude", "gemini"}, wantError: true},
		{name: "empty allowed list", value: "any", allowed: []string{}, wantError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := NewValidator()
			v.ValidateOneOf("provider", tt.value, tt.allowed...)
			if v.HasErrors() != tt.wantError {
				t.Errorf("HasErrors() = %v, want %v", v.HasErrors(), tt.wantError)
			}
		})
	}
}

func TestValidatorMultipleErrors(t *testing.T) {
	v := NewValidator()
	v.RequireNonEmpty("field1", "")
	v.RequirePositive("field2", 0)
	v.ValidatePort("field3", 99999)

	if !v.HasErrors() {
		t.Errorf("HasErrors() = false, want true")
	}
	if errs := v.Errors(); len(errs) != 3 {
		t.Errorf("Errors() count = %d, want 3", len(errs))
	}
	if v.Error() == nil {
		t.Errorf("Error() = nil, want non-nil error")
	}
}

func TestValidateLLMConfig(t *testing.T) {
	tests := []struct {
		name        string
		apiKey      string
		temperature float64
		maxTokens   int
		wantError   bool
	}{
		{name: "valid config", apiKey: "gsk-valid-key", temperature: 0.6, maxTokens: 2048, wantError: false},
		{name: "missing api key", apiKey: "", temperature: 0.6, maxTokens: 2048, wantError: true},
		{name: "invalid temperature", apiKey: "gsk-valid-key", temperature: 2.5, maxTokens: 2048, wantError: true},
		{name: "non-positive max tokens", apiKey: "gsk-valid-key", temperature: 0.6, maxTokens: 0, wantError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateLLMConfig(tt.apiKey, tt.temperature, tt.maxTokens)
			if (err != nil) != tt.wantError {
				t.Errorf("ValidateLLMConfig() error = %v, wantError %v", err, tt.wantError)
			}
		})
	}
}

func TestConfigLoadDefaults(t *testing.T) {
	t.Setenv("GROQ_API_KEY", "gsk-test")

	cfg := Load()
	if cfg.Provider != "groq" {
		t.Errorf("default provider = %q, want groq", cfg.Provider)
	}
	if cfg.VectorBackend != "memory" || cfg.TaskStore != "memory" {
		t.Errorf("default backends = %q/%q, want memory/memory", cfg.VectorBackend, cfg.TaskStore)
	}
	if cfg.TaskRetention.Hours() != 24 {
		t.Errorf("default retention = %v, want 24h", cfg.TaskRetention)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() with defaults and key: %v", err)
	}
}

func TestConfigValidateRejectsUnknownProvider(t *testing.T) {
	t.Setenv("LLM_PROVIDER", "mistral")
	cfg := Load()
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected validation error for unknown provider")
	}
}

func TestConfigProviderAPIKey(t *testing.T) {
	cfg := &Config{
		Provider:        "claude",
		GroqAPIKey:      "g",
		AnthropicAPIKey: "a",
	}
	if got := cfg.ProviderAPIKey(); got != "a" {
		t.Errorf("ProviderAPIKey() = %q, want a", got)
	}
	cfg.Provider = "groq"
	if got := cfg.ProviderAPIKey(); got != "g" {
		t.Errorf("ProviderAPIKey() = %q, want g", got)
	}
}
