package profile

import (
	"os"
	"testing"
)

func TestProfileAssistantDefaults(t *testing.T) {
	clearFittaEnvVars()

	profile := &Profile{}
	profile.FromEnv()

	tests := []struct {
		name     string
		expected string
		actual   string
	}{
		{"AssistantEnabled should be false by default", "false", boolToString(profile.AssistantEnabled)},
		{"AssistantBaseURL default", "https://api.openai.com/v1", profile.AssistantBaseURL},
		{"AssistantModel default", "gpt-4o-mini", profile.AssistantModel},
		{"PaymentBaseURL default", "https://api.paystack.co", profile.PaymentBaseURL},
		{"PaymentCurrency default", "GHS", profile.PaymentCurrency},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.actual != tt.expected {
				t.Errorf("%s: expected %q, got %q", tt.name, tt.expected, tt.actual)
			}
		})
	}
}

func TestProfileFromEnv(t *testing.T) {
	clearFittaEnvVars()

	tests := []struct {
		name     string
		envVar   string
		envValue string
		field    func(*Profile) string
		expected string
	}{
		{
			name:     "FITTA_ASSISTANT_ENABLED=true",
			envVar:   "FITTA_ASSISTANT_ENABLED",
			envValue: "true",
			field:    func(p *Profile) string { return boolToString(p.AssistantEnabled) },
			expected: "true",
		},
		{
			name:     "FITTA_ASSISTANT_API_KEY",
			envVar:   "FITTA_ASSISTANT_API_KEY",
			envValue: "sk-test-key",
			field:    func(p *Profile) string { return p.AssistantAPIKey },
			expected: "sk-test-key",
		},
		{
			name:     "FITTA_ASSISTANT_MODEL override",
			envVar:   "FITTA_ASSISTANT_MODEL",
			envValue: "gpt-4o",
			field:    func(p *Profile) string { return p.AssistantModel },
			expected: "gpt-4o",
		},
		{
			name:     "FITTA_PAYMENT_SECRET_KEY",
			envVar:   "FITTA_PAYMENT_SECRET_KEY",
			envValue: "sk_test_abc",
			field:    func(p *Profile) string { return p.PaymentSecretKey },
			expected: "sk_test_abc",
		},
		{
			name:     "FITTA_PAYMENT_CURRENCY override",
			envVar:   "FITTA_PAYMENT_CURRENCY",
			envValue: "NGN",
			field:    func(p *Profile) string { return p.PaymentCurrency },
			expected: "NGN",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearFittaEnvVars()
			os.Setenv(tt.envVar, tt.envValue)
			defer os.Unsetenv(tt.envVar)

			profile := &Profile{}
			profile.FromEnv()

			if got := tt.field(profile); got != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestIsAssistantRemoteEnabled(t *testing.T) {
	tests := []struct {
		name     string
		profile  Profile
		expected bool
	}{
		{"disabled without flag", Profile{AssistantAPIKey: "sk-x"}, false},
		{"disabled without key", Profile{AssistantEnabled: true}, false},
		{"enabled with flag and key", Profile{AssistantEnabled: true, AssistantAPIKey: "sk-x"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.profile.IsAssistantRemoteEnabled(); got != tt.expected {
				t.Errorf("expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func clearFittaEnvVars() {
	vars := []string{
		"FITTA_ASSISTANT_ENABLED",
		"FITTA_ASSISTANT_API_KEY",
		"FITTA_ASSISTANT_BASE_URL",
		"FITTA_ASSISTANT_MODEL",
		"FITTA_PAYMENT_SECRET_KEY",
		"FITTA_PAYMENT_BASE_URL",
		"FITTA_PAYMENT_CURRENCY",
		"FITTA_SECRET",
	}
	for _, v := range vars {
		os.Unsetenv(v)
	}
}

func boolToString(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
