package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"NEWS_DATA_DIR", "AI_PROVIDER", "AI_MODEL",
		"OPENAI_API_KEY", "ANTHROPIC_API_KEY",
		"SMTP_HOST", "SMTP_PORT", "EMAIL_USERNAME", "EMAIL_PASSWORD",
		"RECIPIENT_1", "RECIPIENT_2",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(cfg.Sources) != 16 {
		t.Errorf("expected 16 built-in sources, got %d", len(cfg.Sources))
	}
	if cfg.AI.Provider != "openai" {
		t.Errorf("expected default provider openai, got %q", cfg.AI.Provider)
	}
	if cfg.SMTP.Host != "smtp.gmail.com" || cfg.SMTP.Port != 587 {
		t.Errorf("unexpected SMTP defaults: %s:%d", cfg.SMTP.Host, cfg.SMTP.Port)
	}
	if len(cfg.Recipients) != 0 {
		t.Errorf("expected no recipients without env, got %v", cfg.Recipients)
	}
	if cfg.DataDir == "" {
		t.Error("expected a default data dir")
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("NEWS_DATA_DIR", "/tmp/news-data")
	t.Setenv("AI_PROVIDER", "claude")
	t.Setenv("ANTHROPIC_API_KEY", "sk-test")
	t.Setenv("SMTP_HOST", "mail.example.com")
	t.Setenv("SMTP_PORT", "2525")
	t.Setenv("RECIPIENT_1", "one@example.com")
	t.Setenv("RECIPIENT_2", "two@example.com")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.DataDir != "/tmp/news-data" {
		t.Errorf("data dir = %q", cfg.DataDir)
	}
	if cfg.AI.Provider != "claude" || cfg.AI.APIKey != "sk-test" {
		t.Errorf("unexpected AI config: %+v", cfg.AI)
	}
	if cfg.SMTP.Host != "mail.example.com" || cfg.SMTP.Port != 2525 {
		t.Errorf("unexpected SMTP config: %+v", cfg.SMTP)
	}
	if cfg.Recipients[AudienceMarketing] != "one@example.com" ||
		cfg.Recipients[AudienceCompliance] != "two@example.com" {
		t.Errorf("unexpected recipients: %v", cfg.Recipients)
	}
}

func TestLoadRegistryFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "feeds.yaml")
	content := `sources:
  - name: Custom Feed
    url: https://custom.example/rss
    audience: audience_2
    enabled: true
  - name: Disabled Feed
    url: https://off.example/rss
    audience: audience_1
    enabled: false
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(cfg.Sources) != 2 {
		t.Fatalf("expected 2 sources, got %d", len(cfg.Sources))
	}
	enabled := cfg.EnabledSources()
	if len(enabled) != 1 || enabled[0].Name != "Custom Feed" {
		t.Errorf("unexpected enabled sources: %+v", enabled)
	}
}

func TestLoadMissingRegistryFile(t *testing.T) {
	clearEnv(t)
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing registry file")
	}
}

func TestValidateSources(t *testing.T) {
	tests := []struct {
		name    string
		source  Source
		wantErr string
	}{
		{"valid", Source{Name: "F", URL: "https://f.example/rss", Audience: AudienceMarketing}, ""},
		{"missing name", Source{URL: "https://f.example/rss", Audience: AudienceMarketing}, "name is required"},
		{"missing url", Source{Name: "F", Audience: AudienceMarketing}, "url is required"},
		{"bad scheme", Source{Name: "F", URL: "ftp://f.example/rss", Audience: AudienceMarketing}, "scheme"},
		{"bad audience", Source{Name: "F", URL: "https://f.example/rss", Audience: "audience_9"}, "unknown audience"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateSources([]Source{tt.source})
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestValidateDigest(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if err := cfg.ValidateDigest(); err == nil {
		t.Error("expected error with nothing configured")
	}

	cfg.AI.APIKey = "sk-test"
	if err := cfg.ValidateDigest(); err == nil || !strings.Contains(err.Error(), "EMAIL_USERNAME") {
		t.Errorf("expected EMAIL_USERNAME error, got %v", err)
	}

	cfg.SMTP.Username = "digest@example.com"
	cfg.SMTP.Password = "secret"
	if err := cfg.ValidateDigest(); err == nil || !strings.Contains(err.Error(), "recipients") {
		t.Errorf("expected recipients error, got %v", err)
	}

	cfg.Recipients[AudienceMarketing] = "one@example.com"
	if err := cfg.ValidateDigest(); err != nil {
		t.Errorf("expected valid config, got %v", err)
	}
}

func TestBuiltinRegistryAudiences(t *testing.T) {
	clearEnv(t)
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}

	counts := map[string]int{}
	for _, s := range cfg.Sources {
		counts[s.Audience]++
	}
	if counts[AudienceMarketing] == 0 || counts[AudienceCompliance] == 0 {
		t.Errorf("expected built-in sources for both audiences, got %v", counts)
	}
}
