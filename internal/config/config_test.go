package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("CONFIG_PATH", filepath.Join(t.TempDir(), "missing-config.yaml"))

	cfg := LoadConfig()

	if cfg.ListenAddr != ":8080" {
		t.Fatalf("unexpected listen addr default: %q", cfg.ListenAddr)
	}
	if cfg.DBPath != "./compliance.db" {
		t.Fatalf("unexpected db path default: %q", cfg.DBPath)
	}
	if cfg.ReportOutputDir != "./reports" {
		t.Fatalf("unexpected report output dir default: %q", cfg.ReportOutputDir)
	}
	if cfg.LLMProvider != "anthropic" {
		t.Fatalf("unexpected provider default: %q", cfg.LLMProvider)
	}
	if cfg.SMTPHost != "smtp.gmail.com" || cfg.SMTPPort != 587 {
		t.Fatalf("unexpected smtp defaults: %s:%d", cfg.SMTPHost, cfg.SMTPPort)
	}
	if cfg.DigestSchedule != "0 9 * * MON" {
		t.Fatalf("unexpected digest schedule default: %q", cfg.DigestSchedule)
	}
	if cfg.AuthName != "Environment User" {
		t.Fatalf("unexpected auth name default: %q", cfg.AuthName)
	}
	if cfg.ExternalHTTPTimeoutSeconds != defaultExternalHTTPTimeoutSeconds {
		t.Fatalf("unexpected http timeout default: %d", cfg.ExternalHTTPTimeoutSeconds)
	}
	if cfg.EmailConfigured() {
		t.Fatal("email should not be configured without credentials")
	}
}

func TestLoadConfigYAMLAndEnvOverride(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "config.yaml")
	content := `
listen_addr: ":9999"
llm_provider: "anthropic"
anthropic_api_key: "yaml-anthropic"
email_user: "yaml-sender@company.com"
email_password: "yaml-secret"
smtp_port: 465
db_path: "/tmp/yaml.db"
notification_emails:
  - "one@company.com"
  - "two@company.com"
`
	if err := os.WriteFile(cfgPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	t.Setenv("CONFIG_PATH", cfgPath)
	t.Setenv("LLM_PROVIDER", "openai")
	t.Setenv("OPENAI_API_KEY", "sk-env")
	t.Setenv("DB_PATH", "/tmp/env.db")
	t.Setenv("NOTIFICATION_EMAILS", " alpha@company.com , beta@company.com ,")

	cfg := LoadConfig()

	if cfg.ListenAddr != ":9999" {
		t.Fatalf("yaml listen addr lost: %q", cfg.ListenAddr)
	}
	if cfg.LLMProvider != "openai" {
		t.Fatalf("env should override yaml provider, got %q", cfg.LLMProvider)
	}
	if cfg.OpenAIAPIKey != "sk-env" {
		t.Fatalf("unexpected openai key: %q", cfg.OpenAIAPIKey)
	}
	if cfg.DBPath != "/tmp/env.db" {
		t.Fatalf("env should override yaml db path, got %q", cfg.DBPath)
	}
	if cfg.SMTPPort != 465 {
		t.Fatalf("yaml smtp port lost: %d", cfg.SMTPPort)
	}
	if !cfg.EmailConfigured() {
		t.Fatal("email should be configured from yaml credentials")
	}
	if len(cfg.NotificationEmails) != 2 || cfg.NotificationEmails[0] != "alpha@company.com" || cfg.NotificationEmails[1] != "beta@company.com" {
		t.Fatalf("unexpected notification emails: %v", cfg.NotificationEmails)
	}
}

func TestEnvCredentialConfigured(t *testing.T) {
	t.Setenv("CONFIG_PATH", filepath.Join(t.TempDir(), "missing.yaml"))
	t.Setenv("AUTH_USER", "extra@company.com")

	cfg := LoadConfig()
	if cfg.EnvCredentialConfigured() {
		t.Fatal("AUTH_USER without AUTH_PASSWORD must not configure a credential")
	}

	t.Setenv("AUTH_PASSWORD", "extra123")
	cfg = LoadConfig()
	if !cfg.EnvCredentialConfigured() {
		t.Fatal("AUTH_USER plus AUTH_PASSWORD should configure a credential")
	}
	if cfg.AuthName != "Environment User" {
		t.Fatalf("unexpected default auth name: %q", cfg.AuthName)
	}
}
