package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

const defaultExternalHTTPTimeoutSeconds = 90

type Config struct {
	ListenAddr string `yaml:"listen_addr"`

	DBPath          string `yaml:"db_path"`
	ReportOutputDir string `yaml:"report_output_dir"`

	LLMProvider     string `yaml:"llm_provider"`
	LLMModel        string `yaml:"llm_model"`
	AnthropicAPIKey string `yaml:"anthropic_api_key"`
	OpenAIAPIKey    string `yaml:"openai_api_key"`

	EmailUser          string   `yaml:"email_user"`
	EmailPassword      string   `yaml:"email_password"`
	SMTPHost           string   `yaml:"smtp_host"`
	SMTPPort           int      `yaml:"smtp_port"`
	NotificationEmails []string `yaml:"notification_emails"`
	WriteEmailDrafts   bool     `yaml:"write_email_drafts"`

	SlackBotToken  string `yaml:"slack_bot_token"`
	SlackChannelID string `yaml:"slack_channel_id"`

	DigestSchedule string `yaml:"digest_schedule"`

	AuthUser     string `yaml:"auth_user"`
	AuthPassword string `yaml:"auth_password"`
	AuthName     string `yaml:"auth_name"`

	ExternalHTTPTimeoutSeconds int `yaml:"external_http_timeout_seconds"`
}

func LoadConfig() Config {
	var cfg Config

	// Load from config.yaml if it exists
	configPath := "config.yaml"
	if envPath := os.Getenv("CONFIG_PATH"); envPath != "" {
		configPath = envPath
	}
	if data, err := os.ReadFile(configPath); err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			log.Fatalf("Error parsing %s: %v", configPath, err)
		}
		log.Printf("Loaded config from %s", configPath)
	}

	// Env vars override YAML values
	envOverride(&cfg.ListenAddr, "LISTEN_ADDR")
	envOverride(&cfg.DBPath, "DB_PATH")
	envOverride(&cfg.ReportOutputDir, "REPORT_OUTPUT_DIR")
	envOverride(&cfg.LLMProvider, "LLM_PROVIDER")
	envOverride(&cfg.LLMModel, "LLM_MODEL")
	envOverride(&cfg.AnthropicAPIKey, "ANTHROPIC_API_KEY")
	envOverride(&cfg.OpenAIAPIKey, "OPENAI_API_KEY")
	envOverride(&cfg.EmailUser, "EMAIL_USER")
	envOverride(&cfg.EmailPassword, "EMAIL_PASSWORD")
	envOverride(&cfg.SMTPHost, "SMTP_HOST")
	envOverrideInt(&cfg.SMTPPort, "SMTP_PORT")
	envOverrideBool(&cfg.WriteEmailDrafts, "WRITE_EMAIL_DRAFTS")
	envOverride(&cfg.SlackBotToken, "SLACK_BOT_TOKEN")
	envOverride(&cfg.SlackChannelID, "SLACK_CHANNEL_ID")
	envOverride(&cfg.DigestSchedule, "DIGEST_SCHEDULE")
	envOverride(&cfg.AuthUser, "AUTH_USER")
	envOverride(&cfg.AuthPassword, "AUTH_PASSWORD")
	envOverride(&cfg.AuthName, "AUTH_NAME")
	envOverrideInt(&cfg.ExternalHTTPTimeoutSeconds, "EXTERNAL_HTTP_TIMEOUT_SECONDS")

	if emails := os.Getenv("NOTIFICATION_EMAILS"); emails != "" {
		cfg.NotificationEmails = nil
		for _, addr := range strings.Split(emails, ",") {
			addr = strings.TrimSpace(addr)
			if addr != "" {
				cfg.NotificationEmails = append(cfg.NotificationEmails, addr)
			}
		}
	}

	// Defaults
	if cfg.ListenAddr == "" {
		cfg.ListenAddr = ":8080"
	}
	if cfg.DBPath == "" {
		cfg.DBPath = "./compliance.db"
	}
	if cfg.ReportOutputDir == "" {
		cfg.ReportOutputDir = "./reports"
	}
	if cfg.LLMProvider == "" {
		cfg.LLMProvider = "anthropic"
	}
	if cfg.SMTPHost == "" {
		cfg.SMTPHost = "smtp.gmail.com"
	}
	if cfg.SMTPPort == 0 {
		cfg.SMTPPort = 587
	}
	if cfg.DigestSchedule == "" {
		cfg.DigestSchedule = "0 9 * * MON"
	}
	if cfg.AuthName == "" {
		cfg.AuthName = "Environment User"
	}
	if cfg.ExternalHTTPTimeoutSeconds <= 0 {
		cfg.ExternalHTTPTimeoutSeconds = defaultExternalHTTPTimeoutSeconds
	}

	return cfg
}

// EmailConfigured reports whether the SMTP transport can be enabled. Both
// credential values must be present.
func (c Config) EmailConfigured() bool {
	return c.EmailUser != "" && c.EmailPassword != ""
}

// SlackConfigured reports whether the optional Slack channel transport can be
// enabled.
func (c Config) SlackConfigured() bool {
	return c.SlackBotToken != "" && c.SlackChannelID != ""
}

// EnvCredentialConfigured reports whether an extra credential-table entry was
// provided via AUTH_USER / AUTH_PASSWORD.
func (c Config) EnvCredentialConfigured() bool {
	return c.AuthUser != "" && c.AuthPassword != ""
}

func envOverride(target *string, key string) {
	if v := os.Getenv(key); v != "" {
		*target = v
	}
}

func envOverrideInt(target *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*target = n
		} else {
			log.Printf("Invalid %s=%q, keeping %d", key, v, *target)
		}
	}
}

func envOverrideBool(target *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*target = b
		} else {
			log.Printf("Invalid %s=%q, keeping %v", key, v, *target)
		}
	}
}
