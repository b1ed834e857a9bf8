package config

import (
	"embed"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"
)

//go:embed default_feeds.yaml
var defaultFeedsFS embed.FS

// Audience identifiers. They double as the JSON value persisted on every
// article, so they must stay stable across releases.
const (
	AudienceMarketing  = "audience_1" // marketing & SEO professionals
	AudienceCompliance = "audience_2" // AI compliance & ethics professionals
)

// Audiences returns all known audiences in delivery order.
func Audiences() []string {
	return []string{AudienceMarketing, AudienceCompliance}
}

// Source describes a single feed subscription.
type Source struct {
	Name     string `yaml:"name"`
	URL      string `yaml:"url"`
	Audience string `yaml:"audience"`
	Enabled  bool   `yaml:"enabled"`
}

type registry struct {
	Sources []Source `yaml:"sources"`
}

// AIConfig selects the summarization provider.
type AIConfig struct {
	Provider string // "openai" or "claude"
	APIKey   string
	Model    string
}

// SMTPConfig holds the outbound mail account.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
}

// Config is the process configuration, loaded once at startup.
type Config struct {
	DataDir    string
	Sources    []Source
	AI         AIConfig
	SMTP       SMTPConfig
	Recipients map[string]string // audience -> address; absent means "do not send"
}

// DefaultDataDir is used when NEWS_DATA_DIR is not set.
func DefaultDataDir() string {
	return filepath.Join(xdg.DataHome, "ai-news-digest")
}

// Load reads environment variables and the feed registry. feedsPath may be
// empty, in which case the embedded default registry is used.
func Load(feedsPath string) (*Config, error) {
	sources, err := loadSources(feedsPath)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		DataDir: getenv("NEWS_DATA_DIR", DefaultDataDir()),
		Sources: sources,
		AI: AIConfig{
			Provider: getenv("AI_PROVIDER", "openai"),
			Model:    os.Getenv("AI_MODEL"),
		},
		SMTP: SMTPConfig{
			Host:     getenv("SMTP_HOST", "smtp.gmail.com"),
			Port:     intenv("SMTP_PORT", 587),
			Username: os.Getenv("EMAIL_USERNAME"),
			Password: os.Getenv("EMAIL_PASSWORD"),
		},
		Recipients: map[string]string{},
	}

	switch cfg.AI.Provider {
	case "claude":
		cfg.AI.APIKey = os.Getenv("ANTHROPIC_API_KEY")
	default:
		cfg.AI.APIKey = os.Getenv("OPENAI_API_KEY")
	}

	if r := os.Getenv("RECIPIENT_1"); r != "" {
		cfg.Recipients[AudienceMarketing] = r
	}
	if r := os.Getenv("RECIPIENT_2"); r != "" {
		cfg.Recipients[AudienceCompliance] = r
	}

	return cfg, nil
}

// EnabledSources returns the subscribed feeds in registry order.
func (c *Config) EnabledSources() []Source {
	var out []Source
	for _, s := range c.Sources {
		if s.Enabled {
			out = append(out, s)
		}
	}
	return out
}

// ValidateDigest checks everything the digest-and-send run needs up front
// so a misconfigured run fails before any network work.
func (c *Config) ValidateDigest() error {
	if c.AI.APIKey == "" {
		key := "OPENAI_API_KEY"
		if c.AI.Provider == "claude" {
			key = "ANTHROPIC_API_KEY"
		}
		return fmt.Errorf("missing required environment variable %s", key)
	}
	if err := c.ValidateMail(); err != nil {
		return err
	}
	if len(c.Recipients) == 0 {
		return fmt.Errorf("no recipients configured: set RECIPIENT_1 or RECIPIENT_2")
	}
	return nil
}

// ValidateMail checks the SMTP account credentials.
func (c *Config) ValidateMail() error {
	if c.SMTP.Username == "" {
		return fmt.Errorf("missing required environment variable EMAIL_USERNAME")
	}
	if c.SMTP.Password == "" {
		return fmt.Errorf("missing required environment variable EMAIL_PASSWORD")
	}
	return nil
}

func loadSources(path string) ([]Source, error) {
	var data []byte
	var err error
	if path == "" {
		data, err = defaultFeedsFS.ReadFile("default_feeds.yaml")
		if err != nil {
			return nil, fmt.Errorf("reading embedded feed registry: %w", err)
		}
	} else {
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading feed registry: %w", err)
		}
	}

	var reg registry
	if err := yaml.Unmarshal(data, &reg); err != nil {
		return nil, fmt.Errorf("parsing feed registry: %w", err)
	}
	if err := validateSources(reg.Sources); err != nil {
		return nil, err
	}
	return reg.Sources, nil
}

func validateSources(sources []Source) error {
	validAudiences := map[string]bool{}
	for _, a := range Audiences() {
		validAudiences[a] = true
	}

	for i, s := range sources {
		if s.Name == "" {
			return fmt.Errorf("source %d: name is required", i)
		}
		if s.URL == "" {
			return fmt.Errorf("source %q: url is required", s.Name)
		}
		u, err := url.Parse(s.URL)
		if err != nil {
			return fmt.Errorf("source %q: invalid url: %w", s.Name, err)
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return fmt.Errorf("source %q: url scheme must be http or https, got %q", s.Name, u.Scheme)
		}
		if !validAudiences[s.Audience] {
			return fmt.Errorf("source %q: unknown audience %q (valid: %s, %s)", s.Name, s.Audience, AudienceMarketing, AudienceCompliance)
		}
	}
	return nil
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func intenv(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}
