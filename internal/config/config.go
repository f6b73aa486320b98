package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Default values applied when the config file or individual fields are absent.
const (
	DefaultDomain          = "https://www.gradsummit.com"
	DefaultNotFoundPage    = "404.html"
	DefaultSitemapFilename = "sitemap.xml"
	DefaultNavPartial      = "partials/nav.html"
	DefaultEventsSubject   = "prettysite.builds"
)

// DefaultExcludedPrefixes are directory prefixes that are never transformed
// and never appear in the sitemap.
var DefaultExcludedPrefixes = []string{"partials/", ".github/", "tools/"}

// Config represents the application configuration.
type Config struct {
	Site    SiteConfig    `yaml:"site"`
	Exclude ExcludeConfig `yaml:"exclude"`
	Sitemap SitemapConfig `yaml:"sitemap"`
	Nav     NavConfig     `yaml:"nav"`
	Metrics MetricsConfig `yaml:"metrics"`
	Events  EventsConfig  `yaml:"events"`
	History HistoryConfig `yaml:"history"`
}

// SiteConfig carries the public site identity.
type SiteConfig struct {
	// Domain is the public scheme+host every absolute URL is built from.
	// Overridable via the SITE_DOMAIN environment variable.
	Domain string `yaml:"domain"`
}

// ExcludeConfig lists documents and directory prefixes that are never
// mapped, rewritten, or stub-generated.
type ExcludeConfig struct {
	NotFound string   `yaml:"not_found"`
	Prefixes []string `yaml:"prefixes"`
}

// SitemapConfig controls the emitted sitemap artifact.
type SitemapConfig struct {
	Filename string `yaml:"filename"`
}

// NavConfig controls navigation partial injection.
type NavConfig struct {
	Partial string `yaml:"partial"` // injection is skipped when the file is absent
}

// MetricsConfig enables Prometheus textfile output for batch runs.
type MetricsConfig struct {
	Textfile string `yaml:"textfile"` // path to write .prom output; empty disables
}

// EventsConfig enables publishing a build report over NATS.
type EventsConfig struct {
	NATSURL string `yaml:"nats_url"`
	Subject string `yaml:"subject"`
}

// HistoryConfig enables the SQLite run-history store.
type HistoryConfig struct {
	Path string `yaml:"path"` // database file path; empty disables
}

// Load reads configuration from the given file. A missing file is not an
// error: defaults apply. Environment variables are expanded in the raw YAML,
// and SITE_DOMAIN overrides the configured domain.
func Load(configPath string) (*Config, error) {
	// Load .env if present; absence is fine.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "Note: .env file couldn't be loaded: %v\n", err)
	}

	cfg := &Config{}

	data, err := os.ReadFile(configPath)
	switch {
	case err != nil && os.IsNotExist(err):
		// Argument-less invocation with no config file is the common case.
	case err != nil:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	default:
		expanded := os.ExpandEnv(string(data))
		if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
			return nil, fmt.Errorf("failed to unmarshal config: %w", err)
		}
	}

	if domain := os.Getenv("SITE_DOMAIN"); domain != "" {
		cfg.Site.Domain = domain
	}

	cfg.applyDefaults()

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Site.Domain == "" {
		c.Site.Domain = DefaultDomain
	}
	c.Site.Domain = strings.TrimRight(c.Site.Domain, "/")
	if c.Exclude.NotFound == "" {
		c.Exclude.NotFound = DefaultNotFoundPage
	}
	if c.Exclude.Prefixes == nil {
		c.Exclude.Prefixes = append([]string(nil), DefaultExcludedPrefixes...)
	}
	for i, p := range c.Exclude.Prefixes {
		if !strings.HasSuffix(p, "/") {
			c.Exclude.Prefixes[i] = p + "/"
		}
	}
	if c.Sitemap.Filename == "" {
		c.Sitemap.Filename = DefaultSitemapFilename
	}
	if c.Nav.Partial == "" {
		c.Nav.Partial = DefaultNavPartial
	}
	if c.Events.Subject == "" {
		c.Events.Subject = DefaultEventsSubject
	}
}

func (c *Config) validate() error {
	u, err := url.Parse(c.Site.Domain)
	if err != nil {
		return fmt.Errorf("invalid site domain %q: %w", c.Site.Domain, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("site domain must include scheme and host, got %q", c.Site.Domain)
	}
	return nil
}

// Init creates a new configuration file with example content.
func Init(configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("configuration file already exists: %s (use --force to overwrite)", configPath)
	}

	example := `# prettysite configuration
site:
  # Public domain used for every absolute URL. SITE_DOMAIN overrides this.
  domain: ` + DefaultDomain + `

exclude:
  not_found: ` + DefaultNotFoundPage + `
  prefixes:
    - partials/
    - .github/
    - tools/

sitemap:
  filename: ` + DefaultSitemapFilename + `

# nav:
#   partial: partials/nav.html

# metrics:
#   textfile: /var/lib/node_exporter/textfile/prettysite.prom

# events:
#   nats_url: nats://localhost:4222
#   subject: prettysite.builds

# history:
#   path: .prettysite/history.db
`
	if err := os.WriteFile(configPath, []byte(example), 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
