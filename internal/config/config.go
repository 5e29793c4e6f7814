// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults; Load layers file and env on top.
// - External errors must be wrapped via this package's error helpers.
package config

import (
	"fmt"
	"strings"

	"github.com/okian/creatorscore/internal/domain/ratio"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`
	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`
	// CORSOrigins lists allowed browser origins for the JSON API.
	CORSOrigins []string `koanf:"cors_origins"`

	// ThresholdsVersion labels the active ratio calibration.
	ThresholdsVersion string `koanf:"thresholds_version"`
	// LowThreshold and HighThreshold bound the balanced ratio interval (inclusive).
	LowThreshold  float64 `koanf:"low_threshold"`
	HighThreshold float64 `koanf:"high_threshold"`
	// RatioEpsilon is the relative tolerance for an "unchanged" simulation verdict.
	RatioEpsilon float64 `koanf:"ratio_epsilon"`

	// Upstream API keys. Empty disables the provider.
	TalentAPIKey string `koanf:"talent_api_key"`
	ZoraAPIKey   string `koanf:"zora_api_key"`
	NeynarAPIKey string `koanf:"neynar_api_key"`

	// Upstream base URLs.
	TalentBaseURL string `koanf:"talent_base_url"`
	ZoraBaseURL   string `koanf:"zora_base_url"`
	NeynarBaseURL string `koanf:"neynar_base_url"`

	// CredentialSlugs is the ordered list of Talent credential slugs scanned for a market cap.
	CredentialSlugs []string `koanf:"credential_slugs"`

	// Upstream client behaviour.
	UpstreamTimeoutMS  int     `koanf:"upstream_timeout_ms"`
	UpstreamRetries    int     `koanf:"upstream_retries"`
	UpstreamBackoffMS  int     `koanf:"upstream_backoff_ms"`
	UpstreamRateLimit  float64 `koanf:"upstream_rate_limit"`
	UpstreamRateBurst  int     `koanf:"upstream_rate_burst"`
	BreakerMaxFailures int     `koanf:"breaker_max_failures"`
	BreakerOpenMS      int     `koanf:"breaker_open_ms"`
	// FetchTimeoutMS bounds one score or valuation lookup including all fallbacks.
	FetchTimeoutMS int `koanf:"fetch_timeout_ms"`

	// MockFallback appends the built-in mock provider to every lookup chain.
	MockFallback bool `koanf:"mock_fallback"`

	// Manifest fields for /.well-known/farcaster.json.
	AppURL                 string   `koanf:"app_url"`
	AppName                string   `koanf:"app_name"`
	AppSubtitle            string   `koanf:"app_subtitle"`
	AppDescription         string   `koanf:"app_description"`
	AppIcon                string   `koanf:"app_icon"`
	AppSplashImage         string   `koanf:"app_splash_image"`
	AppSplashBackground    string   `koanf:"app_splash_background"`
	AppPrimaryCategory     string   `koanf:"app_primary_category"`
	AppHeroImage           string   `koanf:"app_hero_image"`
	AppTagline             string   `koanf:"app_tagline"`
	AppOGTitle             string   `koanf:"app_og_title"`
	AppOGDescription       string   `koanf:"app_og_description"`
	AppOGImage             string   `koanf:"app_og_image"`
	AppNoIndex             bool     `koanf:"app_noindex"`
	AppTags                []string `koanf:"app_tags"`
	AccountAssocHeader     string   `koanf:"account_association_header"`
	AccountAssocPayload    string   `koanf:"account_association_payload"`
	AccountAssocSignature  string   `koanf:"account_association_signature"`
	BaseBuilderAllowedAddr []string `koanf:"base_builder_allowed_addresses"`
}

// New creates a Config populated with defaults.
func New() *Config {
	def := ratio.DefaultThresholds()
	return &Config{
		LogLevel:    "info",
		Addr:        ":9080",
		CORSOrigins: []string{"*"},

		ThresholdsVersion: def.Version,
		LowThreshold:      def.Low,
		HighThreshold:     def.High,
		RatioEpsilon:      1e-9,

		TalentBaseURL: "https://api.talentprotocol.com",
		ZoraBaseURL:   "https://api-sdk.zora.engineering",
		NeynarBaseURL: "https://api.neynar.com/v2/farcaster",

		CredentialSlugs: []string{"zora", "talent", "ethereum", "coinbase", "opensea", "base"},

		UpstreamTimeoutMS:  10_000,
		UpstreamRetries:    2,
		UpstreamBackoffMS:  250,
		UpstreamRateLimit:  5,
		UpstreamRateBurst:  10,
		BreakerMaxFailures: 3,
		BreakerOpenMS:      30_000,
		FetchTimeoutMS:     20_000,

		AppURL:              "http://localhost:9080",
		AppName:             "Creator Score vs Market Cap",
		AppSubtitle:         "Analyze your creator value",
		AppDescription:      "Compare your Creator Score against your coin's Market Cap to see if you're undervalued, balanced, or overvalued. Interactive simulator included!",
		AppSplashBackground: "#1F2937",
		AppPrimaryCategory:  "finance",
		AppTagline:          "Know your worth",
		AppOGTitle:          "Creator Score vs Market Cap",
		AppOGDescription:    "Analyze if your creator coin is undervalued, balanced, or overvalued",
		AppTags:             []string{"creator-score", "market-cap", "valuation", "finance", "analytics"},
	}
}

// Thresholds returns the ratio calibration described by the config.
func (c *Config) Thresholds() ratio.Thresholds {
	return ratio.Thresholds{
		Version: c.ThresholdsVersion,
		Low:     c.LowThreshold,
		High:    c.HighThreshold,
	}
}

// Validate checks the fields the service cannot run without.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Addr) == "" {
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}
	if err := c.Thresholds().Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if c.RatioEpsilon < 0 {
		return fmt.Errorf("%w: ratio_epsilon must not be negative", ErrInvalidConfig)
	}
	if c.UpstreamTimeoutMS <= 0 || c.FetchTimeoutMS <= 0 {
		return fmt.Errorf("%w: upstream_timeout_ms and fetch_timeout_ms must be positive", ErrInvalidConfig)
	}
	if c.UpstreamRetries < 0 {
		return fmt.Errorf("%w: upstream_retries must not be negative", ErrInvalidConfig)
	}
	if len(c.CredentialSlugs) == 0 {
		return fmt.Errorf("%w: credential_slugs must not be empty", ErrInvalidConfig)
	}
	return nil
}
