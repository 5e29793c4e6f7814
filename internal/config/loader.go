package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Environment conventions.
const (
	EnvPrefix     = "CREATORSCORE_"
	EnvConfigFile = "CREATORSCORE_CONFIG"
	EnvDotEnvFile = "CREATORSCORE_DOTENV"
)

// legacyKeys maps the unprefixed variable names used by earlier deployments.
var legacyKeys = map[string]func(*Config) *string{
	"TALENT_API_KEY": func(c *Config) *string { return &c.TalentAPIKey },
	"ZORA_API_KEY":   func(c *Config) *string { return &c.ZoraAPIKey },
	"NEYNAR_API_KEY": func(c *Config) *string { return &c.NeynarAPIKey },
}

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if CREATORSCORE_CONFIG is set
//  3. env (prefix CREATORSCORE_), after loading a .env file when present
func Load(_ context.Context) (*Config, error) {
	base := New()
	k := koanf.New(".")

	// .env never overrides variables already set in the process environment.
	dotenv := os.Getenv(EnvDotEnvFile)
	if dotenv == "" {
		dotenv = ".env"
	}
	if err := godotenv.Load(dotenv); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: dotenv %s: %w", ErrLoadConfig, dotenv, err)
	}

	if path := os.Getenv(EnvConfigFile); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
		}
	}

	// Map env keys like CREATORSCORE_LOW_THRESHOLD -> low_threshold (flat keys).
	// List keys take comma-separated values.
	lists := sliceKeys(&Config{})
	envProvider := env.ProviderWithValue(EnvPrefix, ".", func(key, value string) (string, interface{}) {
		key = strings.ToLower(strings.TrimPrefix(key, EnvPrefix))
		if _, ok := lists[key]; ok {
			return key, splitList(value)
		}
		return key, value
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}
	// The config file path itself is not a config key.
	k.Delete("config")
	k.Delete("dotenv")

	cfg := *base
	// Slices from a lower layer are replaced, not merged element-wise.
	for key, field := range sliceKeys(&cfg) {
		if k.Exists(key) {
			*field = nil
		}
	}
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	for name, field := range legacyKeys {
		if p := field(&cfg); *p == "" {
			*p = os.Getenv(name)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// splitList splits a comma-separated value, trimming blanks and dropping empty items.
func splitList(v string) []string {
	out := []string{}
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func sliceKeys(c *Config) map[string]*[]string {
	return map[string]*[]string{
		"cors_origins":                   &c.CORSOrigins,
		"credential_slugs":               &c.CredentialSlugs,
		"app_tags":                       &c.AppTags,
		"base_builder_allowed_addresses": &c.BaseBuilderAllowedAddr,
	}
}
