package config_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/okian/creatorscore/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New()

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
			convey.So(cfg.LowThreshold, convey.ShouldEqual, 1_000)
			convey.So(cfg.HighThreshold, convey.ShouldEqual, 5_000)
			convey.So(cfg.ThresholdsVersion, convey.ShouldEqual, "v1")
			convey.So(cfg.CredentialSlugs, convey.ShouldResemble, []string{"zora", "talent", "ethereum", "coinbase", "opensea", "base"})
			convey.So(cfg.MockFallback, convey.ShouldBeFalse)
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})

		convey.Convey("Then the thresholds are exposed as a calibration", func() {
			th := cfg.Thresholds()
			convey.So(th.Version, convey.ShouldEqual, "v1")
			convey.So(th.Low, convey.ShouldEqual, cfg.LowThreshold)
			convey.So(th.High, convey.ShouldEqual, cfg.HighThreshold)
		})
	})
}

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()
		clearConfigEnvVars()

		convey.Convey("When loading config with defaults only", func() {
			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
				convey.So(cfg.TalentAPIKey, convey.ShouldBeEmpty)
				convey.So(cfg.UpstreamRetries, convey.ShouldEqual, 2)
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("CREATORSCORE_ADDR", ":8080")
			_ = os.Setenv("CREATORSCORE_LOW_THRESHOLD", "500")
			_ = os.Setenv("CREATORSCORE_HIGH_THRESHOLD", "2500.5")
			_ = os.Setenv("CREATORSCORE_CREDENTIAL_SLUGS", "zora,base")
			_ = os.Setenv("CREATORSCORE_MOCK_FALLBACK", "true")
			_ = os.Setenv("CREATORSCORE_TALENT_API_KEY", "talent-key")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.LowThreshold, convey.ShouldEqual, 500)
				convey.So(cfg.HighThreshold, convey.ShouldEqual, 2500.5)
				convey.So(cfg.CredentialSlugs, convey.ShouldResemble, []string{"zora", "base"})
				convey.So(cfg.MockFallback, convey.ShouldBeTrue)
				convey.So(cfg.TalentAPIKey, convey.ShouldEqual, "talent-key")
			})
		})

		convey.Convey("When list settings are given as padded comma-separated env values", func() {
			_ = os.Setenv("CREATORSCORE_CORS_ORIGINS", "https://a.example, https://b.example")
			_ = os.Setenv("CREATORSCORE_APP_TAGS", "finance, ,analytics,")
			_ = os.Setenv("CREATORSCORE_BASE_BUILDER_ALLOWED_ADDRESSES", "0xabc")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then each item becomes its own element", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.CORSOrigins, convey.ShouldResemble, []string{"https://a.example", "https://b.example"})
				convey.So(cfg.AppTags, convey.ShouldResemble, []string{"finance", "analytics"})
				convey.So(cfg.BaseBuilderAllowedAddr, convey.ShouldResemble, []string{"0xabc"})
			})
		})

		convey.Convey("When only the legacy API key variables are set", func() {
			_ = os.Setenv("TALENT_API_KEY", "legacy-talent")
			_ = os.Setenv("ZORA_API_KEY", "legacy-zora")
			_ = os.Setenv("CREATORSCORE_NEYNAR_API_KEY", "prefixed-neynar")
			_ = os.Setenv("NEYNAR_API_KEY", "legacy-neynar")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then they fill the empty keys and prefixed keys win", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.TalentAPIKey, convey.ShouldEqual, "legacy-talent")
				convey.So(cfg.ZoraAPIKey, convey.ShouldEqual, "legacy-zora")
				convey.So(cfg.NeynarAPIKey, convey.ShouldEqual, "prefixed-neynar")
			})
		})

		convey.Convey("When loading config with YAML file", func() {
			yamlContent := `
addr: ":9090"
thresholds_version: "v2"
low_threshold: 0.0005
high_threshold: 0.002
credential_slugs:
  - talent
upstream_retries: 0
`
			tmpFile := createTempConfigFile(t, yamlContent)
			_ = os.Setenv("CREATORSCORE_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load from YAML file", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9090")
				convey.So(cfg.ThresholdsVersion, convey.ShouldEqual, "v2")
				convey.So(cfg.LowThreshold, convey.ShouldEqual, 0.0005)
				convey.So(cfg.HighThreshold, convey.ShouldEqual, 0.002)
				convey.So(cfg.CredentialSlugs, convey.ShouldResemble, []string{"talent"})
				convey.So(cfg.UpstreamRetries, convey.ShouldEqual, 0)
			})
		})

		convey.Convey("When loading config with both file and environment variables", func() {
			yamlContent := `
addr: ":9090"
fetch_timeout_ms: 1000
`
			tmpFile := createTempConfigFile(t, yamlContent)
			_ = os.Setenv("CREATORSCORE_CONFIG", tmpFile)
			_ = os.Setenv("CREATORSCORE_ADDR", ":8080")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then environment variables should override file values", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")        // Overridden by env
				convey.So(cfg.FetchTimeoutMS, convey.ShouldEqual, 1000) // From file
				convey.So(cfg.UpstreamTimeoutMS, convey.ShouldEqual, 10_000)
			})
		})

		convey.Convey("When a .env file is present", func() {
			dir := t.TempDir()
			path := filepath.Join(dir, "creatorscore.env")
			convey.So(os.WriteFile(path, []byte("ZORA_API_KEY=from-dotenv\nCREATORSCORE_APP_NAME=Dotenv App\n"), 0o600), convey.ShouldBeNil)
			_ = os.Setenv("CREATORSCORE_DOTENV", path)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then its variables are picked up", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.ZoraAPIKey, convey.ShouldEqual, "from-dotenv")
				convey.So(cfg.AppName, convey.ShouldEqual, "Dotenv App")
			})
		})

		convey.Convey("When loading config with invalid YAML file", func() {
			tmpFile := createTempConfigFile(t, `invalid: yaml: content: [`)
			_ = os.Setenv("CREATORSCORE_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a load error", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with non-existent file", func() {
			_ = os.Setenv("CREATORSCORE_CONFIG", "/non/existent/file.yaml")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with empty addr", func() {
			_ = os.Setenv("CREATORSCORE_ADDR", "")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a validation error", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(err.Error(), convey.ShouldContainSubstring, "addr must not be empty")
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When the thresholds are out of order", func() {
			_ = os.Setenv("CREATORSCORE_LOW_THRESHOLD", "9000")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a validation error", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with invalid numeric environment variables", func() {
			_ = os.Setenv("CREATORSCORE_UPSTREAM_RETRIES", "not_a_number")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})
	})
}

// Helper functions.
func clearConfigEnvVars() {
	for _, kv := range os.Environ() {
		name, _, _ := strings.Cut(kv, "=")
		if strings.HasPrefix(name, config.EnvPrefix) {
			_ = os.Unsetenv(name)
		}
	}
	for _, name := range []string{"TALENT_API_KEY", "ZORA_API_KEY", "NEYNAR_API_KEY"} {
		_ = os.Unsetenv(name)
	}
}

func createTempConfigFile(t *testing.T, content string) string {
	path := filepath.Join(t.TempDir(), "creatorscore-config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		panic(err)
	}
	return path
}
