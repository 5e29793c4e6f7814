// Package manifest builds the Farcaster mini-app manifest served at
// /.well-known/farcaster.json.
package manifest

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/okian/creatorscore/internal/config"
)

// Path is where Farcaster clients look for the manifest.
const Path = "/.well-known/farcaster.json"

// AccountAssociation is the signed domain ownership proof.
type AccountAssociation struct {
	Header    string `json:"header"`
	Payload   string `json:"payload"`
	Signature string `json:"signature"`
}

// BaseBuilder lists the Base Builder addresses allowed to manage the app.
type BaseBuilder struct {
	AllowedAddresses []string `json:"allowedAddresses"`
}

// Manifest is the document returned to Farcaster clients.
type Manifest struct {
	AccountAssociation AccountAssociation `json:"accountAssociation"`
	BaseBuilder        BaseBuilder        `json:"baseBuilder"`
	Frame              map[string]any     `json:"frame"`
}

// New builds the manifest from cfg. Image URLs default to files under AppURL
// and empty strings or lists are dropped from the frame.
func New(cfg *config.Config) Manifest {
	base := strings.TrimRight(cfg.AppURL, "/")
	or := func(v, def string) string {
		if v != "" {
			return v
		}
		return def
	}

	frame := withValidProperties(map[string]any{
		"version":               "1",
		"name":                  cfg.AppName,
		"subtitle":              cfg.AppSubtitle,
		"description":           cfg.AppDescription,
		"screenshotUrls":        []string{base + "/screenshot.png"},
		"iconUrl":               or(cfg.AppIcon, base+"/icon.png"),
		"splashImageUrl":        or(cfg.AppSplashImage, base+"/splash.png"),
		"splashBackgroundColor": cfg.AppSplashBackground,
		"homeUrl":               base,
		"webhookUrl":            base + "/api/webhook",
		"primaryCategory":       cfg.AppPrimaryCategory,
		"tags":                  cfg.AppTags,
		"heroImageUrl":          or(cfg.AppHeroImage, base+"/hero.png"),
		"tagline":               cfg.AppTagline,
		"ogTitle":               cfg.AppOGTitle,
		"ogDescription":         cfg.AppOGDescription,
		"ogImageUrl":            or(cfg.AppOGImage, base+"/hero.png"),
		"noindex":               strconv.FormatBool(cfg.AppNoIndex),
	})

	allowed := cfg.BaseBuilderAllowedAddr
	if allowed == nil {
		allowed = []string{}
	}
	return Manifest{
		AccountAssociation: AccountAssociation{
			Header:    cfg.AccountAssocHeader,
			Payload:   cfg.AccountAssocPayload,
			Signature: cfg.AccountAssocSignature,
		},
		BaseBuilder: BaseBuilder{AllowedAddresses: allowed},
		Frame:       frame,
	}
}

// withValidProperties drops empty strings and empty lists.
func withValidProperties(props map[string]any) map[string]any {
	out := make(map[string]any, len(props))
	for k, v := range props {
		switch t := v.(type) {
		case string:
			if t == "" {
				continue
			}
		case []string:
			if len(t) == 0 {
				continue
			}
		case nil:
			continue
		}
		out[k] = v
	}
	return out
}

// Register serves m at Path.
func Register(r chi.Router, m Manifest) {
	body, err := json.Marshal(m)
	if err != nil {
		panic("manifest: " + err.Error())
	}
	r.Get(Path, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.Header().Set("Cache-Control", "public, max-age=300")
		_, _ = w.Write(body)
	})
}
