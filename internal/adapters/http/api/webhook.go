package api

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/okian/creatorscore/pkg/logger"
)

// webhookEnvelope is the JSON Farcaster Signature format mini-app events arrive in.
type webhookEnvelope struct {
	Header    string `json:"header"`
	Payload   string `json:"payload"`
	Signature string `json:"signature"`
}

type webhookPayload struct {
	Event string `json:"event"`
}

// WebhookHandler acknowledges mini-app lifecycle events.
type WebhookHandler struct {
	logger logger.Logger
}

// NewWebhookHandler creates a new webhook handler.
func NewWebhookHandler(log logger.Logger) *WebhookHandler {
	return &WebhookHandler{logger: log}
}

// HandleWebhook handles POST /api/webhook. Events are logged, not stored.
func (h *WebhookHandler) HandleWebhook(w http.ResponseWriter, r *http.Request) {
	const op = "api.webhook"
	var env webhookEnvelope
	if err := decodeBody(w, r, &env); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if env.Payload == "" {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, errors.New("missing payload")))
		return
	}
	raw, err := base64.RawURLEncoding.DecodeString(env.Payload)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	var p webhookPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	h.logger.Info(r.Context(), "mini-app event", logger.String("event", p.Event))
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "event": p.Event})
}
