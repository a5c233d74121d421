package coinbase

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"chargesync/internal/domain/event"
)

// SignatureHeader is the header carrying the webhook HMAC signature
const SignatureHeader = "X-CC-Webhook-Signature"

var (
	ErrMissingSignature = errors.New("signature header is required")
	ErrBadSignature     = errors.New("invalid signature")
	ErrMalformedPayload = errors.New("malformed webhook payload")
)

// VerifyWebhook authenticates a raw notification body against the shared
// secret and, only on success, parses it into a trusted Notification.
// The signature is HMAC-SHA256 over the raw body, hex encoded.
func VerifyWebhook(rawBody []byte, signatureHeader, secret string) (*event.Notification, error) {
	sig := strings.TrimSpace(signatureHeader)
	if sig == "" {
		// An absent header is a failure, not an omitted optional: otherwise
		// unsigned payloads would reach the reconciliation engine.
		return nil, ErrMissingSignature
	}

	given, err := hex.DecodeString(sig)
	if err != nil {
		return nil, ErrBadSignature
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(rawBody)
	if !hmac.Equal(given, mac.Sum(nil)) {
		return nil, ErrBadSignature
	}

	return ParseEnvelope(rawBody)
}

// ParseEnvelope parses a notification body whose signature has already been
// verified (or that was read back from the event log, where only verified
// payloads are stored).
func ParseEnvelope(rawBody []byte) (*event.Notification, error) {
	var env webhookEnvelope
	if err := json.Unmarshal(rawBody, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	if strings.TrimSpace(env.Event.Type) == "" {
		return nil, fmt.Errorf("%w: missing event type", ErrMalformedPayload)
	}
	if strings.TrimSpace(env.Event.Data.ID) == "" {
		return nil, fmt.Errorf("%w: missing charge id", ErrMalformedPayload)
	}

	lines := make([]event.SettlementLine, 0, len(env.Event.Data.Payments))
	for _, p := range env.Event.Data.Payments {
		lines = append(lines, event.SettlementLine{
			Amount:   p.Value.Local.Amount,
			Currency: p.Value.Local.Currency,
		})
	}

	return &event.Notification{
		EventID:     env.Event.ID,
		Type:        event.ParseType(env.Event.Type),
		RawType:     env.Event.Type,
		ChargeID:    env.Event.Data.ID,
		Settlements: lines,
		RawJSON:     rawBody,
		ReceivedAt:  time.Now(),
	}, nil
}

type webhookEnvelope struct {
	ID    string `json:"id"`
	Event struct {
		ID   string `json:"id"`
		Type string `json:"type"`
		Data struct {
			ID       string        `json:"id"`
			Code     string        `json:"code"`
			Payments []paymentLine `json:"payments"`
		} `json:"data"`
	} `json:"event"`
}
