package coinbase

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"testing"

	"chargesync/internal/domain/event"
)

const testSecret = "hook-secret"

func sign(body []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

func hookBody(eventType, chargeID string) []byte {
	return []byte(fmt.Sprintf(`{
		"id": "delivery-1",
		"event": {
			"id": "evt-1",
			"type": %q,
			"data": {
				"id": %q,
				"code": "ABCD1234",
				"payments": [
					{"value": {"local": {"amount": "5.50", "currency": "EUR"}}}
				]
			}
		}
	}`, eventType, chargeID))
}

func TestVerifyWebhookAcceptsSignedPayload(t *testing.T) {
	body := hookBody("charge:resolved", "charge-abc")

	n, err := VerifyWebhook(body, sign(body, testSecret), testSecret)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if n.Type != event.TypeResolved {
		t.Errorf("type = %s, want %s", n.Type, event.TypeResolved)
	}
	if n.ChargeID != "charge-abc" {
		t.Errorf("charge id = %s, want charge-abc", n.ChargeID)
	}
	if n.EventID != "evt-1" {
		t.Errorf("event id = %s, want evt-1", n.EventID)
	}
	if got := n.SettledMinorUnits(); got != 550 {
		t.Errorf("settled = %d, want 550", got)
	}
}

func TestVerifyWebhookRejectsWrongSecret(t *testing.T) {
	body := hookBody("charge:confirmed", "charge-abc")

	_, err := VerifyWebhook(body, sign(body, "another-secret"), testSecret)
	if !errors.Is(err, ErrBadSignature) {
		t.Fatalf("error = %v, want ErrBadSignature", err)
	}
}

func TestVerifyWebhookRejectsTamperedBody(t *testing.T) {
	body := hookBody("charge:confirmed", "charge-abc")
	sig := sign(body, testSecret)
	tampered := hookBody("charge:confirmed", "charge-xyz")

	_, err := VerifyWebhook(tampered, sig, testSecret)
	if !errors.Is(err, ErrBadSignature) {
		t.Fatalf("error = %v, want ErrBadSignature", err)
	}
}

func TestVerifyWebhookRequiresSignatureHeader(t *testing.T) {
	body := hookBody("charge:confirmed", "charge-abc")

	for _, header := range []string{"", "   "} {
		_, err := VerifyWebhook(body, header, testSecret)
		if !errors.Is(err, ErrMissingSignature) {
			t.Fatalf("header %q: error = %v, want ErrMissingSignature", header, err)
		}
	}
}

func TestVerifyWebhookRejectsNonHexSignature(t *testing.T) {
	body := hookBody("charge:confirmed", "charge-abc")

	_, err := VerifyWebhook(body, "not-hex!!", testSecret)
	if !errors.Is(err, ErrBadSignature) {
		t.Fatalf("error = %v, want ErrBadSignature", err)
	}
}

func TestVerifyWebhookRejectsMalformedPayload(t *testing.T) {
	cases := [][]byte{
		[]byte(`not json`),
		[]byte(`{"event": {"type": "", "data": {"id": "x"}}}`),
		[]byte(`{"event": {"type": "charge:confirmed", "data": {"id": ""}}}`),
	}

	for _, body := range cases {
		_, err := VerifyWebhook(body, sign(body, testSecret), testSecret)
		if !errors.Is(err, ErrMalformedPayload) {
			t.Fatalf("body %s: error = %v, want ErrMalformedPayload", body, err)
		}
	}
}

func TestVerifyWebhookToleratesUnknownEventTypes(t *testing.T) {
	body := hookBody("charge:created", "charge-abc")

	n, err := VerifyWebhook(body, sign(body, testSecret), testSecret)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n.Type != event.TypeUnknown {
		t.Errorf("type = %s, want %s", n.Type, event.TypeUnknown)
	}
	if n.RawType != "charge:created" {
		t.Errorf("raw type = %s, want charge:created", n.RawType)
	}
}
