package security

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
)

var ErrBadSignature = errors.New("webhook signature verification failed")

// WebhookSigner authenticates payment-processor webhook payloads with a
// shared-secret HMAC-SHA256 over the raw body. The hex digest travels in the
// X-Webhook-Signature header.
type WebhookSigner struct {
	secret []byte
}

func NewWebhookSigner(secret string) (*WebhookSigner, error) {
	if len(secret) < 16 {
		return nil, fmt.Errorf("webhook secret must be at least 16 bytes, got %d", len(secret))
	}
	return &WebhookSigner{secret: []byte(secret)}, nil
}

func (s *WebhookSigner) Sign(payload []byte) string {
	mac := hmac.New(sha256.New, s.secret)
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

func (s *WebhookSigner) Verify(payload []byte, signature string) error {
	want, err := hex.DecodeString(signature)
	if err != nil {
		return ErrBadSignature
	}
	mac := hmac.New(sha256.New, s.secret)
	mac.Write(payload)
	if !hmac.Equal(mac.Sum(nil), want) {
		return ErrBadSignature
	}
	return nil
}
