package payment

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"

	settingsRepo "studyspace/database/repository/settings"
)

// Verifier decides whether a webhook body was produced by the gateway.
type Verifier interface {
	Verify(ctx context.Context, rawBody []byte, signature string) bool
}

// HMACVerifier checks a hex HMAC-SHA256 of the raw body against the shared
// secret stored in the settings collection.
type HMACVerifier struct {
	settings settingsRepo.SettingsProvider
	category string
	provider string
}

// NewHMACVerifier looks the secret up under category/provider on every call.
func NewHMACVerifier(settings settingsRepo.SettingsProvider, category, provider string) *HMACVerifier {
	return &HMACVerifier{settings: settings, category: category, provider: provider}
}

// Verify fails closed: a missing secret, a lookup error or a panic all yield false.
func (v *HMACVerifier) Verify(ctx context.Context, rawBody []byte, signature string) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			ok = false
		}
	}()

	signature = strings.TrimSpace(signature)
	if signature == "" {
		return false
	}
	supplied, err := hex.DecodeString(signature)
	if err != nil {
		return false
	}

	secret, err := v.secret(ctx)
	if err != nil || secret == "" {
		return false
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(rawBody)
	return hmac.Equal(mac.Sum(nil), supplied)
}

// secret prefers a dedicated webhook secret over the API key secret.
func (v *HMACVerifier) secret(ctx context.Context) (string, error) {
	s, err := v.settings.Get(ctx, v.category, v.provider)
	if err != nil || s == nil {
		return "", err
	}
	if secret := s.Value("webhookSecret"); secret != "" {
		return secret, nil
	}
	return s.Value("keySecret"), nil
}

// Sign computes the signature the gateway would send for body. Used by tooling and tests.
func Sign(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}
