package security

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

const sigPrefix = "sha256="

// SignPayload computes the signature header value for an outgoing webhook
// delivery: the hex HMAC-SHA256 of the raw body, keyed with the endpoint
// secret.
func SignPayload(body []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return sigPrefix + hex.EncodeToString(mac.Sum(nil))
}

// VerifySignature reports whether the signature header matches the body.
// Receivers use it to authenticate deliveries.
func VerifySignature(body []byte, secret, header string) bool {
	encoded, ok := strings.CutPrefix(header, sigPrefix)
	if !ok {
		return false
	}

	sig, err := hex.DecodeString(encoded)
	if err != nil {
		return false
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hmac.Equal(sig, mac.Sum(nil))
}
