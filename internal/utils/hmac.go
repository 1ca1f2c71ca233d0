package utils

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// SignHMAC creates a hex-encoded HMAC-SHA256 signature for a message,
// matching the payment provider's signature convention.
func SignHMAC(message, secret string) string {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write([]byte(message))
	return hex.EncodeToString(h.Sum(nil))
}

// VerifyHMAC verifies a signature against a message in constant time.
func VerifyHMAC(message, signature, secret string) bool {
	expected := SignHMAC(message, secret)
	return hmac.Equal([]byte(signature), []byte(expected))
}
