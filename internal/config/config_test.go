package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateRequiresJWTSecret(t *testing.T) {
	cfg := &Config{
		Razorpay: RazorpayConfig{TestMode: true},
	}
	assert.ErrorIs(t, cfg.Validate(), ErrMissingJWTSecret)
}

func TestValidateRequiresRazorpayCredentialsInLiveMode(t *testing.T) {
	cfg := &Config{
		JWT:      JWTConfig{Secret: "s"},
		Razorpay: RazorpayConfig{TestMode: false},
	}
	assert.Error(t, cfg.Validate())

	cfg.Razorpay.KeyID = "rzp_test_key"
	cfg.Razorpay.KeySecret = "secret"
	assert.NoError(t, cfg.Validate())
}

func TestValidateAllowsTestModeWithoutCredentials(t *testing.T) {
	cfg := &Config{
		JWT:      JWTConfig{Secret: "s"},
		Razorpay: RazorpayConfig{TestMode: true},
	}
	assert.NoError(t, cfg.Validate())
}
