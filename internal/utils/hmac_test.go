package utils

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestSignHMACMatchesReference(t *testing.T) {
	mac := hmac.New(sha256.New, []byte("S"))
	mac.Write([]byte("order_1|pay_1"))
	expected := hex.EncodeToString(mac.Sum(nil))

	assert.Equal(t, expected, SignHMAC("order_1|pay_1", "S"))
}

func TestVerifyHMAC(t *testing.T) {
	signature := SignHMAC("order_1|pay_1", "S")

	assert.True(t, VerifyHMAC("order_1|pay_1", signature, "S"))
	assert.False(t, VerifyHMAC("order_1|pay_1", signature, "other"))
	assert.False(t, VerifyHMAC("order_1|pay_2", signature, "S"))
	assert.False(t, VerifyHMAC("order_1|pay_1", "bogus", "S"))
}

func TestPaymentReceiptCapped(t *testing.T) {
	receipt := PaymentReceipt(uuid.New(), 1700000000)
	assert.LessOrEqual(t, len(receipt), 40)
	assert.Contains(t, receipt, "visa_")
}
