package utils

import (
	"fmt"

	"github.com/google/uuid"
)

// maxReceiptLength is the provider's limit on receipt identifiers.
const maxReceiptLength = 40

// PaymentReceipt derives a deterministic receipt identifier from an
// application id and a timestamp, capped to the provider's length limit.
func PaymentReceipt(applicationID uuid.UUID, unixTime int64) string {
	receipt := fmt.Sprintf("visa_%s_%d", applicationID.String()[:8], unixTime)
	if len(receipt) > maxReceiptLength {
		receipt = receipt[:maxReceiptLength]
	}
	return receipt
}
