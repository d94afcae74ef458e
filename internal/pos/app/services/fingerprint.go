package services

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/TechWithMary/restaurant-pos/internal/pos/domain/dto"
)

// Fingerprint derives the idempotency key of a settlement request from its
// semantic fields only. No timestamp goes in, so a byte-identical retry
// caused by a network timeout collides with the original and is collapsed
// into its cached result.
func Fingerprint(req dto.SettlementRequest) string {
	canonical := fmt.Sprintf("table=%d|method=%s|discount=%.2f|dtype=%s|tip=%.2f|tendered=%.2f|txn=%s|ref=%s",
		req.TableID,
		req.PaymentMethod,
		req.Discount,
		req.DiscountType,
		req.Tip,
		req.Tendered,
		req.TransactionID,
		req.Reference,
	)
	sum := sha256.Sum256([]byte(canonical))
	return hex.EncodeToString(sum[:])
}
