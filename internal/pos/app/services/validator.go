package services

import (
	"github.com/TechWithMary/restaurant-pos/internal/pos/app/core"
	"github.com/TechWithMary/restaurant-pos/internal/pos/domain/dto"
	"github.com/TechWithMary/restaurant-pos/internal/pos/domain/models"
)

// ValidateSettlement checks a settlement request against the server-computed
// breakdown. It returns *core.ValidationErrors carrying every failure reason
// so the cashier sees all corrective actions at once.
func ValidateSettlement(req dto.SettlementRequest, method models.PaymentMethod, b models.PriceBreakdown) error {
	verrs := &core.ValidationErrors{}

	if req.TableID <= 0 {
		verrs.Add("table id must be positive, got %d", req.TableID)
	}
	if req.CashierID == "" {
		verrs.Add("cashier id is required")
	}
	if b.Subtotal <= 0 {
		verrs.Add("nothing to settle: subtotal is %.2f", b.Subtotal)
	}
	if req.DiscountType != string(models.DiscountPercentage) && req.DiscountType != string(models.DiscountFixed) {
		verrs.Add("unknown discount type: %q", req.DiscountType)
	}
	if req.Discount < 0 {
		verrs.Add("discount must not be negative, got %.2f", req.Discount)
	}
	if req.Tip < 0 {
		verrs.Add("tip must not be negative, got %.2f", req.Tip)
	}

	switch m := method.(type) {
	case models.Cash:
		if m.Tendered < b.FinalTotal {
			verrs.Add("insufficient cash: tendered %.2f is %.2f short of total %.2f",
				m.Tendered, round2(b.FinalTotal-m.Tendered), b.FinalTotal)
		}
	case models.Terminal:
		if m.TransactionID == "" {
			verrs.Add("terminal transaction id is required")
		} else if len(m.TransactionID) < core.MinTransactionIDLen {
			verrs.Add("terminal transaction id must be at least %d characters", core.MinTransactionIDLen)
		}
	case models.QR:
		if m.Reference == "" {
			verrs.Add("qr reference code is required")
		} else if len(m.Reference) < core.MinReferenceLen {
			verrs.Add("qr reference code must be at least %d characters", core.MinReferenceLen)
		}
	}

	if verrs.Empty() {
		return nil
	}
	return verrs
}
