package services

import (
	"fmt"
	"math"

	"github.com/TechWithMary/restaurant-pos/internal/pos/domain/models"
)

// round2 rounds to cents. Every intermediate monetary value is rounded the
// moment it is computed, not only at the end; otherwise floating error
// compounds and totals stop reconciling with the persisted records.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Price computes the reconciled monetary breakdown for one settlement.
// Pure function: identical inputs always yield an identical breakdown.
func Price(subtotal, discount float64, discountType models.DiscountType, tip, taxRate float64) (models.PriceBreakdown, error) {
	if subtotal <= 0 {
		return models.PriceBreakdown{}, fmt.Errorf("subtotal must be positive, got %.2f", subtotal)
	}
	subtotal = round2(subtotal)

	var discountAmount float64
	switch discountType {
	case models.DiscountPercentage:
		discountAmount = round2(subtotal * discount / 100)
	case models.DiscountFixed:
		discountAmount = round2(discount)
	default:
		return models.PriceBreakdown{}, fmt.Errorf("unknown discount type: %q", discountType)
	}

	// A discount larger than the subtotal clamps to a free order, it does
	// not go negative.
	taxableBase := round2(subtotal - discountAmount)
	if taxableBase < 0 {
		taxableBase = 0
	}

	tax := round2(taxableBase * taxRate)
	tip = round2(tip)
	finalTotal := round2(taxableBase + tax + tip)

	return models.PriceBreakdown{
		Subtotal:       subtotal,
		DiscountAmount: discountAmount,
		TaxableBase:    taxableBase,
		Tax:            tax,
		Tip:            tip,
		FinalTotal:     finalTotal,
	}, nil
}

// ChangeDue returns the change owed on a cash settlement, never negative.
func ChangeDue(b models.PriceBreakdown, tendered float64) float64 {
	change := round2(round2(tendered) - b.FinalTotal)
	if change < 0 {
		return 0
	}
	return change
}

// LineSubtotal sums quantity*price per line, rounding each line total before
// accumulating.
func LineSubtotal(lines []models.OrderLine, priceOf func(productID int64) float64) float64 {
	var subtotal float64
	for _, line := range lines {
		subtotal = round2(subtotal + round2(float64(line.Quantity)*priceOf(line.ProductID)))
	}
	return subtotal
}
