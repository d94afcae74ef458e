package services

import (
	"math"
	"testing"

	"github.com/TechWithMary/restaurant-pos/internal/pos/domain/models"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestPrice(t *testing.T) {
	tests := []struct {
		name         string
		subtotal     float64
		discount     float64
		discountType models.DiscountType
		tip          float64
		taxRate      float64
		want         models.PriceBreakdown
		wantErr      bool
	}{
		{
			name:         "rounding at each step",
			subtotal:     19.99,
			discountType: models.DiscountPercentage,
			taxRate:      0.08,
			want: models.PriceBreakdown{
				Subtotal:    19.99,
				TaxableBase: 19.99,
				Tax:         1.60,
				FinalTotal:  21.59,
			},
		},
		{
			name:         "fixed discount with tip",
			subtotal:     100.00,
			discount:     10,
			discountType: models.DiscountFixed,
			tip:          5.00,
			taxRate:      0.08,
			want: models.PriceBreakdown{
				Subtotal:       100.00,
				DiscountAmount: 10.00,
				TaxableBase:    90.00,
				Tax:            7.20,
				Tip:            5.00,
				FinalTotal:     102.20,
			},
		},
		{
			name:         "percentage discount",
			subtotal:     50.00,
			discount:     20,
			discountType: models.DiscountPercentage,
			taxRate:      0.08,
			want: models.PriceBreakdown{
				Subtotal:       50.00,
				DiscountAmount: 10.00,
				TaxableBase:    40.00,
				Tax:            3.20,
				FinalTotal:     43.20,
			},
		},
		{
			name:         "discount over 100 percent clamps to zero",
			subtotal:     30.00,
			discount:     150,
			discountType: models.DiscountPercentage,
			tip:          2.00,
			taxRate:      0.08,
			want: models.PriceBreakdown{
				Subtotal:       30.00,
				DiscountAmount: 45.00,
				TaxableBase:    0,
				Tax:            0,
				Tip:            2.00,
				FinalTotal:     2.00,
			},
		},
		{
			name:         "zero subtotal rejected",
			subtotal:     0,
			discountType: models.DiscountFixed,
			wantErr:      true,
		},
		{
			name:         "negative subtotal rejected",
			subtotal:     -10,
			discountType: models.DiscountFixed,
			wantErr:      true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Price(tt.subtotal, tt.discount, tt.discountType, tt.tip, tt.taxRate)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Price() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if !almostEqual(got.Subtotal, tt.want.Subtotal) ||
				!almostEqual(got.DiscountAmount, tt.want.DiscountAmount) ||
				!almostEqual(got.TaxableBase, tt.want.TaxableBase) ||
				!almostEqual(got.Tax, tt.want.Tax) ||
				!almostEqual(got.Tip, tt.want.Tip) ||
				!almostEqual(got.FinalTotal, tt.want.FinalTotal) {
				t.Errorf("Price() = %+v, want %+v", got, tt.want)
			}
			if got.FinalTotal < 0 {
				t.Errorf("FinalTotal must never be negative, got %f", got.FinalTotal)
			}
		})
	}
}

func TestPriceDeterminism(t *testing.T) {
	first, err := Price(73.37, 12.5, models.DiscountPercentage, 3.33, 0.19)
	if err != nil {
		t.Fatalf("Price() error = %v", err)
	}
	for i := 0; i < 100; i++ {
		again, err := Price(73.37, 12.5, models.DiscountPercentage, 3.33, 0.19)
		if err != nil {
			t.Fatalf("Price() error = %v", err)
		}
		if again != first {
			t.Fatalf("Price() is not deterministic: %+v != %+v", again, first)
		}
	}
}

func TestChangeDue(t *testing.T) {
	b := models.PriceBreakdown{FinalTotal: 54.00}

	if got := ChangeDue(b, 60.00); !almostEqual(got, 6.00) {
		t.Errorf("ChangeDue(60) = %f, want 6.00", got)
	}
	if got := ChangeDue(b, 54.00); !almostEqual(got, 0) {
		t.Errorf("ChangeDue(exact) = %f, want 0", got)
	}
	if got := ChangeDue(b, 50.00); got != 0 {
		t.Errorf("ChangeDue(short) = %f, want 0", got)
	}
}
