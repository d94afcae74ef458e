package services

import (
	"errors"
	"strings"
	"testing"

	"github.com/TechWithMary/restaurant-pos/internal/pos/app/core"
	"github.com/TechWithMary/restaurant-pos/internal/pos/domain/dto"
	"github.com/TechWithMary/restaurant-pos/internal/pos/domain/models"
)

func validRequest() dto.SettlementRequest {
	return dto.SettlementRequest{
		TableID:       1,
		CashierID:     "emp-7",
		PaymentMethod: "cash",
		DiscountType:  "percentage",
		Tendered:      60.00,
	}
}

func TestValidateSettlement(t *testing.T) {
	breakdown := models.PriceBreakdown{Subtotal: 50.00, TaxableBase: 50.00, Tax: 4.00, FinalTotal: 54.00}

	tests := []struct {
		name        string
		mutate      func(*dto.SettlementRequest)
		method      models.PaymentMethod
		wantReasons int
		wantSubstr  string
	}{
		{
			name:   "valid cash",
			method: models.Cash{Tendered: 60.00},
		},
		{
			name:        "insufficient cash cites the shortfall",
			method:      models.Cash{Tendered: 50.00},
			wantReasons: 1,
			wantSubstr:  "4.00 short",
		},
		{
			name:        "terminal without transaction id",
			method:      models.Terminal{Card: "debit"},
			wantReasons: 1,
			wantSubstr:  "transaction id is required",
		},
		{
			name:        "terminal transaction id too short",
			method:      models.Terminal{TransactionID: "ab1", Card: "credit"},
			wantReasons: 1,
			wantSubstr:  "at least",
		},
		{
			name:        "qr without reference",
			method:      models.QR{},
			wantReasons: 1,
			wantSubstr:  "reference code is required",
		},
		{
			name:        "missing cashier",
			mutate:      func(r *dto.SettlementRequest) { r.CashierID = "" },
			method:      models.Cash{Tendered: 60.00},
			wantReasons: 1,
			wantSubstr:  "cashier id",
		},
		{
			name: "every reason reported at once",
			mutate: func(r *dto.SettlementRequest) {
				r.CashierID = ""
				r.TableID = 0
				r.Tip = -1
			},
			method:      models.Cash{Tendered: 10.00},
			wantReasons: 4,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			if tt.mutate != nil {
				tt.mutate(&req)
			}

			err := ValidateSettlement(req, tt.method, breakdown)
			if tt.wantReasons == 0 {
				if err != nil {
					t.Fatalf("ValidateSettlement() = %v, want nil", err)
				}
				return
			}

			var verrs *core.ValidationErrors
			if !errors.As(err, &verrs) {
				t.Fatalf("ValidateSettlement() = %v, want *core.ValidationErrors", err)
			}
			if len(verrs.Reasons) != tt.wantReasons {
				t.Fatalf("got %d reasons %v, want %d", len(verrs.Reasons), verrs.Reasons, tt.wantReasons)
			}
			if tt.wantSubstr != "" && !strings.Contains(verrs.Error(), tt.wantSubstr) {
				t.Errorf("error %q does not mention %q", verrs.Error(), tt.wantSubstr)
			}
		})
	}
}
