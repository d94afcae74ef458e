package workflow

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/url"

	"github.com/TechWithMary/restaurant-pos/internal/pos/app/core"
)

// Gateway re-verifies terminal charges against the card network by their
// transaction id. Only the id is ever exchanged; no primary account number
// passes through or is stored here.
type Gateway struct {
	baseURL string
	http    *http.Client
}

func NewGateway(baseURL string) *Gateway {
	return &Gateway{
		baseURL: baseURL,
		http:    &http.Client{Timeout: core.GatewayTimeout},
	}
}

// VerifyCharge looks the transaction up and checks that the captured amount
// and currency match what we are about to record.
func (g *Gateway) VerifyCharge(ctx context.Context, transactionID string, amount float64, currency string) error {
	endpoint := g.baseURL + "/charges/" + url.PathEscape(transactionID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}

	resp, err := g.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", core.ErrCollaborator, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("transaction %s: %w", transactionID, core.ErrNotFound)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: gateway returned status %d", core.ErrCollaborator, resp.StatusCode)
	}

	var charge struct {
		Amount   float64 `json:"amount"`
		Currency string  `json:"currency"`
		Status   string  `json:"status"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&charge); err != nil {
		return fmt.Errorf("failed to decode charge: %w", err)
	}

	if charge.Status != "captured" && charge.Status != "succeeded" {
		return fmt.Errorf("transaction %s not captured (status %q)", transactionID, charge.Status)
	}
	if charge.Currency != currency {
		return fmt.Errorf("transaction %s currency mismatch: got %s, want %s", transactionID, charge.Currency, currency)
	}
	// sub-cent tolerance for collaborator-side rounding
	if math.Abs(charge.Amount-amount) > 0.005 {
		return fmt.Errorf("transaction %s amount mismatch: gateway captured %.2f, settlement total %.2f", transactionID, charge.Amount, amount)
	}
	return nil
}
