// Package workflow holds the HTTP clients for the external collaborators:
// the payment/invoice workflow engine, the catalog provider and the
// card-network gateway. Wire formats are owned by the collaborators; the
// clients only enforce the behavioral contracts (bounded timeouts, amounts
// never trusted from the outside).
package workflow

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/TechWithMary/restaurant-pos/internal/pos/app/core"
	"github.com/TechWithMary/restaurant-pos/internal/pos/domain/dto"
)

type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: core.ExternalCallTimeout},
	}
}

// NotifySettlement posts the settlement event and returns the collaborator's
// execution id. The id is traceability only; amounts stay authoritative on
// our side.
func (c *Client) NotifySettlement(ctx context.Context, event dto.SettlementEvent) (string, error) {
	body, err := json.Marshal(event)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/executions/settlement", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", core.ErrCollaborator, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("%w: workflow returned status %d", core.ErrCollaborator, resp.StatusCode)
	}

	var out struct {
		ExecutionID string `json:"execution_id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("failed to decode workflow response: %w", err)
	}
	return out.ExecutionID, nil
}

// Fetch pulls the current catalog snapshot from the provider.
func (c *Client) Fetch(ctx context.Context) (dto.CatalogSnapshot, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/catalog", nil)
	if err != nil {
		return dto.CatalogSnapshot{}, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return dto.CatalogSnapshot{}, fmt.Errorf("%w: %v", core.ErrCollaborator, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return dto.CatalogSnapshot{}, fmt.Errorf("%w: catalog returned status %d", core.ErrCollaborator, resp.StatusCode)
	}

	var snap dto.CatalogSnapshot
	if err := json.NewDecoder(resp.Body).Decode(&snap); err != nil {
		return dto.CatalogSnapshot{}, fmt.Errorf("failed to decode catalog: %w", err)
	}
	return snap, nil
}
