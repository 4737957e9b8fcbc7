package crm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/atomustam/prospector/internal/model"
)

// HubSpotClient updates company records through the HubSpot CRM v3 API.
type HubSpotClient struct {
	httpClient *http.Client
	baseURL    string
	token      string
}

// NewHubSpotClient creates a CRM client from configuration.
func NewHubSpotClient(cfg model.CRMConfig) (*HubSpotClient, error) {
	if cfg.Token == "" {
		return nil, fmt.Errorf("CRM token is required")
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "https://api.hubapi.com"
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	return &HubSpotClient{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
		token:      cfg.Token,
	}, nil
}

// SyncResult writes the scoring result onto the CRM company identified by
// crmID.
func (c *HubSpotClient) SyncResult(ctx context.Context, crmID string, result *model.ScoringResult) error {
	if crmID == "" {
		return fmt.Errorf("CRM record id is required")
	}

	payload, err := json.Marshal(map[string]any{
		"properties": FlattenResult(result),
	})
	if err != nil {
		return fmt.Errorf("marshal properties: %w", err)
	}

	reqURL := fmt.Sprintf("%s/crm/v3/objects/companies/%s", c.baseURL, crmID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPatch, reqURL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("sync company %s: %w", crmID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("sync company %s: status %d: %s", crmID, resp.StatusCode, string(body))
	}

	log.Debug().
		Str("crm_id", crmID).
		Str("company", result.Company).
		Str("tier", string(result.Tier)).
		Msg("synced scoring result to CRM")
	return nil
}
