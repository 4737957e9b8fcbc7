// Package contracts fetches a company's federal award history from the
// HigherGov awards API. Awards feed the defense-contract scorer; a company
// with no retrievable history simply scores without the contract signals.
package contracts

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/atomustam/prospector/internal/cache"
	"github.com/atomustam/prospector/internal/model"
	"github.com/atomustam/prospector/internal/worker"
)

// Client queries the awards API with per-host rate limiting and response
// caching, so batch runs stay inside the API quota.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	maxBytes   int64
	limiter    *worker.Limiter
	cache      cache.Cache
	cacheTTL   time.Duration
}

// NewClient creates an awards client from configuration.
func NewClient(cfg model.ContractsConfig) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("contracts base URL is required")
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	maxBytes := cfg.MaxBodyBytes
	if maxBytes <= 0 {
		maxBytes = 2 << 20
	}
	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = 2
	}
	ttl := cfg.CacheTTL
	if ttl <= 0 {
		ttl = time.Hour
	}

	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
		maxBytes:   maxBytes,
		limiter:    worker.NewLimiter(rps, cfg.BurstSize),
		cache:      cache.NewMemoryCache(ttl, ttl),
		cacheTTL:   ttl,
	}, nil
}

// awardsResponse mirrors the awards API payload shape.
type awardsResponse struct {
	Results []awardEntry `json:"results"`
}

type awardEntry struct {
	AwardAmount    float64 `json:"award_amount"`
	AwardingAgency string  `json:"awarding_agency_name"`
	ActionDate     string  `json:"action_date"`
}

// FetchAwards retrieves the company's award history by awardee name.
// A company with no awards returns an empty slice, not an error.
func (c *Client) FetchAwards(ctx context.Context, company string) ([]model.ContractAward, error) {
	if company == "" {
		return nil, fmt.Errorf("company name is required")
	}

	reqURL := fmt.Sprintf("%s/awards?awardee_name=%s", c.baseURL, url.QueryEscape(company))

	if cached, found := c.cache.Get(cache.Key(reqURL)); found {
		return parseAwards(cached)
	}

	if err := c.limiter.Wait(ctx, reqURL); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch awards: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		// Awardee unknown to the API: zero evidence, not a failure.
		return nil, nil
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected status: %d %s", resp.StatusCode, resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBytes))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	awards, err := parseAwards(body)
	if err != nil {
		return nil, err
	}

	if err := c.cache.Set(cache.Key(reqURL), body, c.cacheTTL); err != nil {
		log.Warn().Err(err).Str("company", company).Msg("cache awards response")
	}

	return awards, nil
}

func parseAwards(body []byte) ([]model.ContractAward, error) {
	var payload awardsResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("parse awards response: %w", err)
	}

	awards := make([]model.ContractAward, 0, len(payload.Results))
	for _, entry := range payload.Results {
		award := model.ContractAward{
			Amount: entry.AwardAmount,
			Agency: entry.AwardingAgency,
		}
		if entry.ActionDate != "" {
			date, err := time.Parse("2006-01-02", entry.ActionDate)
			if err != nil {
				log.Debug().Str("date", entry.ActionDate).Msg("skipping unparseable award date")
			} else {
				award.Date = date
			}
		}
		awards = append(awards, award)
	}
	return awards, nil
}
