// Package lookup contains the back-office collaborators: the
// customer-relationship system that says whether a tax id belongs to a
// customer, and the availability store that says which subsidies the bank can
// actually produce. Both are optional; the pipeline degrades without them.
package lookup

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"golang.org/x/time/rate"

	"github.com/lgmartins/triagem/internal/cache"
	"github.com/lgmartins/triagem/internal/model"
	"github.com/lgmartins/triagem/internal/util"
)

// CustomerClient resolves a tax id to a customer record
type CustomerClient interface {
	Lookup(ctx context.Context, taxID string) (*model.CustomerRecord, error)
}

// HTTPCustomerClient talks to the customer-relationship API
type HTTPCustomerClient struct {
	cfg     model.LookupConfig
	client  *http.Client
	limiter *rate.Limiter
	store   cache.Cache
}

// NewHTTPCustomerClient creates a rate-limited, caching lookup client
func NewHTTPCustomerClient(cfg model.LookupConfig, store cache.Cache) (*HTTPCustomerClient, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("lookup base URL is required")
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 5 * time.Second
	}
	if cfg.RatePerSec <= 0 {
		cfg.RatePerSec = 10
	}
	if cfg.Burst <= 0 {
		cfg.Burst = 5
	}

	client := &http.Client{
		Timeout: cfg.Timeout,
		Transport: &http.Transport{
			Proxy: util.NewProxyFunc(cfg.HTTPProxy, cfg.HTTPSProxy, ""),
		},
	}

	return &HTTPCustomerClient{
		cfg:     cfg,
		client:  client,
		limiter: rate.NewLimiter(rate.Limit(cfg.RatePerSec), cfg.Burst),
		store:   store,
	}, nil
}

type lookupRequest struct {
	TaxID           string `json:"cpf_cnpj"`
	IncludeInactive bool   `json:"include_inactive"`
}

// Lookup resolves one tax id, consulting the cache first. Transient HTTP
// failures are retried with backoff; a response that still fails after
// retries is an error the caller turns into an alert, never a guess.
func (c *HTTPCustomerClient) Lookup(ctx context.Context, taxID string) (*model.CustomerRecord, error) {
	if c.store != nil {
		if raw, ok := c.store.Get(cache.Key(taxID)); ok {
			var rec model.CustomerRecord
			if err := json.Unmarshal(raw, &rec); err == nil {
				return &rec, nil
			}
		}
	}

	rec, err := c.fetch(ctx, taxID)
	if err != nil {
		return nil, err
	}

	if c.store != nil {
		if raw, err := json.Marshal(rec); err == nil {
			_ = c.store.Set(cache.Key(taxID), raw, c.cfg.CacheTTL)
		}
	}
	return rec, nil
}

func (c *HTTPCustomerClient) fetch(ctx context.Context, taxID string) (*model.CustomerRecord, error) {
	retries := c.cfg.MaxRetries
	if retries < 0 {
		retries = 0
	}

	var lastErr error
	for attempt := 0; attempt <= retries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(attempt) * 500 * time.Millisecond
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		rec, retryable, err := c.doRequest(ctx, taxID)
		if err == nil {
			return rec, nil
		}
		lastErr = err
		if !retryable {
			break
		}
		fmt.Fprintf(os.Stderr, "Warning: customer lookup attempt %d failed: %v\n", attempt+1, err)
	}
	return nil, fmt.Errorf("customer lookup failed: %w", lastErr)
}

func (c *HTTPCustomerClient) doRequest(ctx context.Context, taxID string) (*model.CustomerRecord, bool, error) {
	body, err := json.Marshal(lookupRequest{TaxID: taxID})
	if err != nil {
		return nil, false, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/v1/customer/validate", bytes.NewReader(body))
	if err != nil {
		return nil, false, err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, true, err
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests:
		return nil, true, fmt.Errorf("lookup API returned %d", resp.StatusCode)
	default:
		return nil, false, fmt.Errorf("lookup API returned %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, true, err
	}

	var rec model.CustomerRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, false, fmt.Errorf("decode lookup response: %w", err)
	}
	if rec.TaxID == "" {
		rec.TaxID = taxID
	}
	return &rec, false, nil
}
