package openfoodfacts

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"foodrec/internal/config"
	"foodrec/internal/domain"
)

// Client implements port.CandidateProvider against the OpenFoodFacts
// search CGI. The underlying http.Client is shared and safe for
// concurrent use; per-call deadlines come from the caller's context.
type Client struct {
	baseURL string
	client  *http.Client
}

// NewClient creates an OpenFoodFacts-backed candidate provider.
func NewClient(cfg *config.CatalogConfig) *Client {
	return NewClientWithEndpoint(cfg, cfg.BaseURL)
}

// NewClientWithEndpoint creates a client pointing at a custom search
// endpoint (for testing).
func NewClientWithEndpoint(cfg *config.CatalogConfig, endpoint string) *Client {
	return &Client{
		baseURL: endpoint,
		// No client-level timeout: the retrying wrapper attaches a
		// deadline per attempt via context.
		client: &http.Client{},
	}
}

// product is the subset of the OpenFoodFacts search payload the engine
// consumes.
type product struct {
	Code        string `json:"code"`
	LegacyID    string `json:"_id"`
	ProductName string `json:"product_name"`
	GenericName string `json:"generic_name"`
	Brands      string `json:"brands"`
	Categories  string `json:"categories"`
}

type searchResponse struct {
	Products []product `json:"products"`
}

// Search queries the catalog and maps products to candidate records.
// Records without a usable display name are dropped at this boundary.
func (c *Client) Search(ctx context.Context, q domain.NormalizedQuery, limit int) ([]domain.CandidateRecord, error) {
	params := url.Values{}
	params.Set("search_simple", "1")
	params.Set("json", "1")
	params.Set("search_terms", q.CanonicalText)
	params.Set("page_size", strconv.Itoa(limit))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating catalog request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, classifyTransportError(err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, classifyTransportError(err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("catalog returned status %d: %w", resp.StatusCode, domain.ErrUpstreamUnavailable)
	}

	var sr searchResponse
	if err := json.Unmarshal(body, &sr); err != nil {
		return nil, fmt.Errorf("decoding catalog response: %w", domain.ErrUpstreamUnavailable)
	}

	records := make([]domain.CandidateRecord, 0, len(sr.Products))
	for _, p := range sr.Products {
		rec, ok := toRecord(p)
		if !ok {
			continue
		}
		records = append(records, rec)
	}
	return records, nil
}

// Ping issues a minimal search to verify the endpoint is reachable.
func (c *Client) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?search_simple=1&json=1&page_size=1", nil)
	if err != nil {
		return fmt.Errorf("creating ping request: %w", err)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return classifyTransportError(err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode >= http.StatusInternalServerError {
		return fmt.Errorf("catalog ping returned status %d: %w", resp.StatusCode, domain.ErrUpstreamUnavailable)
	}
	return nil
}

// toRecord validates one catalog product. The brand field is optional;
// a missing display name disqualifies the record.
func toRecord(p product) (domain.CandidateRecord, bool) {
	id := p.Code
	if id == "" {
		id = p.LegacyID
	}
	name := strings.TrimSpace(p.ProductName)
	if name == "" {
		name = strings.TrimSpace(p.GenericName)
	}
	if id == "" || name == "" {
		return domain.CandidateRecord{}, false
	}

	var attrs map[string]string
	if p.Categories != "" {
		attrs = map[string]string{"categories": p.Categories}
	}
	return domain.CandidateRecord{
		CatalogID:   id,
		DisplayName: name,
		Brand:       strings.TrimSpace(p.Brands),
		Attributes:  attrs,
	}, true
}

// classifyTransportError maps transport failures onto the domain error
// taxonomy: deadline overruns are retryable timeouts, everything else
// is an unavailable upstream.
func classifyTransportError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("catalog request: %w", domain.ErrUpstreamTimeout)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return fmt.Errorf("catalog request: %w", domain.ErrUpstreamTimeout)
	}
	return fmt.Errorf("catalog request: %v: %w", err, domain.ErrUpstreamUnavailable)
}
