package materials

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/dmorales-dev/tradeflow-backend/pkg/config"
	pkgerrors "github.com/dmorales-dev/tradeflow-backend/pkg/errors"
)

const (
	generateLineItemsPath       = "api/generate-lineitems"
	searchMaterialsPath         = "intelligent/materials/search"
	errorBodyReadLimit    int64 = 1024
	defaultTimeout              = 15 * time.Second
)

var errBaseURLRequired = errors.New("materials service base URL is required")

// Client wraps the contractor-ai HTTP service that parses free-form project
// descriptions into line items and searches supplier material catalogs.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

// Option configures optional client behavior.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// NewClient builds the contractor-ai client from configuration.
func NewClient(cfg config.AIConfig, opts ...Option) (*Client, error) {
	baseURL := strings.TrimSpace(cfg.BaseURL)
	if baseURL == "" {
		return nil, errBaseURLRequired
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	client := &Client{
		baseURL:    baseURL,
		apiKey:     strings.TrimSpace(cfg.APIKey),
		httpClient: &http.Client{Timeout: timeout},
	}

	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}

	if client.httpClient == nil {
		client.httpClient = &http.Client{Timeout: timeout}
	}

	return client, nil
}

// GenerateRequest describes the free-form project text sent for parsing.
type GenerateRequest struct {
	Description string `json:"description"`
	Zip         string `json:"zip,omitempty"`
}

// MaterialMatch is one supplier catalog hit attached to a parsed item.
type MaterialMatch struct {
	Name      string   `json:"name"`
	PriceUnit *float64 `json:"price_unit"`
	Unit      *string  `json:"unit"`
	Image     *string  `json:"image"`
	Supplier  *string  `json:"supplier"`
	SKU       *string  `json:"sku"`
}

// ParsedItem is one line the service extracted from the description, with
// candidate material matches ordered best-first.
type ParsedItem struct {
	Name     string          `json:"name"`
	Quantity *float64        `json:"quantity"`
	Unit     *string         `json:"unit"`
	Matches  []MaterialMatch `json:"matches"`
}

// GenerateResponse is the raw generate-lineitems payload.
type GenerateResponse struct {
	ParsedItems []ParsedItem `json:"parsed_items"`
}

// SearchRequest queries the material catalog directly.
type SearchRequest struct {
	Query string `json:"query"`
	Zip   string `json:"zip,omitempty"`
	Limit int    `json:"limit,omitempty"`
}

// SearchResponse is the raw material search payload.
type SearchResponse struct {
	Results []MaterialMatch `json:"results"`
}

// GenerateLineItems asks the service to parse a project description into
// candidate line items with priced material matches.
func (c *Client) GenerateLineItems(ctx context.Context, req GenerateRequest) (*GenerateResponse, error) {
	if c == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "materials client not configured")
	}
	if strings.TrimSpace(req.Description) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "project description is required")
	}

	var out GenerateResponse
	if err := c.post(ctx, generateLineItemsPath, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SearchMaterials queries the supplier catalog for priced materials.
func (c *Client) SearchMaterials(ctx context.Context, req SearchRequest) (*SearchResponse, error) {
	if c == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "materials client not configured")
	}
	if strings.TrimSpace(req.Query) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "search query is required")
	}

	var out SearchResponse
	if err := c.post(ctx, searchMaterialsPath, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) post(ctx context.Context, path string, body any, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "marshal materials request")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.buildURL(path), bytes.NewReader(payload))
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "build materials request")
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "execute materials request")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyReadLimit))
		return pkgerrors.Wrap(pkgerrors.CodeDependency,
			fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg))),
			"materials request failed")
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode materials response")
	}
	return nil
}

func (c *Client) buildURL(path string) string {
	return fmt.Sprintf("%s/%s", strings.TrimRight(c.baseURL, "/"), strings.TrimLeft(path, "/"))
}
