package upstream

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/quantmind-br/gamepass-catalog/internal/domain"
	"github.com/quantmind-br/gamepass-catalog/internal/utils"
)

// CatalogIDs holds the catalog identifier of each platform group
type CatalogIDs struct {
	Console string
	PC      string
	EAPlay  string
	All     string
}

// For returns the catalog identifier for a platform. Platforms without a
// dedicated catalog, and dedicated catalogs left unset, use All.
func (c CatalogIDs) For(p domain.Platform) string {
	var id string
	switch p {
	case domain.PlatformConsole:
		id = c.Console
	case domain.PlatformPC:
		id = c.PC
	case domain.PlatformEAPlay:
		id = c.EAPlay
	}
	if id == "" {
		return c.All
	}
	return id
}

// CatalogClient lists the product identifiers of a Game Pass catalog
type CatalogClient struct {
	fetcher    domain.Fetcher
	baseURL    string
	catalogIDs CatalogIDs
	logger     *utils.Logger
}

// CatalogClientOptions contains options for creating a CatalogClient
type CatalogClientOptions struct {
	Fetcher    domain.Fetcher
	BaseURL    string
	CatalogIDs CatalogIDs
	Logger     *utils.Logger
}

// NewCatalogClient creates a new CatalogClient
func NewCatalogClient(opts CatalogClientOptions) *CatalogClient {
	logger := opts.Logger
	if logger == nil {
		logger = utils.NewNopLogger()
	}
	return &CatalogClient{
		fetcher:    opts.Fetcher,
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		catalogIDs: opts.CatalogIDs,
		logger:     logger.WithComponent("catalog"),
	}
}

// ListURL builds the catalog listing URL for resolved options
func (c *CatalogClient) ListURL(opts domain.QueryOptions) string {
	q := url.Values{}
	q.Set("id", c.catalogIDs.For(opts.Platform))
	q.Set("language", opts.Language)
	q.Set("market", opts.Market)
	return utils.JoinURL(c.baseURL, "/sigls/v2", q)
}

// ListIDs returns the product identifiers of the catalog selected by
// opts.Platform, in upstream order. opts must already be resolved.
func (c *CatalogClient) ListIDs(ctx context.Context, opts domain.QueryOptions) ([]string, error) {
	target := c.ListURL(opts)
	c.logger.Debug().
		Str("platform", string(opts.Platform)).
		Str("url", target).
		Msg("Fetching catalog IDs")

	resp, err := c.fetcher.Get(ctx, target)
	if err != nil {
		return nil, domain.NewUpstreamError(domain.StageCatalog, err)
	}

	var entries []SiglsEntry
	if err := json.Unmarshal(resp.Body, &entries); err != nil {
		ue := domain.NewUpstreamError(domain.StageCatalog, fmt.Errorf("decode catalog listing: %w", err))
		ue.URL = target
		return nil, ue
	}

	ids := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.ID == "" {
			continue
		}
		ids = append(ids, e.ID)
	}

	c.logger.Debug().Int("count", len(ids)).Msg("Found product IDs")
	return ids, nil
}
