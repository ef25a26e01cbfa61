package upstream

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"sync"

	"github.com/quantmind-br/gamepass-catalog/internal/domain"
	"github.com/quantmind-br/gamepass-catalog/internal/utils"
)

// DefaultBatchSize is the number of identifiers sent per details request
const DefaultBatchSize = 20

// BatchFailure records a details batch that could not be fetched
type BatchFailure struct {
	Index int
	IDs   []string
	Err   error
}

// BatchResult is the outcome of FetchDetails. Products holds every product
// from the successful batches in batch order.
type BatchResult struct {
	Products []Product
	Batches  int
	Failed   []BatchFailure
}

// Partial reports whether at least one batch failed
func (r *BatchResult) Partial() bool {
	return len(r.Failed) > 0
}

// DetailClient fetches product details in fixed-size batches
type DetailClient struct {
	fetcher     domain.Fetcher
	baseURL     string
	batchSize   int
	concurrency int
	onBatch     func(done, total int)
	logger      *utils.Logger
}

// DetailClientOptions contains options for creating a DetailClient
type DetailClientOptions struct {
	Fetcher     domain.Fetcher
	BaseURL     string
	BatchSize   int
	Concurrency int
	// OnBatch is called after every batch, successful or not
	OnBatch func(done, total int)
	Logger  *utils.Logger
}

// NewDetailClient creates a new DetailClient
func NewDetailClient(opts DetailClientOptions) *DetailClient {
	if opts.BatchSize <= 0 {
		opts.BatchSize = DefaultBatchSize
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = 1
	}
	logger := opts.Logger
	if logger == nil {
		logger = utils.NewNopLogger()
	}
	return &DetailClient{
		fetcher:     opts.Fetcher,
		baseURL:     strings.TrimRight(opts.BaseURL, "/"),
		batchSize:   opts.BatchSize,
		concurrency: opts.Concurrency,
		onBatch:     opts.OnBatch,
		logger:      logger.WithComponent("details"),
	}
}

// Batches splits ids into consecutive chunks of at most size elements
func Batches(ids []string, size int) [][]string {
	if size <= 0 {
		size = DefaultBatchSize
	}
	batches := make([][]string, 0, (len(ids)+size-1)/size)
	for start := 0; start < len(ids); start += size {
		end := min(start+size, len(ids))
		batches = append(batches, ids[start:end])
	}
	return batches
}

// BatchURL builds the details URL for one batch
func (c *DetailClient) BatchURL(ids []string, opts domain.QueryOptions) string {
	q := url.Values{}
	q.Set("bigIds", strings.Join(ids, ","))
	q.Set("market", opts.Market)
	q.Set("languages", opts.Language)
	return utils.JoinURL(c.baseURL, "/v7.0/products", q)
}

// FetchDetails fetches the products for ids. A failed batch is logged and
// recorded in the result; the remaining batches still run. opts must
// already be resolved.
func (c *DetailClient) FetchDetails(ctx context.Context, ids []string, opts domain.QueryOptions) *BatchResult {
	batches := Batches(ids, c.batchSize)
	result := &BatchResult{Batches: len(batches)}
	if len(batches) == 0 {
		return result
	}

	c.logger.Debug().
		Int("ids", len(ids)).
		Int("batches", len(batches)).
		Msg("Fetching product details")

	type indexed struct {
		index int
		ids   []string
	}
	items := make([]indexed, len(batches))
	for i, b := range batches {
		items[i] = indexed{index: i, ids: b}
	}

	perBatch := make([][]Product, len(batches))
	errs := make([]error, len(batches))
	ran := make([]bool, len(batches))
	var mu sync.Mutex
	done := 0

	utils.ParallelForEach(ctx, items, c.concurrency, func(ctx context.Context, it indexed) error {
		products, err := c.fetchBatch(ctx, it.ids, opts)
		perBatch[it.index] = products
		errs[it.index] = err
		ran[it.index] = true

		mu.Lock()
		done++
		current := done
		mu.Unlock()
		if c.onBatch != nil {
			c.onBatch(current, len(batches))
		}
		return err
	})

	for i, b := range batches {
		err := errs[i]
		if !ran[i] {
			err = domain.NewUpstreamError(domain.StageDetails, context.Cause(ctx))
		}
		if err != nil {
			c.logger.Warn().
				Err(err).
				Int("batch", i).
				Int("size", len(b)).
				Msg("Details batch failed")
			result.Failed = append(result.Failed, BatchFailure{Index: i, IDs: b, Err: err})
			continue
		}
		result.Products = append(result.Products, perBatch[i]...)
	}

	c.logger.Debug().
		Int("products", len(result.Products)).
		Int("failed_batches", len(result.Failed)).
		Msg("Fetched product details")
	return result
}

func (c *DetailClient) fetchBatch(ctx context.Context, ids []string, opts domain.QueryOptions) ([]Product, error) {
	target := c.BatchURL(ids, opts)
	resp, err := c.fetcher.Get(ctx, target)
	if err != nil {
		return nil, domain.NewUpstreamError(domain.StageDetails, err)
	}

	var body ProductsResponse
	if err := json.Unmarshal(resp.Body, &body); err != nil {
		ue := domain.NewUpstreamError(domain.StageDetails, fmt.Errorf("decode products: %w", err))
		ue.URL = target
		return nil, ue
	}
	if body.Products == nil {
		return []Product{}, nil
	}
	return body.Products, nil
}
