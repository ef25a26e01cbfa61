package fetcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	fhttp "github.com/bogdanfinn/fhttp"
	tls_client "github.com/bogdanfinn/tls-client"
	"github.com/bogdanfinn/tls-client/profiles"
	"github.com/quantmind-br/gamepass-catalog/internal/domain"
)

// Client is a JSON HTTP client using tls-client
type Client struct {
	tlsClient tls_client.HttpClient
	userAgent string
	language  string
	timeout   time.Duration
	retrier   *Retrier
}

// ClientOptions contains options for creating a Client
type ClientOptions struct {
	// Timeout bounds every single request attempt
	Timeout    time.Duration
	MaxRetries int
	UserAgent  string
	// Language is sent as Accept-Language when set
	Language string
	ProxyURL string
}

// NewClient creates a new HTTP client
func NewClient(opts ClientOptions) (*Client, error) {
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}

	tlsTimeout := int(opts.Timeout.Seconds())
	if tlsTimeout < 1 {
		tlsTimeout = 1
	}

	tlsOpts := []tls_client.HttpClientOption{
		tls_client.WithTimeoutSeconds(tlsTimeout),
		tls_client.WithClientProfile(profiles.Chrome_131),
		tls_client.WithRandomTLSExtensionOrder(),
		tls_client.WithNotFollowRedirects(),
	}

	if opts.ProxyURL != "" {
		tlsOpts = append(tlsOpts, tls_client.WithProxyUrl(opts.ProxyURL))
	}

	tlsClient, err := tls_client.NewHttpClient(tls_client.NewNoopLogger(), tlsOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create tls client: %w", err)
	}

	retrier := NewRetrier(RetrierOptions{
		MaxRetries:      opts.MaxRetries,
		InitialInterval: 500 * time.Millisecond,
		MaxInterval:     5 * time.Second,
		Multiplier:      2.0,
	})

	return &Client{
		tlsClient: tlsClient,
		userAgent: opts.UserAgent,
		language:  opts.Language,
		timeout:   opts.Timeout,
		retrier:   retrier,
	}, nil
}

// Get fetches a URL
func (c *Client) Get(ctx context.Context, url string) (*domain.Response, error) {
	return c.GetWithHeaders(ctx, url, nil)
}

// GetWithHeaders fetches a URL with extra headers
func (c *Client) GetWithHeaders(ctx context.Context, url string, extraHeaders map[string]string) (*domain.Response, error) {
	return RetryWithValue(ctx, c.retrier, func() (*domain.Response, error) {
		return c.doRequest(ctx, url, extraHeaders)
	})
}

// doRequest performs a single request attempt bounded by the client timeout
func (c *Client) doRequest(ctx context.Context, targetURL string, extraHeaders map[string]string) (*domain.Response, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := fhttp.NewRequestWithContext(ctx, fhttp.MethodGet, targetURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	for k, v := range DefaultHeaders(c.userAgent, c.language) {
		req.Header.Set(k, v)
	}
	for k, v := range extraHeaders {
		req.Header.Set(k, v)
	}

	resp, err := c.tlsClient.Do(req)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			err = fmt.Errorf("%w after %s: %v", domain.ErrTimeout, c.timeout, err)
		}
		return nil, &domain.FetchError{
			URL: targetURL,
			Err: fmt.Errorf("request failed: %w", err),
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		fetchErr := &domain.FetchError{
			URL:        targetURL,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("HTTP %d", resp.StatusCode),
		}
		if ShouldRetryStatus(resp.StatusCode) {
			return nil, &domain.RetryableError{
				Err:        fetchErr,
				RetryAfter: int(ParseRetryAfter(resp.Header.Get("Retry-After")).Seconds()),
			}
		}
		return nil, fetchErr
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &domain.FetchError{
			URL:        targetURL,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("failed to read response body: %w", err),
		}
	}

	return &domain.Response{
		StatusCode:  resp.StatusCode,
		Body:        body,
		ContentType: resp.Header.Get("Content-Type"),
		URL:         targetURL,
	}, nil
}

// Close releases client resources
func (c *Client) Close() error {
	// tls-client has no Close; the method satisfies domain.Fetcher
	return nil
}
