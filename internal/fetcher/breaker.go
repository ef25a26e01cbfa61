package fetcher

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/quantmind-br/gamepass-catalog/internal/domain"
	"github.com/quantmind-br/gamepass-catalog/internal/utils"
)

// BreakerState represents the state of a circuit breaker
type BreakerState int

const (
	BreakerClosed BreakerState = iota
	BreakerOpen
	BreakerHalfOpen
)

func (s BreakerState) String() string {
	switch s {
	case BreakerClosed:
		return "closed"
	case BreakerOpen:
		return "open"
	case BreakerHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// BreakerOptions holds circuit breaker configuration
type BreakerOptions struct {
	// FailureThreshold consecutive failures open the breaker
	FailureThreshold int
	// ResetTimeout is how long the breaker stays open before a trial request
	ResetTimeout time.Duration
	Now          func() time.Time
	Logger       *utils.Logger
}

// Breaker wraps a Fetcher and fails fast while the upstream keeps failing.
// Transport errors, 5xx and 429 responses count as failures; other 4xx
// responses do not. Caller cancellation counts as neither. While half-open a
// single trial request is let through; concurrent callers fail fast until it
// completes.
type Breaker struct {
	next   domain.Fetcher
	opts   BreakerOptions
	logger *utils.Logger

	mu        sync.Mutex
	state     BreakerState
	failures  int
	changedAt time.Time
	trial     bool
}

// NewBreaker creates a circuit breaker in front of next
func NewBreaker(next domain.Fetcher, opts BreakerOptions) *Breaker {
	if opts.FailureThreshold <= 0 {
		opts.FailureThreshold = 5
	}
	if opts.ResetTimeout <= 0 {
		opts.ResetTimeout = 30 * time.Second
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	logger := opts.Logger
	if logger == nil {
		logger = utils.NewNopLogger()
	}

	return &Breaker{
		next:      next,
		opts:      opts,
		logger:    logger.WithComponent("breaker"),
		state:     BreakerClosed,
		changedAt: opts.Now(),
	}
}

// Get fetches a URL unless the breaker is open
func (b *Breaker) Get(ctx context.Context, url string) (*domain.Response, error) {
	return b.GetWithHeaders(ctx, url, nil)
}

// GetWithHeaders fetches a URL with extra headers unless the breaker is open
func (b *Breaker) GetWithHeaders(ctx context.Context, url string, headers map[string]string) (*domain.Response, error) {
	if !b.allow() {
		return nil, domain.NewFetchError(url, 0, domain.ErrCircuitOpen)
	}

	resp, err := b.next.GetWithHeaders(ctx, url, headers)
	switch {
	case errors.Is(err, context.Canceled):
		b.release()
	case isFailure(err):
		b.recordFailure()
	default:
		b.recordSuccess()
	}
	return resp, err
}

// Close releases the wrapped fetcher
func (b *Breaker) Close() error {
	return b.next.Close()
}

// State returns the current state
func (b *Breaker) State() BreakerState {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

func (b *Breaker) allow() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case BreakerOpen:
		if b.opts.Now().Sub(b.changedAt) < b.opts.ResetTimeout {
			return false
		}
		b.transitionTo(BreakerHalfOpen)
		b.trial = true
		return true
	case BreakerHalfOpen:
		if b.trial {
			return false
		}
		b.trial = true
		return true
	default:
		return true
	}
}

// release frees the trial slot without judging the upstream
func (b *Breaker) release() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.trial = false
}

func (b *Breaker) recordSuccess() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.failures = 0
	b.trial = false
	if b.state == BreakerHalfOpen {
		b.transitionTo(BreakerClosed)
	}
}

func (b *Breaker) recordFailure() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.trial = false
	switch b.state {
	case BreakerClosed:
		b.failures++
		if b.failures >= b.opts.FailureThreshold {
			b.transitionTo(BreakerOpen)
		}
	case BreakerHalfOpen:
		b.transitionTo(BreakerOpen)
	}
}

func (b *Breaker) transitionTo(state BreakerState) {
	b.logger.Warn().
		Str("from", b.state.String()).
		Str("to", state.String()).
		Msg("Circuit breaker state change")
	b.state = state
	b.changedAt = b.opts.Now()
	b.failures = 0
}

func isFailure(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) {
		return false
	}
	var fetchErr *domain.FetchError
	if errors.As(err, &fetchErr) && fetchErr.StatusCode > 0 {
		return fetchErr.StatusCode >= 500 || fetchErr.StatusCode == http.StatusTooManyRequests
	}
	return true
}
