package chain

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"

	"github.com/openquant/bwb-scanner/internal/models"
)

// Provider supplies a validated options chain snapshot. Each call returns a
// fresh slice the caller owns.
type Provider interface {
	Chain(ctx context.Context) ([]models.Contract, error)
}

// FileProvider reads the chain from a CSV file on each call.
type FileProvider struct {
	path   string
	loader *Loader
}

// NewFileProvider creates a provider backed by a CSV file.
func NewFileProvider(path string, loader *Loader) *FileProvider {
	return &FileProvider{path: path, loader: loader}
}

// Chain implements Provider.
func (p *FileProvider) Chain(_ context.Context) ([]models.Contract, error) {
	return p.loader.LoadFile(p.path)
}

// SyntheticProvider generates a reproducible chain on each call.
type SyntheticProvider struct {
	gen        *Generator
	spot       float64
	dtes       []int
	numStrikes int
}

// NewSyntheticProvider creates a provider backed by the synthetic generator.
func NewSyntheticProvider(gen *Generator, spot float64, dtes []int, numStrikes int) *SyntheticProvider {
	return &SyntheticProvider{gen: gen, spot: spot, dtes: dtes, numStrikes: numStrikes}
}

// Chain implements Provider.
func (p *SyntheticProvider) Chain(_ context.Context) ([]models.Contract, error) {
	rows := p.gen.Chain(p.spot, p.dtes, p.numStrikes)
	if len(rows) == 0 {
		return nil, ErrNoData
	}
	return rows, nil
}

// RetryConfig bounds the HTTP fetch retry loop.
type RetryConfig struct {
	MaxRetries     int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
	Timeout        time.Duration
}

// DefaultRetryConfig is used when no RetryConfig is supplied.
var DefaultRetryConfig = RetryConfig{
	MaxRetries:     3,
	InitialBackoff: 1 * time.Second,
	MaxBackoff:     30 * time.Second,
	Timeout:        2 * time.Minute,
}

// HTTPProvider fetches a chain CSV over HTTP with bounded retries and a
// circuit breaker in front of the remote source.
type HTTPProvider struct {
	url     string
	client  *http.Client
	loader  *Loader
	logger  *logrus.Logger
	breaker *gobreaker.CircuitBreaker
	config  RetryConfig
}

// NewHTTPProvider creates a provider fetching the chain from url.
func NewHTTPProvider(url string, loader *Loader, logger *logrus.Logger, config ...RetryConfig) *HTTPProvider {
	cfg := DefaultRetryConfig
	if len(config) > 0 {
		cfg = config[0]
	}

	settings := gobreaker.Settings{
		Name:        "ChainSourceCircuitBreaker",
		MaxRequests: 3,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 5 {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= 0.6
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Warnf("Circuit breaker %s state changed from %s to %s", name, from, to)
		},
	}

	return &HTTPProvider{
		url:     url,
		client:  &http.Client{Timeout: 30 * time.Second},
		loader:  loader,
		logger:  logger,
		breaker: gobreaker.NewCircuitBreaker(settings),
		config:  cfg,
	}
}

// Chain implements Provider. Transient fetch failures are retried with
// jittered exponential backoff; permanent failures and breaker rejections
// return immediately.
func (p *HTTPProvider) Chain(ctx context.Context) ([]models.Contract, error) {
	fetchCtx, cancel := context.WithTimeout(ctx, p.config.Timeout)
	defer cancel()

	var lastErr error
	backoff := p.config.InitialBackoff

	for attempt := 0; attempt <= p.config.MaxRetries; attempt++ {
		select {
		case <-fetchCtx.Done():
			return nil, fmt.Errorf("chain fetch timed out after %v: %w", p.config.Timeout, fetchCtx.Err())
		default:
		}

		res, err := p.breaker.Execute(func() (interface{}, error) {
			return p.fetch(fetchCtx)
		})
		if err == nil {
			chain, ok := res.([]models.Contract)
			if !ok {
				return nil, fmt.Errorf("chain fetch: unexpected result type %T", res)
			}
			return chain, nil
		}

		lastErr = err
		p.logger.WithError(err).Warnf("Chain fetch attempt %d/%d failed", attempt+1, p.config.MaxRetries+1)

		if !isTransientError(err) || attempt == p.config.MaxRetries {
			break
		}

		select {
		case <-time.After(backoff):
			backoff = p.nextBackoff(backoff)
		case <-fetchCtx.Done():
			return nil, fmt.Errorf("chain fetch timed out during backoff: %w", fetchCtx.Err())
		}
	}

	return nil, fmt.Errorf("failed to fetch chain after %d attempts: %w", p.config.MaxRetries+1, lastErr)
}

func (p *HTTPProvider) fetch(ctx context.Context) ([]models.Contract, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.url, nil)
	if err != nil {
		return nil, fmt.Errorf("building chain request: %w", err)
	}
	req.Header.Set("Accept", "text/csv")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching chain: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("chain source returned %d %s", resp.StatusCode, http.StatusText(resp.StatusCode))
	}

	return p.loader.Parse(resp.Body)
}

// nextBackoff grows the delay by 1.5x up to MaxBackoff, plus up to 25% jitter.
func (p *HTTPProvider) nextBackoff(current time.Duration) time.Duration {
	next := time.Duration(float64(current) * 1.5)
	if next > p.config.MaxBackoff {
		next = p.config.MaxBackoff
	}

	maxJitter := int64(next / 4)
	if maxJitter > 0 {
		jitterVal, err := rand.Int(rand.Reader, big.NewInt(maxJitter))
		if err == nil {
			next += time.Duration(jitterVal.Int64())
		}
	}
	return next
}

func isTransientError(err error) bool {
	if err == nil {
		return false
	}

	errStr := strings.ToLower(err.Error())

	transientPatterns := []string{
		"timeout",
		"connection refused",
		"connection reset",
		"temporary failure",
		"server error",
		"rate limit",
		"429",
		"502",
		"503",
		"504",
		"network",
		"dns",
		"tcp",
	}

	for _, pattern := range transientPatterns {
		if strings.Contains(errStr, pattern) {
			return true
		}
	}

	return false
}
