package pipeline

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/ppiankov/factlens/internal/model"
	"github.com/ppiankov/factlens/internal/util"
	"github.com/ppiankov/factlens/internal/worker"
	"go.uber.org/zap"
)

// fetchWaitFunc waits out a retry backoff (replaceable in tests)
var fetchWaitFunc = waitContext

// waitContext sleeps for d or until ctx is done, whichever comes first
func waitContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Fetcher retrieves search result pages for the fallback verifier
type Fetcher struct {
	httpClient *http.Client
	userAgent  string
	maxBytes   int64
	maxRetries int
	limiter    *worker.Limiter
	robots     *util.RobotsChecker // nil unless robots.txt is respected
	logger     *zap.Logger
}

// NewFetcher creates a new Fetcher with the given configuration
func NewFetcher(cfg model.SearchConfig, proxy model.ProxyConfig, logger *zap.Logger) *Fetcher {
	if logger == nil {
		logger = zap.NewNop()
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	maxBytes := cfg.MaxBodyBytes
	if maxBytes <= 0 {
		maxBytes = 2_000_000
	}
	maxRetries := cfg.MaxRetries
	if maxRetries <= 0 {
		maxRetries = 3
	}
	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = 1
	}

	client := &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			Proxy: util.NewProxyFunc(proxy.HTTPProxy, proxy.HTTPSProxy, proxy.NoProxy),
		},
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= 3 {
				return fmt.Errorf("stopped after 3 redirects")
			}
			return nil
		},
	}

	f := &Fetcher{
		httpClient: client,
		userAgent:  cfg.UserAgent,
		maxBytes:   maxBytes,
		maxRetries: maxRetries,
		limiter:    worker.NewLimiter(rps, cfg.Burst),
		logger:     logger,
	}
	if cfg.RespectRobots {
		f.robots = util.NewRobotsChecker(cfg.UserAgent, client, timeout, logger)
	}

	return f
}

// FetchResult contains the fetched HTML and metadata
type FetchResult struct {
	HTML        string
	StatusCode  int
	ContentType string
	FinalURL    string
}

// Fetch retrieves HTML content from the given URL once
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*FetchResult, error) {
	if f.robots != nil {
		allowed, crawlDelay, err := f.robots.CanFetch(ctx, rawURL)
		if err != nil {
			return nil, fmt.Errorf("robots check: %w", err)
		}
		if !allowed {
			return nil, fmt.Errorf("robots.txt disallows %s", rawURL)
		}
		if err := f.limiter.WaitWithDelay(ctx, rawURL, crawlDelay); err != nil {
			return nil, fmt.Errorf("rate limit: %w", err)
		}
	} else if err := f.limiter.Wait(ctx, rawURL); err != nil {
		return nil, fmt.Errorf("rate limit: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected status: %d %s", resp.StatusCode, resp.Status)
	}

	// Read body with size limit
	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	return &FetchResult{
		HTML:        string(body),
		StatusCode:  resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
		FinalURL:    resp.Request.URL.String(),
	}, nil
}

// FetchWithRetry retries transient failures with exponential backoff
func (f *Fetcher) FetchWithRetry(ctx context.Context, rawURL string) (*FetchResult, error) {
	var lastErr error
	for attempt := 0; attempt < f.maxRetries; attempt++ {
		result, err := f.Fetch(ctx, rawURL)
		if err == nil {
			return result, nil
		}
		lastErr = err

		if !isRetryableFetchError(err) || ctx.Err() != nil {
			return nil, err
		}
		if attempt < f.maxRetries-1 {
			backoff := time.Duration(1<<uint(attempt)) * time.Second
			f.logger.Debug("retrying search fetch",
				zap.String("url", rawURL),
				zap.Int("attempt", attempt+1),
				zap.Duration("backoff", backoff),
				zap.Error(err))
			if err := fetchWaitFunc(ctx, backoff); err != nil {
				return nil, fmt.Errorf("retry backoff: %w", err)
			}
		}
	}
	return nil, lastErr
}

// FetchHTML returns the page body; it satisfies verify.PageFetcher
func (f *Fetcher) FetchHTML(ctx context.Context, rawURL string) (string, error) {
	result, err := f.FetchWithRetry(ctx, rawURL)
	if err != nil {
		return "", err
	}
	return result.HTML, nil
}

// isRetryableFetchError returns true for transient fetch failures
func isRetryableFetchError(err error) bool {
	if err == nil {
		return false
	}
	s := err.Error()

	if strings.HasPrefix(s, "unexpected status: ") {
		var code int
		if _, scanErr := fmt.Sscanf(s, "unexpected status: %d", &code); scanErr != nil {
			return false
		}
		return code == http.StatusTooManyRequests || (code >= 500 && code < 600)
	}

	if strings.HasPrefix(s, "fetch: ") {
		lower := strings.ToLower(s)
		return strings.Contains(lower, "timeout") ||
			strings.Contains(lower, "connection refused") ||
			strings.Contains(lower, "connection reset")
	}

	return false
}
