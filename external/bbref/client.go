package bbref

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/jonboulle/clockwork"
	"github.com/valyala/fasthttp"

	"github.com/riskibarqy/auction-draft/internal/platform/cache"
	"github.com/riskibarqy/auction-draft/internal/platform/logging"
	"github.com/riskibarqy/auction-draft/internal/platform/resilience"
	"github.com/riskibarqy/auction-draft/internal/usecase"
)

const (
	defaultBaseURL   = "https://www.basketball-reference.com"
	defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"
	maxBodySize      = 8 << 20
)

var (
	errTransient = crerr.New("basketball-reference transient failure")
	// ErrPageNotFound is returned when the season page does not exist yet.
	ErrPageNotFound = crerr.New("season page not found")
)

type ClientConfig struct {
	BaseURL        string
	UserAgent      string
	Timeout        time.Duration
	MaxRetries     int
	CacheTTL       time.Duration
	Clock          clockwork.Clock
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

// Client fetches season pages. Bodies are cached for CacheTTL and concurrent
// fetches of the same page share one request.
type Client struct {
	http           *fasthttp.Client
	baseURL        string
	userAgent      string
	timeout        time.Duration
	maxRetries     int
	clock          clockwork.Clock
	logger         *logging.Logger
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
	pages          *cache.Store[[]byte]
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.Clock == nil {
		cfg.Clock = clockwork.NewRealClock()
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	userAgent := strings.TrimSpace(cfg.UserAgent)
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	logger = logger.Named("bbref")
	breakerCfg := cfg.CircuitBreaker
	if breakerCfg.Clock == nil {
		breakerCfg.Clock = cfg.Clock
	}
	if breakerCfg.OnStateChange == nil {
		breakerCfg.OnStateChange = func(from, to resilience.CircuitState) {
			logger.Warn("bbref circuit breaker state changed", "from", from, "to", to)
		}
	}
	breakerCfg = resilience.NormalizeCircuitBreakerConfig(breakerCfg)

	return &Client{
		http: &fasthttp.Client{
			Name:                     userAgent,
			ReadTimeout:              cfg.Timeout,
			WriteTimeout:             cfg.Timeout,
			MaxResponseBodySize:      maxBodySize,
			NoDefaultUserAgentHeader: true,
		},
		baseURL:        baseURL,
		userAgent:      userAgent,
		timeout:        cfg.Timeout,
		maxRetries:     max(cfg.MaxRetries, 0),
		clock:          cfg.Clock,
		logger:         logger,
		breaker:        resilience.NewCircuitBreaker(breakerCfg),
		circuitEnabled: breakerCfg.Enabled,
		pages:          cache.NewStore[[]byte](cfg.CacheTTL, cfg.Clock),
	}
}

func (c *Client) PerGameURL(season int) string {
	return fmt.Sprintf("%s/leagues/NBA_%d_per_game.html", c.baseURL, season)
}

// FetchPerGame returns the raw per-game stats page of a season.
func (c *Client) FetchPerGame(ctx context.Context, season int) ([]byte, error) {
	if season <= 0 {
		return nil, fmt.Errorf("%w: season must be greater than zero", usecase.ErrInvalidInput)
	}
	fullURL := c.PerGameURL(season)
	return c.pages.GetOrLoad(ctx, fullURL, func(ctx context.Context) ([]byte, error) {
		return c.fetch(ctx, fullURL)
	})
}

// Forget drops cached pages so the next fetch hits the network.
func (c *Client) Forget(ctx context.Context) {
	c.pages.DeletePrefix(ctx, c.baseURL)
}

func (c *Client) fetch(ctx context.Context, fullURL string) ([]byte, error) {
	if !c.circuitEnabled {
		return c.executeRequest(ctx, fullURL)
	}

	var body []byte
	err := c.breaker.Do(func() error {
		raw, err := c.executeRequest(ctx, fullURL)
		body = raw
		return err
	}, isCircuitFailure)
	if stderrors.Is(err, resilience.ErrCircuitOpen) {
		c.logger.WarnContext(ctx, "bbref circuit breaker rejected request", "state", c.breaker.State())
		return nil, fmt.Errorf("%w: stats provider is temporarily unavailable", usecase.ErrDependencyUnavailable)
	}
	return body, err
}

func (c *Client) executeRequest(ctx context.Context, fullURL string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		body, status, err := c.do(ctx, fullURL)
		switch {
		case err != nil:
			lastErr = crerr.Mark(crerr.Wrapf(err, "send request %s", fullURL), errTransient)
		case status >= 200 && status < 300:
			return body, nil
		case status == fasthttp.StatusNotFound:
			return nil, crerr.Wrapf(ErrPageNotFound, "%s", fullURL)
		case isRetryableStatus(status):
			lastErr = crerr.Mark(crerr.Newf("provider status=%d url=%s", status, fullURL), errTransient)
		default:
			return nil, crerr.Newf("provider status=%d url=%s", status, fullURL)
		}

		if attempt == c.maxRetries {
			break
		}
		backoff := time.Duration(attempt+1) * time.Second
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-c.clock.After(backoff):
		}
	}

	if lastErr == nil {
		lastErr = crerr.New("provider request failed")
	}
	c.logger.WarnContext(ctx, "bbref request failed", "url", fullURL, "error", lastErr)
	return nil, lastErr
}

func (c *Client) do(ctx context.Context, fullURL string) ([]byte, int, error) {
	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(fullURL)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "text/html")

	deadline := time.Now().Add(c.timeout)
	if ctxDeadline, ok := ctx.Deadline(); ok && ctxDeadline.Before(deadline) {
		deadline = ctxDeadline
	}
	if err := c.http.DoDeadline(req, resp, deadline); err != nil {
		return nil, 0, err
	}

	body := append([]byte(nil), resp.Body()...)
	return body, resp.StatusCode(), nil
}

func isRetryableStatus(status int) bool {
	return status == fasthttp.StatusTooManyRequests || status >= 500
}

func isCircuitFailure(err error) bool {
	return crerr.Is(err, errTransient)
}
