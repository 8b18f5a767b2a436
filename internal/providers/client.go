package providers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"github.com/stitts-dev/nba-lineup/internal/dfs"
)

// PageFetcher returns the HTML body at a URL.
type PageFetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// PageCache stores fetched pages between runs.
type PageCache interface {
	GetPage(ctx context.Context, url string) (string, bool)
	SetPage(ctx context.Context, url, body string) error
}

// errPageMissing marks a 404. It is not counted as a breaker failure since
// guessed profile URLs miss routinely.
var errPageMissing = errors.New("page missing")

type ClientOptions struct {
	UserAgent    string
	RequestDelay time.Duration
	FetchTimeout time.Duration
	Limiter      *rate.Limiter
	Breaker      *gobreaker.CircuitBreaker
	Cache        PageCache
}

// BasketballReferenceClient fetches pages from the stats site. All requests
// share one limiter, so the delay between fetches holds however many workers
// call it.
type BasketballReferenceClient struct {
	http    *resty.Client
	limiter *rate.Limiter
	breaker *gobreaker.CircuitBreaker
	cache   PageCache
	timeout time.Duration
	logger  *logrus.Entry
}

func NewBasketballReferenceClient(opts ClientOptions, logger *logrus.Entry) *BasketballReferenceClient {
	client := resty.New()
	if opts.UserAgent != "" {
		client.SetHeader("User-Agent", opts.UserAgent)
	}
	client.SetHeader("Accept", "text/html")
	if opts.FetchTimeout > 0 {
		client.SetTimeout(opts.FetchTimeout)
	}

	limiter := opts.Limiter
	if limiter == nil {
		limiter = NewRequestLimiter(opts.RequestDelay)
	}

	return &BasketballReferenceClient{
		http:    client,
		limiter: limiter,
		breaker: opts.Breaker,
		cache:   opts.Cache,
		timeout: opts.FetchTimeout,
		logger:  logger,
	}
}

// NewRequestLimiter allows one request per delay. A zero delay disables throttling.
func NewRequestLimiter(delay time.Duration) *rate.Limiter {
	if delay <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	return rate.NewLimiter(rate.Every(delay), 1)
}

// Fetch returns the page body. A 404 yields a NetworkError with StatusCode
// 404; use IsMissing to tell it apart from real failures.
func (c *BasketballReferenceClient) Fetch(ctx context.Context, url string) (string, error) {
	if c.cache != nil {
		if body, ok := c.cache.GetPage(ctx, url); ok {
			c.logger.WithField("url", url).Debug("page cache hit")
			return body, nil
		}
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return "", &dfs.NetworkError{URL: url, Err: err}
	}

	body, err := c.execute(ctx, url)
	if err != nil {
		if errors.Is(err, errPageMissing) {
			return "", &dfs.NetworkError{URL: url, StatusCode: http.StatusNotFound}
		}
		var netErr *dfs.NetworkError
		if errors.As(err, &netErr) {
			return "", netErr
		}
		return "", &dfs.NetworkError{URL: url, Err: err}
	}

	if c.cache != nil {
		if err := c.cache.SetPage(ctx, url, body); err != nil {
			c.logger.WithError(err).Warn("failed to cache page")
		}
	}
	return body, nil
}

func (c *BasketballReferenceClient) execute(ctx context.Context, url string) (string, error) {
	var missing bool
	request := func() (interface{}, error) {
		reqCtx := ctx
		if c.timeout > 0 {
			var cancel context.CancelFunc
			reqCtx, cancel = context.WithTimeout(ctx, c.timeout)
			defer cancel()
		}

		start := time.Now()
		resp, err := c.http.R().SetContext(reqCtx).Get(url)
		if err != nil {
			return nil, err
		}
		c.logger.WithFields(logrus.Fields{
			"url":     url,
			"status":  resp.StatusCode(),
			"latency": time.Since(start),
		}).Debug("fetched page")

		switch {
		case resp.StatusCode() == http.StatusNotFound:
			missing = true
			return "", nil
		case !resp.IsSuccess():
			return nil, &dfs.NetworkError{URL: url, StatusCode: resp.StatusCode()}
		}
		return resp.String(), nil
	}

	var (
		result interface{}
		err    error
	)
	if c.breaker != nil {
		result, err = c.breaker.Execute(request)
	} else {
		result, err = request()
	}
	if err != nil {
		return "", err
	}
	if missing {
		return "", errPageMissing
	}
	return result.(string), nil
}

// IsMissing reports whether a fetch error was a 404.
func IsMissing(err error) bool {
	var netErr *dfs.NetworkError
	return errors.As(err, &netErr) && netErr.StatusCode == http.StatusNotFound
}

// StaticFetcher serves pages from memory, keyed by URL. Unknown URLs are 404s.
type StaticFetcher map[string]string

func (f StaticFetcher) Fetch(_ context.Context, url string) (string, error) {
	body, ok := f[url]
	if !ok {
		return "", &dfs.NetworkError{URL: url, StatusCode: http.StatusNotFound}
	}
	return body, nil
}

var _ PageFetcher = (*BasketballReferenceClient)(nil)
var _ PageFetcher = StaticFetcher(nil)
