package quote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PaesslerAG/jsonpath"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// DefaultPath selects the quote list inside the backend's response.
const DefaultPath = "$.quotes"

// APIKeyHeader carries the backend API key.
const APIKeyHeader = "X-API-Key"

// Client is a Service backed by the quote endpoint of the backend:
//
//	GET {base}/quotes?tickers=A,B
//
// The response is a JSON document holding a list of quotes, located by a
// JSONPath expression.
type Client struct {
	base    string
	apiKey  string
	path    string
	client  *http.Client
	limiter *rate.Limiter
	log     zerolog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithAPIKey sets the key sent in the APIKeyHeader.
func WithAPIKey(key string) Option { return func(c *Client) { c.apiKey = key } }

// WithHTTPClient replaces the HTTP client. Its timeout is kept as is.
func WithHTTPClient(hc *http.Client) Option { return func(c *Client) { c.client = hc } }

// WithTimeout bounds each backend request.
func WithTimeout(d time.Duration) Option { return func(c *Client) { c.client.Timeout = d } }

// WithRateLimit limits the requests to r per second with bursts of burst.
// A zero r disables the limit.
func WithRateLimit(r float64, burst int) Option {
	return func(c *Client) {
		if r <= 0 {
			c.limiter = nil
			return
		}
		c.limiter = rate.NewLimiter(rate.Limit(r), max(burst, 1))
	}
}

// WithPath sets the JSONPath of the quote list in the response.
func WithPath(path string) Option { return func(c *Client) { c.path = path } }

// WithLogger sets the logger of the request lines.
func WithLogger(log zerolog.Logger) Option {
	return func(c *Client) { c.log = log.With().Str("client", "quote").Logger() }
}

// NewClient returns a client of the backend at baseURL.
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		base:   strings.TrimSuffix(baseURL, "/"),
		path:   DefaultPath,
		client: &http.Client{Timeout: 10 * time.Second},
		log:    zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Quotes fetches the quotes of tickers in a single request. Quotes the
// backend returns for other tickers are ignored.
func (c *Client) Quotes(ctx context.Context, tickers []string) (map[string]Quote, error) {
	if len(tickers) == 0 {
		return map[string]Quote{}, nil
	}
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
		}
	}

	addr := c.base + "/quotes?" + url.Values{"tickers": {strings.Join(tickers, ",")}}.Encode()
	header := make(http.Header)
	header.Set("Accept", "application/json")
	if c.apiKey != "" {
		header.Set(APIKeyHeader, c.apiKey)
	}

	var jobj any
	if err := jwget(ctx, c.client, c.log, addr, header, &jobj); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(err, ctxErr) {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}

	list, err := c.extract(jobj)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}

	wanted := make(map[string]bool, len(tickers))
	for _, t := range tickers {
		wanted[t] = true
	}
	res := make(map[string]Quote, len(tickers))
	for _, q := range list {
		if wanted[q.Ticker] {
			res[q.Ticker] = q
		}
	}
	return res, nil
}

// extract locates the quote list in the decoded response.
func (c *Client) extract(jobj any) ([]Quote, error) {
	jval, err := jsonpath.Get(c.path, jobj)
	if err != nil {
		return nil, fmt.Errorf("cannot select %q: %w", c.path, err)
	}
	// a path can select the list itself or a single quote.
	if _, ok := jval.([]any); !ok {
		jval = []any{jval}
	}
	raw, err := json.Marshal(jval)
	if err != nil {
		return nil, err
	}
	var list []Quote
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, fmt.Errorf("cannot read quotes at %q: %w", c.path, err)
	}
	return list, nil
}
