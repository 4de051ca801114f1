// Package rpc is a JSON-RPC 2.0 client for a Sui full node.
package rpc

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	jsoniter "github.com/json-iterator/go"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Options tunes transport behaviour. Zero values fall back to defaults.
type Options struct {
	MaxRetries       int
	BaseDelay        time.Duration
	Timeout          time.Duration
	RateLimit        float64
	Burst            int
	BatchSize        int
	BatchConcurrency int
}

// Client is a JSON-RPC client with rate limiting, batching and retry on 429.
type Client struct {
	url              string
	httpClient       *http.Client
	limiter          *rate.Limiter
	maxRetries       int
	baseDelay        time.Duration
	batchSize        int
	batchConcurrency int
}

// NewClient creates a new full node client.
func NewClient(url string, opts Options) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.BaseDelay <= 0 {
		opts.BaseDelay = 500 * time.Millisecond
	}
	if opts.BatchSize <= 0 {
		opts.BatchSize = 50
	}
	if opts.BatchConcurrency <= 0 {
		opts.BatchConcurrency = 1
	}
	limiter := rate.NewLimiter(rate.Inf, 0)
	if opts.RateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(opts.RateLimit), max(opts.Burst, 1))
	}
	return &Client{
		url:              url,
		httpClient:       &http.Client{Timeout: opts.Timeout},
		limiter:          limiter,
		maxRetries:       max(opts.MaxRetries, 0),
		baseDelay:        opts.BaseDelay,
		batchSize:        opts.BatchSize,
		batchConcurrency: opts.BatchConcurrency,
	}
}

type request struct {
	JSONRPC string `json:"jsonrpc"`
	ID      int    `json:"id"`
	Method  string `json:"method"`
	Params  []any  `json:"params"`
}

type response struct {
	JSONRPC string              `json:"jsonrpc"`
	ID      int                 `json:"id"`
	Result  jsoniter.RawMessage `json:"result"`
	Error   *Error              `json:"error"`
}

// post sends a JSON body, retrying with exponential backoff on 429.
func (c *Client) post(ctx context.Context, payload []byte) ([]byte, error) {
	var lastErr error
	for attempt := range c.maxRetries + 1 {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("waiting for rate limiter: %w", err)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
		if err != nil {
			return nil, fmt.Errorf("creating request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("executing request: %w", err)
		}

		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("reading response: %w", err)
		}

		if resp.StatusCode == http.StatusOK {
			return body, nil
		}

		if resp.StatusCode == http.StatusTooManyRequests {
			lastErr = &StatusError{StatusCode: resp.StatusCode, URL: c.url, Body: fmt.Sprintf("attempt %d/%d", attempt+1, c.maxRetries+1)}
			if attempt < c.maxRetries {
				delay := c.baseDelay * time.Duration(1<<uint(attempt))
				select {
				case <-ctx.Done():
					return nil, ctx.Err()
				case <-time.After(delay):
				}
				continue
			}
			return nil, lastErr
		}

		return nil, &StatusError{StatusCode: resp.StatusCode, URL: c.url, Body: string(body)}
	}

	return nil, lastErr
}

// call performs a single JSON-RPC request and decodes its result into dest.
func (c *Client) call(ctx context.Context, method string, params []any, dest any) error {
	payload, err := json.Marshal(request{JSONRPC: "2.0", ID: 1, Method: method, Params: params})
	if err != nil {
		return fmt.Errorf("encoding %s request: %w", method, err)
	}
	body, err := c.post(ctx, payload)
	if err != nil {
		return fmt.Errorf("calling %s: %w", method, err)
	}
	var resp response
	if err := json.Unmarshal(body, &resp); err != nil {
		return fmt.Errorf("parsing %s response: %w", method, err)
	}
	if resp.Error != nil {
		resp.Error.Method = method
		return resp.Error
	}
	if err := json.Unmarshal(resp.Result, dest); err != nil {
		return fmt.Errorf("parsing %s result: %w", method, err)
	}
	return nil
}

// batch performs one JSON-RPC method per params entry, split into chunks of
// batchSize sent with bounded concurrency. Results are returned in request order.
func (c *Client) batch(ctx context.Context, method string, params [][]any) ([]jsoniter.RawMessage, error) {
	results := make([]jsoniter.RawMessage, len(params))
	if len(params) == 0 {
		return results, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.batchConcurrency)

	for start := 0; start < len(params); start += c.batchSize {
		end := min(start+c.batchSize, len(params))
		g.Go(func() error {
			return c.batchChunk(gctx, method, params[start:end], results[start:end])
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func (c *Client) batchChunk(ctx context.Context, method string, params [][]any, out []jsoniter.RawMessage) error {
	reqs := make([]request, len(params))
	for i, p := range params {
		reqs[i] = request{JSONRPC: "2.0", ID: i, Method: method, Params: p}
	}
	payload, err := json.Marshal(reqs)
	if err != nil {
		return fmt.Errorf("encoding %s batch: %w", method, err)
	}
	body, err := c.post(ctx, payload)
	if err != nil {
		return fmt.Errorf("calling %s batch: %w", method, err)
	}

	var resps []response
	if err := json.Unmarshal(body, &resps); err != nil {
		// a rejected batch comes back as a single error object
		var single response
		if json.Unmarshal(body, &single) == nil && single.Error != nil {
			single.Error.Method = method
			return single.Error
		}
		return fmt.Errorf("parsing %s batch response: %w", method, err)
	}

	seen := make([]bool, len(params))
	for _, r := range resps {
		if r.ID < 0 || r.ID >= len(params) {
			return fmt.Errorf("%s batch response has unknown id %d", method, r.ID)
		}
		if r.Error != nil {
			r.Error.Method = method
			return r.Error
		}
		out[r.ID] = r.Result
		seen[r.ID] = true
	}
	for i, ok := range seen {
		if !ok {
			return fmt.Errorf("%s batch response missing id %d", method, i)
		}
	}
	return nil
}
