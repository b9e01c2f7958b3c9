package transport

import (
	"bytes"
	"context"
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/hashicorp/go-cleanhttp"
	"github.com/hashicorp/go-retryablehttp"

	"github.com/CosmoTheDev/bridgectl/internal/config"
)

const (
	// RetryCount is the total number of attempts per request.
	RetryCount = 3
	// RetryWaitMin is the delay before the first retry; it doubles per attempt.
	RetryWaitMin = 15 * time.Second
	// RetryWaitMax caps the exponential backoff at the third attempt's delay.
	RetryWaitMax = 60 * time.Second

	// rateLimitBudgetSeconds is the cumulative sleep budget of all retries
	// (15 + 30 + 60). A rate-limit reset beyond it fails immediately.
	rateLimitBudgetSeconds = 105

	headerRateLimitRemaining = "x-ratelimit-remaining"
	headerRateLimitReset     = "x-ratelimit-reset"

	userAgent = "bridgectl"
)

// nowFunc is swapped in tests to control rate-limit arithmetic.
var nowFunc = time.Now

// terminalStatus holds the HTTP codes that are never retried. 404 means
// the resource does not exist and retrying cannot help; callers map it to
// NotFoundError.
var terminalStatus = map[int]bool{
	http.StatusOK:                           true,
	http.StatusCreated:                      true,
	http.StatusAccepted:                     true,
	http.StatusUnauthorized:                 true,
	http.StatusForbidden:                    true,
	http.StatusNotFound:                     true,
	http.StatusRequestedRangeNotSatisfiable: true,
}

// Response is the terse view of an HTTP exchange the pipeline consumes.
type Response struct {
	Status int
	Body   []byte
	Header http.Header
}

// Client performs GET/POST/download with bounded retries, rate-limit
// awareness, and the configured trust store.
type Client struct {
	rc *retryablehttp.Client
}

var (
	sharedMu     sync.Mutex
	sharedClient *Client
	sharedHash   string
)

// Shared returns a process-wide client memoized by the trust configuration.
// A changed trust configuration invalidates the cached client.
func Shared(netCfg config.NetworkConfig) (*Client, error) {
	hash := fmt.Sprintf("trustAll:%v|certFile:%s", netCfg.SSLTrustAll, netCfg.SSLCertFile)

	sharedMu.Lock()
	defer sharedMu.Unlock()
	if sharedClient != nil && sharedHash == hash {
		return sharedClient, nil
	}
	c, err := NewClient(netCfg)
	if err != nil {
		return nil, err
	}
	sharedClient, sharedHash = c, hash
	return c, nil
}

// NewClient builds a client honouring the trust-store configuration:
// trustAll disables peer verification, a custom CA file is combined with
// the system roots, and the default is platform trust only.
func NewClient(netCfg config.NetworkConfig) (*Client, error) {
	transport := cleanhttp.DefaultPooledTransport()

	switch {
	case netCfg.SSLTrustAll:
		slog.Debug("TLS certificate verification disabled")
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} // #nosec G402 -- explicit trustAll opt-in
	case netCfg.SSLCertFile != "":
		pool, err := combinedCertPool(netCfg.SSLCertFile)
		if err != nil {
			return nil, err
		}
		slog.Debug("Using custom CA certificate combined with system roots", "file", netCfg.SSLCertFile)
		transport.TLSClientConfig = &tls.Config{RootCAs: pool, MinVersion: tls.VersionTLS12}
	}

	rc := retryablehttp.NewClient()
	rc.HTTPClient = &http.Client{Transport: transport}
	rc.RetryMax = RetryCount - 1
	rc.RetryWaitMin = RetryWaitMin
	rc.RetryWaitMax = RetryWaitMax
	rc.CheckRetry = checkRetry
	rc.Backoff = backoff
	rc.Logger = slog.Default()

	return &Client{rc: rc}, nil
}

// StandardClient returns a *http.Client that routes through the retry policy,
// suitable for injecting into API client libraries.
func (c *Client) StandardClient() *http.Client {
	return c.rc.StandardClient()
}

// Get performs a GET and reads the full body.
func (c *Client) Get(ctx context.Context, url string, headers map[string]string) (*Response, error) {
	return c.do(ctx, http.MethodGet, url, nil, headers)
}

// Post performs a POST with a JSON body and reads the full response body.
func (c *Client) Post(ctx context.Context, url string, jsonBody []byte, headers map[string]string) (*Response, error) {
	return c.do(ctx, http.MethodPost, url, jsonBody, headers)
}

func (c *Client) do(ctx context.Context, method, url string, body []byte, headers map[string]string) (*Response, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := retryablehttp.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, fmt.Errorf("building %s request for %s: %w", method, url, err)
	}
	req.Header.Set("User-Agent", userAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	res, err := c.rc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s failed: %w", method, url, err)
	}
	defer res.Body.Close() //nolint:errcheck

	b, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response from %s: %w", url, err)
	}
	return &Response{Status: res.StatusCode, Body: b, Header: res.Header}, nil
}

// checkRetry retries transport errors and any status outside the terminal
// set. A 403 with an exhausted rate limit retries only when the reset fits
// within the cumulative retry budget; otherwise it fails immediately.
func checkRetry(ctx context.Context, resp *http.Response, err error) (bool, error) {
	if ctx.Err() != nil {
		return false, ctx.Err()
	}
	if err != nil {
		return true, nil
	}
	if !terminalStatus[resp.StatusCode] {
		return true, nil
	}
	if resp.StatusCode == http.StatusForbidden && resp.Header.Get(headerRateLimitRemaining) == "0" {
		wait := secondsUntilReset(resp)
		if wait > rateLimitBudgetSeconds {
			minutes := int(math.Ceil(float64(wait) / 60))
			return false, &RateLimitError{MinutesUntilReset: minutes}
		}
		slog.Info("API rate limit exceeded, waiting before retry", "wait_seconds", wait)
		return true, nil
	}
	return false, nil
}

// backoff doubles the delay per attempt (15s, 30s, 60s); a rate-limited
// response instead sleeps exactly until the advertised reset.
func backoff(min, max time.Duration, attemptNum int, resp *http.Response) time.Duration {
	if resp != nil && resp.StatusCode == http.StatusForbidden &&
		resp.Header.Get(headerRateLimitRemaining) == "0" {
		if wait := secondsUntilReset(resp); wait > 0 {
			return time.Duration(wait) * time.Second
		}
		return 0
	}
	d := min * time.Duration(1<<attemptNum)
	if d > max {
		return max
	}
	return d
}

// secondsUntilReset parses the x-ratelimit-reset header (UNIX seconds) and
// returns the remaining wait. Missing or malformed headers yield 0.
func secondsUntilReset(resp *http.Response) int {
	reset, err := strconv.ParseInt(resp.Header.Get(headerRateLimitReset), 10, 64)
	if err != nil {
		return 0
	}
	return int(reset - nowFunc().Unix())
}

// combinedCertPool loads a PEM file and merges it with the system roots.
func combinedCertPool(certFile string) (*x509.CertPool, error) {
	pem, err := os.ReadFile(certFile)
	if err != nil {
		return nil, fmt.Errorf("reading custom CA certificate file: %w", err)
	}
	pool, err := x509.SystemCertPool()
	if err != nil {
		pool = x509.NewCertPool()
	}
	if !pool.AppendCertsFromPEM(pem) {
		return nil, fmt.Errorf("no certificates could be parsed from %s", certFile)
	}
	return pool, nil
}
