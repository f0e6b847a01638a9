package distance

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"branch-route-service/internal/ports"

	"golang.org/x/time/rate"
)

// Options tune the HTTP behaviour shared by the live providers.
type Options struct {
	BaseURL string
	// Timeout bounds a single request; the builder retries on top of it.
	Timeout           time.Duration
	RequestsPerSecond float64
	// HTTPClient overrides the default client (tests use httptest clients).
	HTTPClient *http.Client
	// Limiter, when set, is shared by every client built from these options so
	// that RequestsPerSecond caps the process rather than a single client.
	Limiter *rate.Limiter
}

func (o Options) withDefaults(baseURL string) Options {
	if o.BaseURL == "" {
		o.BaseURL = baseURL
	}
	o.BaseURL = strings.TrimRight(o.BaseURL, "/")
	if o.Timeout <= 0 {
		o.Timeout = 10 * time.Second
	}
	if o.RequestsPerSecond <= 0 {
		o.RequestsPerSecond = 10
	}
	if o.HTTPClient == nil {
		o.HTTPClient = &http.Client{Timeout: o.Timeout}
	}
	if o.Limiter == nil {
		o.Limiter = rate.NewLimiter(rate.Limit(o.RequestsPerSecond), 1)
	}
	return o
}

type httpStatusError struct {
	Code int
	Body string
}

func (e *httpStatusError) Error() string {
	return fmt.Sprintf("Code %d: %s", e.Code, e.Body)
}

// apiClient performs single rate-limited JSON round-trips. It never retries:
// retry policy belongs to the matrix builder.
type apiClient struct {
	provider string
	session  *http.Client
	limiter  *rate.Limiter
	timeout  time.Duration
}

func newAPIClient(provider string, o Options) *apiClient {
	return &apiClient{
		provider: provider,
		session:  o.HTTPClient,
		limiter:  o.Limiter,
		timeout:  o.Timeout,
	}
}

// doJSON sends the request built by makeReq and decodes a JSON body into out.
// Request-level failures come back as *ports.ProviderError; a cancelled
// caller context is returned as is.
func (c *apiClient) doJSON(
	ctx context.Context,
	op string,
	makeReq func(ctx context.Context) (*http.Request, error),
	out any,
) error {
	if err := c.limiter.Wait(ctx); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return c.fail(op, ports.ErrorQuota, "", fmt.Errorf("rate limiter: %w", err))
	}

	reqCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := makeReq(reqCtx)
	if err != nil {
		return c.fail(op, ports.ErrorTransport, "", fmt.Errorf("create request: %w", err))
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.session.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return c.fail(op, ports.ErrorTransport, "", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		he := &httpStatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(b))}
		kind := ports.ErrorHTTPStatus
		if resp.StatusCode == http.StatusTooManyRequests {
			kind = ports.ErrorQuota
		}
		return c.fail(op, kind, strconv.Itoa(resp.StatusCode), he)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return c.fail(op, ports.ErrorMalformed, "", fmt.Errorf("decode response: %w", err))
	}

	return nil
}

func (c *apiClient) fail(op string, kind ports.ErrorKind, status string, err error) error {
	return &ports.ProviderError{
		Provider: c.provider,
		Op:       op,
		Kind:     kind,
		Status:   status,
		Err:      err,
	}
}
