package verify

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/truthguard/truthguard/internal/model"
	"github.com/truthguard/truthguard/internal/util"
	"github.com/truthguard/truthguard/internal/worker"
)

// verifiedThreshold is the minimum claim/summary overlap treated as
// corroboration. Low on purpose: summaries paraphrase.
const verifiedThreshold = 0.18

// Source answers "does this claim match a known fact?" against one external
// knowledge source. Implementations must degrade to unverified on transport
// failure; only an explicit contradiction may produce StatusFalse.
type Source interface {
	// Name identifies the source in verification results
	Name() string

	// Priority orders sources when several verify the same claim
	// (lower wins)
	Priority() int

	// Verify checks one claim, using the query context for disambiguation
	Verify(ctx context.Context, claim model.Claim, queryContext string) model.VerificationResult
}

// client is the shared HTTP plumbing for sources: proxy-aware transport,
// per-domain rate limiting, and a single retry on timeout
type client struct {
	httpClient *http.Client
	limiter    *worker.Limiter
	userAgent  string
	maxBytes   int64
	retry      bool
}

func newClient(cfg model.HTTPConfig, limiter *worker.Limiter, claimTimeout time.Duration, retry bool) *client {
	timeout := claimTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	maxBytes := cfg.MaxBodyBytes
	if maxBytes <= 0 {
		maxBytes = 2_000_000
	}
	return &client{
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				Proxy: util.NewProxyFunc(cfg.HTTPProxy, cfg.HTTPSProxy, cfg.NoProxy),
			},
		},
		limiter:   limiter,
		userAgent: cfg.UserAgent,
		maxBytes:  maxBytes,
		retry:     retry,
	}
}

// getJSON fetches a URL with query parameters and decodes the JSON body
// into v. Retries once on timeout when configured; all other failures are
// returned as-is for the caller to degrade on.
func (c *client) getJSON(ctx context.Context, rawURL string, params url.Values, v interface{}) error {
	err := c.getJSONOnce(ctx, rawURL, params, v)
	if err != nil && c.retry && isTimeout(err) && ctx.Err() == nil {
		err = c.getJSONOnce(ctx, rawURL, params, v)
	}
	return err
}

func (c *client) getJSONOnce(ctx context.Context, rawURL string, params url.Values, v interface{}) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx, rawURL); err != nil {
			return fmt.Errorf("rate limit: %w", err)
		}
	}

	u := rawURL
	if len(params) > 0 {
		u = rawURL + "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("fetch: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return &statusError{code: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBytes))
	if err != nil {
		return fmt.Errorf("read body: %w", err)
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// statusError carries a non-200 response code
type statusError struct {
	code int
}

func (e *statusError) Error() string {
	return fmt.Sprintf("unexpected status: %d", e.code)
}

// isNotFound reports whether the error is an HTTP 404
func isNotFound(err error) bool {
	se, ok := err.(*statusError)
	return ok && se.code == http.StatusNotFound
}

func isTimeout(err error) bool {
	var ne net.Error
	if ok := asNetError(err, &ne); ok {
		return ne.Timeout()
	}
	return false
}

func asNetError(err error, target *net.Error) bool {
	for err != nil {
		if ne, ok := err.(net.Error); ok {
			*target = ne
			return true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}

// assess turns a source lookup into a VerificationResult. The topic
// mismatch check runs before any overlap scoring: a keyword match against
// the wrong disambiguation of a term must come out false, never verified.
func assess(claim model.Claim, queryContext, sourceName, title, summary, pageURL string) model.VerificationResult {
	if summary == "" {
		return unverified(claim, sourceName, "no content returned")
	}

	if mm := topicMismatch(claim.Text, queryContext, title, summary); mm != nil {
		excerpt := summary
		if len(excerpt) > 150 {
			excerpt = excerpt[:150] + "..."
		}
		return model.VerificationResult{
			ClaimText:  claim.Text,
			Status:     model.StatusFalse,
			Confidence: 0.9,
			Source:     sourceName,
			Details:    fmt.Sprintf("found %q, but %s. Source says: %s", title, mm.reason, excerpt),
			URL:        pageURL,
		}
	}

	overlap := overlapRatio(claim.Text, summary)
	if overlap > verifiedThreshold {
		excerpt := summary
		if len(excerpt) > 200 {
			excerpt = excerpt[:200] + "..."
		}
		conf := 0.6 + overlap*0.5
		if conf > 0.85 {
			conf = 0.85
		}
		return model.VerificationResult{
			ClaimText:  claim.Text,
			Status:     model.StatusVerified,
			Confidence: conf,
			Source:     sourceName,
			Details:    fmt.Sprintf("found %q: %s", title, excerpt),
			URL:        pageURL,
		}
	}

	conf := 0.3 + overlap
	if conf > 0.5 {
		conf = 0.5
	}
	return model.VerificationResult{
		ClaimText:  claim.Text,
		Status:     model.StatusUnverified,
		Confidence: conf,
		Source:     sourceName,
		Details:    fmt.Sprintf("found %q but overlap too low to corroborate", title),
		URL:        pageURL,
	}
}

// unverified is the no-opinion result: a source failure or empty lookup
// degrades to this, never to false
func unverified(claim model.Claim, sourceName, details string) model.VerificationResult {
	return model.VerificationResult{
		ClaimText:  claim.Text,
		Status:     model.StatusUnverified,
		Confidence: 0.3,
		Source:     sourceName,
		Details:    details,
	}
}
