package validate

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/truthguard/truthguard/internal/extract"
	"github.com/truthguard/truthguard/internal/model"
	"github.com/truthguard/truthguard/internal/util"
)

const citationMaxRetries = 2

// citationSleepFunc is the sleep function used between retries (injectable for tests)
var citationSleepFunc = time.Sleep

// Validator checks cited URLs concurrently: does the link resolve, and does
// the page content plausibly relate to the response that cited it.
type Validator struct {
	httpClient *http.Client
	robots     *util.RobotsChecker
	userAgent  string
	maxWorkers int
	maxBytes   int64
}

// NewValidator creates a citation validator. A nil robots checker disables
// robots.txt enforcement.
func NewValidator(cfg model.HTTPConfig, citations model.CitationsConfig) *Validator {
	workers := citations.Workers
	if workers <= 0 {
		workers = 10
	}

	var robots *util.RobotsChecker
	if citations.RespectRobots {
		robots = util.NewRobotsChecker(util.NormalizeUserAgent(cfg.UserAgent), cfg.Timeout)
	}

	maxBytes := cfg.MaxBodyBytes
	if maxBytes <= 0 {
		maxBytes = 2_000_000
	}

	return &Validator{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
			Transport: &http.Transport{
				Proxy: util.NewProxyFunc(cfg.HTTPProxy, cfg.HTTPSProxy, cfg.NoProxy),
			},
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 3 {
					return fmt.Errorf("stopped after 3 redirects")
				}
				return nil
			},
		},
		robots:     robots,
		userAgent:  cfg.UserAgent,
		maxWorkers: workers,
		maxBytes:   maxBytes,
	}
}

// Validate extracts every URL from the response and checks each one
// concurrently. Returned citations preserve extraction order.
func (v *Validator) Validate(ctx context.Context, responseText string) []model.Citation {
	urls := extract.ExtractURLs(responseText)
	if len(urls) == 0 {
		return []model.Citation{}
	}

	citations := make([]model.Citation, len(urls))
	semaphore := make(chan struct{}, v.maxWorkers)
	var wg sync.WaitGroup

	for i, u := range urls {
		wg.Add(1)
		go func(idx int, link string) {
			defer wg.Done()

			select {
			case <-ctx.Done():
				citations[idx] = model.Citation{URL: link, Error: "context cancelled"}
				return
			case semaphore <- struct{}{}:
			}
			defer func() { <-semaphore }()

			citations[idx] = v.checkWithRetry(ctx, link, responseText)
		}(i, u)
	}
	wg.Wait()

	return citations
}

// checkWithRetry retries transient failures with exponential backoff
func (v *Validator) checkWithRetry(ctx context.Context, link, responseText string) model.Citation {
	var c model.Citation
	for attempt := 0; attempt < citationMaxRetries; attempt++ {
		c = v.check(ctx, link, responseText)
		if !isRetryable(c) {
			return c
		}
		if attempt < citationMaxRetries-1 {
			citationSleepFunc(time.Duration(1<<uint(attempt)) * time.Second)
		}
	}
	return c
}

// check fetches one cited URL and compares its visible text to the response
func (v *Validator) check(ctx context.Context, link, responseText string) model.Citation {
	c := model.Citation{URL: link}

	if v.robots != nil && !v.robots.IsAllowed(ctx, link) {
		c.Error = "disallowed by robots.txt"
		return c
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, link, nil)
	if err != nil {
		c.Error = fmt.Sprintf("create request: %v", err)
		return c
	}
	req.Header.Set("User-Agent", v.userAgent)

	resp, err := v.httpClient.Do(req)
	if err != nil {
		c.Error = fmt.Sprintf("request failed: %v", err)
		return c
	}
	defer func() { _ = resp.Body.Close() }()

	c.StatusCode = resp.StatusCode
	if resp.StatusCode < 200 || resp.StatusCode >= 400 {
		return c
	}
	c.IsValid = true

	body, err := io.ReadAll(io.LimitReader(resp.Body, v.maxBytes))
	if err != nil {
		c.Error = fmt.Sprintf("read body: %v", err)
		return c
	}

	c.ContentMatch = contentMatches(responseText, extract.CleanText(string(body)))
	return c
}

// contentMatches reports whether the cited page shares enough distinctive
// words with the response to plausibly back it. Deliberately loose: this
// flags citations pointing at unrelated pages, not paraphrase drift.
func contentMatches(responseText, pageText string) bool {
	pageWords := make(map[string]bool)
	for _, w := range strings.Fields(strings.ToLower(pageText)) {
		if len(w) > 4 {
			pageWords[strings.Trim(w, ".,;:!?()\"'")] = true
		}
	}
	if len(pageWords) == 0 {
		return false
	}

	shared := 0
	seen := make(map[string]bool)
	for _, w := range strings.Fields(strings.ToLower(responseText)) {
		w = strings.Trim(w, ".,;:!?()\"'")
		if len(w) > 4 && !seen[w] && pageWords[w] {
			seen[w] = true
			shared++
			if shared >= 2 {
				return true
			}
		}
	}
	return false
}

// isRetryable returns true for results that indicate transient failures
func isRetryable(c model.Citation) bool {
	if c.StatusCode >= 500 && c.StatusCode < 600 {
		return true
	}
	if c.StatusCode == 429 {
		return true
	}
	if c.Error != "" {
		s := strings.ToLower(c.Error)
		return strings.Contains(s, "timeout") ||
			strings.Contains(s, "connection refused") ||
			strings.Contains(s, "connection reset")
	}
	return false
}
