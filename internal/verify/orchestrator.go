package verify

import (
	"context"
	"encoding/json"
	"sort"
	"sync"
	"time"

	"github.com/truthguard/truthguard/internal/cache"
	"github.com/truthguard/truthguard/internal/model"
	"github.com/truthguard/truthguard/internal/worker"
)

// Orchestrator fans a claim out to every configured source concurrently and
// merges their answers. Results are cached by normalized claim text so a
// burst of similar claims does not repeat external calls.
type Orchestrator struct {
	sources      []Source
	cache        cache.Cache
	cacheTTL     time.Duration
	claimTimeout time.Duration
	phaseTimeout time.Duration
	workers      int
}

// NewOrchestrator creates an orchestrator over the given sources.
// A nil cache disables caching.
func NewOrchestrator(sources []Source, c cache.Cache, cacheTTL time.Duration, cfg model.VerifyConfig) *Orchestrator {
	sorted := make([]Source, len(sources))
	copy(sorted, sources)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Priority() < sorted[j].Priority() })

	workers := cfg.Workers
	if workers <= 0 {
		workers = 8
	}
	claimTimeout := cfg.ClaimTimeout
	if claimTimeout <= 0 {
		claimTimeout = 5 * time.Second
	}
	phaseTimeout := cfg.PhaseTimeout
	if phaseTimeout <= 0 {
		phaseTimeout = 30 * time.Second
	}

	return &Orchestrator{
		sources:      sorted,
		cache:        c,
		cacheTTL:     cacheTTL,
		claimTimeout: claimTimeout,
		phaseTimeout: phaseTimeout,
		workers:      workers,
	}
}

// NewSources builds the standard source set from configuration, sharing one
// HTTP client and per-domain rate limiter across all of them
func NewSources(cfg *model.Config, limiter *worker.Limiter) []Source {
	c := newClient(cfg.HTTP, limiter, cfg.Verify.ClaimTimeout, cfg.Verify.RetryOnTimeout)

	var sources []Source
	if cfg.Sources.Wikipedia.Enabled {
		sources = append(sources, NewWikipedia(cfg.Sources.Wikipedia.BaseURL, c))
	}
	if cfg.Sources.DuckDuckGo.Enabled {
		sources = append(sources, NewDuckDuckGo(cfg.Sources.DuckDuckGo.BaseURL, c))
	}
	if cfg.Sources.News.Enabled {
		sources = append(sources, NewNews(cfg.Sources.News.BaseURL, cfg.Sources.News.APIKey, c))
	}
	return sources
}

// Verify checks one claim against all sources concurrently and merges:
// an explicit contradiction wins outright, then the first verified result
// in priority order, then the most confident unverified one
func (o *Orchestrator) Verify(ctx context.Context, claim model.Claim, queryContext string) model.VerificationResult {
	if cached, ok := o.cacheGet(claim.Normalized); ok {
		return cached
	}

	if len(o.sources) == 0 {
		return unverified(claim, "", "no verification sources configured")
	}

	claimCtx, cancel := context.WithTimeout(ctx, o.claimTimeout)
	defer cancel()

	results := make([]model.VerificationResult, len(o.sources))
	var wg sync.WaitGroup
	for i, src := range o.sources {
		wg.Add(1)
		go func(idx int, s Source) {
			defer wg.Done()
			results[idx] = s.Verify(claimCtx, claim, queryContext)
		}(i, src)
	}
	wg.Wait()

	merged := o.merge(claim, results)
	o.cacheSet(claim.Normalized, merged)
	return merged
}

// merge combines per-source results. Sources are already in priority order.
func (o *Orchestrator) merge(claim model.Claim, results []model.VerificationResult) model.VerificationResult {
	// A contradiction from any source is never upgraded
	for _, r := range results {
		if r.Status == model.StatusFalse {
			return r
		}
	}

	var verified []model.VerificationResult
	for _, r := range results {
		if r.Status == model.StatusVerified {
			verified = append(verified, r)
		}
	}
	if len(verified) > 0 {
		best := verified[0]
		if len(verified) > 1 {
			best.Confidence += 0.1
			if best.Confidence > 0.95 {
				best.Confidence = 0.95
			}
			best.Details += " (corroborated by additional sources)"
		}
		return best
	}

	best := unverified(claim, "", "could not verify against any available source")
	for _, r := range results {
		if r.Confidence > best.Confidence {
			best = r
		}
	}
	return best
}

// VerifyAll verifies every claim with bounded concurrency. The phase timeout
// caps the whole verification stage: a slow or unreachable source degrades
// its claims to unverified instead of stalling the pipeline.
func (o *Orchestrator) VerifyAll(ctx context.Context, claims []model.Claim, queryContext string) []model.VerificationResult {
	if len(claims) == 0 {
		return []model.VerificationResult{}
	}

	phaseCtx, cancel := context.WithTimeout(ctx, o.phaseTimeout)
	defer cancel()

	results := make([]model.VerificationResult, len(claims))
	semaphore := make(chan struct{}, o.workers)
	var wg sync.WaitGroup

	for i, claim := range claims {
		wg.Add(1)
		go func(idx int, cl model.Claim) {
			defer wg.Done()

			select {
			case <-phaseCtx.Done():
				results[idx] = unverified(cl, "", "verification cancelled")
				return
			case semaphore <- struct{}{}:
			}
			defer func() { <-semaphore }()

			results[idx] = o.Verify(phaseCtx, cl, queryContext)
		}(i, claim)
	}
	wg.Wait()

	return results
}

func (o *Orchestrator) cacheGet(normalized string) (model.VerificationResult, bool) {
	if o.cache == nil {
		return model.VerificationResult{}, false
	}
	data, ok := o.cache.Get(cache.Key(normalized))
	if !ok {
		return model.VerificationResult{}, false
	}
	var r model.VerificationResult
	if err := json.Unmarshal(data, &r); err != nil {
		return model.VerificationResult{}, false
	}
	return r, true
}

func (o *Orchestrator) cacheSet(normalized string, r model.VerificationResult) {
	if o.cache == nil {
		return
	}
	data, err := json.Marshal(r)
	if err != nil {
		return
	}
	_ = o.cache.Set(cache.Key(normalized), data, o.cacheTTL)
}
