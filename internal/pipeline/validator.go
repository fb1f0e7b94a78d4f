package pipeline

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/truthguard/truthguard/internal/audit"
	"github.com/truthguard/truthguard/internal/cache"
	"github.com/truthguard/truthguard/internal/consistency"
	"github.com/truthguard/truthguard/internal/correct"
	"github.com/truthguard/truthguard/internal/extract"
	"github.com/truthguard/truthguard/internal/llm"
	"github.com/truthguard/truthguard/internal/model"
	"github.com/truthguard/truthguard/internal/policy"
	"github.com/truthguard/truthguard/internal/rules"
	"github.com/truthguard/truthguard/internal/score"
	"github.com/truthguard/truthguard/internal/validate"
	"github.com/truthguard/truthguard/internal/verify"
	"github.com/truthguard/truthguard/internal/worker"
)

// Validator orchestrates the complete validation pipeline: claim extraction,
// concurrent verification and rule/policy/consistency checks, scoring, the
// decision, correction, and the audit write.
type Validator struct {
	claims       *extract.ClaimExtractor
	orchestrator *verify.Orchestrator
	engine       *rules.Engine
	ruleStore    rules.Store
	matcher      *policy.Matcher
	checker      *consistency.Checker
	citations    *validate.Validator
	scorer       *score.Scorer
	corrector    *correct.Corrector
	auditor      *audit.Store
	cfg          *model.Config
}

// New wires the pipeline from configuration. The audit store is optional;
// without one, validations are not persisted and history-based consistency
// always scores the default.
func New(cfg *model.Config, ruleStore rules.Store, auditor *audit.Store) *Validator {
	limiter := worker.NewLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)

	var c cache.Cache
	if cfg.Cache.Enabled {
		if cfg.Cache.Dir != "" {
			c = cache.NewLayeredCache(cfg.Cache.TTL, cfg.Cache.Dir, 24*cfg.Cache.TTL)
		} else {
			c = cache.NewMemoryCache(cfg.Cache.TTL, 10*time.Minute)
		}
	}

	var rewriter llm.Rewriter
	if cfg.LLM.Provider != "" {
		r, err := llm.NewRewriter(cfg.LLM)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to initialize LLM provider: %v\n", err)
		} else {
			rewriter = r
		}
	}

	var history consistency.HistoryStore
	if auditor != nil {
		history = auditor
	}

	var citations *validate.Validator
	if cfg.Citations.Enabled {
		citations = validate.NewValidator(cfg.HTTP, cfg.Citations)
	}

	return &Validator{
		claims:       extract.NewClaimExtractor(),
		orchestrator: verify.NewOrchestrator(verify.NewSources(cfg, limiter), c, cfg.Cache.TTL, cfg.Verify),
		engine:       rules.NewEngine(),
		ruleStore:    ruleStore,
		matcher:      policy.NewMatcher(),
		checker:      consistency.NewChecker(history, cfg.Scoring),
		citations:    citations,
		scorer:       score.NewScorer(cfg.Scoring),
		corrector:    correct.NewCorrector(rewriter),
		auditor:      auditor,
		cfg:          cfg,
	}
}

// Validate runs the full pipeline for one request and returns the result
// plus the persisted interaction id. A persistence failure still returns the
// completed result alongside the error so the decision is never lost.
func (v *Validator) Validate(ctx context.Context, req model.Request) (*model.ValidationResult, string, error) {
	text := extract.CleanText(req.ResponseText)
	claims := v.claims.Extract(text)

	var (
		wg            sync.WaitGroup
		verifications []model.VerificationResult
		ruleViols     []model.Violation
		policyViols   []model.Violation
		consist       consistency.Result
		cited         []model.Citation
	)

	// Verification, rules, policies, consistency, and citations are
	// independent of one another; none mutate shared state
	wg.Add(1)
	go func() {
		defer wg.Done()
		verifications = v.orchestrator.VerifyAll(ctx, claims, req.Query)
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		ruleViols = v.evaluateRules(ctx, req, text)
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		policyViols = v.matchPolicies(ctx, req, text)
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		consist = v.checker.Check(ctx, req.OrganizationID, req.Query, text)
	}()

	if v.citations != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			cited = v.citations.Validate(ctx, req.ResponseText)
		}()
	}
	wg.Wait()

	violations := make([]model.Violation, 0, len(ruleViols)+len(policyViols)+4)
	violations = append(violations, ruleViols...)
	violations = append(violations, policyViols...)
	violations = append(violations, v.hallucinations(text, verifications)...)
	violations = append(violations, citationViolations(cited)...)
	if consist.Violation != nil {
		violations = append(violations, *consist.Violation)
	}
	for i, viol := range violations {
		violations[i] = score.AssignSeverity(viol)
	}

	confidence := v.scorer.Calculate(score.Inputs{
		Claims:              claims,
		VerificationResults: verifications,
		Violations:          violations,
		Citations:           cited,
		ConsistencyScore:    consist.Score,
	})
	decision := v.scorer.Decide(confidence, violations)

	result := &model.ValidationResult{
		Status:              decision,
		ConfidenceScore:     confidence,
		Violations:          violations,
		Claims:              claims,
		VerificationResults: verifications,
		Citations:           cited,
		CitationRefs:        extract.ExtractCitationRefs(text),
		ValidatedAt:         time.Now().UTC(),
	}

	if decision != model.DecisionApproved {
		out := v.corrector.Correct(ctx, req.Query, req.ResponseText, violations, verifications)
		if out.Text != req.ResponseText {
			result.CorrectedResponse = out.Text
			result.Changes = out.Changes
		}
	}

	result.Explanation = audit.Explain(result)

	if v.auditor == nil {
		return result, "", nil
	}
	id, err := v.auditor.SaveInteraction(ctx, req, result)
	if err != nil {
		// The decision still stands; the caller decides how loudly to fail
		return result, "", fmt.Errorf("persisting audit trail: %w", err)
	}
	return result, id, nil
}

// evaluateRules loads and evaluates rules. A store failure degrades to the
// built-in defaults only: infrastructure problems must never block a
// response, but they are logged loudly.
func (v *Validator) evaluateRules(ctx context.Context, req model.Request, text string) []model.Violation {
	ruleSet := rules.DefaultRules()
	industry := ""

	if v.ruleStore != nil {
		ind, err := v.ruleStore.Industry(ctx, req.OrganizationID)
		if err == nil {
			industry = ind
		}
		loaded, err := v.ruleStore.ActiveRules(ctx, req.OrganizationID)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: rule store unavailable, using defaults only: %v\n", err)
		} else {
			ruleSet = append(ruleSet, loaded...)
		}
	}

	return v.engine.EvaluateAll(ruleSet, req.OrganizationID, industry, text)
}

// matchPolicies loads and matches company policies; a store failure means
// zero policies, logged but never blocking
func (v *Validator) matchPolicies(ctx context.Context, req model.Request, text string) []model.Violation {
	if v.ruleStore == nil {
		return nil
	}
	policies, err := v.ruleStore.ActivePolicies(ctx, req.OrganizationID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: policy store unavailable: %v\n", err)
		return nil
	}
	return v.matcher.Match(policies, text)
}

// hallucinations derives violations from contradicted claims and from
// unverifiable absolute statements
func (v *Validator) hallucinations(text string, verifications []model.VerificationResult) []model.Violation {
	var out []model.Violation

	for _, r := range verifications {
		if r.Status != model.StatusFalse {
			continue
		}
		out = append(out, model.Violation{
			Type:     model.ViolationHallucination,
			Severity: model.SeverityHigh,
			Description: fmt.Sprintf("claim contradicts %s: %s",
				displaySource(r.Source), r.Details),
			ClaimText: r.ClaimText,
		})
	}

	for _, sentence := range extract.AbsoluteClaims(text) {
		out = append(out, model.Violation{
			Type:        model.ViolationHallucination,
			Severity:    model.SeverityMedium,
			Description: fmt.Sprintf("unverifiable absolute claim: %q", sentence),
			ClaimText:   sentence,
		})
	}

	return out
}

// citationViolations flags unreachable cited URLs
func citationViolations(citations []model.Citation) []model.Violation {
	var out []model.Violation
	for _, c := range citations {
		if c.IsValid {
			continue
		}
		desc := fmt.Sprintf("cited URL %s is unreachable", c.URL)
		if c.Error != "" {
			desc = fmt.Sprintf("cited URL %s could not be validated: %s", c.URL, c.Error)
		} else if c.StatusCode != 0 {
			desc = fmt.Sprintf("cited URL %s returned status %d", c.URL, c.StatusCode)
		}
		out = append(out, model.Violation{
			Type:        model.ViolationCitation,
			Severity:    model.SeverityMedium,
			Description: desc,
		})
	}
	return out
}

func displaySource(source string) string {
	if source == "" {
		return "a knowledge source"
	}
	return source
}

var _ worker.Validator = (*Validator)(nil)
