package rules

import (
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/truthguard/truthguard/internal/model"
)

// Result is the outcome of evaluating one rule against response text
type Result struct {
	Rule    model.Rule
	Passed  bool
	Details string
}

// Engine evaluates organization-scoped rules against response text.
// Compiled patterns are cached across requests; one engine is shared by
// every concurrent validation, so the cache is lock-guarded.
type Engine struct {
	mu       sync.RWMutex
	patterns map[string]*regexp.Regexp
}

// NewEngine creates a rule engine
func NewEngine() *Engine {
	return &Engine{patterns: make(map[string]*regexp.Regexp)}
}

// Evaluate checks one rule. Order: forbidden text fails immediately, then
// missing required text, then the match-type evaluator. Semantic matching is
// reserved and falls back to keyword evaluation.
func (e *Engine) Evaluate(rule model.Rule, text string) Result {
	lower := strings.ToLower(text)

	for _, forbidden := range rule.ForbiddenText {
		if strings.Contains(lower, strings.ToLower(forbidden)) {
			return Result{
				Rule:    rule,
				Passed:  false,
				Details: fmt.Sprintf("response contains forbidden text %q", forbidden),
			}
		}
	}

	var missing []string
	for _, required := range rule.RequiredText {
		if !strings.Contains(lower, strings.ToLower(required)) {
			missing = append(missing, required)
		}
	}
	if len(missing) > 0 {
		return Result{
			Rule:    rule,
			Passed:  false,
			Details: fmt.Sprintf("response missing required text: %s", strings.Join(missing, ", ")),
		}
	}

	switch rule.MatchType {
	case model.MatchPattern:
		return e.evaluatePatterns(rule, lower)
	case model.MatchKeyword, model.MatchSemantic, "":
		return e.evaluateKeywords(rule, lower)
	default:
		return Result{Rule: rule, Passed: true, Details: "unknown match type"}
	}
}

// evaluateKeywords fails the rule when any prohibited keyword is present
func (e *Engine) evaluateKeywords(rule model.Rule, lower string) Result {
	if len(rule.Keywords) == 0 {
		return Result{Rule: rule, Passed: true, Details: "no keywords to match"}
	}

	var matched []string
	for _, kw := range rule.Keywords {
		if strings.Contains(lower, strings.ToLower(kw)) {
			matched = append(matched, kw)
		}
	}

	if len(matched) > 0 {
		return Result{
			Rule:    rule,
			Passed:  false,
			Details: fmt.Sprintf("response contains prohibited keywords: %s", strings.Join(matched, ", ")),
		}
	}
	return Result{Rule: rule, Passed: true, Details: "no prohibited keywords found"}
}

// evaluatePatterns fails the rule when any regex matches. Invalid patterns
// are skipped rather than failing the whole rule.
func (e *Engine) evaluatePatterns(rule model.Rule, lower string) Result {
	if len(rule.Patterns) == 0 {
		return Result{Rule: rule, Passed: true, Details: "no patterns to match"}
	}

	var matched []string
	for _, pattern := range rule.Patterns {
		re, err := e.compile(pattern)
		if err != nil {
			continue
		}
		if re.MatchString(lower) {
			matched = append(matched, pattern)
		}
	}

	if len(matched) > 0 {
		return Result{
			Rule:    rule,
			Passed:  false,
			Details: fmt.Sprintf("response matches prohibited patterns: %s", strings.Join(matched, ", ")),
		}
	}
	return Result{Rule: rule, Passed: true, Details: "no prohibited patterns found"}
}

func (e *Engine) compile(pattern string) (*regexp.Regexp, error) {
	e.mu.RLock()
	re, ok := e.patterns[pattern]
	e.mu.RUnlock()
	if ok {
		return re, nil
	}

	re, err := regexp.Compile("(?i)" + pattern)
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	e.patterns[pattern] = re
	e.mu.Unlock()
	return re, nil
}

// EvaluateAll filters the rules to the organization and industry, evaluates
// every applicable rule independently, and returns one violation per failed
// rule. No short-circuiting: every violation is reported, not just the first.
func (e *Engine) EvaluateAll(ruleSet []model.Rule, orgID, industry, text string) []model.Violation {
	var violations []model.Violation

	for _, rule := range ruleSet {
		if !rule.AppliesTo(orgID, industry) {
			continue
		}
		result := e.Evaluate(rule, text)
		if result.Passed {
			continue
		}

		description := result.Details
		if rule.Message != "" {
			description = rule.Message + ": " + result.Details
		}
		violations = append(violations, model.Violation{
			Type:        model.ViolationCompliance,
			Severity:    rule.Severity,
			Description: description,
			RuleID:      rule.ID,
		})
	}

	return violations
}
