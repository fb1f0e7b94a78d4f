package rules

import (
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/truthguard/truthguard/internal/model"
)

func TestEvaluate_ForbiddenTextFailsFirst(t *testing.T) {
	e := NewEngine()
	rule := model.Rule{
		ID:            "r1",
		ForbiddenText: []string{"guaranteed profit"},
		RequiredText:  []string{"past performance disclaimer"},
		Active:        true,
	}

	result := e.Evaluate(rule, "Our fund offers GUARANTEED PROFIT for everyone.")
	if result.Passed {
		t.Fatal("forbidden text must fail the rule")
	}
	if !strings.Contains(result.Details, "guaranteed profit") {
		t.Errorf("details should name the forbidden text: %s", result.Details)
	}
}

func TestEvaluate_MissingRequiredText(t *testing.T) {
	e := NewEngine()
	rule := model.Rule{
		ID:           "r2",
		RequiredText: []string{"not financial advice"},
		Active:       true,
	}

	if result := e.Evaluate(rule, "You should buy index funds."); result.Passed {
		t.Fatal("missing required text must fail the rule")
	}
	if result := e.Evaluate(rule, "Buy index funds. This is not financial advice."); !result.Passed {
		t.Errorf("rule should pass when required text is present: %s", result.Details)
	}
}

func TestEvaluate_KeywordMatch(t *testing.T) {
	e := NewEngine()
	rule := model.Rule{
		ID:        "r3",
		MatchType: model.MatchKeyword,
		Keywords:  []string{"insider information", "pump and dump"},
		Active:    true,
	}

	if result := e.Evaluate(rule, "I have insider information on this stock."); result.Passed {
		t.Fatal("keyword hit must fail the rule")
	}
	if result := e.Evaluate(rule, "Diversification reduces risk."); !result.Passed {
		t.Errorf("clean text should pass: %s", result.Details)
	}
}

func TestEvaluate_PatternMatch(t *testing.T) {
	e := NewEngine()
	rule := model.Rule{
		ID:        "r4",
		MatchType: model.MatchPattern,
		Patterns:  []string{`\d+% (guaranteed|assured) returns?`},
		Active:    true,
	}

	if result := e.Evaluate(rule, "Enjoy 12% guaranteed returns annually."); result.Passed {
		t.Fatal("pattern hit must fail the rule")
	}
	if result := e.Evaluate(rule, "Returns vary with the market."); !result.Passed {
		t.Errorf("clean text should pass: %s", result.Details)
	}
}

func TestEvaluate_InvalidPatternSkipped(t *testing.T) {
	e := NewEngine()
	rule := model.Rule{
		ID:        "r5",
		MatchType: model.MatchPattern,
		Patterns:  []string{`([unclosed`, `valid pattern`},
		Active:    true,
	}

	if result := e.Evaluate(rule, "this contains a valid pattern here"); result.Passed {
		t.Error("the valid pattern should still match despite a broken sibling")
	}
}

func TestEvaluate_SemanticFallsBackToKeyword(t *testing.T) {
	e := NewEngine()
	rule := model.Rule{
		ID:        "r6",
		MatchType: model.MatchSemantic,
		Keywords:  []string{"miracle cure"},
		Active:    true,
	}
	if result := e.Evaluate(rule, "This miracle cure fixes everything."); result.Passed {
		t.Error("semantic rules should evaluate keywords until a real evaluator exists")
	}
}

func TestEvaluateAll_ReportsEveryViolation(t *testing.T) {
	e := NewEngine()
	ruleSet := []model.Rule{
		{ID: "a", MatchType: model.MatchKeyword, Keywords: []string{"guaranteed"}, Severity: model.SeverityHigh, Active: true},
		{ID: "b", MatchType: model.MatchKeyword, Keywords: []string{"risk-free"}, Severity: model.SeverityCritical, Active: true},
		{ID: "c", MatchType: model.MatchKeyword, Keywords: []string{"unrelated"}, Severity: model.SeverityLow, Active: true},
	}

	violations := e.EvaluateAll(ruleSet, "org1", "", "A guaranteed, risk-free investment.")
	if len(violations) != 2 {
		t.Fatalf("expected both failing rules reported, got %d", len(violations))
	}
	ids := map[string]bool{}
	for _, v := range violations {
		ids[v.RuleID] = true
		if v.Type != model.ViolationCompliance {
			t.Errorf("rule violations must be compliance type, got %s", v.Type)
		}
	}
	if !ids["a"] || !ids["b"] {
		t.Errorf("expected rules a and b, got %v", ids)
	}
}

func TestEvaluateAll_ScopeFiltering(t *testing.T) {
	e := NewEngine()
	ruleSet := []model.Rule{
		{ID: "other-org", OrganizationID: "org2", MatchType: model.MatchKeyword, Keywords: []string{"trigger"}, Active: true},
		{ID: "inactive", MatchType: model.MatchKeyword, Keywords: []string{"trigger"}, Active: false},
		{ID: "other-industry", Industry: "healthcare", MatchType: model.MatchKeyword, Keywords: []string{"trigger"}, Active: true},
		{ID: "global", MatchType: model.MatchKeyword, Keywords: []string{"trigger"}, Active: true},
	}

	violations := e.EvaluateAll(ruleSet, "org1", "finance", "this will trigger rules")
	if len(violations) != 1 || violations[0].RuleID != "global" {
		t.Errorf("expected only the global rule to fire, got %+v", violations)
	}
}

// One engine serves every concurrent validation, so the pattern cache must
// tolerate simultaneous evaluations of pattern rules.
func TestEvaluateAll_ConcurrentPatternRules(t *testing.T) {
	e := NewEngine()

	ruleSet := make([]model.Rule, 0, 50)
	for i := 0; i < 50; i++ {
		ruleSet = append(ruleSet, model.Rule{
			ID:        fmt.Sprintf("pattern-%d", i),
			MatchType: model.MatchPattern,
			Patterns:  []string{fmt.Sprintf(`guaranteed\s+return\s*%d`, i)},
			Active:    true,
		})
	}

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			text := fmt.Sprintf("we promise a guaranteed return %d on deposits", n)
			for i := 0; i < 20; i++ {
				violations := e.EvaluateAll(ruleSet, "org1", "", text)
				if len(violations) != 1 {
					t.Errorf("expected exactly one violation, got %d", len(violations))
					return
				}
			}
		}(g)
	}
	wg.Wait()
}
