package pipeline

import (
	"context"
	"strings"
	"testing"

	"github.com/truthguard/truthguard/internal/audit"
	"github.com/truthguard/truthguard/internal/model"
	"github.com/truthguard/truthguard/internal/rules"
)

// testConfig disables every external dependency: no verification sources,
// no citations, no cache, no LLM. Everything else is the default.
func testConfig() *model.Config {
	cfg := model.DefaultConfig()
	cfg.Sources.Wikipedia.Enabled = false
	cfg.Sources.DuckDuckGo.Enabled = false
	cfg.Sources.News.Enabled = false
	cfg.Citations.Enabled = false
	cfg.Cache.Enabled = false
	cfg.LLM.Provider = ""
	return cfg
}

func refundStore() *rules.StaticStore {
	return &rules.StaticStore{
		Policies: []model.CompanyPolicy{{
			ID:             "refund-policy",
			OrganizationID: "acme",
			Name:           "Refund policy",
			Content:        "Refunds are processed within 7-10 business days of approval.",
			Category:       "billing",
			Active:         true,
		}},
		Industries: map[string]string{"acme": "finance"},
	}
}

func TestValidate_AccurateResponseApproved(t *testing.T) {
	v := New(testConfig(), refundStore(), nil)

	result, id, err := v.Validate(context.Background(), model.Request{
		Query:          "How tall is the Eiffel Tower?",
		ResponseText:   "According to Wikipedia, the Eiffel Tower was completed in 1889 and attracts about seven million visitors a year.",
		OrganizationID: "acme",
	})
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if id != "" {
		t.Errorf("no audit store configured, expected an empty interaction id, got %q", id)
	}

	if result.Status != model.DecisionApproved {
		t.Errorf("expected approved, got %s (violations: %+v)", result.Status, result.Violations)
	}
	if result.ConfidenceScore < 0.6 {
		t.Errorf("confidence = %.3f, want >= 0.6", result.ConfidenceScore)
	}
	if len(result.Claims) == 0 {
		t.Error("a dated factual sentence should yield a claim")
	}
	if len(result.CitationRefs) != 1 || result.CitationRefs[0].Kind != "according_to" ||
		result.CitationRefs[0].Source != "Wikipedia" {
		t.Errorf("the attribution should be recorded for the audit trail: %+v", result.CitationRefs)
	}
	if result.CorrectedResponse != "" {
		t.Errorf("approved responses are never corrected, got %q", result.CorrectedResponse)
	}
	if result.Explanation == "" {
		t.Error("expected a human-readable explanation")
	}
}

func TestValidate_GuaranteeLanguageBlocked(t *testing.T) {
	v := New(testConfig(), refundStore(), nil)

	result, _, err := v.Validate(context.Background(), model.Request{
		Query:          "Should I invest in crypto?",
		ResponseText:   "Crypto always goes up, guaranteed. You cannot lose money with this risk-free investment.",
		OrganizationID: "acme",
	})
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}

	if result.Status != model.DecisionBlocked {
		t.Errorf("expected blocked, got %s (score %.3f)", result.Status, result.ConfidenceScore)
	}

	var critical, hallucination bool
	for _, viol := range result.Violations {
		if viol.Type == model.ViolationCompliance && viol.Severity == model.SeverityCritical {
			critical = true
		}
		if viol.Type == model.ViolationHallucination {
			hallucination = true
		}
	}
	if !critical {
		t.Errorf("expected a critical compliance violation: %+v", result.Violations)
	}
	if !hallucination {
		t.Errorf("absolute guarantee language should surface as a hallucination finding: %+v", result.Violations)
	}

	if result.CorrectedResponse == "" {
		t.Fatal("blocked responses should carry a corrected draft")
	}
	if strings.Contains(strings.ToLower(result.CorrectedResponse), "guaranteed") {
		t.Errorf("the corrected draft must soften guarantee language: %q", result.CorrectedResponse)
	}
}

func TestValidate_PolicyTimeframeFlagged(t *testing.T) {
	v := New(testConfig(), refundStore(), nil)

	result, _, err := v.Validate(context.Background(), model.Request{
		Query:          "Can I get a refund?",
		ResponseText:   "You will receive a full refund within 24 hours.",
		OrganizationID: "acme",
	})
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}

	if result.Status != model.DecisionFlagged {
		t.Errorf("expected flagged, got %s (score %.3f, violations %+v)",
			result.Status, result.ConfidenceScore, result.Violations)
	}

	var policyViol *model.Violation
	for i := range result.Violations {
		if result.Violations[i].Type == model.ViolationPolicy {
			policyViol = &result.Violations[i]
		}
	}
	if policyViol == nil {
		t.Fatalf("expected a policy violation: %+v", result.Violations)
	}
	if policyViol.PolicyID != "refund-policy" {
		t.Errorf("violation should trace to the policy, got %q", policyViol.PolicyID)
	}
	if !strings.Contains(policyViol.Description, "7-10 business days") {
		t.Errorf("violation should name the policy timeframe: %q", policyViol.Description)
	}

	if !strings.Contains(result.CorrectedResponse, "7-10 business days") {
		t.Errorf("corrected draft should carry the policy timeframe: %q", result.CorrectedResponse)
	}
	if strings.Contains(result.CorrectedResponse, "24 hours") {
		t.Errorf("the wrong promise must be gone from the corrected draft: %q", result.CorrectedResponse)
	}
}

func TestValidate_Deterministic(t *testing.T) {
	v := New(testConfig(), refundStore(), nil)
	req := model.Request{
		Query:          "Can I get a refund?",
		ResponseText:   "You will receive a full refund within 24 hours.",
		OrganizationID: "acme",
	}

	first, _, err := v.Validate(context.Background(), req)
	if err != nil {
		t.Fatalf("first Validate: %v", err)
	}
	second, _, err := v.Validate(context.Background(), req)
	if err != nil {
		t.Fatalf("second Validate: %v", err)
	}

	if first.Status != second.Status {
		t.Errorf("status differs across identical runs: %s vs %s", first.Status, second.Status)
	}
	if first.ConfidenceScore != second.ConfidenceScore {
		t.Errorf("score differs across identical runs: %.3f vs %.3f",
			first.ConfidenceScore, second.ConfidenceScore)
	}
	if len(first.Violations) != len(second.Violations) {
		t.Errorf("violation count differs: %d vs %d", len(first.Violations), len(second.Violations))
	}
}

func TestValidate_PersistsAuditTrail(t *testing.T) {
	auditor, err := audit.NewStore(":memory:")
	if err != nil {
		t.Fatalf("audit.NewStore: %v", err)
	}
	defer func() { _ = auditor.Close() }()

	v := New(testConfig(), refundStore(), auditor)
	result, id, err := v.Validate(context.Background(), model.Request{
		Query:          "Can I get a refund?",
		ResponseText:   "You will receive a full refund within 24 hours.",
		OrganizationID: "acme",
	})
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if id == "" {
		t.Fatal("expected a persisted interaction id")
	}

	trail, err := auditor.Trail(context.Background(), id)
	if err != nil {
		t.Fatalf("Trail: %v", err)
	}
	if trail.Interaction.Status != result.Status {
		t.Errorf("persisted status %s, result %s", trail.Interaction.Status, result.Status)
	}
	if len(trail.Violations) != len(result.Violations) {
		t.Errorf("persisted %d violations, result has %d", len(trail.Violations), len(result.Violations))
	}
}

func TestValidate_RuleStoreFailureDegradesToDefaults(t *testing.T) {
	v := New(testConfig(), &failingStore{}, nil)

	result, _, err := v.Validate(context.Background(), model.Request{
		Query:          "Should I invest?",
		ResponseText:   "This fund always goes up and your returns are guaranteed.",
		OrganizationID: "acme",
	})
	if err != nil {
		t.Fatalf("a rule store outage must not fail validation: %v", err)
	}
	// Built-in defaults still catch guarantee language
	if result.Status != model.DecisionBlocked {
		t.Errorf("default rules should still block guarantee language, got %s", result.Status)
	}
}

type failingStore struct{}

func (f *failingStore) ActiveRules(context.Context, string) ([]model.Rule, error) {
	return nil, context.DeadlineExceeded
}

func (f *failingStore) ActivePolicies(context.Context, string) ([]model.CompanyPolicy, error) {
	return nil, context.DeadlineExceeded
}

func (f *failingStore) Industry(context.Context, string) (string, error) {
	return "", context.DeadlineExceeded
}
