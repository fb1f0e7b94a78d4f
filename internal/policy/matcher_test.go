package policy

import (
	"strings"
	"testing"

	"github.com/truthguard/truthguard/internal/model"
)

func refundPolicy() model.CompanyPolicy {
	return model.CompanyPolicy{
		ID:             "refund-policy",
		OrganizationID: "acme",
		Name:           "Refund policy",
		Content:        "Refunds are processed within 7-10 business days of approval.",
		Active:         true,
	}
}

func TestMatch_TimePromiseViolation(t *testing.T) {
	m := NewMatcher()

	violations := m.Match([]model.CompanyPolicy{refundPolicy()},
		"Full refund within 24 hours guaranteed.")

	if len(violations) != 1 {
		t.Fatalf("expected 1 violation, got %d: %+v", len(violations), violations)
	}
	v := violations[0]
	if v.Type != model.ViolationPolicy {
		t.Errorf("expected policy violation, got %s", v.Type)
	}
	if v.PolicyID != "refund-policy" {
		t.Errorf("violation must trace to the policy, got %q", v.PolicyID)
	}
	if !strings.Contains(v.Description, "24 hours") || !strings.Contains(v.Description, "7-10 business days") {
		t.Errorf("description must name both timeframes: %s", v.Description)
	}
}

func TestMatch_CompliantTimeframePasses(t *testing.T) {
	m := NewMatcher()

	violations := m.Match([]model.CompanyPolicy{refundPolicy()},
		"Your refund will arrive within 7-10 business days.")
	if len(violations) != 0 {
		t.Errorf("matching timeframe should not violate, got %+v", violations)
	}
}

func TestMatch_Contradiction(t *testing.T) {
	m := NewMatcher()
	policy := model.CompanyPolicy{
		ID:             "sale-policy",
		OrganizationID: "acme",
		Name:           "Final sale policy",
		Content:        "Clearance items are final sale and non-refundable.",
		Active:         true,
	}

	violations := m.Match([]model.CompanyPolicy{policy},
		"Clearance items are fully refundable, just send them back for a full refund.")
	if len(violations) == 0 {
		t.Fatal("expected a contradiction violation")
	}
	if violations[0].PolicyID != "sale-policy" {
		t.Errorf("violation must trace to the policy, got %q", violations[0].PolicyID)
	}
}

func TestMatch_IrrelevantPolicySkipped(t *testing.T) {
	m := NewMatcher()
	policy := model.CompanyPolicy{
		ID:      "shipping",
		Name:    "Shipping policy",
		Content: "International shipping takes 2-4 weeks depending on customs.",
		Active:  true,
	}

	// No shared content words with the policy at all
	violations := m.Match([]model.CompanyPolicy{policy},
		"Our mobile app supports fingerprint login within 5 seconds.")
	if len(violations) != 0 {
		t.Errorf("irrelevant policy should be skipped, got %+v", violations)
	}
}

func TestMatch_InactivePolicySkipped(t *testing.T) {
	m := NewMatcher()
	p := refundPolicy()
	p.Active = false

	violations := m.Match([]model.CompanyPolicy{p}, "Full refund within 24 hours guaranteed.")
	if len(violations) != 0 {
		t.Errorf("inactive policy should be skipped, got %+v", violations)
	}
}

func TestParseTimeframes(t *testing.T) {
	frames := parseTimeframes("refunds within 7-10 business days, support replies in 24 hours")
	if len(frames) != 2 {
		t.Fatalf("expected 2 timeframes, got %d: %+v", len(frames), frames)
	}
	if frames[0].minHours != 7*24 || frames[0].maxHours != 10*24 {
		t.Errorf("business day range parsed wrong: %+v", frames[0])
	}
	if frames[1].minHours != 24 || frames[1].maxHours != 24 {
		t.Errorf("hours parsed wrong: %+v", frames[1])
	}
}
