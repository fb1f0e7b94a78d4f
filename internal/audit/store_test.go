package audit

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/truthguard/truthguard/internal/consistency"
	"github.com/truthguard/truthguard/internal/model"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(":memory:")
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func sampleResult() *model.ValidationResult {
	return &model.ValidationResult{
		Status:          model.DecisionFlagged,
		ConfidenceScore: 0.55,
		Violations: []model.Violation{
			{Type: model.ViolationPolicy, Severity: model.SeverityMedium,
				Description: "timeframe mismatch", PolicyID: "refund-policy"},
			{Type: model.ViolationHallucination, Severity: model.SeverityHigh,
				Description: "contradicted claim", ClaimText: "refunds in 24 hours"},
		},
		VerificationResults: []model.VerificationResult{
			{ClaimText: "refunds in 24 hours", Status: model.StatusFalse,
				Confidence: 0.9, Source: "wikipedia", Details: "contradiction", URL: "https://example.org/a"},
		},
		Citations: []model.Citation{
			{URL: "https://example.org/cited", IsValid: true, ContentMatch: true, StatusCode: 200},
		},
		CitationRefs: []model.CitationRef{
			{Kind: "according_to", Source: "the billing team"},
		},
		CorrectedResponse: "Refunds arrive within 7-10 business days.",
		Explanation:       "Response flagged with confidence 0.55.",
		ValidatedAt:       time.Now().UTC(),
	}
}

func TestSaveInteractionAndTrail(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	req := model.Request{
		Query:          "Can I get a refund?",
		ResponseText:   "Full refund within 24 hours guaranteed.",
		OrganizationID: "acme",
		AIModel:        "gpt-4o-mini",
		SessionID:      "sess-1",
	}

	id, err := s.SaveInteraction(ctx, req, sampleResult())
	if err != nil {
		t.Fatalf("SaveInteraction: %v", err)
	}
	if id == "" {
		t.Fatal("expected a generated interaction id")
	}

	trail, err := s.Trail(ctx, id)
	if err != nil {
		t.Fatalf("Trail: %v", err)
	}

	if trail.Interaction.OrganizationID != "acme" {
		t.Errorf("organization = %q", trail.Interaction.OrganizationID)
	}
	if trail.Interaction.Status != model.DecisionFlagged {
		t.Errorf("status = %s", trail.Interaction.Status)
	}
	if trail.Interaction.ValidatedText != "Refunds arrive within 7-10 business days." {
		t.Errorf("validated text = %q", trail.Interaction.ValidatedText)
	}
	if len(trail.Violations) != 2 {
		t.Errorf("expected 2 violations, got %d", len(trail.Violations))
	}
	if len(trail.VerificationResults) != 1 || trail.VerificationResults[0].Source != "wikipedia" {
		t.Errorf("verification results not reconstructed: %+v", trail.VerificationResults)
	}
	if len(trail.Citations) != 1 || !trail.Citations[0].ContentMatch {
		t.Errorf("citations not reconstructed: %+v", trail.Citations)
	}
	if len(trail.CitationRefs) != 1 || trail.CitationRefs[0].Source != "the billing team" {
		t.Errorf("citation refs not reconstructed: %+v", trail.CitationRefs)
	}
}

func TestTrail_UnknownID(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.Trail(context.Background(), "no-such-id"); err == nil {
		t.Error("expected an error for an unknown interaction id")
	} else if !strings.Contains(err.Error(), "not found") {
		t.Errorf("expected a not-found error, got %v", err)
	}
}

func TestRecentResponses_FingerprintScoped(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	result := &model.ValidationResult{Status: model.DecisionApproved, ValidatedAt: time.Now().UTC()}

	for i := 0; i < 3; i++ {
		req := model.Request{
			Query:          "Can I get a refund for my canceled flight?",
			ResponseText:   "Refunds take 7-10 business days.",
			OrganizationID: "acme",
		}
		if _, err := s.SaveInteraction(ctx, req, result); err != nil {
			t.Fatalf("SaveInteraction: %v", err)
		}
	}
	// Different query, same organization
	if _, err := s.SaveInteraction(ctx, model.Request{
		Query:          "What is your shipping policy?",
		ResponseText:   "Shipping takes 2-4 weeks.",
		OrganizationID: "acme",
	}, result); err != nil {
		t.Fatalf("SaveInteraction: %v", err)
	}

	fp := consistency.Fingerprint("refund canceled flight")
	history, err := s.RecentResponses(ctx, "acme", fp, 10)
	if err != nil {
		t.Fatalf("RecentResponses: %v", err)
	}
	if len(history) != 3 {
		t.Fatalf("expected 3 similar-query responses, got %d", len(history))
	}
	for _, h := range history {
		if !strings.Contains(h, "7-10 business days") {
			t.Errorf("unexpected history row: %q", h)
		}
	}

	other, _ := s.RecentResponses(ctx, "globex", fp, 10)
	if len(other) != 0 {
		t.Errorf("history must be organization-scoped, got %d rows", len(other))
	}
}

func TestRecentResponses_PrefersValidatedText(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	result := &model.ValidationResult{
		Status:            model.DecisionFlagged,
		CorrectedResponse: "corrected version",
		ValidatedAt:       time.Now().UTC(),
	}
	req := model.Request{Query: "refund timing", ResponseText: "original version", OrganizationID: "acme"}
	if _, err := s.SaveInteraction(ctx, req, result); err != nil {
		t.Fatalf("SaveInteraction: %v", err)
	}

	history, err := s.RecentResponses(ctx, "acme", consistency.Fingerprint("refund timing"), 5)
	if err != nil {
		t.Fatalf("RecentResponses: %v", err)
	}
	if len(history) != 1 || history[0] != "corrected version" {
		t.Errorf("expected the corrected text, got %v", history)
	}
}
