package correct

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/truthguard/truthguard/internal/llm"
	"github.com/truthguard/truthguard/internal/model"
)

func TestCorrect_HedgesAbsoluteLanguage(t *testing.T) {
	c := NewCorrector(nil)

	out := c.Correct(context.Background(), "should I invest in crypto?",
		"Crypto always goes up, guaranteed.",
		[]model.Violation{{Type: model.ViolationHallucination, Severity: model.SeverityMedium,
			Description: "unverifiable absolute claim"}},
		nil)

	lower := strings.ToLower(out.Text)
	if strings.Contains(lower, "always") || strings.Contains(lower, "guaranteed") {
		t.Errorf("absolute terms should be softened: %q", out.Text)
	}
	if len(out.Changes) == 0 {
		t.Error("expected a change log")
	}
}

func TestCorrect_ReplacesTimePromise(t *testing.T) {
	c := NewCorrector(nil)

	out := c.Correct(context.Background(), "refund?",
		"Full refund within 24 hours.",
		[]model.Violation{{
			Type:        model.ViolationPolicy,
			Severity:    model.SeverityMedium,
			Description: `response promises "24 hours" but policy "Refund policy" specifies "7-10 business days"`,
			PolicyID:    "refund-policy",
		}},
		nil)

	if !strings.Contains(out.Text, "7-10 business days") {
		t.Errorf("expected the policy timeframe in the corrected text: %q", out.Text)
	}
	if strings.Contains(out.Text, "24 hours") {
		t.Errorf("the incorrect promise should be gone: %q", out.Text)
	}
}

func TestCorrect_RemovesFalseClaimSentences(t *testing.T) {
	c := NewCorrector(nil)

	out := c.Correct(context.Background(), "",
		"The Eiffel Tower is in Berlin. It attracts millions of visitors.",
		nil,
		[]model.VerificationResult{{
			ClaimText: "The Eiffel Tower is in Berlin",
			Status:    model.StatusFalse,
		}})

	if strings.Contains(out.Text, "Berlin") {
		t.Errorf("contradicted sentence should be removed: %q", out.Text)
	}
	if !strings.Contains(out.Text, "millions of visitors") {
		t.Errorf("unrelated sentences must survive: %q", out.Text)
	}
}

func TestCorrect_AppendsRequiredText(t *testing.T) {
	c := NewCorrector(nil)

	out := c.Correct(context.Background(), "",
		"Index funds are a sensible starting point for most savers.",
		[]model.Violation{{
			Type:        model.ViolationCompliance,
			Severity:    model.SeverityMedium,
			Description: "response missing required text: This is not financial advice.",
			RuleID:      "disclaimer-rule",
		}},
		nil)

	if !strings.Contains(out.Text, "This is not financial advice.") {
		t.Errorf("expected the disclaimer appended: %q", out.Text)
	}
}

func TestCorrect_NoViolationsNoChanges(t *testing.T) {
	c := NewCorrector(nil)
	original := "Everything here is fine."

	out := c.Correct(context.Background(), "", original, nil, nil)
	if out.Text != original || len(out.Changes) != 0 {
		t.Errorf("clean input must pass through untouched: %+v", out)
	}
}

// failingRewriter always errors; the deterministic draft must stand
type failingRewriter struct{}

func (f *failingRewriter) Name() string { return "failing" }
func (f *failingRewriter) Rewrite(context.Context, llm.RewriteRequest) (string, error) {
	return "", errors.New("model unavailable")
}
func (f *failingRewriter) IsAvailable(context.Context) bool { return false }

// echoRewriter returns a fixed polish
type echoRewriter struct{}

func (e *echoRewriter) Name() string { return "echo" }
func (e *echoRewriter) Rewrite(_ context.Context, req llm.RewriteRequest) (string, error) {
	return "POLISHED: " + req.Draft, nil
}
func (e *echoRewriter) IsAvailable(context.Context) bool { return true }

func TestCorrect_RewriterFailureFallsBack(t *testing.T) {
	c := NewCorrector(&failingRewriter{})

	out := c.Correct(context.Background(), "",
		"Returns are guaranteed.",
		[]model.Violation{{Type: model.ViolationCompliance, Severity: model.SeverityHigh,
			Description: "guarantee language"}},
		nil)

	if strings.Contains(out.Text, "guaranteed") {
		t.Errorf("deterministic correction must still apply: %q", out.Text)
	}
	for _, change := range out.Changes {
		if strings.Contains(change, "polished") {
			t.Errorf("a failed rewrite must not be logged as applied: %v", out.Changes)
		}
	}
}

func TestCorrect_RewriterAppliesWhenHealthy(t *testing.T) {
	c := NewCorrector(&echoRewriter{})

	out := c.Correct(context.Background(), "",
		"Returns are guaranteed.",
		[]model.Violation{{Type: model.ViolationCompliance, Severity: model.SeverityHigh,
			Description: "guarantee language"}},
		nil)

	if !strings.HasPrefix(out.Text, "POLISHED: ") {
		t.Errorf("expected the rewriter's output: %q", out.Text)
	}
}

func TestReplaceFold(t *testing.T) {
	if got := replaceFold("Always ALWAYS always", "always", "often"); got != "often often often" {
		t.Errorf("replaceFold = %q", got)
	}
	if got := replaceFold("untouched", "missing", "x"); got != "untouched" {
		t.Errorf("replaceFold should be a no-op without a match, got %q", got)
	}
}
