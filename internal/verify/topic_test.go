package verify

import (
	"strings"
	"testing"

	"github.com/truthguard/truthguard/internal/model"
)

func TestDetectTopic(t *testing.T) {
	tests := []struct {
		text string
		want Topic
	}{
		{"a high-level programming language used for software development", TopicProgramming},
		{"a genus of constricting snakes found in the tropics", TopicAnimal},
		{"should I invest my savings in the stock market", TopicFinance},
		{"", TopicNone},
		{"the weather is nice today", TopicNone},
	}
	for _, tt := range tests {
		if got := DetectTopic(tt.text); got != tt.want {
			t.Errorf("DetectTopic(%q) = %q, want %q", tt.text, got, tt.want)
		}
	}
}

// The disambiguation failure this guards against: a claim about the snake
// scoring as verified because an article about the programming language
// shares the word "Python". Context must force it false, never verified.
func TestAssess_ContextMismatchIsFalse(t *testing.T) {
	claim := model.Claim{Text: "Python is a venomous snake that hunts at night"}

	result := assess(claim, "tell me about the python programming language", "wikipedia",
		"Python (programming language)",
		"Python is a high-level, general-purpose programming language used in software development.",
		"https://en.wikipedia.org/wiki/Python_(programming_language)")

	if result.Status != model.StatusFalse {
		t.Fatalf("expected false, got %s (%s)", result.Status, result.Details)
	}
	if result.Confidence != 0.9 {
		t.Errorf("expected confidence 0.9 for contradiction, got %.2f", result.Confidence)
	}
	if !strings.Contains(result.Details, "Python (programming language)") {
		t.Errorf("details should name the source article: %s", result.Details)
	}
}

func TestAssess_MatchingTopicVerifies(t *testing.T) {
	claim := model.Claim{Text: "Python is a programming language created by Guido van Rossum"}

	result := assess(claim, "who created the python programming language", "wikipedia",
		"Python (programming language)",
		"Python is a high-level programming language created by Guido van Rossum and first released in 1991.",
		"https://en.wikipedia.org/wiki/Python_(programming_language)")

	if result.Status != model.StatusVerified {
		t.Fatalf("expected verified, got %s (%s)", result.Status, result.Details)
	}
	if result.Confidence < 0.6 || result.Confidence > 0.85 {
		t.Errorf("verified confidence out of band: %.2f", result.Confidence)
	}
}

func TestAssess_LowOverlapIsUnverified(t *testing.T) {
	claim := model.Claim{Text: "The company reported record quarterly earnings of four billion dollars"}

	result := assess(claim, "", "wikipedia",
		"Quarter",
		"A quarter is one of four equal parts of something.",
		"https://en.wikipedia.org/wiki/Quarter")

	if result.Status != model.StatusUnverified {
		t.Fatalf("expected unverified, got %s", result.Status)
	}
	if result.Confidence > 0.5 {
		t.Errorf("unverified confidence should cap at 0.5, got %.2f", result.Confidence)
	}
}

func TestAssess_EmptySummaryDegrades(t *testing.T) {
	result := assess(model.Claim{Text: "anything"}, "", "wikipedia", "Title", "", "")
	if result.Status != model.StatusUnverified {
		t.Errorf("expected unverified on empty summary, got %s", result.Status)
	}
}

func TestClaimPredicate(t *testing.T) {
	if got := claimPredicate("Python is a venomous snake found in Asia"); got != "venomous snake found in Asia" {
		t.Errorf("claimPredicate = %q", got)
	}
	if got := claimPredicate("no copula here"); got != "" {
		t.Errorf("expected empty predicate, got %q", got)
	}
}
