package score

import (
	"strings"

	"github.com/truthguard/truthguard/internal/model"
)

// Severity is assigned from content, not fixed per violation type: a generic
// keyword rule that happens to catch medical advice is worse than the same
// rule catching marketing fluff.

var criticalTerms = []string{
	"medical", "diagnosis", "treatment", "cure", "prescription", "dosage",
	"guaranteed return", "risk-free", "guaranteed profit", "cannot lose",
	"legal advice", "lawsuit", "liability",
	"sec", "fda", "gdpr", "hipaa", "finra", "cfpb",
}

var highTerms = []string{
	"disclaimer", "false claim", "contradicts", "factually incorrect",
	"investment", "financial advice", "interest rate", "apr",
	"refund", "warranty", "insurance",
}

// AssignSeverity escalates a violation's severity based on its content.
// Consistency findings are informational and never escalated. Severity is
// only raised, never lowered below what the producer assigned.
func AssignSeverity(v model.Violation) model.Violation {
	if v.Type == model.ViolationConsistency {
		v.Severity = model.SeverityLow
		return v
	}

	text := strings.ToLower(v.Description + " " + v.ClaimText)

	assigned := classify(text)
	if assigned.Rank() > v.Severity.Rank() {
		v.Severity = assigned
	}
	if v.Severity == "" {
		v.Severity = model.SeverityMedium
	}
	return v
}

func classify(text string) model.Severity {
	for _, term := range criticalTerms {
		if containsTerm(text, term) {
			return model.SeverityCritical
		}
	}
	for _, term := range highTerms {
		if containsTerm(text, term) {
			return model.SeverityHigh
		}
	}
	return model.SeverityMedium
}

// containsTerm does whole-word matching for short terms like "sec" that
// would otherwise match inside ordinary words
func containsTerm(text, term string) bool {
	if strings.Contains(term, " ") || len(term) > 5 {
		return strings.Contains(text, term)
	}
	idx := 0
	for {
		i := strings.Index(text[idx:], term)
		if i < 0 {
			return false
		}
		start := idx + i
		end := start + len(term)
		beforeOK := start == 0 || !isWordChar(text[start-1])
		afterOK := end == len(text) || !isWordChar(text[end])
		if beforeOK && afterOK {
			return true
		}
		idx = start + 1
	}
}

func isWordChar(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= '0' && b <= '9')
}
