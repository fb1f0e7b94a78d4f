package score

import (
	"testing"

	"github.com/truthguard/truthguard/internal/model"
)

func TestAssignSeverity_EscalatesByContent(t *testing.T) {
	tests := []struct {
		name string
		in   model.Violation
		want model.Severity
	}{
		{
			name: "medical content is critical",
			in: model.Violation{
				Type:        model.ViolationHallucination,
				Severity:    model.SeverityMedium,
				Description: "claim recommends stopping a prescription without consulting a doctor",
			},
			want: model.SeverityCritical,
		},
		{
			name: "named regulation is critical",
			in: model.Violation{
				Type:        model.ViolationCompliance,
				Severity:    model.SeverityMedium,
				Description: "statement conflicts with SEC disclosure requirements",
			},
			want: model.SeverityCritical,
		},
		{
			name: "financial guarantee is critical",
			in: model.Violation{
				Type:        model.ViolationCompliance,
				Severity:    model.SeverityLow,
				Description: "promises a guaranteed return on deposits",
			},
			want: model.SeverityCritical,
		},
		{
			name: "factual contradiction is high",
			in: model.Violation{
				Type:        model.ViolationHallucination,
				Severity:    model.SeverityMedium,
				Description: "claim contradicts wikipedia: the tower is 330 meters",
			},
			want: model.SeverityHigh,
		},
		{
			name: "generic mismatch stays medium",
			in: model.Violation{
				Type:        model.ViolationCompliance,
				Severity:    model.SeverityMedium,
				Description: "response contains prohibited keywords: synergy",
			},
			want: model.SeverityMedium,
		},
		{
			name: "empty severity defaults to medium",
			in: model.Violation{
				Type:        model.ViolationCitation,
				Description: "cited page unrelated to statement",
			},
			want: model.SeverityMedium,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AssignSeverity(tt.in); got.Severity != tt.want {
				t.Errorf("got %s, want %s", got.Severity, tt.want)
			}
		})
	}
}

func TestAssignSeverity_NeverLowers(t *testing.T) {
	v := model.Violation{
		Type:        model.ViolationCompliance,
		Severity:    model.SeverityCritical,
		Description: "a perfectly bland description",
	}
	if got := AssignSeverity(v); got.Severity != model.SeverityCritical {
		t.Errorf("assignment must never lower a producer's severity, got %s", got.Severity)
	}
}

func TestAssignSeverity_ConsistencyPinnedLow(t *testing.T) {
	v := model.Violation{
		Type:        model.ViolationConsistency,
		Severity:    model.SeverityMedium,
		Description: "diverges from prior SEC-related answers",
	}
	if got := AssignSeverity(v); got.Severity != model.SeverityLow {
		t.Errorf("consistency findings are informational, got %s", got.Severity)
	}
}

func TestContainsTerm_WordBoundaries(t *testing.T) {
	if containsTerm("consecutive numbers", "sec") {
		t.Error("'sec' must not match inside 'consecutive'")
	}
	if !containsTerm("flagged by the sec today", "sec") {
		t.Error("'sec' should match as a whole word")
	}
}
