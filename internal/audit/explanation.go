package audit

import (
	"fmt"
	"sort"
	"strings"

	"github.com/truthguard/truthguard/internal/model"
)

// Explain renders a human-readable account of a validation: status,
// confidence, violations grouped by severity, and claim verification counts.
// Stored alongside the interaction so reviewers never need to re-derive it.
func Explain(result *model.ValidationResult) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Response %s with confidence %.2f.", result.Status, result.ConfidenceScore)

	if len(result.Violations) == 0 {
		b.WriteString(" No violations detected.")
	} else {
		fmt.Fprintf(&b, " %d violation(s) detected:", len(result.Violations))
		for _, v := range sortBySeverity(result.Violations) {
			fmt.Fprintf(&b, "\n- [%s] %s: %s", v.Severity, v.Type, v.Description)
		}
	}

	verified, unverified, falseCount := 0, 0, 0
	for _, r := range result.VerificationResults {
		switch r.Status {
		case model.StatusVerified:
			verified++
		case model.StatusFalse:
			falseCount++
		default:
			unverified++
		}
	}
	if len(result.VerificationResults) > 0 {
		fmt.Fprintf(&b, "\nClaims: %d verified, %d unverified, %d false.",
			verified, unverified, falseCount)
	} else {
		b.WriteString("\nNo checkable claims were extracted.")
	}

	if len(result.Citations) > 0 {
		valid := 0
		for _, c := range result.Citations {
			if c.IsValid {
				valid++
			}
		}
		fmt.Fprintf(&b, "\nCitations: %d of %d resolved.", valid, len(result.Citations))
	}

	if len(result.Changes) > 0 {
		fmt.Fprintf(&b, "\nCorrections applied: %s.", strings.Join(result.Changes, "; "))
	}

	return b.String()
}

func sortBySeverity(violations []model.Violation) []model.Violation {
	out := make([]model.Violation, len(violations))
	copy(out, violations)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Severity.Rank() > out[j].Severity.Rank()
	})
	return out
}
