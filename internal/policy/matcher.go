package policy

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/truthguard/truthguard/internal/model"
)

// Matcher compares response text against organization policies. It looks for
// direct contradictions of policy terms and for time promises that undercut a
// policy's stated timeframe.
type Matcher struct{}

// NewMatcher creates a policy matcher
func NewMatcher() *Matcher {
	return &Matcher{}
}

// opposites maps a term to phrasings that contradict it. Checked in both
// directions: the policy asserting one side and the response the other.
var opposites = map[string][]string{
	"non-refundable": {"refundable", "full refund", "money back"},
	"no refunds":     {"refund", "money back"},
	"no guarantee":   {"guaranteed", "we guarantee"},
	"not covered":    {"covered", "fully covered"},
	"fee applies":    {"free of charge", "no fee", "no charge"},
	"fees apply":     {"free of charge", "no fee", "no charge"},
	"no exceptions":  {"exception can be made", "we can make an exception"},
	"not eligible":   {"eligible", "qualifies"},
	"final sale":     {"return", "exchange"},
}

// timeframeRe captures a numeric timeframe like "24 hours", "7-10 business
// days", "2 weeks"
var timeframeRe = regexp.MustCompile(`(?i)(\d+)(?:\s*(?:-|–|to)\s*(\d+))?\s*(business\s+days?|hours?|days?|weeks?|months?)`)

// timeframe is a parsed time promise normalized to hours
type timeframe struct {
	text     string
	minHours float64
	maxHours float64
}

func unitHours(unit string) float64 {
	unit = strings.ToLower(strings.Join(strings.Fields(unit), " "))
	switch {
	case strings.HasPrefix(unit, "hour"):
		return 1
	case strings.HasPrefix(unit, "business"):
		return 24
	case strings.HasPrefix(unit, "day"):
		return 24
	case strings.HasPrefix(unit, "week"):
		return 168
	case strings.HasPrefix(unit, "month"):
		return 720
	default:
		return 24
	}
}

// parseTimeframes extracts every timeframe mentioned in the text
func parseTimeframes(text string) []timeframe {
	var out []timeframe
	for _, m := range timeframeRe.FindAllStringSubmatch(text, -1) {
		lo := atoiSafe(m[1])
		hi := lo
		if m[2] != "" {
			hi = atoiSafe(m[2])
		}
		hours := unitHours(m[3])
		out = append(out, timeframe{
			text:     strings.Join(strings.Fields(m[0]), " "),
			minHours: float64(lo) * hours,
			maxHours: float64(hi) * hours,
		})
	}
	return out
}

func atoiSafe(s string) int {
	n := 0
	for _, r := range s {
		if r < '0' || r > '9' {
			return n
		}
		n = n*10 + int(r-'0')
	}
	return n
}

// Match evaluates every active policy against the response text and returns
// the violations found. Policies with no term overlap with the response are
// skipped as irrelevant.
func (m *Matcher) Match(policies []model.CompanyPolicy, responseText string) []model.Violation {
	var violations []model.Violation
	lower := strings.ToLower(responseText)

	for _, p := range policies {
		if !p.Active {
			continue
		}
		policyLower := strings.ToLower(p.Content)

		if !termsOverlap(policyLower, lower) {
			continue
		}

		if v := m.contradiction(p, policyLower, lower); v != nil {
			violations = append(violations, *v)
		}
		if v := m.timePromise(p, policyLower, lower); v != nil {
			violations = append(violations, *v)
		}
	}

	return violations
}

// contradiction reports a response asserting the opposite of a policy term
func (m *Matcher) contradiction(p model.CompanyPolicy, policyLower, respLower string) *model.Violation {
	for term, opps := range opposites {
		if !strings.Contains(policyLower, term) {
			continue
		}
		for _, opp := range opps {
			if strings.Contains(respLower, opp) {
				return &model.Violation{
					Type:     model.ViolationPolicy,
					Severity: model.SeverityMedium,
					Description: fmt.Sprintf("response contradicts policy %q: policy states %q but response says %q",
						p.Name, term, opp),
					PolicyID: p.ID,
				}
			}
		}
	}
	return nil
}

// timePromise reports a response promising a shorter timeframe than the
// policy specifies. Promising a 24-hour refund against a 7-10 business day
// policy is the canonical case.
func (m *Matcher) timePromise(p model.CompanyPolicy, policyLower, respLower string) *model.Violation {
	policyTimes := parseTimeframes(policyLower)
	respTimes := parseTimeframes(respLower)
	if len(policyTimes) == 0 || len(respTimes) == 0 {
		return nil
	}

	for _, pt := range policyTimes {
		for _, rt := range respTimes {
			if rt.maxHours < pt.minHours {
				return &model.Violation{
					Type:     model.ViolationPolicy,
					Severity: model.SeverityMedium,
					Description: fmt.Sprintf("response promises %q but policy %q specifies %q",
						rt.text, p.Name, pt.text),
					PolicyID: p.ID,
				}
			}
		}
	}
	return nil
}

// termsOverlap reports whether the policy and response share enough content
// words to consider the policy relevant to the response
func termsOverlap(policyLower, respLower string) bool {
	respWords := make(map[string]bool)
	for _, w := range strings.FieldsFunc(respLower, notLetter) {
		if len(w) > 3 {
			respWords[stem(w)] = true
		}
	}
	for _, w := range strings.FieldsFunc(policyLower, notLetter) {
		if len(w) > 3 && !stopWords[w] && respWords[stem(w)] {
			return true
		}
	}
	return false
}

// stem strips a trailing plural so "refunds" matches "refund"
func stem(w string) string {
	if len(w) > 4 && strings.HasSuffix(w, "s") && !strings.HasSuffix(w, "ss") {
		return w[:len(w)-1]
	}
	return w
}

func notLetter(r rune) bool {
	return !((r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z'))
}

var stopWords = map[string]bool{
	"this": true, "that": true, "with": true, "within": true, "from": true,
	"will": true, "must": true, "should": true, "your": true, "their": true,
	"have": true, "been": true, "were": true, "when": true, "which": true,
	"business": true, "days": true, "hours": true, "weeks": true,
}
