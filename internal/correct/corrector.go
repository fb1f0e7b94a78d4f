package correct

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/truthguard/truthguard/internal/extract"
	"github.com/truthguard/truthguard/internal/llm"
	"github.com/truthguard/truthguard/internal/model"
)

// Corrector rewrites a response to address its violations. Deterministic
// rewrites run first and always produce a usable draft; a configured
// generative rewriter only polishes that draft and is ignored on error.
type Corrector struct {
	rewriter llm.Rewriter
}

// NewCorrector creates a corrector. A nil rewriter disables the
// generative pass.
func NewCorrector(rewriter llm.Rewriter) *Corrector {
	return &Corrector{rewriter: rewriter}
}

// Output is a corrected response plus its change log
type Output struct {
	Text    string
	Changes []string
}

// hedges soften absolute language that cannot be substantiated
var hedges = []struct{ from, to string }{
	{"guaranteed", "expected"},
	{"always", "typically"},
	{"never", "rarely"},
	{"risk-free", "lower-risk"},
	{"100% safe", "generally safe"},
	{"definitely", "likely"},
	{"certainly", "likely"},
	{"cannot lose", "may lose less"},
	{"cannot fail", "is unlikely to fail"},
}

// promiseRe pulls the two quoted timeframes out of a time-promise
// violation description
var promiseRe = regexp.MustCompile(`promises "([^"]+)" but policy "[^"]*" specifies "([^"]+)"`)

// missingRe pulls the required text out of a missing-required-text
// violation description
var missingRe = regexp.MustCompile(`missing required text: (.+)$`)

// Correct applies deterministic rewrites grouped by violation type, then the
// optional generative pass. The change log records every edit for audit.
func (c *Corrector) Correct(ctx context.Context, query, responseText string, violations []model.Violation, results []model.VerificationResult) Output {
	text := responseText
	var changes []string

	text, changes = c.removeFalseClaims(text, results, changes)
	text, changes = c.fixTimePromises(text, violations, changes)
	text, changes = c.hedgeAbsolutes(text, violations, changes)
	text, changes = c.appendDisclaimers(text, violations, changes)

	if len(changes) == 0 {
		return Output{Text: responseText}
	}

	if c.rewriter != nil {
		rewritten, err := c.rewriter.Rewrite(ctx, llm.RewriteRequest{
			Query:      query,
			Draft:      text,
			Violations: violations,
		})
		if err == nil && rewritten != "" {
			text = rewritten
			changes = append(changes, fmt.Sprintf("polished by %s rewriter", c.rewriter.Name()))
		}
	}

	return Output{Text: text, Changes: changes}
}

// removeFalseClaims drops whole sentences tied to contradicted claims
func (c *Corrector) removeFalseClaims(text string, results []model.VerificationResult, changes []string) (string, []string) {
	var falseClaims []string
	for _, r := range results {
		if r.Status == model.StatusFalse {
			falseClaims = append(falseClaims, r.ClaimText)
		}
	}
	if len(falseClaims) == 0 {
		return text, changes
	}

	sentences := extract.SplitSentences(text)
	var kept []string
	for _, s := range sentences {
		removed := false
		for _, claim := range falseClaims {
			if strings.Contains(s, claim) || strings.Contains(claim, s) {
				changes = append(changes, fmt.Sprintf("removed contradicted statement: %q", strings.TrimSpace(s)))
				removed = true
				break
			}
		}
		if !removed {
			kept = append(kept, strings.TrimSpace(s))
		}
	}
	return strings.Join(kept, " "), changes
}

// fixTimePromises replaces an incorrect timeframe with the policy's value
func (c *Corrector) fixTimePromises(text string, violations []model.Violation, changes []string) (string, []string) {
	for _, v := range violations {
		if v.Type != model.ViolationPolicy {
			continue
		}
		m := promiseRe.FindStringSubmatch(v.Description)
		if m == nil {
			continue
		}
		wrong, right := m[1], m[2]
		if replaced := replaceFold(text, wrong, right); replaced != text {
			text = replaced
			changes = append(changes, fmt.Sprintf("replaced %q with policy timeframe %q", wrong, right))
		}
	}
	return text, changes
}

// hedgeAbsolutes softens absolute language flagged as hallucination
func (c *Corrector) hedgeAbsolutes(text string, violations []model.Violation, changes []string) (string, []string) {
	flagged := false
	for _, v := range violations {
		if v.Type == model.ViolationHallucination || v.Type == model.ViolationCompliance {
			flagged = true
			break
		}
	}
	if !flagged {
		return text, changes
	}

	for _, h := range hedges {
		if replaced := replaceFold(text, h.from, h.to); replaced != text {
			text = replaced
			changes = append(changes, fmt.Sprintf("softened %q to %q", h.from, h.to))
		}
	}
	return text, changes
}

// appendDisclaimers adds required text the response was missing
func (c *Corrector) appendDisclaimers(text string, violations []model.Violation, changes []string) (string, []string) {
	for _, v := range violations {
		if v.Type != model.ViolationCompliance {
			continue
		}
		m := missingRe.FindStringSubmatch(v.Description)
		if m == nil {
			continue
		}
		for _, required := range strings.Split(m[1], ", ") {
			required = strings.TrimSpace(required)
			if required == "" || strings.Contains(strings.ToLower(text), strings.ToLower(required)) {
				continue
			}
			text = strings.TrimSpace(text) + " " + required
			changes = append(changes, fmt.Sprintf("appended required text: %q", required))
		}
	}
	return text, changes
}

// replaceFold replaces every case-insensitive occurrence of from with to
func replaceFold(text, from, to string) string {
	lower := strings.ToLower(text)
	lowerFrom := strings.ToLower(from)
	if !strings.Contains(lower, lowerFrom) {
		return text
	}

	var b strings.Builder
	for {
		i := strings.Index(strings.ToLower(text), lowerFrom)
		if i < 0 {
			b.WriteString(text)
			return b.String()
		}
		b.WriteString(text[:i])
		b.WriteString(to)
		text = text[i+len(from):]
	}
}
