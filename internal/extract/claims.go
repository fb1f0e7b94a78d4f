package extract

import (
	"regexp"
	"strings"

	"github.com/truthguard/truthguard/internal/model"
)

// minSentenceLen filters fragments too short to carry a checkable fact
const minSentenceLen = 20

// specificFactPatterns mark sentences that assert a particular, checkable fact
var specificFactPatterns = []string{
	"created by", "founded in", "founded by", "according to", "released in",
	"invented", "discovered", "developed by", "established in", "introduced in",
	"acquired", "launched in", "headquartered", "originated", "is defined as",
	"data shows", "research shows", "study found", "statistics",
}

// generalStatementPatterns mark vague statements that cannot be checked
// against a knowledge source. A sentence matching one of these and carrying
// no specific signal is dropped: sending it to verification would only
// produce noise and systematic under-confidence.
var generalStatementPatterns = []string{
	"is known for", "is versatile", "allows developers to", "is popular",
	"is widely used", "makes it easy", "is a great", "can be used to",
	"helps you", "is one of the", "is often", "is generally", "in general",
}

// opinionWords mark subjective statements, which are never claims
var opinionWords = []string{
	"i think", "i believe", "i feel", "in my opinion", "should", "might", "could",
}

// absoluteTerms flag guarantee language that no external source can support
var absoluteTerms = []string{
	"always", "never fails", "guaranteed", "guarantee", "risk-free", "100% safe",
	"cannot lose", "no risk",
}

// entityRe matches capitalized multi-word phrases (likely named entities)
var entityRe = regexp.MustCompile(`\b[A-Z][a-z]+(?:\s+[A-Z][a-z]+)+\b`)

var regulatoryKeywords = []string{
	"regulation", "regulatory", "law", "act", "statute", "compliance",
	"sec", "gdpr", "fda", "cfpb", "hipaa", "directive",
}

// ClaimExtractor extracts checkable factual claims from response text
type ClaimExtractor struct{}

// NewClaimExtractor creates a new claim extractor
func NewClaimExtractor() *ClaimExtractor {
	return &ClaimExtractor{}
}

// Extract segments the response into sentences and returns those that are
// checkable claims, in order. Sentences with no specific signal (number,
// date, named entity, or specific-fact pattern) are not claims and are
// dropped rather than sent to verification.
func (e *ClaimExtractor) Extract(text string) []model.Claim {
	cleaned := CleanText(text)
	if cleaned == "" {
		return nil
	}

	var claims []model.Claim
	seen := make(map[string]bool)

	for i, sentence := range SplitSentences(cleaned) {
		if len(sentence) < minSentenceLen {
			continue
		}

		lower := strings.ToLower(sentence)
		if containsAny(lower, opinionWords) {
			continue
		}

		numbers := ExtractNumbers(sentence)
		dates := ExtractDates(sentence)
		hasEntity := hasNamedEntity(sentence)
		hasFact := containsAny(lower, specificFactPatterns)

		specific := len(numbers) > 0 || len(dates) > 0 || hasEntity || hasFact
		if !specific {
			continue
		}
		if containsAny(lower, generalStatementPatterns) && len(numbers) == 0 && len(dates) == 0 && !hasFact {
			continue
		}

		normalized := Normalize(sentence)
		if seen[normalized] {
			continue
		}
		seen[normalized] = true

		claims = append(claims, model.Claim{
			Text:            sentence,
			Normalized:      normalized,
			Kind:            classifyKind(lower, numbers),
			HasEntity:       hasEntity,
			HasSpecificFact: hasFact,
			Numbers:         numbers,
			Dates:           dates,
			Sentence:        i,
		})
	}

	return claims
}

// AbsoluteClaims returns sentences carrying absolute guarantee language.
// These are unverifiable by construction and feed the hallucination check.
func AbsoluteClaims(text string) []string {
	var hits []string
	for _, sentence := range SplitSentences(CleanText(text)) {
		if containsAny(strings.ToLower(sentence), absoluteTerms) {
			hits = append(hits, sentence)
		}
	}
	return hits
}

// classifyKind tags a claim with a coarse kind from keyword heuristics.
// Used only for display, never for scoring.
func classifyKind(lower string, numbers []string) model.ClaimKind {
	for _, n := range numbers {
		if strings.HasPrefix(n, "$") {
			return model.ClaimFinancial
		}
		if strings.HasSuffix(n, "%") {
			return model.ClaimStatistical
		}
	}
	for _, kw := range regulatoryKeywords {
		if containsWord(lower, kw) {
			return model.ClaimRegulatory
		}
	}
	return model.ClaimGeneral
}

// hasNamedEntity reports whether the sentence contains a capitalized
// multi-word phrase beyond its leading word
func hasNamedEntity(sentence string) bool {
	for _, m := range entityRe.FindAllStringIndex(sentence, -1) {
		if m[0] > 0 {
			return true
		}
		// A match at position 0 still counts if it spans three or more words:
		// a two-word match there is usually just the capitalized sentence start.
		if strings.Count(sentence[m[0]:m[1]], " ") >= 2 {
			return true
		}
	}
	return false
}

func containsAny(text string, terms []string) bool {
	for _, t := range terms {
		if strings.Contains(text, t) {
			return true
		}
	}
	return false
}

// containsWord matches a term on word boundaries to avoid substring hits
// like "law" inside "flawless"
func containsWord(text, word string) bool {
	idx := 0
	for {
		i := strings.Index(text[idx:], word)
		if i < 0 {
			return false
		}
		start := idx + i
		end := start + len(word)
		startOK := start == 0 || !isLetter(text[start-1])
		endOK := end == len(text) || !isLetter(text[end])
		if startOK && endOK {
			return true
		}
		idx = start + 1
	}
}

func isLetter(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}
