package verify

import (
	"regexp"
	"strings"
)

var stopWords = map[string]bool{
	"the": true, "a": true, "an": true, "and": true, "or": true, "but": true,
	"in": true, "on": true, "at": true, "to": true, "for": true, "of": true,
	"with": true, "by": true, "is": true, "are": true, "was": true, "were": true,
	"be": true, "been": true, "being": true, "have": true, "has": true, "had": true,
	"do": true, "does": true, "did": true, "will": true, "would": true,
	"should": true, "could": true, "may": true, "might": true, "must": true,
	"can": true, "this": true, "that": true, "these": true, "those": true,
}

var (
	properNounRe = regexp.MustCompile(`\b[A-Z][a-zA-Z]+(?:\s+[A-Z][a-zA-Z]+)*\b`)
	subjectIsRe  = regexp.MustCompile(`^([A-Z][a-zA-Z]+(?:\s+[A-Z][a-zA-Z]+)*)\s+(?:is|are|was|were)\s+`)
	wordRe       = regexp.MustCompile(`\b[a-zA-Z]+\b`)
)

// SearchTerm derives a disambiguated lookup term for a claim. Preference
// order: the "X is Y" subject, then proper-noun phrases, then the first
// important words. When the query context identifies a topic, the term is
// qualified with it so ambiguous subjects resolve to the intended article
// (e.g. "Python" in a programming query becomes "Python (programming
// language)" rather than the snake genus).
func SearchTerm(claim, queryContext string, maxTerms int) string {
	if maxTerms <= 0 {
		maxTerms = 3
	}

	term := baseSearchTerm(claim, maxTerms)

	if topic := DetectTopic(queryContext); topic != TopicNone {
		if qualified, ok := qualifyTerm(term, topic); ok {
			return qualified
		}
	}

	return term
}

func baseSearchTerm(claim string, maxTerms int) string {
	// Subject of an "X is Y" assertion
	if m := subjectIsRe.FindStringSubmatch(claim); m != nil {
		return m[1]
	}

	// Proper-noun phrase not at the start of the sentence
	for _, loc := range properNounRe.FindAllStringIndex(claim, -1) {
		if loc[0] > 0 {
			return claim[loc[0]:loc[1]]
		}
	}

	// Leading proper noun, if any
	if m := properNounRe.FindString(claim); m != "" {
		return m
	}

	// Fall back to the first important words
	var important []string
	for _, w := range wordRe.FindAllString(strings.ToLower(claim), -1) {
		if !stopWords[w] && len(w) > 2 {
			important = append(important, w)
			if len(important) == maxTerms {
				break
			}
		}
	}
	if len(important) == 0 {
		if len(claim) > 50 {
			return claim[:50]
		}
		return claim
	}
	return strings.Join(important, " ")
}

// wellKnownTitles maps ambiguous subjects to their topic-qualified article
// titles, matching the disambiguation conventions of encyclopedic sources
var wellKnownTitles = map[Topic]map[string]string{
	TopicProgramming: {
		"python":     "Python (programming language)",
		"java":       "Java (programming language)",
		"react":      "React (JavaScript library)",
		"go":         "Go (programming language)",
		"rust":       "Rust (programming language)",
		"ruby":       "Ruby (programming language)",
		"swift":      "Swift (programming language)",
		"javascript": "JavaScript",
		"typescript": "TypeScript",
	},
	TopicAnimal: {
		"python": "Python (genus)",
	},
}

func qualifyTerm(term string, topic Topic) (string, bool) {
	key := strings.ToLower(strings.TrimSpace(term))
	if titles, ok := wellKnownTitles[topic]; ok {
		if title, ok := titles[key]; ok {
			return title, true
		}
	}
	// A single ambiguous word still benefits from a topic qualifier
	if topic == TopicProgramming && !strings.Contains(term, " ") {
		return term + " programming", true
	}
	return term, false
}

// contentWords extracts lowercase words of three or more letters,
// used for overlap scoring between claims and source summaries
func contentWords(text string) map[string]bool {
	words := make(map[string]bool)
	for _, w := range wordRe.FindAllString(strings.ToLower(text), -1) {
		if len(w) >= 3 {
			words[w] = true
		}
	}
	return words
}

// overlapRatio scores textual overlap between the claim's words and the
// summary's words, as a fraction of the claim's words
func overlapRatio(claim, summary string) float64 {
	cw := contentWords(claim)
	if len(cw) == 0 {
		return 0
	}
	sw := contentWords(summary)
	matched := 0
	for w := range cw {
		if sw[w] {
			matched++
		}
	}
	return float64(matched) / float64(len(cw))
}
