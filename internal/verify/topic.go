package verify

import (
	"regexp"
	"strings"
)

// Topic is a coarse subject domain used to catch disambiguation failures:
// a claim, its query context, and the article a source returns should all
// live in the same domain, or the verification is meaningless.
type Topic string

const (
	TopicNone        Topic = ""
	TopicProgramming Topic = "programming"
	TopicAnimal      Topic = "animal"
	TopicFood        Topic = "food"
	TopicMedical     Topic = "medical"
	TopicFinance     Topic = "finance"
)

var topicKeywords = map[Topic][]string{
	TopicProgramming: {
		"programming", "code", "software", "framework", "library",
		"javascript", "react", "vue", "angular", "web development",
		"developer", "compiler", "computer", "programming language",
	},
	TopicAnimal: {
		"snake", "animal", "reptile", "genus", "species", "mammal",
		"bird", "wildlife", "zoo",
	},
	TopicFood: {
		"fruit", "food", "cooking", "recipe", "cuisine", "nutrition",
		"eat", "dish", "ingredient",
	},
	TopicMedical: {
		"medical", "medicine", "disease", "treatment", "symptom",
		"diagnosis", "patient", "drug", "vaccine",
	},
	TopicFinance: {
		"invest", "investment", "stock", "crypto", "savings", "market",
		"financial", "bank", "trading", "portfolio",
	},
}

// DetectTopic returns the domain whose keywords best match the text,
// or TopicNone when nothing matches
func DetectTopic(text string) Topic {
	if text == "" {
		return TopicNone
	}
	lower := strings.ToLower(text)

	best := TopicNone
	bestHits := 0
	for topic, keywords := range topicKeywords {
		hits := 0
		for _, kw := range keywords {
			if strings.Contains(lower, kw) {
				hits++
			}
		}
		if hits > bestHits {
			bestHits = hits
			best = topic
		}
	}
	return best
}

// mentionsTopic reports whether the text carries any keyword of the topic
func mentionsTopic(text string, topic Topic) bool {
	lower := strings.ToLower(text)
	for _, kw := range topicKeywords[topic] {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// mentionsOtherTopic reports whether the text carries keywords of any
// domain other than the given one
func mentionsOtherTopic(text string, topic Topic) bool {
	lower := strings.ToLower(text)
	for other, keywords := range topicKeywords {
		if other == topic {
			continue
		}
		for _, kw := range keywords {
			if strings.Contains(lower, kw) {
				return true
			}
		}
	}
	return false
}

var predicateRe = regexp.MustCompile(`(?i)\b(?:is|are|was|were)\s+(?:a|an|the)?\s*([^.,;:!?]+)`)

// claimPredicate extracts what the claim says its subject IS.
// "Python is a venomous snake" yields "venomous snake".
func claimPredicate(claim string) string {
	m := predicateRe.FindStringSubmatch(claim)
	if m == nil {
		return ""
	}
	words := strings.Fields(strings.TrimSpace(m[1]))
	if len(words) > 5 {
		words = words[:5]
	}
	return strings.Join(words, " ")
}

// articleDescription extracts what the article's first sentence says its
// subject is
func articleDescription(title, summary string) string {
	first := summary
	if idx := strings.Index(summary, "."); idx > 0 {
		first = summary[:idx]
	} else if len(first) > 200 {
		first = first[:200]
	}
	if d := claimPredicate(first); d != "" {
		return d
	}
	if len(first) > 80 {
		first = first[:80]
	}
	return title + " " + first
}

// mismatch captures why a source result must be downgraded to false
type mismatch struct {
	reason string
}

// topicMismatch applies the three disambiguation checks from most to least
// specific. A non-nil return means the claim is wrong regardless of how much
// surface text overlaps: the source found a different thing with the same
// name, or the claim itself asserts the wrong domain.
func topicMismatch(claim, queryContext, title, summary string) *mismatch {
	// 1. The claim's predicate contradicts what the article says the
	//    subject is ("X is a snake" vs an article describing a language).
	pred := claimPredicate(claim)
	desc := articleDescription(title, summary)
	if pred != "" && desc != "" {
		pt := DetectTopic(pred)
		dt := DetectTopic(desc)
		if pt != TopicNone && dt != TopicNone && pt != dt {
			return &mismatch{reason: "claim describes the subject as '" + pred + "' but the source describes it as '" + desc + "'"}
		}
	}

	contextTopic := DetectTopic(queryContext)
	if contextTopic == TopicNone {
		return nil
	}

	// 2. The claim asserts a domain foreign to the query context.
	claimTopic := DetectTopic(pred)
	if claimTopic == TopicNone {
		claimTopic = DetectTopic(claim)
	}
	if claimTopic != TopicNone && claimTopic != contextTopic {
		return &mismatch{reason: "claim contradicts the query context (" + string(contextTopic) + " vs " + string(claimTopic) + ")"}
	}

	// 3. The article's dominant keywords belong to another domain entirely.
	articleText := title + " " + summary
	if mentionsOtherTopic(articleText, contextTopic) && !mentionsTopic(articleText, contextTopic) {
		return &mismatch{reason: "source article does not match the query context (" + string(contextTopic) + ")"}
	}

	return nil
}
