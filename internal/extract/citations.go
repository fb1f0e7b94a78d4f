package extract

import (
	"regexp"
	"strings"

	"github.com/truthguard/truthguard/internal/model"
)

var (
	urlRe = regexp.MustCompile(`https?://[^\s<>"{}|\\^` + "`" + `\[\]]+`)

	accordingToRe = regexp.MustCompile(`(?i)according to\s+([^.,;:!?]+)`)
	sourceRe      = regexp.MustCompile(`(?i)source:\s*([^\n.]+)`)
	regulationRe  = regexp.MustCompile(`(?i)\b(SEC|CFPB|GDPR|FDA|HIPAA|EU AI Act|Article\s+\d+)[\w\s-]*\d{4}[-]?\d*`)
)

// ExtractURLs returns all URLs cited in the text, trailing punctuation
// stripped, deduplicated in order of first appearance
func ExtractURLs(text string) []string {
	var urls []string
	seen := make(map[string]bool)

	for _, u := range urlRe.FindAllString(text, -1) {
		u = strings.TrimRight(u, ".,;:!?)")
		if !seen[u] {
			seen[u] = true
			urls = append(urls, u)
		}
	}

	return urls
}

// ExtractCitationRefs returns textual citation patterns: attributions
// ("according to X"), source lines, and named regulation references
func ExtractCitationRefs(text string) []model.CitationRef {
	var refs []model.CitationRef

	for _, m := range accordingToRe.FindAllStringSubmatch(text, -1) {
		refs = append(refs, model.CitationRef{Kind: "according_to", Source: strings.TrimSpace(m[1])})
	}
	for _, m := range sourceRe.FindAllStringSubmatch(text, -1) {
		refs = append(refs, model.CitationRef{Kind: "source", Source: strings.TrimSpace(m[1])})
	}
	for _, m := range regulationRe.FindAllString(text, -1) {
		refs = append(refs, model.CitationRef{Kind: "regulation", Source: strings.TrimSpace(m)})
	}

	return refs
}
