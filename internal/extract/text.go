package extract

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

var (
	whitespaceRe = regexp.MustCompile(`\s+`)

	currencyRe   = regexp.MustCompile(`\$[\d,]+(?:\.\d+)?`)
	percentageRe = regexp.MustCompile(`\b[\d,]+(?:\.\d+)?\s*%`)
	numberRe     = regexp.MustCompile(`\b\d[\d,]*(?:\.\d+)?\b`)

	isoDateRe   = regexp.MustCompile(`\b\d{4}-\d{2}-\d{2}\b`)
	slashDateRe = regexp.MustCompile(`\b\d{1,2}/\d{1,2}/\d{4}\b`)
	longDateRe  = regexp.MustCompile(`(?i)\b(?:January|February|March|April|May|June|July|August|September|October|November|December)\s+\d{1,2},?\s+\d{4}\b`)
	yearRe      = regexp.MustCompile(`\b(?:1[89]\d{2}|20\d{2})\b`)
)

// CleanText collapses whitespace and trims the input. Responses that carry
// HTML markup are reduced to their visible text first.
func CleanText(text string) string {
	if strings.Contains(text, "</") || strings.Contains(text, "/>") {
		if doc, err := html.Parse(strings.NewReader(text)); err == nil {
			text = visibleText(doc)
		}
	}
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(text, " "))
}

// visibleText extracts text nodes from HTML, skipping scripts/styles
func visibleText(n *html.Node) string {
	var buf strings.Builder

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "noscript", "iframe":
				return
			}
		}
		if n.Type == html.TextNode {
			text := strings.TrimSpace(n.Data)
			if text != "" {
				buf.WriteString(text)
				buf.WriteString(" ")
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	walk(n)
	return buf.String()
}

// SplitSentences splits text into sentences (simple heuristic)
func SplitSentences(text string) []string {
	text = strings.ReplaceAll(text, "\n", " ")

	var sentences []string
	var current strings.Builder

	for i, r := range text {
		current.WriteRune(r)

		if r == '.' || r == '!' || r == '?' {
			// Look ahead to avoid splitting on abbreviations and decimals
			if i+1 >= len(text) || text[i+1] == ' ' || text[i+1] == '\t' {
				if s := strings.TrimSpace(current.String()); s != "" {
					sentences = append(sentences, s)
				}
				current.Reset()
			}
		}
	}

	if s := strings.TrimSpace(current.String()); s != "" {
		sentences = append(sentences, s)
	}

	return sentences
}

// Normalize lowercases and collapses a claim for comparison and cache keys
func Normalize(text string) string {
	return strings.ToLower(strings.TrimSpace(whitespaceRe.ReplaceAllString(text, " ")))
}

// ExtractNumbers returns numeric values found in the text, most specific
// pattern first (currency, percentage, then bare numbers not already matched)
func ExtractNumbers(text string) []string {
	var numbers []string
	seen := make(map[string]bool)

	add := func(matches []string) {
		for _, m := range matches {
			m = strings.TrimSpace(m)
			if !seen[m] {
				seen[m] = true
				numbers = append(numbers, m)
			}
		}
	}

	add(currencyRe.FindAllString(text, -1))
	add(percentageRe.FindAllString(text, -1))

	// Bare numbers that are not part of an already-captured match
	stripped := currencyRe.ReplaceAllString(text, " ")
	stripped = percentageRe.ReplaceAllString(stripped, " ")
	stripped = isoDateRe.ReplaceAllString(stripped, " ")
	stripped = slashDateRe.ReplaceAllString(stripped, " ")
	add(numberRe.FindAllString(stripped, -1))

	return numbers
}

// ExtractDates returns date references found in the text
func ExtractDates(text string) []string {
	var dates []string
	seen := make(map[string]bool)

	for _, re := range []*regexp.Regexp{isoDateRe, slashDateRe, longDateRe, yearRe} {
		for _, m := range re.FindAllString(text, -1) {
			if !seen[m] {
				seen[m] = true
				dates = append(dates, m)
			}
		}
	}

	return dates
}
