package verify

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/truthguard/truthguard/internal/model"
)

// Wikipedia verifies claims against the Wikipedia REST summary API.
// It is the highest-priority source: encyclopedic summaries are the best
// corroboration for general factual claims.
type Wikipedia struct {
	baseURL string
	client  *client
}

// NewWikipedia creates the encyclopedic source
func NewWikipedia(baseURL string, c *client) *Wikipedia {
	return &Wikipedia{baseURL: strings.TrimSuffix(baseURL, "/"), client: c}
}

// Name returns the source name recorded in verification results
func (w *Wikipedia) Name() string { return "wikipedia" }

// Priority ranks the encyclopedic source first
func (w *Wikipedia) Priority() int { return 1 }

type wikiSummary struct {
	Title       string `json:"title"`
	Extract     string `json:"extract"`
	ContentURLs struct {
		Desktop struct {
			Page string `json:"page"`
		} `json:"desktop"`
	} `json:"content_urls"`
}

type wikiSearch struct {
	Pages []struct {
		Title   string `json:"title"`
		Excerpt string `json:"excerpt"`
	} `json:"pages"`
}

// Verify looks up the claim's disambiguated search term as a page title,
// falling back to the search endpoint when no page exists under that title
func (w *Wikipedia) Verify(ctx context.Context, claim model.Claim, queryContext string) model.VerificationResult {
	term := SearchTerm(claim.Text, queryContext, 3)
	if term == "" {
		return unverified(claim, w.Name(), "could not derive a search term")
	}

	title := strings.ReplaceAll(term, " ", "_")
	var summary wikiSummary
	err := w.client.getJSON(ctx, w.baseURL+"/api/rest_v1/page/summary/"+url.PathEscape(title), nil, &summary)
	if err == nil && summary.Extract != "" {
		return assess(claim, queryContext, w.Name(), summary.Title, summary.Extract, summary.ContentURLs.Desktop.Page)
	}
	if err != nil && !isNotFound(err) {
		return unverified(claim, w.Name(), fmt.Sprintf("source unavailable: %v", err))
	}

	// No page under that exact title; try full-text search
	var search wikiSearch
	params := url.Values{"q": {term}, "limit": {"5"}}
	if err := w.client.getJSON(ctx, w.baseURL+"/w/rest.php/v1/search/page", params, &search); err != nil {
		if isNotFound(err) {
			return unverified(claim, w.Name(), "not found")
		}
		return unverified(claim, w.Name(), fmt.Sprintf("source unavailable: %v", err))
	}

	// Score every hit and keep the best non-contradicting one; a hit whose
	// topic contradicts the context is remembered so a lone wrong-domain
	// match still surfaces as false instead of silently verifying.
	var bestTitle, bestExcerpt string
	bestOverlap := 0.0
	var contradiction *model.VerificationResult

	for _, page := range search.Pages {
		excerpt := stripSearchMarkup(page.Excerpt)
		if mm := topicMismatch(claim.Text, queryContext, page.Title, excerpt); mm != nil {
			if contradiction == nil {
				r := assess(claim, queryContext, w.Name(), page.Title, excerpt, w.pageURL(page.Title))
				contradiction = &r
			}
			continue
		}
		if ov := overlapRatio(claim.Text, excerpt); ov > bestOverlap {
			bestOverlap = ov
			bestTitle = page.Title
			bestExcerpt = excerpt
		}
	}

	if bestTitle != "" && bestOverlap > 0.15 {
		return assess(claim, queryContext, w.Name(), bestTitle, bestExcerpt, w.pageURL(bestTitle))
	}
	if contradiction != nil {
		return *contradiction
	}
	return unverified(claim, w.Name(), "not found in Wikipedia")
}

func (w *Wikipedia) pageURL(title string) string {
	return w.baseURL + "/wiki/" + url.PathEscape(strings.ReplaceAll(title, " ", "_"))
}

// stripSearchMarkup removes the highlight spans the search endpoint embeds
func stripSearchMarkup(s string) string {
	s = strings.ReplaceAll(s, `<span class="searchmatch">`, "")
	return strings.ReplaceAll(s, "</span>", "")
}
