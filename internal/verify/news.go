package verify

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/truthguard/truthguard/internal/model"
)

// News verifies claims against a news search API. Useful for recent events
// that encyclopedic sources have not caught up with; lowest priority.
type News struct {
	baseURL string
	apiKey  string
	client  *client
}

// NewNews creates the news source. The API key is required by the service;
// an empty key makes every lookup degrade to unverified.
func NewNews(baseURL, apiKey string, c *client) *News {
	return &News{baseURL: strings.TrimSuffix(baseURL, "/"), apiKey: apiKey, client: c}
}

// Name returns the source name recorded in verification results
func (n *News) Name() string { return "news" }

// Priority ranks the news source last
func (n *News) Priority() int { return 3 }

type newsResponse struct {
	Articles []struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		URL         string `json:"url"`
	} `json:"articles"`
}

// Verify searches recent articles for the claim's key terms and scores the
// best-overlapping headline and description
func (n *News) Verify(ctx context.Context, claim model.Claim, queryContext string) model.VerificationResult {
	if n.apiKey == "" {
		return unverified(claim, n.Name(), "news API key not configured")
	}

	term := SearchTerm(claim.Text, queryContext, 3)
	params := url.Values{
		"q":        {term},
		"apiKey":   {n.apiKey},
		"sortBy":   {"relevancy"},
		"pageSize": {"3"},
		"language": {"en"},
	}

	var resp newsResponse
	if err := n.client.getJSON(ctx, n.baseURL+"/v2/everything", params, &resp); err != nil {
		return unverified(claim, n.Name(), fmt.Sprintf("source unavailable: %v", err))
	}

	var bestTitle, bestContent, bestURL string
	bestOverlap := 0.0
	for _, article := range resp.Articles {
		content := article.Title + " " + article.Description
		if ov := overlapRatio(claim.Text, content); ov > bestOverlap {
			bestOverlap = ov
			bestTitle = article.Title
			bestContent = content
			bestURL = article.URL
		}
	}

	if bestTitle == "" {
		return unverified(claim, n.Name(), "no relevant news articles found")
	}
	return assess(claim, queryContext, n.Name(), bestTitle, bestContent, bestURL)
}
