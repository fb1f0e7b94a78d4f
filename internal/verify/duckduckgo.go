package verify

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/truthguard/truthguard/internal/model"
)

// DuckDuckGo verifies claims against the DuckDuckGo Instant Answer API
type DuckDuckGo struct {
	baseURL string
	client  *client
}

// NewDuckDuckGo creates the instant-answer source
func NewDuckDuckGo(baseURL string, c *client) *DuckDuckGo {
	return &DuckDuckGo{baseURL: strings.TrimSuffix(baseURL, "/"), client: c}
}

// Name returns the source name recorded in verification results
func (d *DuckDuckGo) Name() string { return "duckduckgo" }

// Priority ranks the instant-answer source after the encyclopedic one
func (d *DuckDuckGo) Priority() int { return 2 }

type ddgAnswer struct {
	AbstractText  string `json:"AbstractText"`
	AbstractURL   string `json:"AbstractURL"`
	Heading       string `json:"Heading"`
	Answer        string `json:"Answer"`
	RelatedTopics []struct {
		Text     string `json:"Text"`
		FirstURL string `json:"FirstURL"`
	} `json:"RelatedTopics"`
}

// Verify queries the instant-answer endpoint with the full claim and checks
// the abstract, the direct answer, and the first related topic in that order
func (d *DuckDuckGo) Verify(ctx context.Context, claim model.Claim, queryContext string) model.VerificationResult {
	params := url.Values{
		"q":             {claim.Text},
		"format":        {"json"},
		"no_html":       {"1"},
		"skip_disambig": {"1"},
	}

	var answer ddgAnswer
	if err := d.client.getJSON(ctx, d.baseURL+"/", params, &answer); err != nil {
		return unverified(claim, d.Name(), fmt.Sprintf("source unavailable: %v", err))
	}

	if answer.AbstractText != "" {
		return assess(claim, queryContext, d.Name(), answer.Heading, answer.AbstractText, answer.AbstractURL)
	}

	// A direct answer corroborates without overlap scoring, but the topic
	// check still applies
	if answer.Answer != "" {
		if mm := topicMismatch(claim.Text, queryContext, answer.Heading, answer.Answer); mm != nil {
			return assess(claim, queryContext, d.Name(), answer.Heading, answer.Answer, answer.AbstractURL)
		}
		return model.VerificationResult{
			ClaimText:  claim.Text,
			Status:     model.StatusVerified,
			Confidence: 0.7,
			Source:     d.Name(),
			Details:    answer.Answer,
			URL:        answer.AbstractURL,
		}
	}

	if len(answer.RelatedTopics) > 0 {
		topic := answer.RelatedTopics[0]
		if topic.Text != "" {
			return assess(claim, queryContext, d.Name(), answer.Heading, topic.Text, topic.FirstURL)
		}
	}

	return unverified(claim, d.Name(), "no instant answer available")
}
