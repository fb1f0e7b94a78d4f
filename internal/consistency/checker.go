package consistency

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"

	"github.com/truthguard/truthguard/internal/model"
)

// HistoryStore returns previous responses to similar queries.
// Implementations must be safe for concurrent use.
type HistoryStore interface {
	// RecentResponses returns up to n prior response texts for the
	// organization and query fingerprint, most recent first
	RecentResponses(ctx context.Context, orgID, fingerprint string, n int) ([]string, error)
}

// Checker scores how consistent a response is with what the system answered
// to similar queries before. Divergence is informational, never blocking.
type Checker struct {
	store        HistoryStore
	defaultScore float64
	floor        float64
	window       int
}

// NewChecker creates a checker over the given history store. A nil store
// always yields the default score.
func NewChecker(store HistoryStore, cfg model.ScoringConfig) *Checker {
	def := cfg.DefaultConsistency
	if def == 0 {
		def = 0.9
	}
	floor := cfg.ConsistencyFloor
	if floor == 0 {
		floor = 0.4
	}
	return &Checker{store: store, defaultScore: def, floor: floor, window: 5}
}

// Result is the outcome of the consistency phase
type Result struct {
	Score     float64
	Violation *model.Violation
}

// Check compares the response against prior responses to similar queries.
// Fewer than two prior responses yields the default score so first-time
// queries are not penalized for lacking history.
func (c *Checker) Check(ctx context.Context, orgID, query, responseText string) Result {
	if c.store == nil {
		return Result{Score: c.defaultScore}
	}

	history, err := c.store.RecentResponses(ctx, orgID, Fingerprint(query), c.window)
	if err != nil || len(history) < 2 {
		return Result{Score: c.defaultScore}
	}

	total := 0.0
	for _, prior := range history {
		total += similarity(responseText, prior)
	}
	score := total / float64(len(history))
	if score < c.floor {
		score = c.floor
	}

	result := Result{Score: score}
	if score < 0.5 {
		result.Violation = &model.Violation{
			Type:     model.ViolationConsistency,
			Severity: model.SeverityLow,
			Description: fmt.Sprintf("response diverges from %d previous answers to similar queries (similarity %.2f)",
				len(history), score),
		}
	}
	return result
}

// Fingerprint normalizes a query to a stable key: lowercase content words,
// sorted and hashed, so rephrasings of the same question collide
func Fingerprint(query string) string {
	words := keywords(query)
	sort.Strings(words)
	hash := sha256.Sum256([]byte(strings.Join(words, " ")))
	return hex.EncodeToString(hash[:16])
}

// similarity is the Jaccard index over content words
func similarity(a, b string) float64 {
	setA := wordSet(a)
	setB := wordSet(b)
	if len(setA) == 0 || len(setB) == 0 {
		return 0
	}

	intersection := 0
	for w := range setA {
		if setB[w] {
			intersection++
		}
	}
	union := len(setA) + len(setB) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}

func wordSet(text string) map[string]bool {
	set := make(map[string]bool)
	for _, w := range keywords(text) {
		set[w] = true
	}
	return set
}

var queryStopWords = map[string]bool{
	"the": true, "a": true, "an": true, "is": true, "are": true, "was": true,
	"can": true, "could": true, "will": true, "would": true, "do": true,
	"does": true, "how": true, "what": true, "when": true, "where": true,
	"why": true, "i": true, "my": true, "you": true, "your": true, "for": true,
	"to": true, "of": true, "in": true, "on": true, "and": true, "or": true,
	"get": true, "have": true, "has": true, "be": true, "it": true,
}

func keywords(text string) []string {
	var out []string
	for _, w := range strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !((r >= 'a' && r <= 'z') || (r >= '0' && r <= '9'))
	}) {
		if len(w) > 1 && !queryStopWords[w] {
			out = append(out, w)
		}
	}
	return out
}
