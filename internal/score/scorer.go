package score

import (
	"github.com/truthguard/truthguard/internal/model"
)

// Scorer computes the weighted confidence score for a validated response
type Scorer struct {
	cfg model.ScoringConfig
}

// NewScorer creates a scorer with the given weights and bands
func NewScorer(cfg model.ScoringConfig) *Scorer {
	return &Scorer{cfg: cfg}
}

// Inputs are the per-phase signals the score is computed from
type Inputs struct {
	Claims              []model.Claim
	VerificationResults []model.VerificationResult
	Violations          []model.Violation
	Citations           []model.Citation
	ConsistencyScore    float64
}

// Calculate computes the weighted confidence score
func (s *Scorer) Calculate(in Inputs) float64 {
	fact := s.factScore(in.Claims, in.VerificationResults)
	consistency := in.ConsistencyScore
	if consistency == 0 {
		consistency = s.cfg.DefaultConsistency
	}
	citation := s.citationScore(in.Citations)
	compliance := s.complianceScore(in.Violations)
	clarity := s.cfg.DefaultClarity

	w := s.cfg.Weights
	return w.Fact*fact +
		w.Consistency*consistency +
		w.Citation*citation +
		w.Compliance*compliance +
		w.Clarity*clarity
}

// factScore averages per-claim contributions: a verified claim contributes
// its confidence, an unverified one a neutral constant, and a false one -1.0
// so a single contradiction drags the average hard. Clipped to [0,1] after
// averaging. No extractable claims is not evidence of a problem, so the
// empty case scores above neutral.
func (s *Scorer) factScore(claims []model.Claim, results []model.VerificationResult) float64 {
	if len(claims) == 0 || len(results) == 0 {
		return s.cfg.NoClaimFactScore
	}

	total := 0.0
	for _, r := range results {
		switch r.Status {
		case model.StatusVerified:
			total += r.Confidence
		case model.StatusFalse:
			total += -1.0
		default:
			total += s.cfg.UnverifiedNeutral
		}
	}
	avg := total / float64(len(results))
	if avg < 0 {
		return 0
	}
	if avg > 1 {
		return 1
	}
	return avg
}

// citationScore is the fraction of cited URLs that resolved. A response
// with no citations scores 1.0: absent citations are not a citation
// problem, missing-citation rules catch those separately.
func (s *Scorer) citationScore(citations []model.Citation) float64 {
	if len(citations) == 0 {
		return 1.0
	}
	valid := 0
	for _, c := range citations {
		if c.IsValid {
			valid++
		}
	}
	return float64(valid) / float64(len(citations))
}

// complianceScore is 1.0 with no rule or policy violations, else reduced by
// the highest severity present
func (s *Scorer) complianceScore(violations []model.Violation) float64 {
	highest := model.Severity("")
	for _, v := range violations {
		if v.Type != model.ViolationCompliance && v.Type != model.ViolationPolicy {
			continue
		}
		if v.Severity.Rank() > highest.Rank() {
			highest = v.Severity
		}
	}

	switch highest {
	case model.SeverityCritical:
		return 0.0
	case model.SeverityHigh:
		return 0.2
	case model.SeverityMedium:
		return 0.5
	case model.SeverityLow:
		return 0.8
	default:
		return 1.0
	}
}
