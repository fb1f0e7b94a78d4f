package score

import (
	"github.com/truthguard/truthguard/internal/model"
)

// Decide maps a score and violation set to the final disposition.
// Violations dominate: a low score alone never blocks, because
// unverifiable-but-harmless text must not be auto-blocked merely for
// lacking external corroboration.
func (s *Scorer) Decide(confidence float64, violations []model.Violation) model.Decision {
	hasCritical := false
	hasHigh := false
	for _, v := range violations {
		switch v.Severity {
		case model.SeverityCritical:
			hasCritical = true
		case model.SeverityHigh:
			hasHigh = true
		}
	}

	blockAt := s.cfg.BlockThreshold
	if blockAt == 0 {
		blockAt = 0.3
	}
	flagAt := s.cfg.FlagThreshold
	if flagAt == 0 {
		flagAt = 0.6
	}

	if hasCritical || (hasHigh && confidence < blockAt) {
		return model.DecisionBlocked
	}
	if len(violations) > 0 || confidence < flagAt {
		return model.DecisionFlagged
	}
	return model.DecisionApproved
}
