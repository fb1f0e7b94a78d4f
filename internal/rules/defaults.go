package rules

import (
	"github.com/truthguard/truthguard/internal/model"
)

// DefaultRules are the built-in regulatory rules applied to every
// organization on top of whatever the store provides. Modeled on common
// SEC/FDA/FTC guidance; organization rules can tighten but not disable them.
func DefaultRules() []model.Rule {
	return []model.Rule{
		{
			ID:        "default-financial-guarantee",
			Name:      "Financial guarantee language",
			Type:      model.RuleRegulatory,
			MatchType: model.MatchKeyword,
			Keywords: []string{
				"guaranteed return", "guaranteed profit", "risk-free investment",
				"always goes up", "cannot lose money",
			},
			Severity: model.SeverityCritical,
			Message:  "guarantee language in financial context violates SEC marketing guidance",
			Active:   true,
		},
		{
			ID:        "default-medical-advice",
			Name:      "Unqualified medical advice",
			Type:      model.RuleRegulatory,
			MatchType: model.MatchKeyword,
			Keywords: []string{
				"cures", "guaranteed to cure", "stop taking your medication",
				"no side effects", "fda approved treatment",
			},
			Severity: model.SeverityCritical,
			Message:  "unqualified medical claims require FDA-reviewed substantiation",
			Active:   true,
		},
		{
			ID:        "default-legal-advice",
			Name:      "Definitive legal advice",
			Type:      model.RuleRegulatory,
			MatchType: model.MatchPattern,
			Patterns: []string{
				`you (will|would) definitely win`,
				`this is not legal advice, but you should`,
			},
			Severity: model.SeverityHigh,
			Message:  "definitive legal outcomes cannot be promised",
			Active:   true,
		},
	}
}
