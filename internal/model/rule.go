package model

// RuleType distinguishes where a rule comes from
type RuleType string

const (
	RuleRegulatory RuleType = "regulatory" // SEC, CFPB, GDPR, EU AI Act and friends
	RulePolicy     RuleType = "policy"     // Company-specific constraints expressed as rules
	RuleCustom     RuleType = "custom"     // User-defined rules
)

// MatchType selects the evaluator applied to a rule's patterns
type MatchType string

const (
	MatchKeyword  MatchType = "keyword"
	MatchPattern  MatchType = "pattern"
	MatchSemantic MatchType = "semantic" // Reserved; evaluated as keyword fallback
)

// Rule is an organization-scoped constraint evaluated against response text.
// Rules are loaded read-only per request; mutation lives in the management
// layer, outside this module.
type Rule struct {
	ID             string    `json:"id" yaml:"id"`
	Name           string    `json:"name" yaml:"name"`
	OrganizationID string    `json:"organization_id,omitempty" yaml:"organization_id,omitempty"`
	Industry       string    `json:"industry,omitempty" yaml:"industry,omitempty"`
	Type           RuleType  `json:"type" yaml:"type"`
	MatchType      MatchType `json:"match_type" yaml:"match_type"`
	Keywords       []string  `json:"keywords,omitempty" yaml:"keywords,omitempty"`
	Patterns       []string  `json:"patterns,omitempty" yaml:"patterns,omitempty"`
	RequiredText   []string  `json:"required_text,omitempty" yaml:"required_text,omitempty"`
	ForbiddenText  []string  `json:"forbidden_text,omitempty" yaml:"forbidden_text,omitempty"`
	Severity       Severity  `json:"severity" yaml:"severity"`
	Message        string    `json:"message,omitempty" yaml:"message,omitempty"`
	Active         bool      `json:"active" yaml:"active"`
}

// AppliesTo reports whether the rule is in scope for the organization and
// industry. Rules without an organization or industry are global.
func (r Rule) AppliesTo(orgID, industry string) bool {
	if !r.Active {
		return false
	}
	if r.OrganizationID != "" && r.OrganizationID != orgID {
		return false
	}
	if r.Industry != "" && industry != "" && r.Industry != industry {
		return false
	}
	return true
}

// CompanyPolicy is an organization-scoped internal statement compared against
// response content for contradiction and unrealistic promises
type CompanyPolicy struct {
	ID             string `json:"id" yaml:"id"`
	OrganizationID string `json:"organization_id" yaml:"organization_id"`
	Name           string `json:"name" yaml:"name"`
	Content        string `json:"content" yaml:"content"`
	Category       string `json:"category,omitempty" yaml:"category,omitempty"`
	Active         bool   `json:"active" yaml:"active"`
}
