package model

import "time"

// VerificationStatus is the outcome of checking one claim against a source
type VerificationStatus string

const (
	StatusVerified   VerificationStatus = "verified"   // Claim matches a known fact
	StatusUnverified VerificationStatus = "unverified" // No source could corroborate the claim
	StatusFalse      VerificationStatus = "false"      // Source directly contradicts the claim or its context
)

// VerificationResult is the per-claim outcome of the verification phase.
// Never mutated after creation; persisted with the audit trail.
type VerificationResult struct {
	ClaimText  string             `json:"claim_text"`
	Status     VerificationStatus `json:"status"`
	Confidence float64            `json:"confidence"` // 0.0 to 1.0
	Source     string             `json:"source,omitempty"`
	Details    string             `json:"details,omitempty"`
	URL        string             `json:"url,omitempty"`
}

// ViolationType classifies what kind of problem a violation describes
type ViolationType string

const (
	ViolationHallucination ViolationType = "hallucination"
	ViolationCitation      ViolationType = "citation"
	ViolationCompliance    ViolationType = "compliance"
	ViolationPolicy        ViolationType = "policy"
	ViolationConsistency   ViolationType = "consistency"
)

// Severity indicates the importance of a violation
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// Rank orders severities for comparison (higher is worse)
func (s Severity) Rank() int {
	switch s {
	case SeverityCritical:
		return 4
	case SeverityHigh:
		return 3
	case SeverityMedium:
		return 2
	case SeverityLow:
		return 1
	default:
		return 0
	}
}

// Violation is a detected rule, policy, consistency, or factual problem.
// Every violation is traceable to exactly one producer through RuleID,
// PolicyID, or ClaimText so explanations can name the origin.
type Violation struct {
	Type        ViolationType `json:"type"`
	Severity    Severity      `json:"severity"`
	Description string        `json:"description"`
	RuleID      string        `json:"rule_id,omitempty"`
	PolicyID    string        `json:"policy_id,omitempty"`
	ClaimText   string        `json:"claim_text,omitempty"`
}

// CitationRef is a non-URL citation pattern found in response text: an
// attribution ("according to X"), a source line, or a named regulation
// reference. Recorded for the audit trail; never validated over the network.
type CitationRef struct {
	Kind   string `json:"kind"` // according_to, source, regulation
	Source string `json:"source"`
}

// Citation is a URL extracted from the response and validated independently
// of claim verification
type Citation struct {
	URL          string `json:"url"`
	IsValid      bool   `json:"is_valid"`
	ContentMatch bool   `json:"content_match"`
	StatusCode   int    `json:"status_code,omitempty"`
	Error        string `json:"error,omitempty"`
}

// Decision is the final disposition of a validated response
type Decision string

const (
	DecisionApproved Decision = "approved"
	DecisionFlagged  Decision = "flagged"
	DecisionBlocked  Decision = "blocked"
)

// ValidationResult is the top-level outcome of one validation request.
// Built once per request and immutable after construction; this is the unit
// persisted to the audit trail.
type ValidationResult struct {
	Status              Decision             `json:"status"`
	ConfidenceScore     float64              `json:"confidence_score"`
	Violations          []Violation          `json:"violations"`
	Claims              []Claim              `json:"claims,omitempty"`
	VerificationResults []VerificationResult `json:"verification_results"`
	Citations           []Citation           `json:"citations"`
	CitationRefs        []CitationRef        `json:"citation_refs,omitempty"`
	CorrectedResponse   string               `json:"corrected_response,omitempty"`
	Changes             []string             `json:"changes,omitempty"` // Correction change log
	Explanation         string               `json:"explanation"`
	ValidatedAt         time.Time            `json:"validated_at"`
}

// HighestSeverity returns the worst severity among the violations,
// or the empty string when there are none
func (r *ValidationResult) HighestSeverity() Severity {
	var highest Severity
	for _, v := range r.Violations {
		if v.Severity.Rank() > highest.Rank() {
			highest = v.Severity
		}
	}
	return highest
}

// HasSeverity reports whether any violation carries the given severity
func (r *ValidationResult) HasSeverity(s Severity) bool {
	for _, v := range r.Violations {
		if v.Severity == s {
			return true
		}
	}
	return false
}

// Request is the inbound contract for one validation
type Request struct {
	Query          string `json:"query"`
	ResponseText   string `json:"response_text"`
	OrganizationID string `json:"organization_id"`
	AIModel        string `json:"ai_model"`
	SessionID      string `json:"session_id,omitempty"`
}

// Interaction is a persisted validation request plus its result
type Interaction struct {
	ID              string    `json:"id"`
	OrganizationID  string    `json:"organization_id"`
	Query           string    `json:"query"`
	ResponseText    string    `json:"response_text"`
	ValidatedText   string    `json:"validated_text,omitempty"`
	Status          Decision  `json:"status"`
	ConfidenceScore float64   `json:"confidence_score"`
	AIModel         string    `json:"ai_model,omitempty"`
	SessionID       string    `json:"session_id,omitempty"`
	Explanation     string    `json:"explanation,omitempty"`
	Timestamp       time.Time `json:"timestamp"`
}

// AuditTrail reconstructs the full persisted unit for one interaction
type AuditTrail struct {
	Interaction         Interaction          `json:"interaction"`
	Violations          []Violation          `json:"violations"`
	VerificationResults []VerificationResult `json:"verification_results"`
	Citations           []Citation           `json:"citations"`
	CitationRefs        []CitationRef        `json:"citation_refs,omitempty"`
}
