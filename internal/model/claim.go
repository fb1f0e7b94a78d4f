package model

// Claim represents a checkable factual statement extracted from a response
type Claim struct {
	Text            string   `json:"text"`                       // The claim text itself
	Normalized      string   `json:"normalized"`                 // Lowercased, whitespace-collapsed form used as cache key
	Kind            ClaimKind `json:"kind"`                      // Coarse classification, informational only
	HasEntity       bool     `json:"has_entity"`                 // Contains a capitalized multi-word entity
	HasSpecificFact bool     `json:"has_specific_fact"`          // Matches a specific-fact lexical pattern
	Numbers         []string `json:"numbers,omitempty"`          // Numeric values found in the sentence
	Dates           []string `json:"dates,omitempty"`            // Date references found in the sentence
	Sentence        int      `json:"sentence,omitempty"`         // Sentence index in the response (0-based)
}

// ClaimKind categorizes the nature of the claim.
// The kind is used for display only and never affects scoring.
type ClaimKind string

const (
	ClaimFinancial   ClaimKind = "financial"   // Currency amounts, prices, returns
	ClaimStatistical ClaimKind = "statistical" // Percentages, rates, measured quantities
	ClaimRegulatory  ClaimKind = "regulatory"  // References to laws, acts, regulations
	ClaimGeneral     ClaimKind = "general"     // Everything else that passed the checkability filter
)
