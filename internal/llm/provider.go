package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/truthguard/truthguard/internal/model"
)

// Rewriter is the optional generative collaborator for correction. The
// deterministic correction draft always exists first; a rewriter only
// polishes it, and its output is discarded on any error.
type Rewriter interface {
	// Name returns the provider name
	Name() string

	// Rewrite produces a natural-language pass over the corrected draft.
	// The rewrite must not reintroduce the violations it is given.
	Rewrite(ctx context.Context, req RewriteRequest) (string, error)

	// IsAvailable checks if the provider is properly configured and reachable
	IsAvailable(ctx context.Context) bool
}

// RewriteRequest carries the deterministic draft and its context
type RewriteRequest struct {
	// Query is the original user question
	Query string

	// Draft is the deterministically corrected response text
	Draft string

	// Violations are the problems the correction addressed
	Violations []model.Violation

	// Model overrides the configured model when set
	Model string

	// MaxTokens limits the response length
	MaxTokens int
}

// BuildPrompt renders the rewrite instruction. The constraints are strict:
// the model may only smooth language, never add facts or promises.
func BuildPrompt(req RewriteRequest) string {
	var b strings.Builder
	b.WriteString("Rewrite the following customer-facing response so it reads naturally.\n")
	b.WriteString("Rules:\n")
	b.WriteString("- Do not add any facts, numbers, guarantees, or promises.\n")
	b.WriteString("- Do not remove any disclaimers.\n")
	b.WriteString("- Keep the meaning identical; only improve flow and tone.\n\n")

	if req.Query != "" {
		fmt.Fprintf(&b, "Original question: %s\n\n", req.Query)
	}
	if len(req.Violations) > 0 {
		b.WriteString("Problems already corrected (do not reintroduce):\n")
		for _, v := range req.Violations {
			fmt.Fprintf(&b, "- [%s/%s] %s\n", v.Type, v.Severity, v.Description)
		}
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "Response to rewrite:\n%s\n", req.Draft)
	return b.String()
}

const systemPrompt = "You edit AI assistant responses for clarity after compliance review. " +
	"You never add facts, guarantees, or promises, and you never remove disclaimers."
