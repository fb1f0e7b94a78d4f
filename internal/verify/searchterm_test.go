package verify

import "testing"

func TestSearchTerm_SubjectOfAssertion(t *testing.T) {
	tests := []struct {
		name  string
		claim string
		query string
		want  string
	}{
		{
			name:  "capitalized subject",
			claim: "The Eiffel Tower is 330 meters tall",
			want:  "The Eiffel Tower",
		},
		{
			name:  "ambiguous subject qualified by query topic",
			claim: "Python is a versatile language",
			query: "is python a good programming language to learn",
			want:  "Python (programming language)",
		},
		{
			name:  "lowercase start skips the subject heuristic",
			claim: "the python is a venomous snake found in Asia",
			want:  "Asia",
		},
		{
			name:  "no capitalized words falls back to important words",
			claim: "refunds are processed within several business days",
			want:  "refunds processed within",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SearchTerm(tt.claim, tt.query, 3); got != tt.want {
				t.Errorf("SearchTerm(%q) = %q, want %q", tt.claim, got, tt.want)
			}
		})
	}
}
