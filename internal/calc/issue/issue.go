// Package issue annotates calculation results with conditions that were
// resolved locally instead of aborting the computation.
package issue

import "fmt"

type Kind string

const (
	// InvalidInput marks a field that was clamped, replaced or could not be used.
	InvalidInput Kind = "invalid_input"
	// DataQuality marks a catalog miss or assumption that fell back to a default.
	DataQuality Kind = "data_quality"
	// NoSuggestion marks a sizing search with no catalog candidates.
	NoSuggestion Kind = "no_suggestion"
)

type Issue struct {
	Kind    Kind   `json:"kind"`
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (i Issue) String() string {
	return fmt.Sprintf("%s: %s: %s", i.Kind, i.Field, i.Message)
}

type List []Issue

func (l *List) Invalid(field, format string, args ...any) {
	*l = append(*l, Issue{Kind: InvalidInput, Field: field, Message: fmt.Sprintf(format, args...)})
}

func (l *List) Quality(field, format string, args ...any) {
	*l = append(*l, Issue{Kind: DataQuality, Field: field, Message: fmt.Sprintf(format, args...)})
}

func (l *List) NoSuggestion(field, format string, args ...any) {
	*l = append(*l, Issue{Kind: NoSuggestion, Field: field, Message: fmt.Sprintf(format, args...)})
}

// Has reports whether any issue of kind k is present.
func (l List) Has(k Kind) bool {
	for _, i := range l {
		if i.Kind == k {
			return true
		}
	}
	return false
}
