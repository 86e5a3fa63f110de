package models

import "strings"

// QueryType classifies what kind of reply the user is asking for.
type QueryType string

// Approach is the recommended response depth.
type Approach string

const (
	QuerySimple      QueryType = "SIMPLE"
	QueryTherapeutic QueryType = "THERAPEUTIC"

	ApproachConcise  Approach = "CONCISE"
	ApproachDetailed Approach = "DETAILED"
)

// Analysis is the verdict produced for each incoming message. It is
// transient: built fresh per message, never persisted. Both enum fields
// are always one of their defined values by the time prompt selection
// sees them.
type Analysis struct {
	QueryType           QueryType `json:"queryType"`
	RecommendedApproach Approach  `json:"recommendedApproach"`
	EmotionalState      string    `json:"emotionalState"`
	ConversationSummary string    `json:"conversationSummary"`
}

// DefaultAnalysis is the safe verdict substituted whenever
// classification fails. Erring toward the supportive path means a
// misclassified message still gets a full response.
func DefaultAnalysis() Analysis {
	return Analysis{
		QueryType:           QueryTherapeutic,
		RecommendedApproach: ApproachDetailed,
		EmotionalState:      "Unknown",
		ConversationSummary: "Conversation analysis failed",
	}
}

// IsConciseShortCircuit reports whether the verdict selects the
// concise path, which skips response decomposition entirely.
func (a Analysis) IsConciseShortCircuit() bool {
	return a.QueryType == QuerySimple && a.RecommendedApproach == ApproachConcise
}

// Normalize coerces the enum fields to their defined values, falling
// back to the safe defaults for anything unrecognised.
func (a *Analysis) Normalize() {
	switch QueryType(strings.ToUpper(string(a.QueryType))) {
	case QuerySimple:
		a.QueryType = QuerySimple
	default:
		a.QueryType = QueryTherapeutic
	}

	switch Approach(strings.ToUpper(string(a.RecommendedApproach))) {
	case ApproachConcise:
		a.RecommendedApproach = ApproachConcise
	default:
		a.RecommendedApproach = ApproachDetailed
	}
}
