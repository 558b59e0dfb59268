package domain

// Outcome is one branch of a transition distribution.
// For a given (state, action) the outcome probabilities sum to 1.
type Outcome struct {
	Probability float64 `json:"probability"`
	Next        Cell    `json:"next"`
	Reward      float64 `json:"reward"`
}
