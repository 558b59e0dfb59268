package domain

import (
	"fmt"
	"strings"
	"time"
)

// Algorithm names a solution method.
type Algorithm string

const (
	AlgorithmValueIteration  Algorithm = "value_iteration"
	AlgorithmPolicyIteration Algorithm = "policy_iteration"
)

// Title returns a human readable name.
func (a Algorithm) Title() string {
	switch a {
	case AlgorithmValueIteration:
		return "Value Iteration"
	case AlgorithmPolicyIteration:
		return "Policy Iteration"
	}
	return string(a)
}

// Result is the output of one solver run.
type Result struct {
	Algorithm Algorithm      `json:"algorithm"`
	Policy    *Policy        `json:"policy"`
	Values    *ValueFunction `json:"values"`
	// Iterations counts sweeps for value iteration and outer cycles for policy iteration.
	Iterations int           `json:"iterations"`
	Elapsed    time.Duration `json:"elapsed"`
	// Deltas holds the max value change of each value-iteration sweep.
	Deltas []float64 `json:"deltas,omitempty"`
	// EvaluationSweeps holds the policy-evaluation sweep count of each policy-iteration cycle.
	EvaluationSweeps []int `json:"evaluation_sweeps,omitempty"`
}

// ParseAlgorithm accepts the algorithm name or its short form ("vi", "pi").
func ParseAlgorithm(s string) (Algorithm, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "vi", string(AlgorithmValueIteration):
		return AlgorithmValueIteration, nil
	case "pi", string(AlgorithmPolicyIteration):
		return AlgorithmPolicyIteration, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownAlgorithm, s)
}
