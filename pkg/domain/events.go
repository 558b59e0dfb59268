package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventSweep     EventType = "sweep"
	EventCycle     EventType = "cycle"
	EventConverged EventType = "converged"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	Algorithm Algorithm `json:"algorithm"`
}

// SweepEvent reports one synchronous sweep over the state space.
// Cycle is zero for value iteration and the owning outer cycle for policy evaluation.
type SweepEvent struct {
	EventBase
	Sweep int     `json:"sweep"`
	Cycle int     `json:"cycle,omitempty"`
	Delta float64 `json:"delta"`
}

// CycleEvent reports one policy-iteration evaluation/improvement cycle.
type CycleEvent struct {
	EventBase
	Cycle            int `json:"cycle"`
	EvaluationSweeps int `json:"evaluation_sweeps"`
	Changed          int `json:"changed"`
}

// ConvergedEvent reports the end of a solver run.
type ConvergedEvent struct {
	EventBase
	Iterations int           `json:"iterations"`
	Elapsed    time.Duration `json:"elapsed"`
}

// SolverHooks defines callbacks for solver observability.
// Hooks run synchronously on the solver goroutine; nil hooks are skipped.
type SolverHooks struct {
	OnSweep     func(context.Context, *SweepEvent)
	OnCycle     func(context.Context, *CycleEvent)
	OnConverged func(context.Context, *ConvergedEvent)
}
