package domain

import "encoding/json"

// ValueFunction maps every state to a real value.
type ValueFunction struct {
	space  *StateSpace
	values []float64
}

// NewValueFunction wraps values (one per state, in state order).
// A nil slice yields the all-zero value function.
func NewValueFunction(space *StateSpace, values []float64) *ValueFunction {
	if values == nil {
		values = make([]float64, space.Len())
	}
	return &ValueFunction{space: space, values: values}
}

// Space returns the state space the table is indexed by.
func (v *ValueFunction) Space() *StateSpace { return v.space }

// Len returns the number of entries.
func (v *ValueFunction) Len() int { return len(v.values) }

// Value returns the value of state i.
func (v *ValueFunction) Value(i int) float64 { return v.values[i] }

// At returns the value of cell c, or false when c is not a state.
func (v *ValueFunction) At(c Cell) (float64, bool) {
	i, ok := v.space.Index(c)
	if !ok {
		return 0, false
	}
	return v.values[i], true
}

// Slice returns a copy of the raw values in state order.
func (v *ValueFunction) Slice() []float64 {
	out := make([]float64, len(v.values))
	copy(out, v.values)
	return out
}

type valueEntry struct {
	Cell
	Value float64 `json:"value"`
}

// MarshalJSON encodes the table as a list of {row, col, value} entries.
func (v *ValueFunction) MarshalJSON() ([]byte, error) {
	out := make([]valueEntry, len(v.values))
	for i, val := range v.values {
		out[i] = valueEntry{Cell: v.space.Cell(i), Value: val}
	}
	return json.Marshal(out)
}

// Policy maps every state to an action. Non-terminal states map to one of the
// four moves; the goal maps to ActionGoal.
type Policy struct {
	space   *StateSpace
	actions []Action
}

// NewPolicy wraps actions (one per state, in state order).
// A nil slice yields a policy with no assigned actions.
func NewPolicy(space *StateSpace, actions []Action) *Policy {
	if actions == nil {
		actions = make([]Action, space.Len())
	}
	return &Policy{space: space, actions: actions}
}

// Space returns the state space the table is indexed by.
func (p *Policy) Space() *StateSpace { return p.space }

// Len returns the number of entries.
func (p *Policy) Len() int { return len(p.actions) }

// Action returns the action of state i.
func (p *Policy) Action(i int) Action { return p.actions[i] }

// At returns the action for cell c. The boolean is false when c is not a state
// or has no assigned action.
func (p *Policy) At(c Cell) (Action, bool) {
	i, ok := p.space.Index(c)
	if !ok {
		return ActionNone, false
	}
	a := p.actions[i]
	return a, a != ActionNone
}

// Slice returns a copy of the raw actions in state order.
func (p *Policy) Slice() []Action {
	out := make([]Action, len(p.actions))
	copy(out, p.actions)
	return out
}

type policyEntry struct {
	Cell
	Action Action `json:"action"`
}

// MarshalJSON encodes the table as a list of {row, col, action} entries.
func (p *Policy) MarshalJSON() ([]byte, error) {
	out := make([]policyEntry, len(p.actions))
	for i, a := range p.actions {
		out[i] = policyEntry{Cell: p.space.Cell(i), Action: a}
	}
	return json.Marshal(out)
}
