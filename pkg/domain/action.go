package domain

import (
	"fmt"
	"strings"
)

// Action is a move the agent may take, or a sentinel used in policies.
type Action int

const (
	// ActionNone marks a state with no assigned action.
	ActionNone Action = iota
	ActionUp
	ActionDown
	ActionLeft
	ActionRight
	// ActionGoal is the policy entry of the terminal (goal) state.
	ActionGoal
)

// Actions lists the four moves in enumeration order.
// Greedy action selection breaks ties by this order.
var Actions = [...]Action{ActionUp, ActionDown, ActionLeft, ActionRight}

// String returns the canonical upper-case name.
func (a Action) String() string {
	switch a {
	case ActionUp:
		return "UP"
	case ActionDown:
		return "DOWN"
	case ActionLeft:
		return "LEFT"
	case ActionRight:
		return "RIGHT"
	case ActionGoal:
		return "GOAL"
	case ActionNone:
		return ""
	}
	return fmt.Sprintf("Action(%d)", int(a))
}

// IsMove reports whether a is one of the four movement actions.
func (a Action) IsMove() bool {
	return a >= ActionUp && a <= ActionRight
}

// Delta returns the unit (row, col) displacement of a movement action.
// Sentinels have a zero delta.
func (a Action) Delta() (int, int) {
	switch a {
	case ActionUp:
		return -1, 0
	case ActionDown:
		return 1, 0
	case ActionLeft:
		return 0, -1
	case ActionRight:
		return 0, 1
	}
	return 0, 0
}

// TurnLeft returns the action 90 degrees to the left of the heading.
// Left is relative to the heading: facing DOWN, left is RIGHT.
func (a Action) TurnLeft() Action {
	switch a {
	case ActionUp:
		return ActionLeft
	case ActionDown:
		return ActionRight
	case ActionLeft:
		return ActionDown
	case ActionRight:
		return ActionUp
	}
	return a
}

// TurnRight returns the action 90 degrees to the right of the heading.
func (a Action) TurnRight() Action {
	switch a {
	case ActionUp:
		return ActionRight
	case ActionDown:
		return ActionLeft
	case ActionLeft:
		return ActionUp
	case ActionRight:
		return ActionDown
	}
	return a
}

// Arrow returns a single-rune glyph for rendering.
func (a Action) Arrow() string {
	switch a {
	case ActionUp:
		return "↑"
	case ActionDown:
		return "↓"
	case ActionLeft:
		return "←"
	case ActionRight:
		return "→"
	case ActionGoal:
		return "G"
	}
	return "·"
}

// ParseAction parses a case-insensitive action name, including "GOAL".
func ParseAction(s string) (Action, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "UP":
		return ActionUp, nil
	case "DOWN":
		return ActionDown, nil
	case "LEFT":
		return ActionLeft, nil
	case "RIGHT":
		return ActionRight, nil
	case "GOAL":
		return ActionGoal, nil
	case "":
		return ActionNone, nil
	}
	return ActionNone, fmt.Errorf("%w: %q", ErrUnknownAction, s)
}

// MarshalText implements encoding.TextMarshaler.
func (a Action) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *Action) UnmarshalText(b []byte) error {
	parsed, err := ParseAction(string(b))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}
