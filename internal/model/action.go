package model

import "fmt"

// Action is the control mode applied to the battery for one period.
// The zero value is ActionIdle, which is also what unmatched times resolve to.
type Action int

const (
	ActionIdle Action = iota
	ActionChargeFromGrid
	ActionSelfConsumption
	ActionDischargeToGrid
	actionCount
)

// Keep these values stable; they are the wire names used by schedules and CSV output.
var actionNames = [...]string{
	ActionIdle:            "idle",
	ActionChargeFromGrid:  "charge_from_grid",
	ActionSelfConsumption: "self_consumption",
	ActionDischargeToGrid: "discharge_to_grid",
}

func (a Action) String() string {
	if !a.IsValid() {
		return fmt.Sprintf("action(%d)", int(a))
	}
	return actionNames[a]
}

func (a Action) IsValid() bool {
	return a >= ActionIdle && a < actionCount
}

// ParseAction maps a wire name to an Action. Unknown names report ok=false.
func ParseAction(s string) (Action, bool) {
	for i, name := range actionNames {
		if name == s {
			return Action(i), true
		}
	}
	return ActionIdle, false
}

// Actions lists every action in declaration order.
func Actions() []Action {
	out := make([]Action, 0, int(actionCount))
	for a := ActionIdle; a < actionCount; a++ {
		out = append(out, a)
	}
	return out
}

func (a Action) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText never fails: an unrecognised action falls back to idle.
func (a *Action) UnmarshalText(b []byte) error {
	*a, _ = ParseAction(string(b))
	return nil
}
