package strategy

import "battery-savings/internal/model"

// Resolve returns the action of the first interval containing t, or idle.
// Intervals are scanned in the order given; overlaps are settled by that order alone.
func Resolve(t model.ClockTime, intervals []model.Interval) model.Action {
	for _, iv := range intervals {
		if iv.Contains(t) {
			return iv.Action
		}
	}
	return model.ActionIdle
}
