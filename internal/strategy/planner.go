package strategy

import (
	"fmt"
	"math"

	"battery-savings/internal/model"
	"battery-savings/internal/money"
)

// PlanParams controls the planner's discretisation.
type PlanParams struct {
	// ChargeSteps controls charge discretization between [0, CapacityKWh].
	// Higher = more accurate, slower.
	ChargeSteps int
}

// Plan is a SmartShift schedule chosen with perfect knowledge of the day.
type Plan struct {
	// Actions holds the chosen action per row.
	Actions []model.Action
	// Intervals is Actions merged into runs; idle runs are left out since
	// unmatched times resolve to idle anyway.
	Intervals []model.Interval
	// ExpectedCost is the unrounded day cost on the discretised charge grid.
	// Replaying Intervals with SmartShift lands close to it, not exactly on it.
	ExpectedCost float64
}

// PlanSmartShift finds the cheapest SmartShift action per row for one day using
// dynamic programming over a discretized charge grid, starting half full.
//
// Notes:
// - It optimizes a single, fully known day; it does not forecast.
// - Row physics are the ones SmartShift replays, so the plan is directly usable as a schedule.
func PlanSmartShift(rows []model.DataRow, s model.Settings, cfg PlanParams) (*Plan, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("no rows")
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	if cfg.ChargeSteps <= 0 {
		cfg.ChargeSteps = 200
	}
	steps := cfg.ChargeSteps
	nStates := steps + 1
	capacity := s.Battery.CapacityKWh
	period := s.Period(len(rows))
	probe := s.Probe(period)

	chargeToIdx := func(kwh float64) int {
		i := int(math.Round(kwh / capacity * float64(steps)))
		if i < 0 {
			return 0
		}
		if i > steps {
			return steps
		}
		return i
	}
	idxToCharge := func(idx int) float64 {
		return float64(idx) / float64(steps) * capacity
	}

	type back struct {
		prev   int
		action model.Action
	}

	inf := math.Inf(1)
	dp := make([]float64, nStates)
	next := make([]float64, nStates)
	for i := range dp {
		dp[i] = inf
	}
	initIdx := chargeToIdx(capacity / 2)
	dp[initIdx] = 0

	backs := make([][]back, len(rows))
	actions := model.Actions()
	batt := model.NewBattery(s.Battery, period)

	for t, row := range rows {
		for i := range next {
			next[i] = inf
		}
		backs[t] = make([]back, nStates)

		for sIdx := 0; sIdx < nStates; sIdx++ {
			if math.IsInf(dp[sIdx], 1) {
				continue
			}
			for _, a := range actions {
				batt.State.Charge = idxToCharge(sIdx)
				flow := smartShiftStep(a, row, batt, probe)
				cost := money.RowCost(flow.FromGridKWh, flow.ToGridKWh, row.PriceEURPerKWh, s.ExportFactor)
				ns := chargeToIdx(batt.State.Charge)
				// Strict comparison keeps the first candidate on ties; idle is tried first.
				if v := dp[sIdx] + cost; v < next[ns] {
					next[ns] = v
					backs[t][ns] = back{prev: sIdx, action: a}
				}
			}
		}
		dp, next = next, dp
	}

	best := 0
	for i, v := range dp {
		if v < dp[best] {
			best = i
		}
	}

	plan := &Plan{
		Actions:      make([]model.Action, len(rows)),
		ExpectedCost: dp[best],
	}
	cur := best
	for t := len(rows) - 1; t >= 0; t-- {
		b := backs[t][cur]
		plan.Actions[t] = b.action
		cur = b.prev
	}
	plan.Intervals = mergeRuns(rows, plan.Actions, period)
	return plan, nil
}

// mergeRuns turns per-row actions into intervals. A run ends where the next
// row starts, or one period after the last row.
func mergeRuns(rows []model.DataRow, actions []model.Action, periodHours float64) []model.Interval {
	periodMins := int(math.Round(periodHours * 60))
	var out []model.Interval
	for i := 0; i < len(rows); {
		j := i
		for j+1 < len(rows) && actions[j+1] == actions[i] {
			j++
		}
		end := rows[j].Time.Add(periodMins)
		if j+1 < len(rows) {
			end = rows[j+1].Time
		}
		if actions[i] != model.ActionIdle {
			out = append(out, model.Interval{Start: rows[i].Time, End: end, Action: actions[i]})
		}
		i = j + 1
	}
	return out
}
