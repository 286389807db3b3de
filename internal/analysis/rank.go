package analysis

import (
	"sort"

	"battery-savings/internal/model"
	"battery-savings/internal/savings"
	"battery-savings/internal/strategy"
)

type RankedStrategy struct {
	Strategy     strategy.Kind `json:"strategy"`
	BaselineCost float64       `json:"baseline_cost"`
	StrategyCost float64       `json:"strategy_cost"`
	Savings      float64       `json:"savings"`
}

// RankStrategies evaluates every strategy over the same day and sorts them by
// savings, best first. Ties keep declaration order.
func RankStrategies(calc *savings.Calculator, rows []model.DataRow, intervals []model.Interval) ([]RankedStrategy, error) {
	kinds := strategy.Kinds()
	out := make([]RankedStrategy, 0, len(kinds))
	for _, k := range kinds {
		rep, err := calc.Evaluate(rows, intervals, k)
		if err != nil {
			return nil, err
		}
		out = append(out, RankedStrategy{
			Strategy:     k,
			BaselineCost: rep.Baseline.TotalCost,
			StrategyCost: rep.Result.TotalCost,
			Savings:      rep.Savings,
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Savings > out[j].Savings
	})
	return out, nil
}
