package analysis

import (
	"math"
	"slices"

	"gonum.org/v1/gonum/stat"

	"battery-savings/internal/model"
)

// DayProfile summarises a day before any battery is involved. It does not
// depend on battery size and is what the API shows next to the savings.
type DayProfile struct {
	Count int `json:"count"`

	MinPrice  float64 `json:"min_price"`
	MaxPrice  float64 `json:"max_price"`
	MeanPrice float64 `json:"mean_price"`
	P05Price  float64 `json:"p05_price"`
	P95Price  float64 `json:"p95_price"`

	// SpreadP95P05 is a rough measure of how much time-shifting can earn.
	SpreadP95P05 float64 `json:"spread_p95_p05"`

	NegativePriceRows int `json:"negative_price_rows"`

	ConsumptionKWh  float64 `json:"consumption_kwh"`
	PVProductionKWh float64 `json:"pv_production_kwh"`

	// SelfSufficiency is the share of consumption covered by solar in the
	// same row, without storage.
	SelfSufficiency float64 `json:"self_sufficiency"`
}

func Profile(rows []model.DataRow) DayProfile {
	p := DayProfile{}
	if len(rows) == 0 {
		return p
	}
	p.Count = len(rows)

	prices := make([]float64, 0, len(rows))
	direct := 0.0
	for _, r := range rows {
		prices = append(prices, r.PriceEURPerKWh)
		if r.PriceEURPerKWh < 0 {
			p.NegativePriceRows++
		}
		p.ConsumptionKWh += r.ConsumptionKWh
		p.PVProductionKWh += r.PVProductionKWh
		direct += math.Min(r.ConsumptionKWh, r.PVProductionKWh)
	}
	slices.Sort(prices)

	p.MinPrice = prices[0]
	p.MaxPrice = prices[len(prices)-1]
	p.MeanPrice = stat.Mean(prices, nil)
	p.P05Price = stat.Quantile(0.05, stat.LinInterp, prices, nil)
	p.P95Price = stat.Quantile(0.95, stat.LinInterp, prices, nil)
	p.SpreadP95P05 = p.P95Price - p.P05Price

	if p.ConsumptionKWh > 0 {
		p.SelfSufficiency = direct / p.ConsumptionKWh
	}
	return p
}
