// Package savings computes what a home battery strategy saves over a day
// compared with the same household without a battery.
package savings

import (
	"time"

	"battery-savings/internal/backtest"
	"battery-savings/internal/logger"
	"battery-savings/internal/model"
	"battery-savings/internal/money"
	"battery-savings/internal/strategy"
)

// Recorder receives one call per evaluation. metrics.PromRecorder implements it.
type Recorder interface {
	RecordEvaluation(strategy string, savingsEUR float64, elapsed time.Duration)
	RecordInvalidStrategy(name string)
}

type nopRecorder struct{}

func (nopRecorder) RecordEvaluation(string, float64, time.Duration) {}
func (nopRecorder) RecordInvalidStrategy(string)                    {}

type Calculator struct {
	settings model.Settings
	engine   *backtest.Engine
	log      logger.Logger
	rec      Recorder
}

type Option func(*Calculator)

func WithLogger(l logger.Logger) Option {
	return func(c *Calculator) {
		if l != nil {
			c.log = l
		}
	}
}

func WithRecorder(r Recorder) Option {
	return func(c *Calculator) {
		if r != nil {
			c.rec = r
		}
	}
}

// New returns a Calculator bound to settings. Callers validate settings; the
// calculator itself never rejects numeric input.
func New(settings model.Settings, opts ...Option) *Calculator {
	c := &Calculator{
		settings: settings,
		engine:   backtest.New(settings),
		log:      logger.NopLogger{},
		rec:      nopRecorder{},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *Calculator) Settings() model.Settings { return c.settings }

// Report is a full evaluation: both ledgers plus the savings figure.
type Report struct {
	Kind     strategy.Kind
	Baseline *backtest.Result
	Result   *backtest.Result
	// Savings is Baseline.TotalCost - Result.TotalCost, rounded to cents.
	Savings float64
}

// Evaluate runs the baseline and the strategy selected by kind over rows.
// An invalid kind fails before anything is computed.
func (c *Calculator) Evaluate(rows []model.DataRow, intervals []model.Interval, kind strategy.Kind) (*Report, error) {
	start := time.Now()
	probe := c.settings.Probe(c.settings.Period(len(rows)))
	strat, err := strategy.New(kind, intervals, probe)
	if err != nil {
		c.rec.RecordInvalidStrategy(kind.String())
		return nil, err
	}

	baseline, err := c.engine.Run(rows, strategy.Baseline{})
	if err != nil {
		return nil, err
	}
	res, err := c.engine.Run(rows, strat)
	if err != nil {
		return nil, err
	}

	rep := &Report{
		Kind:     kind,
		Baseline: baseline,
		Result:   res,
		Savings:  money.RoundCents(baseline.TotalCost - res.TotalCost),
	}
	c.rec.RecordEvaluation(kind.String(), rep.Savings, time.Since(start))
	c.log.Debugw("savings evaluated", map[string]any{
		"strategy":      kind.String(),
		"rows":          len(rows),
		"intervals":     len(intervals),
		"baseline_cost": baseline.TotalCost,
		"strategy_cost": res.TotalCost,
		"savings":       rep.Savings,
	})
	return rep, nil
}

// EvaluateByName is Evaluate for a strategy name such as "eco".
func (c *Calculator) EvaluateByName(rows []model.DataRow, intervals []model.Interval, name string) (*Report, error) {
	kind, err := strategy.ParseKind(name)
	if err != nil {
		c.rec.RecordInvalidStrategy(name)
		return nil, err
	}
	return c.Evaluate(rows, intervals, kind)
}

// Calculate returns the savings in EUR of kind over the no-battery baseline.
// Positive values mean the battery saves money.
func (c *Calculator) Calculate(rows []model.DataRow, intervals []model.Interval, kind strategy.Kind) (float64, error) {
	rep, err := c.Evaluate(rows, intervals, kind)
	if err != nil {
		return 0, err
	}
	return rep.Savings, nil
}

// CalculateByName is Calculate for a strategy name. Unknown names fail with
// an error matching strategy.ErrInvalidArgument.
func (c *Calculator) CalculateByName(rows []model.DataRow, intervals []model.Interval, name string) (float64, error) {
	rep, err := c.EvaluateByName(rows, intervals, name)
	if err != nil {
		return 0, err
	}
	return rep.Savings, nil
}
