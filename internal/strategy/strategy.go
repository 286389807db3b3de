package strategy

import "battery-savings/internal/model"

type Context struct {
	Index   int
	Row     model.DataRow
	Battery *model.Battery // nil for strategies that do not use a battery
}

// Flow is what happened at the grid connection and in the battery during one row.
// All quantities are kWh for the period.
type Flow struct {
	// Action is the action actually carried out, after any strategy-specific remapping.
	Action model.Action

	FromGridKWh float64
	ToGridKWh   float64

	ChargedKWh    float64 // drawn into the battery, before losses
	DischargedKWh float64 // delivered by the battery, after losses
	CurtailedKWh  float64 // surplus solar neither used, stored nor exported
}

type Strategy interface {
	Name() string
	UsesBattery() bool
	Step(ctx Context) Flow
}
