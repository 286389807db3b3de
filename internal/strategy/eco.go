package strategy

// Eco maximises self-sufficiency: surplus solar is always stored, the battery
// always covers what solar cannot, and nothing is sold back.
type Eco struct{}

func (Eco) Name() string      { return KindEco.String() }
func (Eco) UsesBattery() bool { return true }

func (Eco) Step(ctx Context) Flow {
	return selfConsume(ctx.Row, ctx.Battery)
}
