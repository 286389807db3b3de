package strategy

import (
	"errors"
	"fmt"
	"strings"

	"battery-savings/internal/model"
)

// Kind selects one of the battery strategies a savings figure can be computed for.
type Kind int

const (
	KindSmartShift Kind = iota // user schedule, all four actions
	KindEco                    // solar self-consumption, never touches the grid for the battery
	KindPeak                   // schedule reduced to charge/discharge, exports at peak
	kindCount
)

var kindNames = [...]string{
	KindSmartShift: "smartshift",
	KindEco:        "eco",
	KindPeak:       "peak",
}

func (k Kind) String() string {
	if !k.IsValid() {
		return fmt.Sprintf("kind(%d)", int(k))
	}
	return kindNames[k]
}

func (k Kind) IsValid() bool {
	return k >= KindSmartShift && k < kindCount
}

// Kinds lists every strategy kind in declaration order.
func Kinds() []Kind {
	out := make([]Kind, 0, int(kindCount))
	for k := KindSmartShift; k < kindCount; k++ {
		out = append(out, k)
	}
	return out
}

// KindNames lists the accepted strategy names.
func KindNames() []string {
	out := make([]string, 0, int(kindCount))
	for _, k := range Kinds() {
		out = append(out, k.String())
	}
	return out
}

// ParseKind resolves a strategy name. Unknown names return an *UnknownStrategyError.
func ParseKind(name string) (Kind, error) {
	for _, k := range Kinds() {
		if k.String() == name {
			return k, nil
		}
	}
	return 0, &UnknownStrategyError{Name: name}
}

func (k Kind) MarshalText() ([]byte, error) {
	if !k.IsValid() {
		return nil, &UnknownStrategyError{Name: k.String()}
	}
	return []byte(k.String()), nil
}

func (k *Kind) UnmarshalText(b []byte) error {
	v, err := ParseKind(string(b))
	if err != nil {
		return err
	}
	*k = v
	return nil
}

// ErrInvalidArgument is matched by every error caused by a bad caller input.
var ErrInvalidArgument = errors.New("invalid argument")

// UnknownStrategyError reports a strategy name outside the supported set.
type UnknownStrategyError struct {
	Name string
}

func (e *UnknownStrategyError) Error() string {
	return fmt.Sprintf("unknown strategy %q: use one of %s", e.Name, strings.Join(KindNames(), ", "))
}

func (e *UnknownStrategyError) Unwrap() error { return ErrInvalidArgument }

// New builds the strategy for kind. probeKWh is the amount the scheduled
// strategies try to move per row; eco ignores both intervals and probe.
func New(kind Kind, intervals []model.Interval, probeKWh float64) (Strategy, error) {
	switch kind {
	case KindSmartShift:
		return &SmartShift{Intervals: intervals, ProbeKWh: probeKWh}, nil
	case KindEco:
		return Eco{}, nil
	case KindPeak:
		return &PeakShaving{Intervals: intervals, ProbeKWh: probeKWh}, nil
	default:
		return nil, &UnknownStrategyError{Name: kind.String()}
	}
}
