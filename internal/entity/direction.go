package entity

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownDirection   = errors.New("unknown alert direction")
	ErrInvalidStopProfile = errors.New("invalid stop profile")
)

// Direction is the side of an alert or a position.
type Direction string

const (
	Long  Direction = "Long"
	Short Direction = "Short"
)

// ParseDirection validates an alert_type value.
func ParseDirection(s string) (Direction, error) {
	switch Direction(s) {
	case Long, Short:
		return Direction(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownDirection, s)
}

// Opposite returns the other side.
func (d Direction) Opposite() Direction {
	if d == Long {
		return Short
	}
	return Long
}

// EntryAction is the order action that opens a position in this direction.
func (d Direction) EntryAction() OrderAction {
	if d == Long {
		return ActionBuy
	}
	return ActionSell
}

// ExitAction is the order action that closes a position in this direction.
func (d Direction) ExitAction() OrderAction {
	return d.Opposite().EntryAction()
}

// Bias is the process-wide directional bias.
type Bias string

const (
	Bullish Bias = "Bullish"
	Bearish Bias = "Bearish"
)

// BiasFromBool maps the bullish flag from configuration.
func BiasFromBool(bullish bool) Bias {
	if bullish {
		return Bullish
	}
	return Bearish
}

// Direction is the alert direction that opens positions under this bias.
func (b Bias) Direction() Direction {
	if b == Bullish {
		return Long
	}
	return Short
}

// Flip toggles the bias.
func (b Bias) Flip() Bias {
	if b == Bullish {
		return Bearish
	}
	return Bullish
}

// StopProfile names a stop-width category.
type StopProfile string

const (
	Narrow StopProfile = "Narrow"
	Medium StopProfile = "Medium"
	Wide   StopProfile = "Wide"
)

var profitMultipliers = map[StopProfile]int64{
	Narrow: 3,
	Medium: 5,
	Wide:   7,
}

// Multiplier returns the profit multiple of the stop distance.
func (p StopProfile) Multiplier() (int64, error) {
	m, ok := profitMultipliers[p]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrInvalidStopProfile, string(p))
	}
	return m, nil
}
