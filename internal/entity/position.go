package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Position is the single position tracked by the relay.
type Position struct {
	Instrument     string          `json:"instrument"`
	Symbol         string          `json:"symbol"`
	EntryPrice     decimal.Decimal `json:"entry_price"`
	StopDistance   decimal.Decimal `json:"stop_distance"`
	ProfitDistance decimal.Decimal `json:"profit_distance"`
	Direction      Direction       `json:"direction"`
	Quantity       int64           `json:"quantity"`
	OpenedAt       time.Time       `json:"opened_at"`
}

// BracketPlan holds the computed legs of an entry.
type BracketPlan struct {
	Instrument     string
	Direction      Direction
	Quantity       int64
	ReferencePrice decimal.Decimal
	StopDistance   decimal.Decimal
	ProfitDistance decimal.Decimal
	ProfitPrice    decimal.Decimal
	StopPrice      decimal.Decimal
	EntryEffect    PriceEffect
	ExitEffect     PriceEffect
}

// Order builds the OTOCO order for the given contract symbol.
func (p BracketPlan) Order(symbol string) BracketOrder {
	qty := decimal.NewFromInt(p.Quantity)
	entryLeg := Leg{Symbol: symbol, Quantity: qty, Action: p.Direction.EntryAction()}
	exitLeg := Leg{Symbol: symbol, Quantity: qty, Action: p.Direction.ExitAction()}

	return BracketOrder{
		Trigger: Order{
			Type:        OrderTypeMarket,
			TimeInForce: TimeInForceDay,
			PriceEffect: p.EntryEffect,
			Legs:        []Leg{entryLeg},
		},
		Exits: []Order{
			{
				Type:        OrderTypeLimit,
				TimeInForce: TimeInForceGTC,
				PriceEffect: p.ExitEffect,
				Price:       p.ProfitPrice,
				Legs:        []Leg{exitLeg},
			},
			{
				Type:        OrderTypeStop,
				TimeInForce: TimeInForceGTC,
				PriceEffect: p.ExitEffect,
				StopTrigger: p.StopPrice,
				Legs:        []Leg{exitLeg},
			},
		},
	}
}

// Position materialises the plan as a tracked position.
func (p BracketPlan) Position(symbol string, openedAt time.Time) *Position {
	return &Position{
		Instrument:     p.Instrument,
		Symbol:         symbol,
		EntryPrice:     p.ReferencePrice,
		StopDistance:   p.StopDistance,
		ProfitDistance: p.ProfitDistance,
		Direction:      p.Direction,
		Quantity:       p.Quantity,
		OpenedAt:       openedAt,
	}
}
