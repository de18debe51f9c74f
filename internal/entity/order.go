package entity

import (
	"github.com/shopspring/decimal"
)

// OrderAction is the side of an order leg.
type OrderAction string

const (
	ActionBuy  OrderAction = "Buy"
	ActionSell OrderAction = "Sell"
)

// PriceEffect tells whether an order debits or credits the account.
type PriceEffect string

const (
	Debit  PriceEffect = "Debit"
	Credit PriceEffect = "Credit"
)

// EffectOf returns the price effect of an order with the given action.
func EffectOf(action OrderAction) PriceEffect {
	if action == ActionBuy {
		return Debit
	}
	return Credit
}

type OrderType string

const (
	OrderTypeMarket OrderType = "Market"
	OrderTypeLimit  OrderType = "Limit"
	OrderTypeStop   OrderType = "Stop"
)

type TimeInForce string

const (
	TimeInForceDay TimeInForce = "Day"
	TimeInForceGTC TimeInForce = "GTC"
)

// OrderStatus is the broker-side lifecycle state of an order.
type OrderStatus string

const (
	OrderStatusReceived  OrderStatus = "Received"
	OrderStatusRouted    OrderStatus = "Routed"
	OrderStatusLive      OrderStatus = "Live"
	OrderStatusFilled    OrderStatus = "Filled"
	OrderStatusCancelled OrderStatus = "Cancelled"
	OrderStatusRejected  OrderStatus = "Rejected"
)

const InstrumentTypeFuture = "Future"

// Leg is a single instrument line of an order.
type Leg struct {
	Symbol   string
	Quantity decimal.Decimal
	Action   OrderAction
}

// Order is a simple single-leg-set order. Price is used by limit orders and
// StopTrigger by stop orders; zero means unset.
type Order struct {
	Type        OrderType
	TimeInForce TimeInForce
	PriceEffect PriceEffect
	Price       decimal.Decimal
	StopTrigger decimal.Decimal
	Legs        []Leg
}

// BracketOrder is a trigger order followed by one-cancels-other exits (OTOCO).
type BracketOrder struct {
	Trigger Order
	Exits   []Order
}

// WorkingOrder is an order still resting at the broker.
type WorkingOrder struct {
	ID     string
	Type   OrderType
	Status OrderStatus
}

// IsCancellableExit reports whether the order is a live stop or limit order.
func (o WorkingOrder) IsCancellableExit() bool {
	return o.Status == OrderStatusLive && (o.Type == OrderTypeStop || o.Type == OrderTypeLimit)
}

// BrokerPosition is a position as reported by the broker.
type BrokerPosition struct {
	Symbol            string
	UnderlyingSymbol  string
	InstrumentType    string
	Quantity          decimal.Decimal
	QuantityDirection Direction
}

// SubmitStatus is the outcome of an order submission.
type SubmitStatus string

const (
	SubmitAccepted SubmitStatus = "accepted"
	SubmitRejected SubmitStatus = "rejected"
)

// OrderResult is returned by simple order placement.
type OrderResult struct {
	OrderID string
	Status  SubmitStatus
	Reason  string
}

// BracketResult is returned by bracket placement. ExitsRejected is set when the
// trigger was accepted but at least one protective leg was not.
type BracketResult struct {
	TriggerID     string
	ExitIDs       []string
	Status        SubmitStatus
	ExitsRejected bool
	Reason        string
}
