package dto

import "github.com/shopspring/decimal"

// TastytradeResponse is the envelope of every Tastytrade API response.
type TastytradeResponse[T any] struct {
	Data    T                  `json:"data"`
	Context string             `json:"context,omitempty"`
	Error   *TastytradeError   `json:"error,omitempty"`
	Warns   []TastytradeNotice `json:"warnings,omitempty"`
}

// TastytradeItems wraps list payloads.
type TastytradeItems[T any] struct {
	Items []T `json:"items"`
}

// TastytradeError is the error body returned on non-2xx responses.
type TastytradeError struct {
	Code    string             `json:"code"`
	Message string             `json:"message"`
	Errors  []TastytradeNotice `json:"errors,omitempty"`
}

// TastytradeNotice is a nested error or warning.
type TastytradeNotice struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// TastytradeLoginRequest is the body of POST /sessions.
type TastytradeLoginRequest struct {
	Login      string `json:"login"`
	Password   string `json:"password"`
	RememberMe bool   `json:"remember-me"`
}

// TastytradeSession is returned by POST /sessions.
type TastytradeSession struct {
	SessionToken  string `json:"session-token"`
	RememberToken string `json:"remember-token,omitempty"`
}

// TastytradeFuture is a futures contract from GET /instruments/futures.
type TastytradeFuture struct {
	Symbol         string `json:"symbol"`
	ProductCode    string `json:"product-code"`
	ActiveMonth    bool   `json:"active-month"`
	ExpirationDate string `json:"expiration-date"`
}

// TastytradePosition is an account position.
type TastytradePosition struct {
	Symbol            string          `json:"symbol"`
	InstrumentType    string          `json:"instrument-type"`
	UnderlyingSymbol  string          `json:"underlying-symbol"`
	Quantity          decimal.Decimal `json:"quantity"`
	QuantityDirection string          `json:"quantity-direction"`
}

// TastytradeOrder is an order as reported by the API.
type TastytradeOrder struct {
	ID           int64  `json:"id"`
	OrderType    string `json:"order-type"`
	Status       string `json:"status"`
	RejectReason string `json:"reject-reason,omitempty"`
}

// TastytradeOrderLeg is a leg of a new order.
type TastytradeOrderLeg struct {
	InstrumentType string          `json:"instrument-type"`
	Symbol         string          `json:"symbol"`
	Quantity       decimal.Decimal `json:"quantity"`
	Action         string          `json:"action"`
}

// TastytradeNewOrder is the body of POST /accounts/{n}/orders.
type TastytradeNewOrder struct {
	TimeInForce string               `json:"time-in-force"`
	OrderType   string               `json:"order-type"`
	PriceEffect string               `json:"price-effect,omitempty"`
	Price       *decimal.Decimal     `json:"price,omitempty"`
	StopTrigger *decimal.Decimal     `json:"stop-trigger,omitempty"`
	Legs        []TastytradeOrderLeg `json:"legs"`
}

// TastytradeNewComplexOrder is the body of POST /accounts/{n}/complex-orders.
type TastytradeNewComplexOrder struct {
	Type         string               `json:"type"`
	TriggerOrder TastytradeNewOrder   `json:"trigger-order"`
	Orders       []TastytradeNewOrder `json:"orders"`
}

// TastytradePlacedOrder is the response data of a simple order submission.
type TastytradePlacedOrder struct {
	Order TastytradeOrder `json:"order"`
}

// TastytradeComplexOrder is a submitted OTOCO order.
type TastytradeComplexOrder struct {
	ID           int64             `json:"id"`
	TriggerOrder TastytradeOrder   `json:"trigger-order"`
	Orders       []TastytradeOrder `json:"orders"`
}

// TastytradePlacedComplexOrder is the response data of a complex order submission.
type TastytradePlacedComplexOrder struct {
	ComplexOrder TastytradeComplexOrder `json:"complex-order"`
}
