package dto

import (
	"time"

	"futures-relay/internal/entity"

	"github.com/shopspring/decimal"
)

// WebhookRequest is the alert payload posted by the charting platform.
type WebhookRequest struct {
	PayloadToken string          `json:"payload_token"`
	Ticker       string          `json:"ticker" example:"ES"`
	AlertType    string          `json:"alert_type" example:"Long" enums:"Long,Short"`
	StopType     string          `json:"stop_type" example:"Medium" enums:"Narrow,Medium,Wide"`
	Price        decimal.Decimal `json:"price" swaggertype:"string" example:"5000.25"`
	Bypass       bool            `json:"bypass"`
}

// TokenRequest carries the shared secret for control endpoints.
type TokenRequest struct {
	PayloadToken string `json:"payload_token"`
}

// HealthResponse reports liveness and a summary of the relay state.
type HealthResponse struct {
	Status    string            `json:"status"`
	Bias      string            `json:"bias"`
	Live      bool              `json:"live"`
	Phase     string            `json:"phase"`
	Position  *entity.Position  `json:"position,omitempty"`
	Contracts map[string]string `json:"contracts"`
}

// TradeEventResponse is a journal entry as returned by the API.
type TradeEventResponse struct {
	ID         string    `json:"id"`
	Kind       string    `json:"kind"`
	Instrument string    `json:"instrument"`
	Symbol     string    `json:"symbol"`
	Direction  string    `json:"direction"`
	Quantity   int64     `json:"quantity"`
	Price      string    `json:"price"`
	Success    bool      `json:"success"`
	Message    string    `json:"message"`
	CreatedAt  time.Time `json:"created_at"`
}

// ErrorResponse represents a generic error response body.
type ErrorResponse struct {
	Error string `json:"error"`
}
