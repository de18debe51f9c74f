package entity

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// TradeEvent is a journal record of a state transition or broker action.
type TradeEvent struct {
	ID         string          `gorm:"type:uuid;primaryKey" json:"id"`
	Kind       string          `gorm:"not null" json:"kind"`
	Instrument string          `json:"instrument"`
	Symbol     string          `json:"symbol"`
	Direction  string          `json:"direction"`
	Quantity   int64           `json:"quantity"`
	Price      decimal.Decimal `gorm:"type:numeric" json:"price"`
	Success    bool            `gorm:"not null" json:"success"`
	Message    string          `json:"message"`
	Data       datatypes.JSON  `gorm:"type:jsonb" json:"data"`
	CreatedAt  time.Time       `gorm:"autoCreateTime" json:"created_at"`
}

func (TradeEvent) TableName() string {
	return "trade_events"
}
