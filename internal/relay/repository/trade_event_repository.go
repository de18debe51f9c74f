package repository

import (
	"context"

	"futures-relay/internal/entity"

	"gorm.io/gorm"
)

// TradeEventRepository defines the interface for trade journal data operations.
type TradeEventRepository interface {
	Record(ctx context.Context, event entity.TradeEvent) error
	FindRecent(ctx context.Context, limit int) ([]entity.TradeEvent, error)
}

// NewTradeEventRepository creates a new GORM-based trade event repository.
func NewTradeEventRepository(db *gorm.DB) TradeEventRepository {
	return &tradeEventRepository{db: db}
}

type tradeEventRepository struct {
	db *gorm.DB
}

// Record inserts a trade event.
func (r *tradeEventRepository) Record(ctx context.Context, event entity.TradeEvent) error {
	return r.db.WithContext(ctx).Create(&event).Error
}

// FindRecent retrieves the latest trade events, newest first.
func (r *tradeEventRepository) FindRecent(ctx context.Context, limit int) ([]entity.TradeEvent, error) {
	var events []entity.TradeEvent
	if err := r.db.WithContext(ctx).Order("created_at desc").Limit(limit).Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}
