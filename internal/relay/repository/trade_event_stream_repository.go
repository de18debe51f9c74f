package repository

import (
	"context"
	"fmt"

	"futures-relay/internal/entity"
	"futures-relay/pkg/common"

	"github.com/bytedance/sonic"
	"github.com/redis/go-redis/v9"
)

// TradeEventStreamRepository publishes trade events to a Redis stream for
// downstream consumers.
type TradeEventStreamRepository interface {
	Record(ctx context.Context, event entity.TradeEvent) error
}

// NewTradeEventStreamRepository creates a stream publisher capped at maxLen entries.
func NewTradeEventStreamRepository(client *redis.Client, maxLen int64) TradeEventStreamRepository {
	return &tradeEventStreamRepository{client: client, maxLen: maxLen}
}

type tradeEventStreamRepository struct {
	client *redis.Client
	maxLen int64
}

// Record appends the event to the trade event stream.
func (r *tradeEventStreamRepository) Record(ctx context.Context, event entity.TradeEvent) error {
	values, err := streamValues(event)
	if err != nil {
		return err
	}
	return r.client.XAdd(ctx, &redis.XAddArgs{
		Stream: common.RedisStreamTradeEvents,
		Values: values,
		MaxLen: r.maxLen,
		Approx: true,
	}).Err()
}

func streamValues(event entity.TradeEvent) (map[string]interface{}, error) {
	payload, err := sonic.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("encode trade event %s: %w", event.ID, err)
	}
	return map[string]interface{}{
		"kind":    event.Kind,
		"payload": string(payload),
	}, nil
}
