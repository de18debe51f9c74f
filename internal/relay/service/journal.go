package service

import (
	"context"
	"time"

	"futures-relay/internal/entity"
	"futures-relay/pkg/logger"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// TradeJournal persists trade events.
type TradeJournal interface {
	Record(ctx context.Context, event entity.TradeEvent) error
}

// NewTradeJournal fans events out to every sink. Sink failures are logged and
// never reach the trading path.
func NewTradeJournal(log *logger.Logger, sinks ...TradeJournal) TradeJournal {
	return &multiJournal{log: log, sinks: sinks}
}

type multiJournal struct {
	log   *logger.Logger
	sinks []TradeJournal
}

func (j *multiJournal) Record(ctx context.Context, event entity.TradeEvent) error {
	for _, sink := range j.sinks {
		if err := sink.Record(ctx, event); err != nil {
			j.log.ErrorContext(ctx, "Failed to record trade event",
				logger.StringField("kind", event.Kind),
				logger.StringField("event_id", event.ID),
				logger.ErrorField(err),
			)
		}
	}
	return nil
}

// newTradeEvent fills the identity and timestamp of an event.
func newTradeEvent(kind string, now time.Time) entity.TradeEvent {
	return entity.TradeEvent{
		ID:        uuid.NewString(),
		Kind:      kind,
		Price:     decimal.Zero,
		Data:      datatypes.JSON("{}"),
		CreatedAt: now,
	}
}
